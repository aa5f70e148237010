// Package e2e provides end-to-end tests for the catalog service.
// Every test gets a fresh SQLite in-memory database behind the real router, served by an `httptest.Server`.
//
// Coverage:
//   - the create, read, update, delete lifecycle of a product
//   - name search, including the empty and zero-match cases
//   - input validation and the field named in the error
//   - request ID propagation and the Prometheus endpoint
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/abgdnv/catalog/internal/app"
	"github.com/abgdnv/catalog/internal/service"
	"github.com/abgdnv/catalog/pkg/config"
	"github.com/abgdnv/catalog/pkg/web"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// skipE2ETests is the environment variable that can be set to skip E2E tests.
const skipE2ETests = "CATALOG_SKIP_E2E_TESTS"

// productURL is the base URL for the catalog API.
const productURL = "/api/v1/products"

// CatalogE2ESuite is a test suite for end-to-end tests of the catalog service.
type CatalogE2ESuite struct {
	suite.Suite
	server     *httptest.Server // HTTP server for the catalog application
	httpClient *http.Client     // HTTP client for making requests to the server
	closeStore func()           // Releases the database of the current test
	logger     *slog.Logger     // Logger for the test suite
	ctx        context.Context  // Context for the test suite
}

func (s *CatalogE2ESuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// SetupTest starts the application on an empty database.
func (s *CatalogE2ESuite) SetupTest() {
	dbCfg := config.DatabaseConfig{Driver: config.DriverSqlite, URL: ":memory:", Migrate: true}
	repo, closeStore, err := app.OpenStore(s.ctx, dbCfg, s.logger)
	require.NoError(s.T(), err, "Failed to open product store")
	s.closeStore = closeStore

	deps := app.SetupDependencies(repo, nil, s.logger).WithMetrics("/metrics")
	s.server = httptest.NewServer(app.SetupHttpHandler(deps))
	s.httpClient = s.server.Client()
}

func (s *CatalogE2ESuite) TearDownTest() {
	if s.server != nil {
		s.server.Close()
	}
	if s.closeStore != nil {
		s.closeStore()
	}
}

func TestCatalogE2E(t *testing.T) {
	// Skip E2E tests if the environment variable is set
	if os.Getenv(skipE2ETests) == "1" {
		t.Skip("Skipping E2E tests based on " + skipE2ETests + " env var")
	}
	suite.Run(t, new(CatalogE2ESuite))
}

// --------------------------------------------------------------------------
// ---------- Payload structures and Helper methods for E2E tests -----------
// --------------------------------------------------------------------------

// productPayload is the body of create and update requests.
type productPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       any    `json:"price,omitempty"`
}

type fieldError struct {
	Error string `json:"error"`
	Field string `json:"field"`
}

func (s *CatalogE2ESuite) createProduct(payload productPayload) (service.ProductDto, int) {
	s.T().Helper()
	return s.doAndDecodeProduct(http.MethodPost, s.server.URL+productURL, payload)
}

func (s *CatalogE2ESuite) findByID(id int64) (service.ProductDto, int) {
	s.T().Helper()
	return s.doAndDecodeProduct(http.MethodGet, fmt.Sprintf("%s%s/%d", s.server.URL, productURL, id), nil)
}

func (s *CatalogE2ESuite) updateProduct(id int64, payload productPayload) (service.ProductDto, int) {
	s.T().Helper()
	return s.doAndDecodeProduct(http.MethodPut, fmt.Sprintf("%s%s/%d", s.server.URL, productURL, id), payload)
}

func (s *CatalogE2ESuite) deleteByID(id int64) int {
	s.T().Helper()
	_, statusCode, _ := s.doRequest(http.MethodDelete, fmt.Sprintf("%s%s/%d", s.server.URL, productURL, id), nil)
	return statusCode
}

func (s *CatalogE2ESuite) list(query string) ([]service.ProductDto, int) {
	s.T().Helper()
	bodyBytes, statusCode, _ := s.doRequest(http.MethodGet, s.server.URL+productURL+query, nil)
	var products []service.ProductDto
	if statusCode == http.StatusOK {
		require.NoError(s.T(), json.Unmarshal(bodyBytes, &products), "Failed to decode product list response")
	}
	return products, statusCode
}

func (s *CatalogE2ESuite) doAndDecodeProduct(method, url string, payload any) (service.ProductDto, int) {
	s.T().Helper()
	bodyBytes, statusCode, _ := s.doRequest(method, url, payload)

	var product service.ProductDto
	if statusCode == http.StatusOK || statusCode == http.StatusCreated {
		require.NoError(s.T(), json.Unmarshal(bodyBytes, &product), "Failed to decode product response")
	}
	return product, statusCode
}

// doRequest returns the response body, the status code and the response headers.
func (s *CatalogE2ESuite) doRequest(method, url string, payload any) ([]byte, int, http.Header) {
	s.T().Helper()
	var body io.Reader
	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		require.NoError(s.T(), err)
		body = bytes.NewBuffer(payloadBytes)
	}

	req, err := http.NewRequestWithContext(s.ctx, method, url, body)
	require.NoError(s.T(), err, "Failed to create HTTP request")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err, "HTTP request failed")
	defer func() {
		require.NoError(s.T(), resp.Body.Close(), "Failed to close response body")
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err, "Failed to read response body")
	return bodyBytes, resp.StatusCode, resp.Header
}

// --------------------------------------------------------------
// ---------------------- E2E test methods ----------------------
// --------------------------------------------------------------

func (s *CatalogE2ESuite) TestProductLifecycle_E2E() {
	// create
	created, code := s.createProduct(productPayload{Name: "Widget", Description: "A widget", Price: 10.00})
	s.Require().Equal(http.StatusCreated, code)
	s.Require().Positive(created.ID)
	s.Equal("Widget", created.Name)
	s.Equal("A widget", created.Description)
	s.True(decimal.NewFromInt(10).Equal(created.Price))

	// read
	found, code := s.findByID(created.ID)
	s.Require().Equal(http.StatusOK, code)
	s.Equal(created.ID, found.ID)
	s.Equal(created.Name, found.Name)
	s.True(created.Price.Equal(found.Price))

	// update
	updated, code := s.updateProduct(created.ID, productPayload{Name: "Widget2", Description: "Updated", Price: "15.00"})
	s.Require().Equal(http.StatusOK, code)
	s.Equal(created.ID, updated.ID)
	s.Equal("Widget2", updated.Name)
	s.Equal("Updated", updated.Description)
	s.True(decimal.NewFromInt(15).Equal(updated.Price))

	// delete
	s.Equal(http.StatusNoContent, s.deleteByID(created.ID))

	// gone
	_, code = s.findByID(created.ID)
	s.Equal(http.StatusNotFound, code)
	s.Equal(http.StatusNotFound, s.deleteByID(created.ID))
	_, code = s.updateProduct(created.ID, productPayload{Name: "Widget3", Description: "Again", Price: 1})
	s.Equal(http.StatusNotFound, code)
}

func (s *CatalogE2ESuite) TestCreate_LocationHeader_E2E() {
	body, code, header := s.doRequest(http.MethodPost, s.server.URL+productURL,
		productPayload{Name: "Widget", Description: "A widget", Price: 1})
	s.Require().Equal(http.StatusCreated, code)

	var created service.ProductDto
	s.Require().NoError(json.Unmarshal(body, &created))
	s.Equal(fmt.Sprintf("%s/%d", productURL, created.ID), header.Get("Location"))
}

func (s *CatalogE2ESuite) TestCreate_InvalidInput_E2E() {
	testCases := []struct {
		name          string
		payload       productPayload
		expectedField string
	}{
		{"empty name", productPayload{Name: "", Description: "A widget", Price: 1}, "name"},
		{"long name", productPayload{Name: strings.Repeat("n", 256), Description: "A widget", Price: 1}, "name"},
		{"blank description", productPayload{Name: "Widget", Description: "   ", Price: 1}, "description"},
		{"missing price", productPayload{Name: "Widget", Description: "A widget"}, "price"},
		{"zero price", productPayload{Name: "Widget", Description: "A widget", Price: 0}, "price"},
		{"negative price", productPayload{Name: "Widget", Description: "A widget", Price: -1.5}, "price"},
		{"name wins over price", productPayload{Name: "", Description: "A widget", Price: -1}, "name"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			// when
			body, code, _ := s.doRequest(http.MethodPost, s.server.URL+productURL, tc.payload)
			// then
			s.Require().Equal(http.StatusBadRequest, code)
			var resp fieldError
			s.Require().NoError(json.Unmarshal(body, &resp))
			s.Equal(tc.expectedField, resp.Field)
		})
	}

	products, code := s.list("")
	s.Require().Equal(http.StatusOK, code)
	s.Empty(products, "rejected input must not be stored")
}

func (s *CatalogE2ESuite) TestSearch_E2E() {
	widget, code := s.createProduct(productPayload{Name: "Blue Widget", Description: "A widget", Price: 10})
	s.Require().Equal(http.StatusCreated, code)
	_, code = s.createProduct(productPayload{Name: "Gadget", Description: "A gadget", Price: 20})
	s.Require().Equal(http.StatusCreated, code)

	testCases := []struct {
		name          string
		query         string
		expectedCode  int
		expectedNames []string
	}{
		{"list all", "", http.StatusOK, []string{"Blue Widget", "Gadget"}},
		{"exact name", "?name=Blue%20Widget", http.StatusOK, []string{"Blue Widget"}},
		{"infix", "?name=adg", http.StatusOK, []string{"Gadget"}},
		{"shared substring", "?name=dget", http.StatusOK, []string{"Blue Widget", "Gadget"}},
		{"case-sensitive miss", "?name=blue", http.StatusNotFound, nil},
		{"no match", "?name=Sprocket", http.StatusNotFound, nil},
		{"empty query", "?name=", http.StatusNotFound, nil},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			products, code := s.list(tc.query)
			s.Require().Equal(tc.expectedCode, code)
			if tc.expectedNames == nil {
				return
			}
			names := make([]string, 0, len(products))
			for _, p := range products {
				names = append(names, p.Name)
			}
			s.Equal(tc.expectedNames, names)
		})
	}

	exact, _ := s.list("?name=Blue%20Widget")
	s.Require().Len(exact, 1)
	s.Equal(widget.ID, exact[0].ID)
}

func (s *CatalogE2ESuite) TestFindByID_InvalidID_E2E() {
	_, code, _ := s.doRequest(http.MethodGet, s.server.URL+productURL+"/not-a-number", nil)
	s.Equal(http.StatusBadRequest, code)
}

func (s *CatalogE2ESuite) TestRequestID_E2E() {
	req, err := http.NewRequestWithContext(s.ctx, http.MethodGet, s.server.URL+"/healthz", nil)
	s.Require().NoError(err)
	req.Header.Set(web.RequestIDHeader, "e2e-request")

	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }()

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("e2e-request", resp.Header.Get(web.RequestIDHeader))
}

func (s *CatalogE2ESuite) TestMetrics_E2E() {
	_, code := s.list("")
	s.Require().Equal(http.StatusOK, code)

	body, code, _ := s.doRequest(http.MethodGet, s.server.URL+"/metrics", nil)
	s.Require().Equal(http.StatusOK, code)
	s.Contains(string(body), "catalog_http_requests_total")
	s.Contains(string(body), `route="/api/v1/products`)
}
