// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/service"
	"github.com/abgdnv/catalog/pkg/logger"
	"github.com/abgdnv/catalog/pkg/web"
	"github.com/go-chi/chi/v5"
)

// ProductsPath is the base path of the product resource.
const ProductsPath = "/api/v1/products"

// Handler serves the product REST API on top of a ProductService.
type Handler struct {
	service service.ProductService
	logger  *slog.Logger
}

// NewHandler creates a new instance of Handler with the provided service.
func NewHandler(service service.ProductService, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the catalog service.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route(ProductsPath, func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.Put("/", h.Update)
			r.Delete("/", h.DeleteByID)
		})
	})

	r.Get("/healthz", h.HealthCheck)
}

// FindAll lists all products, or searches by name when the "name" query parameter is present.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Has("name") {
		h.search(w, r, query.Get("name"))
		return
	}

	h.logger.DebugContext(r.Context(), "Received request to find all products")
	list, err := h.service.FindAll(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request, name string) {
	h.logger.DebugContext(r.Context(), "Received request to search products", "name", name)
	list, err := h.service.Search(r.Context(), name)
	if err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) {
			h.logger.WarnContext(r.Context(), "No product matches name", "name", name)
			web.RespondError(w, h.logger, http.StatusNotFound, err.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "Error searching products", "name", name, "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to search products")
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully searched products", "name", name, "count", len(list))
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// FindByID retrieves a product by its ID.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	r = r.WithContext(logger.AppendCtx(r.Context(), slog.Int64("product_id", id)))

	h.logger.DebugContext(r.Context(), "Received request to find product by ID")
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, fmt.Sprintf("Failed to retrieve product with ID %d", id))
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product", "ID", found.ID, "Name", found.Name)
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// Create handles the creation of a new product.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to create product", "name", input.Name)

	created, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to create product")
		return
	}
	h.logger.InfoContext(r.Context(), "Product created successfully", "ID", created.ID, "Name", created.Name)
	w.Header().Set("Location", fmt.Sprintf("%s/%d", ProductsPath, created.ID))
	web.RespondJSON(w, h.logger, http.StatusCreated, created)
}

// Update replaces all fields of an existing product.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	r = r.WithContext(logger.AppendCtx(r.Context(), slog.Int64("product_id", id)))
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to update product")

	updated, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		h.respondServiceError(w, r, err, fmt.Sprintf("Failed to update product with ID %d", id))
		return
	}
	h.logger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, h.logger, http.StatusOK, updated)
}

// DeleteByID deletes a product by its ID.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	r = r.WithContext(logger.AppendCtx(r.Context(), slog.Int64("product_id", id)))
	h.logger.DebugContext(r.Context(), "Received request to delete product")
	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err, fmt.Sprintf("Failed to delete product with ID %d", id))
		return
	}
	h.logger.InfoContext(r.Context(), "Product deleted successfully")
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// decodeInput reads a product payload. Any "id" in the body is ignored.
func (h *Handler) decodeInput(w http.ResponseWriter, r *http.Request) (service.ProductInputDto, bool) {
	var input service.ProductInputDto
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return input, false
	}
	return input, true
}

// respondServiceError maps service errors to status codes: invalid input 400, not found 404, anything else 500.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error, failureMsg string) {
	var invalid *perrors.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		h.logger.WarnContext(r.Context(), "Invalid product input", "field", invalid.Field)
		web.RespondFieldError(w, h.logger, http.StatusBadRequest, invalid.Error(), invalid.Field)
	case errors.Is(err, perrors.ErrProductNotFound):
		h.logger.WarnContext(r.Context(), "Product not found", "error", err)
		web.RespondError(w, h.logger, http.StatusNotFound, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), failureMsg, "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, failureMsg)
	}
}
