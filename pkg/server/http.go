package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	pkgconfig "github.com/abgdnv/catalog/pkg/config"
	"github.com/abgdnv/catalog/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// HTTPConfig has the configuration for the HTTP server.
type HTTPConfig struct {
	Port           int
	MaxHeaderBytes int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	ReadHeader     time.Duration
}

// HTTPConfigFrom maps the loaded server section to HTTPConfig.
func HTTPConfigFrom(cfg pkgconfig.HTTPConfig) HTTPConfig {
	return HTTPConfig{
		Port:           cfg.Port,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
		ReadTimeout:    cfg.Timeout.Read,
		WriteTimeout:   cfg.Timeout.Write,
		IdleTimeout:    cfg.Timeout.Idle,
		ReadHeader:     cfg.Timeout.ReadHeader,
	}
}

// NewHTTPServer creates and configures a new HTTP server instance.
func NewHTTPServer(cfg HTTPConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: cfg.ReadHeader,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
}

// NewChiRouter creates a chi router that injects request IDs, logs every request and recovers from panics.
// Extra middleware runs after those, in the given order, before routing.
func NewChiRouter(logger *slog.Logger, extra ...func(http.Handler) http.Handler) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(web.RequestIDInjector, web.StructuredLogger(logger), web.Recoverer(logger))
	mux.Use(extra...)
	return mux
}

// CORS answers preflight requests and tags responses for the allowed origins.
// Clients may send and read the request ID header; Location is exposed for created resources.
func CORS(cfg pkgconfig.CORSConfig) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", web.RequestIDHeader},
		ExposedHeaders: []string{"Location", web.RequestIDHeader},
		MaxAge:         int(cfg.MaxAge.Seconds()),

		OptionsSuccessStatus: http.StatusNoContent,
	})
}
