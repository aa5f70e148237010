// Package app contains the application setup for the catalog service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/catalog/internal/config"
	"github.com/abgdnv/catalog/internal/service"
	"github.com/abgdnv/catalog/internal/store"
	"github.com/abgdnv/catalog/internal/transport/rest"
	"github.com/abgdnv/catalog/pkg/bootstrap"
	pkgconfig "github.com/abgdnv/catalog/pkg/config"
	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/abgdnv/catalog/pkg/server"
	"github.com/abgdnv/catalog/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// HealthServiceName is the service name reported by the gRPC health server.
const HealthServiceName = "catalog"

// Dependencies holds what the HTTP and gRPC servers are built from.
// Metrics and CORS stay nil unless enabled.
type Dependencies struct {
	ProductService service.ProductService
	Logger         *slog.Logger
	Metrics        *web.Metrics
	MetricsPath    string
	CORS           *pkgconfig.CORSConfig
}

// SetupDependencies builds the product service on top of repo.
// A nil publisher disables product events.
func SetupDependencies(repo store.ProductStore, publisher messaging.Publisher, logger *slog.Logger) *Dependencies {
	return &Dependencies{
		ProductService: service.NewService(repo, publisher),
		Logger:         logger,
	}
}

// WithMetrics enables request metrics and exposes them on path.
func (d *Dependencies) WithMetrics(path string) *Dependencies {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	d.Metrics = web.NewMetrics("catalog", reg)
	d.MetricsPath = path
	return d
}

// WithCORS enables cross-origin requests for the origins in cfg.
func (d *Dependencies) WithCORS(cfg pkgconfig.CORSConfig) *Dependencies {
	d.CORS = &cfg
	return d
}

// OpenStore connects the product store selected by cfg.Driver and applies migrations when enabled.
// The returned cleanup function releases the underlying connections.
func OpenStore(ctx context.Context, cfg pkgconfig.DatabaseConfig, logger *slog.Logger) (store.ProductStore, func(), error) {
	switch cfg.Driver {
	case pkgconfig.DriverPostgres:
		if cfg.Migrate {
			if err := store.MigratePostgres(cfg.URL); err != nil {
				return nil, nil, err
			}
			logger.Info("Database migrations applied", "driver", cfg.Driver)
		}
		dbPool, err := bootstrap.NewDbPool(ctx, cfg.URL, cfg.Timeout)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create database connection pool: %w", err)
		}
		logger.Info("Successfully connected to the database!", "driver", cfg.Driver)
		return store.NewPgStore(dbPool), dbPool.Close, nil

	case pkgconfig.DriverSqlite:
		db, err := store.OpenSqlite(ctx, cfg.URL)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Migrate {
			if err := store.MigrateSqlite(db.DB); err != nil {
				_ = db.Close()
				return nil, nil, err
			}
			logger.Info("Database migrations applied", "driver", cfg.Driver)
		}
		logger.Info("Successfully opened the database!", "driver", cfg.Driver, "path", cfg.URL)
		return store.NewSqliteStore(db), func() { _ = db.Close() }, nil

	case pkgconfig.DriverMemory:
		logger.Warn("Using in-memory product store, data is lost on restart")
		return store.NewInMemoryStore(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

// SetupHttpHandler initializes the router for the catalog service.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	var extra []func(http.Handler) http.Handler
	if deps.CORS != nil {
		extra = append(extra, server.CORS(*deps.CORS))
	}
	if deps.Metrics != nil {
		extra = append(extra, deps.Metrics.Middleware)
	}
	mux := server.NewChiRouter(deps.Logger, extra...)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the catalog service.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	productHandler := rest.NewHandler(deps.ProductService, deps.Logger)
	productHandler.RegisterRoutes(mux)
	if deps.Metrics != nil {
		mux.Method(http.MethodGet, deps.MetricsPath, deps.Metrics.Handler())
	}
}

// SetupHttpServer creates and configures an HTTP server for the catalog service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	return server.NewHTTPServer(server.HTTPConfigFrom(cfg.HTTPServer), mux)
}

// SetupGrpcServer initializes the gRPC server with the standard health service.
// Both the overall status and the catalog service report SERVING.
func SetupGrpcServer(deps *Dependencies, reflectionEnabled bool) (*grpc.Server, *health.Server) {
	healthServer := health.NewServer()
	healthRegisterFunc := func(s *grpc.Server) {
		grpc_health_v1.RegisterHealthServer(s, healthServer)
	}
	grpcServer := server.NewGRPCServer(deps.Logger, reflectionEnabled, healthRegisterFunc)

	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(HealthServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	return grpcServer, healthServer
}
