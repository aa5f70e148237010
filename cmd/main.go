// Package main runs the catalog service: a product store behind HTTP, with gRPC health checks.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "net/http/pprof"

	"github.com/abgdnv/catalog/internal/app"
	"github.com/abgdnv/catalog/internal/config"
	"github.com/abgdnv/catalog/pkg/bootstrap"
	"github.com/abgdnv/catalog/pkg/config/configloader"
	"github.com/abgdnv/catalog/pkg/messaging"
	natsclient "github.com/abgdnv/catalog/pkg/nats"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/health/grpc_health_v1"
)

const serviceName = "catalog"

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}

// run loads the configuration, opens the product store and starts the HTTP, gRPC and pprof servers.
func run(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*config.Config](serviceName)
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	logger := bootstrap.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	repo, closeStore, err := app.OpenStore(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to open product store: %w", err)
	}
	defer closeStore()

	publisher, closePublisher, err := setupPublisher(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	deps := app.SetupDependencies(repo, publisher, logger)
	if cfg.Metrics.Enabled {
		deps = deps.WithMetrics(cfg.Metrics.Path)
	}
	if cfg.HTTPServer.CORS.Enabled {
		deps = deps.WithCORS(cfg.HTTPServer.CORS)
	}
	httpServer := app.SetupHttpServer(deps, cfg)
	pprofServer := &http.Server{
		Addr:              cfg.PProf.Addr,
		ReadHeaderTimeout: cfg.PProf.ReadHeaderTimeout,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Start the HTTP server
	g.Go(func() error {
		logger.Info("HTTP server listening", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	// gracefully shutdown HTTP server on context cancellation
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if cfg.GRPC.Enabled {
		grpcServer, grpcHealth := app.SetupGrpcServer(deps, cfg.GRPC.ReflectionEnabled)

		// Start the gRPC server
		g.Go(func() error {
			grpcAddr := ":" + cfg.GRPC.Port
			lis, err := net.Listen("tcp", grpcAddr)
			if err != nil {
				return fmt.Errorf("failed to listen on gRPC port: %w", err)
			}
			logger.Info("gRPC server listening", slog.String("addr", grpcAddr))
			return grpcServer.Serve(lis)
		})
		// gracefully shutdown gRPC server on context cancellation
		g.Go(func() error {
			<-gCtx.Done()
			logger.Info("Shutting down gRPC server...")
			grpcHealth.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
			grpcHealth.SetServingStatus(app.HealthServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
			stopped := make(chan struct{})
			go func() {
				grpcServer.GracefulStop()
				grpcHealth.Shutdown()
				close(stopped)
			}()
			select {
			case <-stopped:
				logger.Info("gRPC server stopped gracefully.")
				return nil
			case <-time.After(cfg.Shutdown.Timeout):
				logger.Warn("gRPC server graceful stop timed out. Forcing stop.")
				grpcServer.Stop()
				return fmt.Errorf("grpc server graceful stop timed out")
			}
		})
	}

	// Start the pprof server if enabled
	if cfg.PProf.Enabled {
		g.Go(func() error {
			logger.Info("Pprof server listening", slog.String("addr", pprofServer.Addr))
			if err := pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("pprof server failed: %w", err)
			}
			return nil
		})
		// gracefully shutdown pprof server on context cancellation
		g.Go(func() error {
			<-gCtx.Done()
			logger.Info("Shutting down pprof server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
			defer cancel()
			return pprofServer.Shutdown(shutdownCtx)
		})
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("errgroup encountered an error: %w", err)
	}
	return nil
}

// setupPublisher connects to NATS JetStream and makes sure the product stream exists.
// When NATS is disabled events are dropped.
func setupPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (messaging.Publisher, func(), error) {
	if !cfg.Nats.Enabled {
		logger.Info("NATS is disabled, product events will not be published")
		return messaging.NoopPublisher{}, func() {}, nil
	}

	nc, err := natsclient.NewClient(cfg.Nats.Url, cfg.Nats.Timeout)
	if err != nil {
		return nil, nil, err
	}
	js, err := natsclient.NewJetStreamContext(nc)
	if err != nil {
		return nil, nil, err
	}
	streamCtx, cancel := context.WithTimeout(ctx, cfg.Nats.Timeout)
	defer cancel()
	if err := natsclient.EnsureStream(streamCtx, js, cfg.Nats.Stream, messaging.ProductsSubjects); err != nil {
		nc.Close()
		return nil, nil, err
	}
	logger.Info("Connected to NATS JetStream", "stream", cfg.Nats.Stream)

	return natsclient.NewNatsPublisher(js), func() { _ = nc.Drain() }, nil
}
