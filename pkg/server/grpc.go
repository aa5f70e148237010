package server

import (
	"context"
	"log/slog"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
)

// RegistrationFunc registers a grpc service with the server.
type RegistrationFunc func(*grpc.Server)

// NewGRPCServer creates a new gRPC server instance with request logging, optional reflection and service registration.
func NewGRPCServer(logger *slog.Logger, enableReflection bool, registerFunc ...RegistrationFunc) *grpc.Server {
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(UnaryLogger(logger)))

	if enableReflection {
		reflection.Register(grpcServer)
	}

	for _, regFunc := range registerFunc {
		regFunc(grpcServer)
	}

	return grpcServer
}

// UnaryLogger logs every finished unary call with its status code and duration.
func UnaryLogger(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return logging.UnaryServerInterceptor(interceptorLogger(logger), logging.WithLogOnEvents(logging.FinishCall))
}

// interceptorLogger adapts slog to the go-grpc-middleware logger. Both use the same level values.
func interceptorLogger(l *slog.Logger) logging.Logger {
	return logging.LoggerFunc(func(ctx context.Context, lvl logging.Level, msg string, fields ...any) {
		l.Log(ctx, slog.Level(lvl), msg, fields...)
	})
}
