package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/simaogato/kidbank-backend/internal/adapter/events"
	"github.com/simaogato/kidbank-backend/internal/adapter/events/kafka"
	grpcadapter "github.com/simaogato/kidbank-backend/internal/adapter/grpc"
	"github.com/simaogato/kidbank-backend/internal/app"
	"github.com/simaogato/kidbank-backend/internal/config"
	"github.com/simaogato/kidbank-backend/internal/infra/observability"
	"github.com/simaogato/kidbank-backend/internal/usecase/account"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	metrics := observability.NewMetrics()

	// 1. Setup the transaction store
	repo, closer, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	// 2. Event publishers (metrics always, Kafka when brokers are configured)
	publishers := events.Fanout{metrics}
	if len(cfg.KafkaBrokers) > 0 {
		publisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer publisher.Close()
		publishers = append(publishers, publisher)
		logger.Info("publishing transaction events to kafka",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.KafkaTopic),
		)
	}

	// 3. Open the account from the stored history
	acc, err := account.Open(ctx, repo,
		account.WithLogger(logger),
		account.WithPublisher(publishers),
	)
	if err != nil {
		return err
	}
	logger.Info("account opened", zap.Int("transactions", len(acc.Transactions())))

	// 4. gRPC server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(logger),
			grpcadapter.MetricsInterceptor(metrics),
			grpcadapter.AuthInterceptor(cfg.APIToken),
		),
	)
	grpcadapter.RegisterAccountServiceServer(grpcServer, grpcadapter.NewServer(acc, logger))
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return err
	}

	// 5. Metrics endpoint
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("gRPC server listening", zap.String("addr", cfg.GRPCAddr))
		return grpcServer.Serve(lis)
	})

	g.Go(func() error {
		logger.Info("metrics server listening", zap.String("addr", cfg.MetricsAddr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		grpcServer.GracefulStop()
		return metricsServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
