package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/simaogato/kidbank-backend/internal/app"
	"github.com/simaogato/kidbank-backend/internal/config"
	"github.com/simaogato/kidbank-backend/internal/infra/observability"
	"github.com/simaogato/kidbank-backend/internal/usecase/account"
	"github.com/simaogato/kidbank-backend/internal/usecase/importer"
)

func main() {
	file := flag.String("file", "", "CSV file of historical transactions (timestamp,kind,amount,source)")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	count, err := run(ctx, cfg, logger, *file)
	if err != nil {
		logger.Fatal("import failed", zap.String("file", *file), zap.Error(err))
	}
	logger.Info("import finished", zap.String("file", *file), zap.Int("transactions", count))
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	repo, closer, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		return 0, err
	}
	defer closer.Close()

	acc, err := account.Open(ctx, repo, account.WithLogger(logger))
	if err != nil {
		return 0, err
	}

	return importer.NewCSVImporter(acc).Import(ctx, f)
}
