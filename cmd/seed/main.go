package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Skotchmaster/shopfront/internal/config"
	"github.com/Skotchmaster/shopfront/internal/db"
	"github.com/Skotchmaster/shopfront/internal/logging"
	"github.com/Skotchmaster/shopfront/internal/repo"
	"github.com/Skotchmaster/shopfront/internal/service"
	"github.com/Skotchmaster/shopfront/internal/transport"
)

func price(v float64) *float64 { return &v }

var samples = []transport.CreateProductRequest{
	{Name: "Laptop", Description: "A high-end laptop", Price: price(1200.00)},
	{Name: "Phone", Description: "A smartphone", Price: price(800.00)},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName, "cmd", "seed")
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("db_open_failed", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close(gdb) }()

	if err := repo.Migrate(ctx, gdb); err != nil {
		logger.Error("migrate_failed", "error", err)
		os.Exit(1)
	}

	svc := &service.CatalogService{Repo: repo.NewGormRepo(gdb)}
	added, err := svc.SeedIfEmpty(logging.IntoContext(ctx, logger), samples)
	if err != nil {
		logger.Error("seed_failed", "added", added, "error", err)
		os.Exit(1)
	}

	if added == 0 {
		logger.Info("seed_skipped", "reason", "catalog is not empty")
		return
	}
	logger.Info("seed_complete", "added", added)
}
