package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corsa-lab/corsa-api/internal/cache"
	"github.com/corsa-lab/corsa-api/internal/catalog"
	corecfg "github.com/corsa-lab/corsa-api/internal/core/config"
	"github.com/corsa-lab/corsa-api/internal/core/storage"
	"github.com/corsa-lab/corsa-api/internal/core/storage/postgres"
	"github.com/corsa-lab/corsa-api/internal/core/storage/postgrest"
	"github.com/corsa-lab/corsa-api/internal/listings"
	"github.com/corsa-lab/corsa-api/internal/migrations"
	"github.com/corsa-lab/corsa-api/internal/server"
)

const defaultConfigPath = "corsa.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := corecfg.Load(resolveConfigPath(*configPath))
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	level.Set(cfg.Log.SlogLevel())
	slog.Info("Loaded config",
		"datasource", cfg.DataSource.Type,
		"listings_table", cfg.DataSource.ListingsTable,
		"addr", fmtAddr(cfg.Server.Host, cfg.Server.Port),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Initialize Storage
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize data source", "type", cfg.DataSource.Type, "error", err)
		os.Exit(1)
	}
	defer closeStore()
	store = storage.WithMetrics(store, cfg.DataSource.Type)

	// 3. Load Model Catalog
	registry, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		slog.Error("Failed to load model catalog", "path", cfg.Catalog.Path, "error", err)
		os.Exit(1)
	}

	// 4. Initialize Result Cache
	results := cache.New(cache.Options{
		DefaultTTL: cfg.Cache.DefaultTTL,
		MaxEntries: cfg.Cache.MaxEntries,
	})
	go results.Run(ctx, cfg.Cache.SweepInterval)

	// 5. Initialize Listings Service
	window, _ := cfg.Metrics.WindowDuration() // validated in Load
	listingsSvc := listings.NewService(store, registry, results, listings.Options{
		HistoryLimit:       cfg.History.Limit,
		SampleLimit:        cfg.Metrics.SampleLimit,
		Window:             window,
		HistoryTTL:         cfg.Cache.DefaultTTL,
		SummaryTTL:         cfg.Cache.SummaryTTL,
		PricingTTL:         cfg.Cache.PricingTTL,
		FilterTotalByModel: cfg.Metrics.FilterTotalByModel,
		Location:           cfg.Dates.TimeLocation(),
	})

	// 6. Initialize Server
	srv := server.New(server.Options{
		Addr:           fmtAddr(cfg.Server.Host, cfg.Server.Port),
		Mode:           cfg.Server.Mode,
		AllowedOrigin:  cfg.Server.AllowedOrigin,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
		Health:         store,
	})
	listingsSvc.RegisterRoutes(srv.Engine)

	// Signal handler triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

// openStore builds the ListingStore selected by datasource.type.
func openStore(ctx context.Context, cfg *corecfg.Config) (storage.ListingStore, func() error, error) {
	switch cfg.DataSource.Type {
	case "postgres":
		adapter, err := postgres.NewAdapter(postgres.Options{
			Driver:       cfg.Database.Driver,
			DSN:          cfg.Database.DSN,
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
			Table:        cfg.DataSource.ListingsTable,
		})
		if err != nil {
			return nil, nil, err
		}

		if err := migrations.RunMigrations(adapter.DB(), cfg.Database.AutoMigrate); err != nil {
			adapter.Close()
			return nil, nil, fmt.Errorf("failed to run database migrations: %w", err)
		}

		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := adapter.ValidateSchema(checkCtx); err != nil {
			adapter.Close()
			return nil, nil, err
		}
		return adapter, adapter.Close, nil

	case "postgrest":
		client, err := postgrest.NewClient(postgrest.ClientConfig{
			BaseURL:   cfg.PostgREST.URL,
			APIKey:    cfg.PostgREST.APIKey,
			Schema:    cfg.PostgREST.Schema,
			Table:     cfg.DataSource.ListingsTable,
			Timeout:   cfg.PostgREST.Timeout,
			RateLimit: cfg.PostgREST.RateLimit,
			RateBurst: cfg.PostgREST.RateBurst,
		})
		if err != nil {
			return nil, nil, err
		}
		return postgrest.NewStore(client), func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported datasource type %q", cfg.DataSource.Type)
	}
}

// resolveConfigPath drops the default path when no such file exists, so the
// service can run from defaults and environment alone.
func resolveConfigPath(path string) string {
	if path != defaultConfigPath {
		return path
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		slog.Info("No config file found, using defaults and environment", "path", path)
		return ""
	}
	return path
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
