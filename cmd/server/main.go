// Package main is the entry point of the landed-cost HTTP service.
//
// 12-Factor App compliance:
//   - III. Config: Configuration via environment variables (LCE_ prefix)
//   - VI. Processes: Stateless processes
//   - VII. Port Binding: Self-contained HTTP server
//   - IX. Disposability: Graceful shutdown
//   - XI. Logs: Structured logging to stdout
//
// Usage:
//
//	go run ./cmd/server
//
// Environment Variables:
//
//	LCE_ENVIRONMENT  - Deployment environment (development, staging, production)
//	LCE_SERVER_PORT  - HTTP server port (default: 8080)
//	LCE_DATABASE_URL - Postgres product catalogue; empty uses the in-memory store
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hapkiduki/landedcost/internal/application/port"
	"github.com/hapkiduki/landedcost/internal/application/service"
	"github.com/hapkiduki/landedcost/internal/domain/fba"
	"github.com/hapkiduki/landedcost/internal/domain/landedcost"
	"github.com/hapkiduki/landedcost/internal/domain/optimization"
	"github.com/hapkiduki/landedcost/internal/domain/repository"
	"github.com/hapkiduki/landedcost/internal/infrastructure/config"
	"github.com/hapkiduki/landedcost/internal/infrastructure/logging"
	"github.com/hapkiduki/landedcost/internal/infrastructure/persistance/memory"
	"github.com/hapkiduki/landedcost/internal/infrastructure/persistance/postgres"
	"github.com/hapkiduki/landedcost/internal/interfaces/http/handler"
	"github.com/hapkiduki/landedcost/internal/interfaces/http/middleware"
	"github.com/hapkiduki/landedcost/pkg/logger"
)

// version is set at build time via ldflags
var version = "dev"

// catalogue is the product data source behind the optimization engine.
type catalogue interface {
	repository.ProductReader
	repository.AlternativeLookup
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting landed-cost service",
		"version", version,
		"environment", cfg.App.Environment,
	)

	// Create context that listens for shutdown signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logAdapter := logging.NewAdapter(log)

	landed, err := newLandedCostCalculator(cfg)
	if err != nil {
		return err
	}

	var handlerOpts []handler.Option
	products, checks, closeStore, err := openCatalogue(ctx, cfg, logAdapter)
	if err != nil {
		return err
	}
	defer closeStore()
	for name, check := range checks {
		handlerOpts = append(handlerOpts, handler.WithHealthCheck(name, check))
	}

	engine := optimization.NewEngine(products, products,
		optimization.WithConfidenceThreshold(cfg.Optimization.ConfidenceThreshold),
		optimization.WithMaxRecommendations(cfg.Optimization.MaxRecommendations),
		optimization.WithLandedCost(landed),
		optimization.WithLogger(logAdapter.With("component", "optimization")),
	)

	svc := service.NewCalculationService(service.Dependencies{
		Fees:       fba.NewCalculator(nil),
		LandedCost: landed,
		Engine:     engine,
		Logger:     logAdapter.With("component", "service"),
	})

	routerCfg := handler.RouterConfig{
		Version:            version,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		RequestTimeout:     cfg.Server.RequestTimeout,
		MaxRequestSize:     cfg.Server.MaxRequestSize,
		TrustProxy:         cfg.Server.TrustProxy,
	}
	if cfg.RateLimit.Enabled {
		rl := middleware.DefaultRateLimiterConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		routerCfg.RateLimit = &rl
	}

	handlerOpts = append(handlerOpts, handler.WithVersion(version))
	httpLog := logging.NewAdapter(log.Named("http"))
	router := handler.NewRouter(handler.New(svc, httpLog, handlerOpts...), httpLog, routerCfg)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt signal or a failed listener
	select {
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Graceful shutdown
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}
	log.Info("Server shutdown complete")
	return nil
}

func newLandedCostCalculator(cfg *config.Config) (*landedcost.Calculator, error) {
	base, err := cfg.Calculator.ParseDutyBase()
	if err != nil {
		return nil, err
	}
	currency, err := cfg.Calculator.ParseCurrency()
	if err != nil {
		return nil, err
	}
	return landedcost.NewCalculator(landedcost.WithDutyBase(base), landedcost.WithCurrency(currency)), nil
}

// openCatalogue connects the product data source: Postgres when a database
// URL is configured, otherwise the in-memory store seeded from the optional
// seed file.
func openCatalogue(ctx context.Context, cfg *config.Config, log port.Logger) (catalogue, map[string]handler.HealthCheck, func(), error) {
	if cfg.Database.URL == "" {
		store := memory.NewProductStore()
		if cfg.Optimization.SeedFile != "" {
			n, err := store.LoadFile(cfg.Optimization.SeedFile)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("seed catalogue: %w", err)
			}
			log.Info("Loaded product catalogue", "file", cfg.Optimization.SeedFile, "products", n)
		} else {
			log.Warn("No database or seed file configured; recommendations will find no products")
		}
		return store, nil, func() {}, nil
	}

	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		URL:             cfg.Database.URL,
		MaxConns:        cfg.Database.MaxConns,
		ConnectTimeout:  cfg.Database.ConnectTimeout,
		ApplicationName: cfg.App.Name,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info("Connected to product database", "max_conns", cfg.Database.MaxConns)

	checks := map[string]handler.HealthCheck{"database": pool.Ping}
	return postgres.NewProductRepository(pool), checks, pool.Close, nil
}
