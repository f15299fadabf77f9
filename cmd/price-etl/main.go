package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/tebeka/atexit"

	"github.com/LavaJover/shvark-price-etl/internal/app/setup"
	"github.com/LavaJover/shvark-price-etl/internal/config"
	clidelivery "github.com/LavaJover/shvark-price-etl/internal/delivery/cli"
	"github.com/LavaJover/shvark-price-etl/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-price-etl/internal/infrastructure/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		atexit.Fatalf("failed to load config: %v", err)
	}

	appLog, logCloser, err := logger.New(cfg.LogConfig)
	if err != nil {
		atexit.Fatalf("failed to init logger: %v", err)
	}
	slog.SetDefault(appLog)
	atexit.Register(func() { logCloser.Close() })

	deps, err := setup.InitializeDependencies(cfg, appLog)
	if err != nil {
		atexit.Fatalf("failed to init dependencies: %v", err)
	}
	atexit.Register(func() {
		if err := deps.Close(); err != nil {
			appLog.Error("failed to release dependencies", "error", err)
		}
	})

	uc := setup.InitializeUseCases(deps)

	ctx, cancel := context.WithCancel(context.Background())
	atexit.Register(cancel)

	if cfg.MetricsServer.Addr != "" {
		router := handlers.NewRouter(handlers.NewPriceHandler(uc.ReportUsecase, appLog), deps.Registry)
		go func() {
			if err := handlers.Serve(ctx, cfg.MetricsServer.Addr, router, appLog); err != nil {
				appLog.Error("metrics server failed", "error", err)
			}
		}()
	}

	handler := clidelivery.NewHandler(uc.PipelineUsecase, uc.ReportUsecase, clidelivery.Options{
		Interval: cfg.Scheduler.Interval(),
		Currency: cfg.RateAPI.TargetCurrency,
		Out:      os.Stdout,
		Color:    clidelivery.ColorEnabled(os.Stdout),
		Logger:   appLog,
	})

	if err := handler.App().RunContext(ctx, os.Args); err != nil {
		atexit.Fatalf("ERROR: %v", err)
	}
	atexit.Exit(0)
}
