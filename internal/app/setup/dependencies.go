package setup

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/LavaJover/shvark-price-etl/internal/config"
	"github.com/LavaJover/shvark-price-etl/internal/domain"
	"github.com/LavaJover/shvark-price-etl/internal/infrastructure/badger"
	"github.com/LavaJover/shvark-price-etl/internal/infrastructure/filestore"
	"github.com/LavaJover/shvark-price-etl/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-price-etl/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-price-etl/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-price-etl/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-price-etl/internal/infrastructure/postgres/repository"
)

type Dependencies struct {
	Config    *config.ETLConfig
	Logger    *slog.Logger
	Registry  *prometheus.Registry
	Metrics   *metrics.PipelineMetrics
	Store     domain.PriceRecordRepository
	Publisher domain.PriceEventPublisher
}

func InitializeDependencies(cfg *config.ETLConfig, log *slog.Logger) (*Dependencies, error) {
	store, err := openStore(cfg.Store, log)
	if err != nil {
		return nil, fmt.Errorf("record store: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deps := &Dependencies{
		Config:   cfg,
		Logger:   log,
		Registry: registry,
		Metrics:  metrics.NewPipelineMetrics(registry),
		Store:    store,
	}

	if len(cfg.KafkaService.Brokers) > 0 {
		deps.Publisher = kafka.NewKafkaPublisher(cfg.KafkaService.Brokers, cfg.KafkaService.Topic)
		log.Info("price events enabled", "brokers", cfg.KafkaService.Brokers, "topic", cfg.KafkaService.Topic)
	}

	return deps, nil
}

// Close releases the publisher and the store, in that order.
func (d *Dependencies) Close() error {
	var errs []error
	if d.Publisher != nil {
		if err := d.Publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}
	if err := d.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	return errors.Join(errs...)
}

func openStore(cfg config.Store, log *slog.Logger) (domain.PriceRecordRepository, error) {
	switch cfg.Driver {
	case config.StoreDriverFile:
		log.Debug("opening file store", "path", cfg.Path)
		return filestore.Open(cfg.Path)
	case config.StoreDriverBadger:
		log.Debug("opening badger store", "path", cfg.Path)
		return badger.Open(cfg.Path, log)
	case config.StoreDriverPostgres:
		db, err := postgres.InitDB(cfg.Dsn)
		if err != nil {
			return nil, err
		}
		if err := migrate.RunMigrations(db, log); err != nil {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				sqlDB.Close()
			}
			return nil, err
		}
		return repository.NewDefaultPriceRecordRepository(db), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}
