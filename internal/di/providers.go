package di

import (
	"context"
	"fmt"
	"time"

	domrepo "github.com/gcortinez/sweetspot-cowork-sub006/internal/domain/repository"
	"github.com/gcortinez/sweetspot-cowork-sub006/internal/forecast"
	internalrepo "github.com/gcortinez/sweetspot-cowork-sub006/internal/repository"
	"github.com/gcortinez/sweetspot-cowork-sub006/internal/usecase"
	"github.com/gcortinez/sweetspot-cowork-sub006/pkg/cache"
	pkgch "github.com/gcortinez/sweetspot-cowork-sub006/pkg/clickhouse"
	"github.com/gcortinez/sweetspot-cowork-sub006/pkg/config"
	pkgkafka "github.com/gcortinez/sweetspot-cowork-sub006/pkg/kafka"
	applogger "github.com/gcortinez/sweetspot-cowork-sub006/pkg/logger"
	"github.com/gcortinez/sweetspot-cowork-sub006/pkg/metrics"
	pkgpg "github.com/gcortinez/sweetspot-cowork-sub006/pkg/postgres"
)

// ProvideLogger builds the process logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics registers the Prometheus recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideHistoryStore builds the ClickHouse-backed history reader,
// wrapped in a series cache (in-process, plus Redis when enabled).
func ProvideHistoryStore(cfg *config.Config, log *applogger.Logger) (domrepo.HistoryStore, error) {
	client, err := pkgch.NewClient(pkgch.Config{
		Host:             cfg.ClickHouse.Host,
		Port:             cfg.ClickHouse.Port,
		Database:         cfg.ClickHouse.Database,
		User:             cfg.ClickHouse.User,
		Password:         cfg.ClickHouse.Password,
		DialTimeout:      cfg.ClickHouse.DialTimeout,
		ReadTimeout:      cfg.ClickHouse.ReadTimeout,
		MaxExecutionTime: cfg.ClickHouse.MaxExecutionTime,
	})
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	store := internalrepo.NewCHHistoryStore(client, cfg.ClickHouse.Database+".metrics_monthly", log)

	layers := []cache.BytesCache{cache.NewTTLCache()}
	if cfg.Redis.Enabled {
		layers = append(layers, cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   "forecastd:",
		}))
	}
	return internalrepo.NewCachedHistoryStore(store, cache.NewLayered(layers...), cfg.Forecast.SeriesCacheTTL, log), nil
}

// ProvideForecastStore builds the Postgres forecast store and ensures
// its schema.
func ProvideForecastStore(cfg *config.Config, log *applogger.Logger) (domrepo.ForecastStore, error) {
	client, err := pkgpg.NewClient(pkgpg.Config{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		Database: cfg.Postgres.Database,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		SSLMode:  cfg.Postgres.SSLMode,
		MaxConns: cfg.Postgres.MaxConns,
	})
	if err != nil {
		return nil, fmt.Errorf("postgres client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.Schema()); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("postgres schema: %w", err)
	}
	return internalrepo.NewPGForecastStore(client, log), nil
}

// ProvidePublisher builds the Kafka event publisher, or nil when the
// event feed is disabled.
func ProvidePublisher(cfg *config.Config) (domrepo.Publisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(pkgkafka.ProducerConfig{Brokers: cfg.Kafka.Brokers})
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.EventsTopic), nil
}

// ProvideService wires the forecasting orchestrator.
func ProvideService(cfg *config.Config, history domrepo.HistoryStore, store domrepo.ForecastStore, pub domrepo.Publisher, m domrepo.Metrics, log *applogger.Logger) *usecase.Service {
	return usecase.NewService(history, store, pub, m, log, usecase.Options{
		HistoryMonths:  cfg.Forecast.HistoryMonths,
		DefaultHorizon: cfg.Forecast.DefaultHorizon,
		Params:         forecast.DefaultParams(),
	})
}

// ProvideActualsConsumer builds the Kafka consumer feeding observed
// actuals into the accuracy updater, or nil when Kafka is disabled.
func ProvideActualsConsumer(cfg *config.Config, svc *usecase.Service, m domrepo.Metrics, log *applogger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(pkgkafka.ConsumerConfig{
		Brokers:     cfg.Kafka.Brokers,
		GroupID:     cfg.Kafka.Consumer.GroupID,
		WorkerCount: cfg.Kafka.Consumer.Workers,
		BufferSize:  cfg.Kafka.Consumer.BufferSize,
		RetryMax:    cfg.Kafka.Consumer.RetryMax,
		BackoffMin:  cfg.Kafka.Consumer.BackoffMin,
		BackoffMax:  cfg.Kafka.Consumer.BackoffMax,
	})
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.RegisterHandler(usecase.NewActualsHandler(cfg.Kafka.ActualsTopic, svc, m, log))
	consumer.OnError(func(topic string, err error) {
		m.RecordError("actuals_exhausted")
		log.Error("actuals message dropped after retries",
			applogger.String("topic", topic),
			applogger.Error(err),
		)
	})
	return consumer, nil
}
