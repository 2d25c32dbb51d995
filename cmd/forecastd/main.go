package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gcortinez/sweetspot-cowork-sub006/internal/di"
	"github.com/gcortinez/sweetspot-cowork-sub006/pkg/config"
	applogger "github.com/gcortinez/sweetspot-cowork-sub006/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	logger, err := di.ProvideLogger(cfg)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}

	m := di.ProvideMetrics()

	history, err := di.ProvideHistoryStore(cfg, logger)
	if err != nil {
		log.Fatalf("history store init failed: %v", err)
	}
	defer history.Close()

	store, err := di.ProvideForecastStore(cfg, logger)
	if err != nil {
		log.Fatalf("forecast store init failed: %v", err)
	}
	defer store.Close()

	pub, err := di.ProvidePublisher(cfg)
	if err != nil {
		log.Fatalf("publisher init failed: %v", err)
	}
	if pub != nil {
		defer pub.Close()
	}

	svc := di.ProvideService(cfg, history, store, pub, m, logger)

	consumer, err := di.ProvideActualsConsumer(cfg, svc, m, logger)
	if err != nil {
		log.Fatalf("consumer init failed: %v", err)
	}
	if consumer != nil {
		if err := consumer.Start(); err != nil {
			log.Fatalf("consumer start failed: %v", err)
		}
		logger.Info("actuals consumer started",
			applogger.Strings("brokers", cfg.Kafka.Brokers),
			applogger.String("topic", cfg.Kafka.ActualsTopic),
		)
	}

	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, promhttp.Handler())
		metricsSrv = &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", applogger.Error(err))
			}
		}()
		logger.Info("metrics exposed",
			applogger.String("addr", cfg.Metrics.Addr),
			applogger.String("path", cfg.Metrics.Path),
		)
	}

	logger.Info("forecastd started", applogger.String("environment", cfg.Environment))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("forecastd stopping")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if consumer != nil {
		if err := consumer.Stop(ctx); err != nil {
			logger.Error("consumer stop failed", applogger.Error(err))
		}
	}
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logger.Error("metrics server shutdown failed", applogger.Error(err))
		}
	}
}
