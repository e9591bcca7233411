package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/patient-registry/internal/billing"
	"github.com/jwalitptl/patient-registry/internal/config"
	"github.com/jwalitptl/patient-registry/internal/inventory"
	"github.com/jwalitptl/patient-registry/internal/repository/memory"
	"github.com/jwalitptl/patient-registry/internal/service/hospital"
	"github.com/jwalitptl/patient-registry/pkg/logger"
	"github.com/jwalitptl/patient-registry/pkg/messaging"
	"github.com/jwalitptl/patient-registry/pkg/messaging/redis"
	"github.com/jwalitptl/patient-registry/pkg/metrics"
	"github.com/jwalitptl/patient-registry/pkg/worker"
)

// app holds everything both subcommands share: config, logging, metrics,
// the event pipeline and the hospital service.
type app struct {
	cfg      *config.Config
	logger   *logger.Logger
	registry *prometheus.Registry
	service  *hospital.Service

	broker messaging.Broker
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newApp(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	lg := logger.NewLogger(&logger.Config{
		Level:   logger.ParseLevel(cfg.Log.Level),
		Output:  os.Stderr,
		Console: cfg.Log.Console,
	})
	log.Logger = *lg.Zerolog()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics("registry", "", registry)

	var broker messaging.Broker = messaging.NopBroker{}
	if cfg.Redis.URL != "" {
		broker, err = redis.NewRedisBroker(ctx, cfg.Redis.ToBrokerConfig(), lg.Zerolog(), m)
		if err != nil {
			return nil, err
		}
	} else {
		lg.Info("No Redis URL configured, registry events are not published")
	}

	bill, err := billing.NewPolynomial(cfg.Billing.Terms...)
	if err != nil {
		broker.Close()
		return nil, fmt.Errorf("invalid billing terms: %w", err)
	}

	dispatcher := worker.NewEventDispatcher(broker, cfg.Events.ToDispatcherConfig(), lg, m)

	a := &app{
		cfg:      cfg,
		logger:   lg,
		registry: registry,
		broker:   broker,
		service: hospital.NewService(
			memory.NewRecordList(),
			memory.NewUndoLog(cfg.Registry.UndoCapacity),
			memory.NewEmergencyQueue(),
			bill,
			inventory.NewCachedEvaluator(cfg.Inventory.ToCacheConfig()),
			hospital.Options{Events: dispatcher, Logger: lg, Metrics: m},
		),
	}

	dispatchCtx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		dispatcher.Start(dispatchCtx)
	}()

	return a, nil
}

// Close stops the event dispatcher after it drains and releases the broker.
func (a *app) Close() {
	a.cancel()
	a.wg.Wait()
	if err := a.broker.Close(); err != nil {
		a.logger.Error(err, "Failed to close message broker")
	}
}
