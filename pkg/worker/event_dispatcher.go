package worker

import (
	"context"
	"time"

	"github.com/jwalitptl/patient-registry/pkg/event"
	"github.com/jwalitptl/patient-registry/pkg/logger"
	"github.com/jwalitptl/patient-registry/pkg/messaging"
	"github.com/jwalitptl/patient-registry/pkg/metrics"
)

type EventDispatcherConfig struct {
	Channel       string
	BufferSize    int
	RetryAttempts int
	RetryDelay    time.Duration
	DrainTimeout  time.Duration
}

// EventDispatcher buffers registry events and publishes them from its own
// goroutine, so emitting never blocks a registry operation.
type EventDispatcher struct {
	events    chan event.Event
	publisher messaging.Publisher
	config    EventDispatcherConfig
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

func NewEventDispatcher(
	publisher messaging.Publisher,
	config EventDispatcherConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *EventDispatcher {
	// Config validation instead of defaults
	if config.BufferSize <= 0 {
		panic("BufferSize must be greater than 0")
	}
	if config.RetryAttempts <= 0 {
		panic("RetryAttempts must be greater than 0")
	}
	if config.RetryDelay < 0 {
		panic("RetryDelay must not be negative")
	}
	if config.Channel == "" {
		config.Channel = "registry.events"
	}
	if config.DrainTimeout <= 0 {
		config.DrainTimeout = 5 * time.Second
	}

	return &EventDispatcher{
		events:    make(chan event.Event, config.BufferSize),
		publisher: publisher,
		config:    config,
		logger:    logger,
		metrics:   metrics,
	}
}

// Emit queues evt for publishing. When the buffer is full the event is
// dropped and counted.
func (d *EventDispatcher) Emit(evt event.Event) {
	select {
	case d.events <- evt:
	default:
		d.metrics.EventsDropped.Inc()
		d.logger.Warn("Event buffer full, dropping event",
			"event_id", evt.ID.String(),
			"event_type", string(evt.Type))
	}
}

// Start publishes events until ctx is cancelled, then drains what is left
// in the buffer within DrainTimeout.
func (d *EventDispatcher) Start(ctx context.Context) {
	d.logger.Info("Starting event dispatcher", "channel", d.config.Channel)

	for {
		select {
		case <-ctx.Done():
			d.drain()
			d.logger.Info("Shutting down event dispatcher")
			return
		case evt := <-d.events:
			d.processEvent(ctx, evt)
		}
	}
}

func (d *EventDispatcher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), d.config.DrainTimeout)
	defer cancel()

	for {
		select {
		case evt := <-d.events:
			d.processEvent(ctx, evt)
		default:
			return
		}
	}
}

func (d *EventDispatcher) processEvent(ctx context.Context, evt event.Event) {
	attempt := 0
	err := retry(ctx, d.config.RetryAttempts, d.config.RetryDelay, func() error {
		if attempt > 0 {
			d.metrics.EventRetries.WithLabelValues(string(evt.Type)).Inc()
		}
		attempt++
		return d.publisher.Publish(ctx, d.config.Channel, evt)
	})

	if err != nil {
		d.metrics.EventsFailed.Inc()
		d.logger.Error(err, "Failed to publish event",
			"event_id", evt.ID.String(),
			"event_type", string(evt.Type))
		return
	}
	d.metrics.EventsPublished.Inc()
}

// Helper retry function
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return err
			case <-time.After(delay):
			}
		}
	}
	return err
}
