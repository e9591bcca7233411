package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jwalitptl/patient-registry/pkg/errors"
)

// Metrics holds all application metrics
type Metrics struct {
	// Registry related metrics
	RegistryOperations *prometheus.CounterVec
	CollectionSize     *prometheus.GaugeVec

	// Inventory metrics
	InventoryEvaluations *prometheus.CounterVec
	InventoryLatency     prometheus.Histogram

	// Event dispatch metrics
	EventsPublished prometheus.Counter
	EventsFailed    prometheus.Counter
	EventsDropped   prometheus.Counter
	EventRetries    *prometheus.CounterVec

	// Broker metrics
	BrokerOperations *prometheus.CounterVec
	BrokerLatency    *prometheus.HistogramVec
}

// NewMetrics creates all application metrics and registers them with reg.
// A nil reg uses the default Prometheus registerer.
func NewMetrics(namespace, subsystem string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		RegistryOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operations_total",
			Help:      "Total number of registry operations by outcome",
		}, []string{"operation", "status"}),
		CollectionSize: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "collection_size",
			Help:      "Current number of records held by each structure",
		}, []string{"collection"}),

		InventoryEvaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "inventory_evaluations_total",
			Help:      "Total number of postfix evaluations by cache result",
		}, []string{"cache"}),
		InventoryLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "inventory_evaluation_duration_seconds",
			Help:      "Time spent evaluating postfix expressions",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		}),

		EventsPublished: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "events_published_total",
			Help:      "Total number of successfully published registry events",
		}),
		EventsFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "events_failed_total",
			Help:      "Total number of registry events that failed after retries",
		}),
		EventsDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "events_dropped_total",
			Help:      "Total number of registry events dropped because the buffer was full",
		}),
		EventRetries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "event_retry_attempts_total",
			Help:      "Total number of retry attempts for registry events",
		}, []string{"event_type"}),

		BrokerOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "broker_operations_total",
			Help:      "Total number of message broker operations",
		}, []string{"operation", "status"}),
		BrokerLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "broker_operation_duration_seconds",
			Help:      "Duration of message broker operations",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5},
		}, []string{"operation"}),
	}
}

// ObserveOperation counts one registry operation. Failures are labelled with
// their error code name.
func (m *Metrics) ObserveOperation(operation string, err error) {
	m.RegistryOperations.WithLabelValues(operation, Status(err)).Inc()
}

// Status renders err as a metric label value.
func Status(err error) string {
	if err == nil {
		return "success"
	}
	if code, ok := errors.CodeOf(err); ok {
		return code.String()
	}
	return "error"
}
