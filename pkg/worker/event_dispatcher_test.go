package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/patient-registry/pkg/event"
	"github.com/jwalitptl/patient-registry/pkg/logger"
	"github.com/jwalitptl/patient-registry/pkg/metrics"
)

type recordingPublisher struct {
	mu       sync.Mutex
	failures int
	messages []interface{}
	channels []string
}

func (p *recordingPublisher) Publish(_ context.Context, channel string, message interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failures > 0 {
		p.failures--
		return errors.New("broker unavailable")
	}
	p.channels = append(p.channels, channel)
	p.messages = append(p.messages, message)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.messages)
}

func newTestDispatcher(pub *recordingPublisher, buffer, attempts int) (*EventDispatcher, *metrics.Metrics) {
	m := metrics.NewMetrics("test", "registry", prometheus.NewRegistry())
	d := NewEventDispatcher(pub, EventDispatcherConfig{
		Channel:       "registry.events",
		BufferSize:    buffer,
		RetryAttempts: attempts,
		RetryDelay:    time.Millisecond,
	}, logger.Nop(), m)
	return d, m
}

func TestEventDispatcherPublishes(t *testing.T) {
	pub := &recordingPublisher{}
	d, m := newTestDispatcher(pub, 8, 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Start(ctx)
		close(done)
	}()

	d.Emit(event.New(event.PatientAdmitted, 1, nil))
	d.Emit(event.New(event.PatientDischarged, 1, nil))

	require.Eventually(t, func() bool { return pub.count() == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, []string{"registry.events", "registry.events"}, pub.channels)
	assert.Equal(t, event.PatientAdmitted, pub.messages[0].(event.Event).Type)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.EventsPublished))
}

func TestEventDispatcherRetries(t *testing.T) {
	pub := &recordingPublisher{failures: 2}
	d, m := newTestDispatcher(pub, 1, 3)

	d.processEvent(context.Background(), event.New(event.PatientAdmitted, 4, nil))

	assert.Equal(t, 1, pub.count())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.EventRetries.WithLabelValues(string(event.PatientAdmitted))))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.EventsFailed))
}

func TestEventDispatcherGivesUp(t *testing.T) {
	pub := &recordingPublisher{failures: 5}
	d, m := newTestDispatcher(pub, 1, 2)

	d.processEvent(context.Background(), event.New(event.PatientAdmitted, 4, nil))

	assert.Equal(t, 0, pub.count())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsFailed))
}

func TestEventDispatcherDropsWhenFull(t *testing.T) {
	pub := &recordingPublisher{}
	d, m := newTestDispatcher(pub, 1, 1)

	d.Emit(event.New(event.PatientAdmitted, 1, nil))
	d.Emit(event.New(event.PatientAdmitted, 2, nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsDropped))
}

func TestEventDispatcherDrainsOnShutdown(t *testing.T) {
	pub := &recordingPublisher{}
	d, _ := newTestDispatcher(pub, 4, 1)

	d.Emit(event.New(event.PatientAdmitted, 1, nil))
	d.Emit(event.New(event.PatientAdmitted, 2, nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)

	assert.Equal(t, 2, pub.count())
}

func TestNewEventDispatcherRejectsBadConfig(t *testing.T) {
	assert.Panics(t, func() {
		NewEventDispatcher(&recordingPublisher{}, EventDispatcherConfig{RetryAttempts: 1}, logger.Nop(), nil)
	})
}
