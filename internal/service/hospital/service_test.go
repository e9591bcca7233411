package hospital

import (
	"context"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/patient-registry/internal/billing"
	"github.com/jwalitptl/patient-registry/internal/inventory"
	"github.com/jwalitptl/patient-registry/internal/model"
	"github.com/jwalitptl/patient-registry/internal/repository/memory"
	"github.com/jwalitptl/patient-registry/pkg/errors"
	"github.com/jwalitptl/patient-registry/pkg/event"
	"github.com/jwalitptl/patient-registry/pkg/metrics"
)

type recordingEmitter struct {
	mu     sync.Mutex
	events []event.Event
}

func (e *recordingEmitter) Emit(evt event.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, evt)
}

func (e *recordingEmitter) types() []event.EventType {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []event.EventType
	for _, evt := range e.events {
		out = append(out, evt.Type)
	}
	return out
}

func newTestService(t *testing.T, undoCapacity int) (*Service, *recordingEmitter, *metrics.Metrics) {
	t.Helper()

	bill, err := billing.NewPolynomial(billing.Term{Coefficient: 200, Exponent: 1}, billing.Term{Coefficient: 500, Exponent: 0})
	require.NoError(t, err)

	emitter := &recordingEmitter{}
	m := metrics.NewMetrics("test", "registry", prometheus.NewRegistry())
	svc := NewService(
		memory.NewRecordList(),
		memory.NewUndoLog(undoCapacity),
		memory.NewEmergencyQueue(),
		bill,
		inventory.NewCachedEvaluator(inventory.DefaultCacheConfig()),
		Options{Events: emitter, Metrics: m},
	)
	return svc, emitter, m
}

func ids(records []*model.Record) []int {
	out := make([]int, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID())
	}
	return out
}

func TestAdmitSharesRecordAcrossStructures(t *testing.T) {
	svc, emitter, m := newTestService(t, 50)
	ctx := context.Background()

	admitted, err := svc.Admit(ctx, 1, "Asha", "2024-03-01", "fracture")
	require.NoError(t, err)

	found, err := svc.FindPatient(ctx, 1)
	require.NoError(t, err)
	assert.Same(t, admitted, found)

	next, err := svc.ProcessEmergency(ctx)
	require.NoError(t, err)
	assert.Same(t, admitted, next)

	undone, err := svc.UndoLastAdmission(ctx)
	require.NoError(t, err)
	assert.Same(t, admitted, undone)

	assert.Equal(t, []event.EventType{
		event.PatientAdmitted,
		event.PatientEmergencyProcessed,
		event.PatientAdmissionUndone,
	}, emitter.types())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RegistryOperations.WithLabelValues("admit", "success")))
}

func TestUndoRemovesFromListButNotQueue(t *testing.T) {
	svc, _, _ := newTestService(t, 50)
	ctx := context.Background()

	_, err := svc.Admit(ctx, 1, "A", "d1", "long treatment")
	require.NoError(t, err)
	_, err = svc.Admit(ctx, 2, "B", "d2", "cpr")
	require.NoError(t, err)

	undone, err := svc.UndoLastAdmission(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, undone.ID())
	assert.Equal(t, []int{1}, ids(svc.ListPatients(ctx)))

	stats := svc.Stats()
	assert.Equal(t, 1, stats.Patients)
	assert.Equal(t, 1, stats.UndoDepth)
	assert.Equal(t, 2, stats.EmergencyQueue)
}

func TestUndoAfterDischargeStillSucceeds(t *testing.T) {
	svc, _, _ := newTestService(t, 50)
	ctx := context.Background()

	_, err := svc.Admit(ctx, 9, "A", "", "x")
	require.NoError(t, err)
	_, err = svc.DischargePatient(ctx, 9)
	require.NoError(t, err)

	undone, err := svc.UndoLastAdmission(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9, undone.ID())
	assert.Empty(t, svc.ListPatients(ctx))
}

func TestUndoEmpty(t *testing.T) {
	svc, emitter, m := newTestService(t, 50)

	_, err := svc.UndoLastAdmission(context.Background())
	assert.True(t, errors.HasCode(err, errors.ErrEmptyCollection))
	assert.Empty(t, emitter.types())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RegistryOperations.WithLabelValues("undo", "EmptyCollection")))
}

func TestAdmitWithFullUndoLogStoresNothing(t *testing.T) {
	svc, _, _ := newTestService(t, 2)
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		_, err := svc.Admit(ctx, i, "p", "", "t")
		require.NoError(t, err)
	}

	_, err := svc.Admit(ctx, 3, "overflow", "", "t")
	assert.True(t, errors.HasCode(err, errors.ErrCapacityExceeded))

	stats := svc.Stats()
	assert.Equal(t, 2, stats.Patients)
	assert.Equal(t, 2, stats.UndoDepth)
	assert.Equal(t, 2, stats.EmergencyQueue)
	_, err = svc.FindPatient(ctx, 3)
	assert.True(t, errors.HasCode(err, errors.ErrNotFound))
}

func TestEmergencyOrder(t *testing.T) {
	svc, _, _ := newTestService(t, 50)
	ctx := context.Background()

	_, _ = svc.Admit(ctx, 1, "A", "", "abcd")
	_, _ = svc.Admit(ctx, 2, "B", "", "ab")
	_, _ = svc.Admit(ctx, 3, "C", "", "wxyz")

	peeked, err := svc.PeekEmergency(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, peeked.ID())

	var order []int
	for {
		r, err := svc.ProcessEmergency(ctx)
		if err != nil {
			assert.True(t, errors.HasCode(err, errors.ErrEmptyCollection))
			break
		}
		order = append(order, r.ID())
	}
	assert.Equal(t, []int{2, 1, 3}, order)
}

func TestDischargeMissing(t *testing.T) {
	svc, emitter, _ := newTestService(t, 50)

	_, err := svc.DischargePatient(context.Background(), 404)
	assert.True(t, errors.HasCode(err, errors.ErrNotFound))
	assert.Empty(t, emitter.types())
}

func TestCollectionGauges(t *testing.T) {
	svc, _, m := newTestService(t, 50)
	ctx := context.Background()

	_, _ = svc.Admit(ctx, 1, "A", "", "x")
	_, _ = svc.Admit(ctx, 2, "B", "", "y")
	_, _ = svc.ProcessEmergency(ctx)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CollectionSize.WithLabelValues("patients")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CollectionSize.WithLabelValues("undo_log")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CollectionSize.WithLabelValues("emergency_queue")))
}

func TestConcurrentAdmissions(t *testing.T) {
	svc, _, _ := newTestService(t, 50)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 60; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_, _ = svc.Admit(ctx, id, "p", "", "t")
		}(i)
	}
	wg.Wait()

	stats := svc.Stats()
	assert.Equal(t, 50, stats.Patients)
	assert.Equal(t, 50, stats.UndoDepth)
	assert.Equal(t, 50, stats.EmergencyQueue)
}
