package memory

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/patient-registry/internal/model"
	"github.com/jwalitptl/patient-registry/pkg/errors"
)

func TestEmergencyQueueShortestTreatmentFirst(t *testing.T) {
	q := NewEmergencyQueue()
	q.Enqueue(model.NewRecord(1, "A", "", "long treatment"))
	q.Enqueue(model.NewRecord(2, "B", "", "cpr"))
	q.Enqueue(model.NewRecord(3, "C", "", "stitches"))

	var got []int
	for q.Len() > 0 {
		r, err := q.Dequeue()
		require.NoError(t, err)
		got = append(got, r.ID())
	}
	assert.Equal(t, []int{2, 3, 1}, got)
}

func TestEmergencyQueueTiesKeepInsertionOrder(t *testing.T) {
	q := NewEmergencyQueue()
	q.Enqueue(model.NewRecord(1, "A", "", "abcd"))
	q.Enqueue(model.NewRecord(2, "B", "", "wxyz"))
	q.Enqueue(model.NewRecord(3, "C", "", "ab"))
	q.Enqueue(model.NewRecord(4, "D", "", "efgh"))

	var got []int
	for q.Len() > 0 {
		r, err := q.Dequeue()
		require.NoError(t, err)
		got = append(got, r.ID())
	}
	assert.Equal(t, []int{3, 1, 2, 4}, got)
}

func TestEmergencyQueueMatchesStableSort(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	q := NewEmergencyQueue()

	var records []*model.Record
	for i := 0; i < 200; i++ {
		details := make([]byte, rng.Intn(8))
		for j := range details {
			details[j] = 'x'
		}
		r := model.NewRecord(i, "p", "", string(details))
		records = append(records, r)
		q.Enqueue(r)
	}

	want := make([]*model.Record, len(records))
	copy(want, records)
	sort.SliceStable(want, func(i, j int) bool { return want[i].Priority() < want[j].Priority() })

	for _, w := range want {
		got, err := q.Dequeue()
		require.NoError(t, err)
		assert.Same(t, w, got)
	}
}

func TestEmergencyQueueEmpty(t *testing.T) {
	q := NewEmergencyQueue()

	_, err := q.Dequeue()
	assert.True(t, errors.HasCode(err, errors.ErrEmptyCollection))

	_, err = q.Peek()
	assert.True(t, errors.HasCode(err, errors.ErrEmptyCollection))
}

func TestEmergencyQueuePeekDoesNotRemove(t *testing.T) {
	q := NewEmergencyQueue()
	r := model.NewRecord(1, "A", "", "x")
	q.Enqueue(r)

	got, err := q.Peek()
	require.NoError(t, err)
	assert.Same(t, r, got)
	assert.Equal(t, 1, q.Len())
}
