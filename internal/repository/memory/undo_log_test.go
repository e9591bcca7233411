package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/patient-registry/internal/model"
	"github.com/jwalitptl/patient-registry/pkg/errors"
)

func TestUndoLogPopsInReverseOrder(t *testing.T) {
	log := NewUndoLog(DefaultUndoCapacity)

	var pushed []*model.Record
	for i := 0; i < DefaultUndoCapacity; i++ {
		r := model.NewRecord(i, "p", "", "")
		require.NoError(t, log.Push(r))
		pushed = append(pushed, r)
	}

	for i := len(pushed) - 1; i >= 0; i-- {
		got, err := log.Pop()
		require.NoError(t, err)
		assert.Same(t, pushed[i], got)
	}

	_, err := log.Pop()
	assert.True(t, errors.HasCode(err, errors.ErrEmptyCollection))
}

func TestUndoLogCapacityExceeded(t *testing.T) {
	log := NewUndoLog(0)
	assert.Equal(t, DefaultUndoCapacity, log.Cap())

	for i := 0; i < DefaultUndoCapacity; i++ {
		require.NoError(t, log.Push(model.NewRecord(i, "p", "", "")))
	}

	err := log.Push(model.NewRecord(51, "overflow", "", ""))
	assert.True(t, errors.HasCode(err, errors.ErrCapacityExceeded))
	assert.Equal(t, DefaultUndoCapacity, log.Len())

	top, err := log.Pop()
	require.NoError(t, err)
	assert.Equal(t, DefaultUndoCapacity-1, top.ID())

	assert.NoError(t, log.Push(model.NewRecord(51, "fits", "", "")))
}

func TestUndoLogEmpty(t *testing.T) {
	log := NewUndoLog(2)

	_, err := log.Pop()
	assert.True(t, errors.HasCode(err, errors.ErrEmptyCollection))
	assert.Equal(t, 0, log.Len())
}
