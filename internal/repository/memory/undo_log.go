package memory

import (
	"sync"

	"github.com/jwalitptl/patient-registry/internal/model"
	"github.com/jwalitptl/patient-registry/internal/repository"
	"github.com/jwalitptl/patient-registry/pkg/errors"
)

// DefaultUndoCapacity is the number of admissions the undo log remembers.
const DefaultUndoCapacity = 50

type undoLog struct {
	mu       sync.Mutex
	capacity int
	stack    []*model.Record
}

// NewUndoLog returns an undo log holding at most capacity records.
// A non-positive capacity falls back to DefaultUndoCapacity.
func NewUndoLog(capacity int) repository.UndoRepository {
	if capacity <= 0 {
		capacity = DefaultUndoCapacity
	}
	return &undoLog{
		capacity: capacity,
		stack:    make([]*model.Record, 0, capacity),
	}
}

func (u *undoLog) Push(record *model.Record) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if len(u.stack) >= u.capacity {
		return errors.NewCapacityExceeded("undo log", u.capacity)
	}
	u.stack = append(u.stack, record)
	return nil
}

func (u *undoLog) Pop() (*model.Record, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	n := len(u.stack)
	if n == 0 {
		return nil, errors.NewEmptyCollection("undo log")
	}
	record := u.stack[n-1]
	u.stack[n-1] = nil
	u.stack = u.stack[:n-1]
	return record, nil
}

func (u *undoLog) Len() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.stack)
}

func (u *undoLog) Cap() int {
	return u.capacity
}
