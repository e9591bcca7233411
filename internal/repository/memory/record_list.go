package memory

import (
	"fmt"
	"sync"

	"github.com/jwalitptl/patient-registry/internal/model"
	"github.com/jwalitptl/patient-registry/internal/repository"
	"github.com/jwalitptl/patient-registry/pkg/errors"
)

type recordList struct {
	mu      sync.Mutex
	records []*model.Record
}

// NewRecordList returns an empty record list. Ids are not required to be
// unique.
func NewRecordList() repository.PatientRepository {
	return &recordList{}
}

func (l *recordList) Insert(record *model.Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, record)
}

func (l *recordList) Delete(id int) (*model.Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return nil, errors.NewNotFound(fmt.Sprintf("patient %d", id), nil)
	}
	record := l.records[i]
	copy(l.records[i:], l.records[i+1:])
	l.records[len(l.records)-1] = nil
	l.records = l.records[:len(l.records)-1]
	return record, nil
}

func (l *recordList) Find(id int) (*model.Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return nil, errors.NewNotFound(fmt.Sprintf("patient %d", id), nil)
	}
	return l.records[i], nil
}

// List returns a snapshot in insertion order. Mutating the returned slice
// does not affect the list.
func (l *recordList) List() []*model.Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*model.Record, len(l.records))
	copy(out, l.records)
	return out
}

func (l *recordList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

func (l *recordList) indexOf(id int) int {
	for i, r := range l.records {
		if r.ID() == id {
			return i
		}
	}
	return -1
}
