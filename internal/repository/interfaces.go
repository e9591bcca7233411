package repository

import (
	"github.com/jwalitptl/patient-registry/internal/model"
)

// All repository interfaces in one file
type (
	// PatientRepository is the ordered record list. Lookups and deletes
	// match the first record with the given id in insertion order.
	PatientRepository interface {
		Insert(record *model.Record)
		Delete(id int) (*model.Record, error)
		Find(id int) (*model.Record, error)
		List() []*model.Record
		Len() int
	}

	// UndoRepository is the bounded admission log, last in first out.
	UndoRepository interface {
		Push(record *model.Record) error
		Pop() (*model.Record, error)
		Len() int
		Cap() int
	}

	// EmergencyRepository hands out records shortest treatment first.
	EmergencyRepository interface {
		Enqueue(record *model.Record)
		Dequeue() (*model.Record, error)
		Peek() (*model.Record, error)
		Len() int
	}
)
