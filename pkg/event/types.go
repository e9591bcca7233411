package event

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	PatientAdmitted           EventType = "patient.admitted"
	PatientAdmissionUndone    EventType = "patient.admission_undone"
	PatientDischarged         EventType = "patient.discharged"
	PatientEmergencyProcessed EventType = "patient.emergency_processed"
)

// Event describes a change to the registry. Payload is rendered as JSON by
// publishers.
type Event struct {
	ID         uuid.UUID   `json:"id"`
	Type       EventType   `json:"type"`
	PatientID  int         `json:"patient_id"`
	Payload    interface{} `json:"payload,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

func New(eventType EventType, patientID int, payload interface{}) Event {
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		PatientID:  patientID,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}

// Emitter accepts events without blocking the caller.
type Emitter interface {
	Emit(evt Event)
}

// NopEmitter discards every event.
type NopEmitter struct{}

func (NopEmitter) Emit(Event) {}
