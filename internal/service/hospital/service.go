// Package hospital holds the registry context object: the record list, the
// undo log, the emergency queue, the billing polynomial and the inventory
// evaluator, owned by whichever shell drives them.
package hospital

import (
	"context"
	"fmt"
	"sync"

	"github.com/jwalitptl/patient-registry/internal/billing"
	"github.com/jwalitptl/patient-registry/internal/inventory"
	"github.com/jwalitptl/patient-registry/internal/model"
	"github.com/jwalitptl/patient-registry/internal/repository"
	"github.com/jwalitptl/patient-registry/pkg/event"
	"github.com/jwalitptl/patient-registry/pkg/logger"
	"github.com/jwalitptl/patient-registry/pkg/metrics"
)

type Service struct {
	// mu serializes operations that span the three record structures so no
	// caller sees a half-applied admission.
	mu        sync.Mutex
	patients  repository.PatientRepository
	undo      repository.UndoRepository
	emergency repository.EmergencyRepository
	bill      *billing.Polynomial
	inventory *inventory.CachedEvaluator

	events  event.Emitter
	logger  *logger.Logger
	metrics *metrics.Metrics
}

type Options struct {
	Events  event.Emitter
	Logger  *logger.Logger
	Metrics *metrics.Metrics
}

func NewService(
	patients repository.PatientRepository,
	undo repository.UndoRepository,
	emergency repository.EmergencyRepository,
	bill *billing.Polynomial,
	inv *inventory.CachedEvaluator,
	opts Options,
) *Service {
	if opts.Events == nil {
		opts.Events = event.NopEmitter{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Metrics == nil {
		panic("hospital: metrics are required")
	}

	s := &Service{
		patients:  patients,
		undo:      undo,
		emergency: emergency,
		bill:      bill,
		inventory: inv,
		events:    opts.Events,
		logger:    opts.Logger.WithFields(map[string]interface{}{"component": "hospital"}),
		metrics:   opts.Metrics,
	}
	s.updateGauges()
	return s
}

// Admit records a new patient in the list, the undo log and the emergency
// queue. The undo log is checked first; when it is full nothing is stored.
func (s *Service) Admit(ctx context.Context, id int, name, admissionDate, treatmentDetails string) (*model.Record, error) {
	record := model.NewRecord(id, name, admissionDate, treatmentDetails)

	s.mu.Lock()
	err := s.undo.Push(record)
	if err == nil {
		s.patients.Insert(record)
		s.emergency.Enqueue(record)
	}
	s.updateGauges()
	s.mu.Unlock()

	s.metrics.ObserveOperation("admit", err)
	log := s.logger.WithContext(ctx)
	if err != nil {
		log.Error(err, "Failed to admit patient", "patient_id", id)
		return nil, fmt.Errorf("failed to admit patient %d: %w", id, err)
	}

	log.Info("Patient admitted", "patient_id", id, "priority", record.Priority())
	s.events.Emit(event.New(event.PatientAdmitted, id, record))
	return record, nil
}

// UndoLastAdmission pops the most recent admission and removes the first
// record with its id from the list. The emergency queue is not touched.
func (s *Service) UndoLastAdmission(ctx context.Context) (*model.Record, error) {
	log := s.logger.WithContext(ctx)

	s.mu.Lock()
	record, err := s.undo.Pop()
	var listErr error
	if err == nil {
		_, listErr = s.patients.Delete(record.ID())
	}
	s.updateGauges()
	s.mu.Unlock()

	s.metrics.ObserveOperation("undo", err)
	if err != nil {
		log.Debug("Nothing to undo")
		return nil, err
	}
	if listErr != nil {
		log.Warn("Undone admission was no longer in the patient list", "patient_id", record.ID())
	}

	log.Info("Admission undone", "patient_id", record.ID())
	s.events.Emit(event.New(event.PatientAdmissionUndone, record.ID(), record))
	return record, nil
}

// ProcessEmergency removes and returns the patient with the shortest
// treatment details, earliest admission first among equals.
func (s *Service) ProcessEmergency(ctx context.Context) (*model.Record, error) {
	s.mu.Lock()
	record, err := s.emergency.Dequeue()
	s.updateGauges()
	s.mu.Unlock()

	s.metrics.ObserveOperation("process_emergency", err)
	if err != nil {
		return nil, err
	}

	s.logger.WithContext(ctx).Info("Emergency patient processed", "patient_id", record.ID())
	s.events.Emit(event.New(event.PatientEmergencyProcessed, record.ID(), record))
	return record, nil
}

// PeekEmergency returns the next emergency patient without removing it.
func (s *Service) PeekEmergency(ctx context.Context) (*model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.emergency.Peek()
	s.metrics.ObserveOperation("peek_emergency", err)
	return record, err
}

func (s *Service) FindPatient(ctx context.Context, id int) (*model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.patients.Find(id)
	s.metrics.ObserveOperation("find", err)
	return record, err
}

// DischargePatient removes the first record with id from the patient list.
func (s *Service) DischargePatient(ctx context.Context, id int) (*model.Record, error) {
	s.mu.Lock()
	record, err := s.patients.Delete(id)
	s.updateGauges()
	s.mu.Unlock()

	s.metrics.ObserveOperation("discharge", err)
	if err != nil {
		return nil, err
	}

	s.logger.WithContext(ctx).Info("Patient discharged", "patient_id", id)
	s.events.Emit(event.New(event.PatientDischarged, id, record))
	return record, nil
}

// ListPatients returns the patient list in admission order.
func (s *Service) ListPatients(ctx context.Context) []*model.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.ObserveOperation("list", nil)
	return s.patients.List()
}

type Stats struct {
	Patients       int `json:"patients"`
	UndoDepth      int `json:"undo_depth"`
	UndoCapacity   int `json:"undo_capacity"`
	EmergencyQueue int `json:"emergency_queue"`
	BillingTerms   int `json:"billing_terms"`
	CachedResults  int `json:"cached_inventory_results"`
}

func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		Patients:       s.patients.Len(),
		UndoDepth:      s.undo.Len(),
		UndoCapacity:   s.undo.Cap(),
		EmergencyQueue: s.emergency.Len(),
		BillingTerms:   s.bill.Len(),
		CachedResults:  s.inventory.Len(),
	}
}

// updateGauges must be called with s.mu held.
func (s *Service) updateGauges() {
	s.metrics.CollectionSize.WithLabelValues("patients").Set(float64(s.patients.Len()))
	s.metrics.CollectionSize.WithLabelValues("undo_log").Set(float64(s.undo.Len()))
	s.metrics.CollectionSize.WithLabelValues("emergency_queue").Set(float64(s.emergency.Len()))
}
