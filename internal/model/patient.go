package model

import (
	"encoding/json"
	"unicode/utf8"
)

// Record is a patient entry. Its fields are fixed once NewRecord returns;
// structures that hold a record share the same *Record.
type Record struct {
	id               int
	name             string
	admissionDate    string
	treatmentDetails string
}

func NewRecord(id int, name, admissionDate, treatmentDetails string) *Record {
	return &Record{
		id:               id,
		name:             name,
		admissionDate:    admissionDate,
		treatmentDetails: treatmentDetails,
	}
}

func (r *Record) ID() int                  { return r.id }
func (r *Record) Name() string             { return r.name }
func (r *Record) AdmissionDate() string    { return r.admissionDate }
func (r *Record) TreatmentDetails() string { return r.treatmentDetails }

// Priority is the emergency sort key: the character length of the treatment
// details in runes. Lower values are served first. Text outside the Basic
// Multilingual Plane, such as emoji, counts one per rune here where a UTF-16
// length would count two.
func (r *Record) Priority() int {
	return utf8.RuneCountInString(r.treatmentDetails)
}

type recordJSON struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	AdmissionDate    string `json:"admission_date"`
	TreatmentDetails string `json:"treatment_details"`
}

func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		ID:               r.id,
		Name:             r.name,
		AdmissionDate:    r.admissionDate,
		TreatmentDetails: r.treatmentDetails,
	})
}

type AdmitPatientRequest struct {
	ID               *int   `json:"id" binding:"required"`
	Name             string `json:"name" binding:"required,notblank"`
	AdmissionDate    string `json:"admission_date"`
	TreatmentDetails string `json:"treatment_details"`
}
