package triage

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinisys/clinisys/internal/domain/identity"
)

// Priorities assigned at triage. They drive the ready-queue ordering.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

var validPriorities = map[string]bool{
	PriorityHigh:   true,
	PriorityMedium: true,
	PriorityLow:    true,
}

// Record maps to the triage_record table. Records are immutable: a re-triage
// inserts a new row and the latest one wins.
type Record struct {
	ID               uuid.UUID `db:"id" json:"id"`
	PatientID        uuid.UUID `db:"patient_id" json:"patient_id"`
	ChiefComplaint   string    `db:"chief_complaint" json:"chief_complaint"`
	History          *string   `db:"history" json:"history,omitempty"`
	Medications      *string   `db:"medications" json:"medications,omitempty"`
	Allergies        *string   `db:"allergies" json:"allergies,omitempty"`
	BloodPressure    *string   `db:"blood_pressure" json:"blood_pressure,omitempty"`
	HeartRate        *int      `db:"heart_rate" json:"heart_rate,omitempty"`
	RespiratoryRate  *int      `db:"respiratory_rate" json:"respiratory_rate,omitempty"`
	Temperature      *float64  `db:"temperature" json:"temperature,omitempty"`
	OxygenSaturation *float64  `db:"oxygen_saturation" json:"oxygen_saturation,omitempty"`
	PainScale        *int      `db:"pain_scale" json:"pain_scale,omitempty"`
	Priority         string    `db:"priority" json:"priority"`
	Symptoms         []string  `db:"symptoms" json:"symptoms,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// PendingEntry is a patient waiting for triage, with the arrival instant that
// defines their place in line.
type PendingEntry struct {
	Patient   *identity.Patient `json:"patient"`
	ArrivedAt time.Time         `json:"arrived_at"`
}

// ReadyEntry is a triaged patient paired with the record that classified them.
type ReadyEntry struct {
	Patient *identity.Patient `json:"patient"`
	Triage  *Record           `json:"triage"`
}
