package triage

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/clinisys/clinisys/internal/domain/identity"
	"github.com/clinisys/clinisys/internal/platform/clinerr"
)

// TxRunner runs a function atomically. Calls made with the context it passes
// to fn share one transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Service struct {
	records  Repository
	patients identity.PatientRepository
	tx       TxRunner
}

func NewService(records Repository, patients identity.PatientRepository, tx TxRunner) *Service {
	return &Service{records: records, patients: patients, tx: tx}
}

// RecordInput carries a triage submission. Vital signs are optional but
// range-checked when present; an out-of-range value rejects the whole
// submission rather than saving a partial record.
type RecordInput struct {
	PatientID        uuid.UUID `json:"patient_id"`
	ChiefComplaint   string    `json:"chief_complaint"`
	History          *string   `json:"history"`
	Medications      *string   `json:"medications"`
	Allergies        *string   `json:"allergies"`
	BloodPressure    *string   `json:"blood_pressure"`
	HeartRate        *int      `json:"heart_rate"`
	RespiratoryRate  *int      `json:"respiratory_rate"`
	Temperature      *float64  `json:"temperature"`
	OxygenSaturation *float64  `json:"oxygen_saturation"`
	PainScale        *int      `json:"pain_scale"`
	Priority         string    `json:"priority"`
	Symptoms         []string  `json:"symptoms"`
}

// RecordTriage validates and stores a triage assessment, then moves the
// patient to the triaged status. The insert and the status change happen in
// one transaction.
func (s *Service) RecordTriage(ctx context.Context, in RecordInput) (uuid.UUID, error) {
	if err := validateInput(&in); err != nil {
		return uuid.Nil, err
	}

	if _, err := s.patients.GetByID(ctx, in.PatientID); err != nil {
		return uuid.Nil, err
	}

	// The symptoms column is NOT NULL; an omitted list stores as empty.
	if in.Symptoms == nil {
		in.Symptoms = []string{}
	}

	rec := &Record{
		PatientID:        in.PatientID,
		ChiefComplaint:   strings.TrimSpace(in.ChiefComplaint),
		History:          in.History,
		Medications:      in.Medications,
		Allergies:        in.Allergies,
		BloodPressure:    in.BloodPressure,
		HeartRate:        in.HeartRate,
		RespiratoryRate:  in.RespiratoryRate,
		Temperature:      in.Temperature,
		OxygenSaturation: in.OxygenSaturation,
		PainScale:        in.PainScale,
		Priority:         in.Priority,
		Symptoms:         in.Symptoms,
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.records.Create(ctx, rec); err != nil {
			return err
		}
		return s.patients.UpdateStatus(ctx, in.PatientID, identity.PatientTriaged)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return rec.ID, nil
}

func (s *Service) PendingQueue(ctx context.Context) ([]*PendingEntry, error) {
	return s.records.PendingQueue(ctx)
}

func (s *Service) ReadyQueue(ctx context.Context) ([]*ReadyEntry, error) {
	return s.records.ReadyQueue(ctx)
}

// LatestForPatient returns the most recent triage record, used by the
// re-triage view to pre-fill the previous assessment.
func (s *Service) LatestForPatient(ctx context.Context, patientID uuid.UUID) (*Record, error) {
	return s.records.LatestByPatient(ctx, patientID)
}

func validateInput(in *RecordInput) error {
	if len(strings.TrimSpace(in.ChiefComplaint)) < 10 {
		return clinerr.Validation("chief complaint must have at least 10 characters")
	}
	if !validPriorities[in.Priority] {
		return clinerr.Validation("priority must be one of: high, medium, low")
	}
	if in.BloodPressure != nil {
		if err := validateBloodPressure(*in.BloodPressure); err != nil {
			return err
		}
	}
	if in.HeartRate != nil && (*in.HeartRate < 40 || *in.HeartRate > 200) {
		return clinerr.Validation("heart rate must be between 40 and 200 bpm")
	}
	if in.RespiratoryRate != nil && (*in.RespiratoryRate < 10 || *in.RespiratoryRate > 40) {
		return clinerr.Validation("respiratory rate must be between 10 and 40 breaths per minute")
	}
	if in.Temperature != nil && (*in.Temperature < 35.0 || *in.Temperature > 42.0) {
		return clinerr.Validation("temperature must be between 35.0 and 42.0 degrees Celsius")
	}
	if in.OxygenSaturation != nil && (*in.OxygenSaturation < 0 || *in.OxygenSaturation > 100) {
		return clinerr.Validation("oxygen saturation must be between 0 and 100 percent")
	}
	if in.PainScale != nil && (*in.PainScale < 0 || *in.PainScale > 10) {
		return clinerr.Validation("pain scale must be between 0 and 10")
	}
	return nil
}

func validateBloodPressure(bp string) error {
	parts := strings.SplitN(strings.TrimSpace(bp), "/", 2)
	if len(parts) != 2 {
		return clinerr.Validation("blood pressure must be in the systolic/diastolic format, e.g. 120/80")
	}
	sys, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return clinerr.Validation("blood pressure must be in the systolic/diastolic format, e.g. 120/80")
	}
	dia, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return clinerr.Validation("blood pressure must be in the systolic/diastolic format, e.g. 120/80")
	}
	if sys < 60 || sys > 300 {
		return clinerr.Validation("systolic pressure %d is outside the 60-300 range", sys)
	}
	if dia < 40 || dia > 200 {
		return clinerr.Validation("diastolic pressure %d is outside the 40-200 range", dia)
	}
	return nil
}
