package scheduling

import (
	"context"
	"strings"
	"time"

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
	appointments AppointmentRepository
	people       identity.PersonRepository
	patients     identity.PatientRepository
	cal          *Calendar
	tx           TxRunner
	now          func() time.Time
}

func NewService(appts AppointmentRepository, people identity.PersonRepository, patients identity.PatientRepository, cal *Calendar, tx TxRunner) *Service {
	return &Service{
		appointments: appts,
		people:       people,
		patients:     patients,
		cal:          cal,
		tx:           tx,
		now:          time.Now,
	}
}

// Schedule books an appointment. Checks run in a fixed order and the first
// failure wins, so callers always see the most fundamental problem first.
func (s *Service) Schedule(ctx context.Context, in ScheduleInput) (*Summary, error) {
	student, err := s.people.GetByID(ctx, in.StudentID)
	if err != nil {
		if clinerr.IsKind(err, clinerr.KindNotFound) {
			return nil, clinerr.NotFound("student not found")
		}
		return nil, err
	}
	if !student.IsStudent() {
		return nil, clinerr.PolicyViolation("user is not a student")
	}

	patient, err := s.patients.GetByID(ctx, in.PatientID)
	if err != nil {
		return nil, err
	}

	if !SameClinic(student.ClinicID, patient.ClinicID) {
		return nil, clinerr.PolicyViolation("patient does not belong to the student's clinic")
	}

	if !in.ScheduledAt.After(s.now()) {
		return nil, clinerr.PolicyViolation("cannot schedule in the past")
	}
	if !s.cal.IsWorkingDay(in.ScheduledAt) {
		return nil, clinerr.PolicyViolation("appointments are limited to business days (Monday to Friday)")
	}
	if !s.cal.IsWithinBusinessHours(in.ScheduledAt) {
		return nil, clinerr.PolicyViolation("appointments are limited to business hours (08:00 to 18:00)")
	}

	dayStart, dayEnd := s.cal.DayBounds(in.ScheduledAt)
	taken, err := s.appointments.PatientHasAppointmentBetween(ctx, patient.ID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, clinerr.Conflict("patient already has an appointment on %s", dayStart.Format("02/01/2006"))
	}

	studentBusy, patientBusy, err := s.appointments.BusyAt(ctx, student.ID, patient.ID, in.ScheduledAt)
	if err != nil {
		return nil, err
	}
	switch {
	case studentBusy && patientBusy:
		return nil, clinerr.Conflict("student and patient already have appointments at this time")
	case studentBusy:
		return nil, clinerr.Conflict("student already has an appointment at this time")
	case patientBusy:
		return nil, clinerr.Conflict("patient already has an appointment at this time")
	}

	status := in.Status
	if status == "" {
		status = StatusScheduled
	}
	if !validStatuses[status] {
		return nil, clinerr.Validation("invalid appointment status: %s", status)
	}
	kind := strings.TrimSpace(in.Kind)
	if kind == "" {
		kind = DefaultKind
	}

	appt := &Appointment{
		StudentID:   &student.ID,
		PatientID:   &patient.ID,
		ScheduledAt: in.ScheduledAt,
		Status:      status,
		Kind:        kind,
	}
	if err := s.appointments.Create(ctx, appt); err != nil {
		return nil, err
	}

	return &Summary{
		Appointment: *appt,
		StudentName: &student.Name,
		PatientName: &patient.Name,
	}, nil
}

// ListAvailableSlots returns the open slot labels for a day. Non-working days
// yield an empty list, not an error. When studentID is given, slots already
// booked by that student are removed.
func (s *Service) ListAvailableSlots(ctx context.Context, day time.Time, studentID *uuid.UUID) ([]string, error) {
	slots := s.cal.AvailableSlots(day)
	if len(slots) == 0 {
		return []string{}, nil
	}
	if studentID == nil {
		return slots, nil
	}

	dayStart, dayEnd := s.cal.DayBounds(day)
	booked, err := s.appointments.ListByStudentBetween(ctx, *studentID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	occupied := make(map[string]bool, len(booked))
	for _, a := range booked {
		occupied[s.cal.SlotKey(a.ScheduledAt)] = true
	}

	open := make([]string, 0, len(slots))
	for _, slot := range slots {
		if !occupied[slot] {
			open = append(open, slot)
		}
	}
	return open, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

func (s *Service) ListByStudent(ctx context.Context, studentID uuid.UUID, status string, limit, offset int) ([]*Summary, int, error) {
	if status != "" && !validStatuses[status] {
		return nil, 0, clinerr.Validation("invalid appointment status: %s", status)
	}
	return s.appointments.ListByStudent(ctx, studentID, status, limit, offset)
}

// RegisterProcedures records what was done in a scheduled appointment and
// closes it. The read, the appointment update, and the patient status change
// run in one transaction; the repository's status predicate makes the second
// of two concurrent completions fail rather than re-apply.
func (s *Service) RegisterProcedures(ctx context.Context, id uuid.UUID, procedures, notes string) (*Appointment, error) {
	var appt *Appointment
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		appt, err = s.appointments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if appt.Status != StatusScheduled {
			return clinerr.PolicyViolation("only scheduled appointments can receive procedures")
		}

		procedures = strings.TrimSpace(procedures)
		if procedures == "" {
			return clinerr.Validation("procedures description is required")
		}
		notes = strings.TrimSpace(notes)

		appt.Status = StatusCompleted
		appt.Procedures = &procedures
		if notes != "" {
			appt.Notes = &notes
		}

		if err := s.appointments.Complete(ctx, appt); err != nil {
			return err
		}
		if appt.PatientID != nil {
			return s.patients.UpdateStatus(ctx, *appt.PatientID, identity.PatientTreatmentCompleted)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}
