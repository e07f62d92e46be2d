package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// Complete writes the outcome fields of a scheduled appointment. The
	// stored row must still be in the scheduled status; a concurrent
	// completion makes the second writer fail instead of re-applying.
	Complete(ctx context.Context, a *Appointment) error

	// BusyAt reports whether the student and/or the patient already have an
	// appointment at exactly the given instant, regardless of status.
	BusyAt(ctx context.Context, studentID, patientID uuid.UUID, at time.Time) (studentBusy, patientBusy bool, err error)

	// PatientHasAppointmentBetween reports whether the patient has any
	// appointment, regardless of status, inside [from, to).
	PatientHasAppointmentBetween(ctx context.Context, patientID uuid.UUID, from, to time.Time) (bool, error)

	// ListByStudentBetween returns the student's appointments inside
	// [from, to), ordered by time.
	ListByStudentBetween(ctx context.Context, studentID uuid.UUID, from, to time.Time) ([]*Appointment, error)

	// ListByStudent returns the student's appointments with participant
	// names, optionally filtered by status, newest bookings first for
	// completed and soonest first for scheduled.
	ListByStudent(ctx context.Context, studentID uuid.UUID, status string, limit, offset int) ([]*Summary, int, error)
}
