package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses. There is no cancelled state: an appointment either
// waits for its procedures or has received them.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
)

var validStatuses = map[string]bool{
	StatusScheduled: true,
	StatusCompleted: true,
}

// DefaultKind is used when a booking does not name the appointment type.
const DefaultKind = "Consulta Odontológica"

// Appointment maps to the appointment table. Student and patient references
// are nullable because deleting either person keeps the historical record.
type Appointment struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	StudentID   *uuid.UUID `db:"student_id" json:"student_id,omitempty"`
	PatientID   *uuid.UUID `db:"patient_id" json:"patient_id,omitempty"`
	ScheduledAt time.Time  `db:"scheduled_at" json:"scheduled_at"`
	Status      string     `db:"status" json:"status"`
	Kind        string     `db:"kind" json:"kind"`
	Procedures  *string    `db:"procedures" json:"procedures,omitempty"`
	Notes       *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// Summary is an appointment joined with the names of its participants, the
// shape the booking and worklist screens consume.
type Summary struct {
	Appointment
	StudentName *string `db:"student_name" json:"student_name,omitempty"`
	PatientName *string `db:"patient_name" json:"patient_name,omitempty"`
}

// ScheduleInput carries a booking request into the service.
type ScheduleInput struct {
	StudentID   uuid.UUID `json:"student_id"`
	PatientID   uuid.UUID `json:"patient_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Kind        string    `json:"kind"`
	Status      string    `json:"status"`
}
