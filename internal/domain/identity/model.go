package identity

import (
	"time"

	"github.com/google/uuid"
)

// Role discriminates the kinds of system users. A person's capabilities are
// decided by this tag, not by separate user types.
type Role string

const (
	RoleStudent      Role = "student"
	RoleProfessor    Role = "professor"
	RoleReceptionist Role = "receptionist"
	RoleAdmin        Role = "admin"
)

var validRoles = map[Role]bool{
	RoleStudent:      true,
	RoleProfessor:    true,
	RoleReceptionist: true,
	RoleAdmin:        true,
}

// Patient care statuses. A patient moves awaiting-triage -> triaged ->
// treatment-completed as triage and procedures are recorded.
const (
	PatientAwaitingTriage     = "awaiting-triage"
	PatientTriaged            = "triaged"
	PatientTreatmentCompleted = "treatment-completed"
)

var validPatientStatuses = map[string]bool{
	PatientAwaitingTriage:     true,
	PatientTriaged:            true,
	PatientTreatmentCompleted: true,
}

// Person maps to the person table.
type Person struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         Role       `db:"role" json:"role"`
	Registration *string    `db:"registration" json:"registration,omitempty"`
	Phone        *string    `db:"phone" json:"phone,omitempty"`
	ClinicID     *uuid.UUID `db:"clinic_id" json:"clinic_id,omitempty"`
	Active       bool       `db:"active" json:"active"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// IsStudent reports whether the person can be assigned appointments.
func (p *Person) IsStudent() bool {
	return p.Role == RoleStudent
}

// Patient maps to the patient table.
type Patient struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	CPF       string     `db:"cpf" json:"cpf"`
	Name      string     `db:"name" json:"name"`
	BirthDate *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Status    string     `db:"status" json:"status"`
	ClinicID  *uuid.UUID `db:"clinic_id" json:"clinic_id,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}
