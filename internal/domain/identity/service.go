package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinisys/clinisys/internal/platform/clinerr"
)

// ErrInvalidCredentials is returned by Authenticate when the email is unknown
// or the password does not match. Handlers map it to 401.
var ErrInvalidCredentials = errors.New("invalid email or password")

type Service struct {
	people   PersonRepository
	patients PatientRepository
}

func NewService(people PersonRepository, patients PatientRepository) *Service {
	return &Service{people: people, patients: patients}
}

// -- People --

func (s *Service) CreatePerson(ctx context.Context, p *Person, password string) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))

	if p.Name == "" {
		return clinerr.Validation("name is required")
	}
	if p.Email == "" || !strings.Contains(p.Email, "@") {
		return clinerr.Validation("a valid email is required")
	}
	if !validRoles[p.Role] {
		return clinerr.Validation("invalid role: %s", p.Role)
	}
	if p.Role == RoleStudent && (p.Registration == nil || strings.TrimSpace(*p.Registration) == "") {
		return clinerr.Validation("registration number is required for students")
	}
	if len(password) < 6 {
		return clinerr.Validation("password must have at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.PasswordHash = string(hash)
	p.Active = true

	return s.people.Create(ctx, p)
}

func (s *Service) GetPerson(ctx context.Context, id uuid.UUID) (*Person, error) {
	return s.people.GetByID(ctx, id)
}

func (s *Service) ListPeople(ctx context.Context, role Role, limit, offset int) ([]*Person, int, error) {
	if role != "" && !validRoles[role] {
		return nil, 0, clinerr.Validation("invalid role: %s", role)
	}
	return s.people.List(ctx, role, limit, offset)
}

// Authenticate verifies a login attempt. Unknown emails and wrong passwords
// produce the same error so the response does not reveal which one failed.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Person, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	p, err := s.people.GetByEmail(ctx, email)
	if err != nil {
		if clinerr.IsKind(err, clinerr.KindNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !p.Active {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return p, nil
}

// -- Patients --

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	p.Name = strings.TrimSpace(p.Name)
	p.CPF = strings.TrimSpace(p.CPF)

	if p.Name == "" {
		return clinerr.Validation("name is required")
	}
	if !isCPF(p.CPF) {
		return clinerr.Validation("CPF must have exactly 11 digits")
	}
	if p.Status == "" {
		p.Status = PatientAwaitingTriage
	}
	if !validPatientStatuses[p.Status] {
		return clinerr.Validation("invalid patient status: %s", p.Status)
	}

	return s.patients.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) GetPatientByCPF(ctx context.Context, cpf string) (*Patient, error) {
	cpf = strings.TrimSpace(cpf)
	if !isCPF(cpf) {
		return nil, clinerr.Validation("CPF must have exactly 11 digits")
	}
	return s.patients.GetByCPF(ctx, cpf)
}

func (s *Service) ListPatients(ctx context.Context, status string, limit, offset int) ([]*Patient, int, error) {
	if status != "" && !validPatientStatuses[status] {
		return nil, 0, clinerr.Validation("invalid patient status: %s", status)
	}
	return s.patients.List(ctx, status, limit, offset)
}

func isCPF(s string) bool {
	if len(s) != 11 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
