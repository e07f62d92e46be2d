package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinisys/clinisys/internal/platform/clinerr"
)

// -- Mocks --

type mockPersonRepo struct {
	people map[uuid.UUID]*Person
}

func newMockPersonRepo() *mockPersonRepo {
	return &mockPersonRepo{people: make(map[uuid.UUID]*Person)}
}

func (m *mockPersonRepo) Create(_ context.Context, p *Person) error {
	for _, existing := range m.people {
		if existing.Email == p.Email {
			return clinerr.Conflict("a person with this email or registration already exists")
		}
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	m.people[p.ID] = p
	return nil
}

func (m *mockPersonRepo) GetByID(_ context.Context, id uuid.UUID) (*Person, error) {
	p, ok := m.people[id]
	if !ok {
		return nil, clinerr.NotFound("person not found")
	}
	return p, nil
}

func (m *mockPersonRepo) GetByEmail(_ context.Context, email string) (*Person, error) {
	for _, p := range m.people {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, clinerr.NotFound("person not found")
}

func (m *mockPersonRepo) Update(_ context.Context, p *Person) error {
	if _, ok := m.people[p.ID]; !ok {
		return clinerr.NotFound("person not found")
	}
	m.people[p.ID] = p
	return nil
}

func (m *mockPersonRepo) List(_ context.Context, role Role, limit, offset int) ([]*Person, int, error) {
	var out []*Person
	for _, p := range m.people {
		if role == "" || p.Role == role {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

type mockPatientRepo struct {
	patients map[uuid.UUID]*Patient
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockPatientRepo) Create(_ context.Context, p *Patient) error {
	for _, existing := range m.patients {
		if existing.CPF == p.CPF {
			return clinerr.Conflict("a patient with this CPF already exists")
		}
	}
	p.ID = uuid.New()
	if p.Status == "" {
		p.Status = PatientAwaitingTriage
	}
	p.CreatedAt = time.Now()
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, clinerr.NotFound("patient not found")
	}
	return p, nil
}

func (m *mockPatientRepo) GetByCPF(_ context.Context, cpf string) (*Patient, error) {
	for _, p := range m.patients {
		if p.CPF == cpf {
			return p, nil
		}
	}
	return nil, clinerr.NotFound("patient not found")
}

func (m *mockPatientRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return clinerr.NotFound("patient not found")
	}
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	p, ok := m.patients[id]
	if !ok {
		return clinerr.NotFound("patient not found")
	}
	p.Status = status
	return nil
}

func (m *mockPatientRepo) List(_ context.Context, status string, limit, offset int) ([]*Patient, int, error) {
	var out []*Patient
	for _, p := range m.patients {
		if status == "" || p.Status == status {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

// -- Tests --

func TestCreatePerson_Student(t *testing.T) {
	svc := NewService(newMockPersonRepo(), newMockPatientRepo())
	reg := "20230001"

	p := &Person{Name: "João Silva", Email: "joao@clinic.edu", Role: RoleStudent, Registration: &reg}
	if err := svc.CreatePerson(context.Background(), p, "secret123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.ID == uuid.Nil {
		t.Error("expected generated id")
	}
	if p.PasswordHash == "" || p.PasswordHash == "secret123" {
		t.Error("expected password to be hashed")
	}
	if !p.Active {
		t.Error("expected new person to be active")
	}
}

func TestCreatePerson_StudentRequiresRegistration(t *testing.T) {
	svc := NewService(newMockPersonRepo(), newMockPatientRepo())

	p := &Person{Name: "João", Email: "joao@clinic.edu", Role: RoleStudent}
	err := svc.CreatePerson(context.Background(), p, "secret123")
	if !clinerr.IsKind(err, clinerr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreatePerson_InvalidRole(t *testing.T) {
	svc := NewService(newMockPersonRepo(), newMockPatientRepo())

	p := &Person{Name: "X", Email: "x@clinic.edu", Role: "janitor"}
	err := svc.CreatePerson(context.Background(), p, "secret123")
	if !clinerr.IsKind(err, clinerr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreatePerson_ShortPassword(t *testing.T) {
	svc := NewService(newMockPersonRepo(), newMockPatientRepo())

	p := &Person{Name: "X", Email: "x@clinic.edu", Role: RoleReceptionist}
	err := svc.CreatePerson(context.Background(), p, "123")
	if !clinerr.IsKind(err, clinerr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	people := newMockPersonRepo()
	svc := NewService(people, newMockPatientRepo())

	p := &Person{Name: "Maria", Email: "maria@clinic.edu", Role: RoleReceptionist}
	if err := svc.CreatePerson(context.Background(), p, "secret123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Authenticate(context.Background(), "maria@clinic.edu", "secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != p.ID {
		t.Errorf("expected person %s, got %s", p.ID, got.ID)
	}

	if _, err := svc.Authenticate(context.Background(), "maria@clinic.edu", "wrong"); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "nobody@clinic.edu", "secret123"); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestAuthenticate_InactiveUser(t *testing.T) {
	people := newMockPersonRepo()
	svc := NewService(people, newMockPatientRepo())

	p := &Person{Name: "Maria", Email: "maria@clinic.edu", Role: RoleReceptionist}
	if err := svc.CreatePerson(context.Background(), p, "secret123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.Active = false

	if _, err := svc.Authenticate(context.Background(), "maria@clinic.edu", "secret123"); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials for inactive user, got %v", err)
	}
}

func TestCreatePatient(t *testing.T) {
	svc := NewService(newMockPersonRepo(), newMockPatientRepo())

	p := &Patient{Name: "Carlos Lima", CPF: "12345678901"}
	if err := svc.CreatePatient(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != PatientAwaitingTriage {
		t.Errorf("expected default status %s, got %s", PatientAwaitingTriage, p.Status)
	}
}

func TestCreatePatient_InvalidCPF(t *testing.T) {
	svc := NewService(newMockPersonRepo(), newMockPatientRepo())

	cases := []string{"", "123", "1234567890a", "123456789012"}
	for _, cpf := range cases {
		err := svc.CreatePatient(context.Background(), &Patient{Name: "X", CPF: cpf})
		if !clinerr.IsKind(err, clinerr.KindValidation) {
			t.Errorf("cpf %q: expected validation error, got %v", cpf, err)
		}
	}
}

func TestCreatePatient_DuplicateCPF(t *testing.T) {
	svc := NewService(newMockPersonRepo(), newMockPatientRepo())

	if err := svc.CreatePatient(context.Background(), &Patient{Name: "A", CPF: "12345678901"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := svc.CreatePatient(context.Background(), &Patient{Name: "B", CPF: "12345678901"})
	if !clinerr.IsKind(err, clinerr.KindConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestGetPatientByCPF(t *testing.T) {
	svc := NewService(newMockPersonRepo(), newMockPatientRepo())

	p := &Patient{Name: "Carlos", CPF: "12345678901"}
	if err := svc.CreatePatient(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.GetPatientByCPF(context.Background(), "12345678901")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != p.ID {
		t.Errorf("expected patient %s, got %s", p.ID, got.ID)
	}

	if _, err := svc.GetPatientByCPF(context.Background(), "99999999999"); !clinerr.IsKind(err, clinerr.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestListPatients_InvalidStatus(t *testing.T) {
	svc := NewService(newMockPersonRepo(), newMockPatientRepo())

	_, _, err := svc.ListPatients(context.Background(), "discharged", 20, 0)
	if !clinerr.IsKind(err, clinerr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
