package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinisys/clinisys/internal/platform/clinerr"
	"github.com/clinisys/clinisys/internal/platform/db"
)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// -- Person Repository --

type personRepoPG struct {
	pool *pgxpool.Pool
}

func NewPersonRepo(pool *pgxpool.Pool) PersonRepository {
	return &personRepoPG{pool: pool}
}

func (r *personRepoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const personCols = `id, name, email, password_hash, role, registration, phone, clinic_id, active, created_at, updated_at`

func (r *personRepoPG) Create(ctx context.Context, p *Person) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO person (id, name, email, password_hash, role, registration, phone, clinic_id, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		p.ID, p.Name, p.Email, p.PasswordHash, p.Role, p.Registration, p.Phone, p.ClinicID, p.Active,
	)
	if db.IsUniqueViolation(err) {
		return clinerr.Conflict("a person with this email or registration already exists")
	}
	return err
}

func (r *personRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Person, error) {
	p, err := scanPerson(r.conn(ctx).QueryRow(ctx, `SELECT `+personCols+` FROM person WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, clinerr.NotFound("person not found")
	}
	return p, err
}

func (r *personRepoPG) GetByEmail(ctx context.Context, email string) (*Person, error) {
	p, err := scanPerson(r.conn(ctx).QueryRow(ctx, `SELECT `+personCols+` FROM person WHERE email = $1`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, clinerr.NotFound("person not found")
	}
	return p, err
}

func (r *personRepoPG) Update(ctx context.Context, p *Person) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE person
		SET name = $2, email = $3, password_hash = $4, role = $5, registration = $6,
		    phone = $7, clinic_id = $8, active = $9, updated_at = NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.Email, p.PasswordHash, p.Role, p.Registration, p.Phone, p.ClinicID, p.Active,
	)
	if db.IsUniqueViolation(err) {
		return clinerr.Conflict("a person with this email or registration already exists")
	}
	return err
}

func (r *personRepoPG) List(ctx context.Context, role Role, limit, offset int) ([]*Person, int, error) {
	where := ""
	args := []any{}
	if role != "" {
		where = " WHERE role = $1"
		args = append(args, role)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM person`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM person%s ORDER BY name LIMIT $%d OFFSET $%d`, personCols, where, n+1, n+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var people []*Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, 0, err
		}
		people = append(people, p)
	}
	return people, total, rows.Err()
}

func scanPerson(row pgx.Row) (*Person, error) {
	p := &Person{}
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.PasswordHash, &p.Role, &p.Registration,
		&p.Phone, &p.ClinicID, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// -- Patient Repository --

type patientRepoPG struct {
	pool *pgxpool.Pool
}

func NewPatientRepo(pool *pgxpool.Pool) PatientRepository {
	return &patientRepoPG{pool: pool}
}

func (r *patientRepoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const patientCols = `id, cpf, name, birth_date, status, clinic_id, created_at, updated_at`

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	if p.Status == "" {
		p.Status = PatientAwaitingTriage
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient (id, cpf, name, birth_date, status, clinic_id)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		p.ID, p.CPF, p.Name, p.BirthDate, p.Status, p.ClinicID,
	)
	if db.IsUniqueViolation(err) {
		return clinerr.Conflict("a patient with this CPF already exists")
	}
	return err
}

func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, clinerr.NotFound("patient not found")
	}
	return p, err
}

func (r *patientRepoPG) GetByCPF(ctx context.Context, cpf string) (*Patient, error) {
	p, err := scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE cpf = $1`, cpf))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, clinerr.NotFound("patient not found")
	}
	return p, err
}

func (r *patientRepoPG) Update(ctx context.Context, p *Patient) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient
		SET cpf = $2, name = $3, birth_date = $4, status = $5, clinic_id = $6, updated_at = NOW()
		WHERE id = $1`,
		p.ID, p.CPF, p.Name, p.BirthDate, p.Status, p.ClinicID,
	)
	if db.IsUniqueViolation(err) {
		return clinerr.Conflict("a patient with this CPF already exists")
	}
	return err
}

func (r *patientRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE patient SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return clinerr.NotFound("patient not found")
	}
	return nil
}

func (r *patientRepoPG) List(ctx context.Context, status string, limit, offset int) ([]*Patient, int, error) {
	where := ""
	args := []any{}
	if status != "" {
		where = " WHERE status = $1"
		args = append(args, status)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patient`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM patient%s ORDER BY name LIMIT $%d OFFSET $%d`, patientCols, where, n+1, n+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		patients = append(patients, p)
	}
	return patients, total, rows.Err()
}

func scanPatient(row pgx.Row) (*Patient, error) {
	p := &Patient{}
	err := row.Scan(&p.ID, &p.CPF, &p.Name, &p.BirthDate, &p.Status, &p.ClinicID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}
