package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinisys/clinisys/internal/platform/clinerr"
	"github.com/clinisys/clinisys/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type appointmentRepoPG struct {
	pool *pgxpool.Pool
}

func NewAppointmentRepo(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepoPG{pool: pool}
}

func (r *appointmentRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const apptCols = `id, student_id, patient_id, scheduled_at, status, kind, procedures, notes, created_at, updated_at`

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointment (id, student_id, patient_id, scheduled_at, status, kind, procedures, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.StudentID, a.PatientID, a.ScheduledAt, a.Status, a.Kind, a.Procedures, a.Notes,
	)
	if db.IsUniqueViolation(err) {
		return clinerr.Conflict("the time slot was booked by a concurrent request")
	}
	return err
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := scanAppointment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointment WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, clinerr.NotFound("appointment not found")
	}
	return a, err
}

func (r *appointmentRepoPG) Complete(ctx context.Context, a *Appointment) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointment
		SET status = $2, procedures = $3, notes = $4, updated_at = NOW()
		WHERE id = $1 AND status = $5`,
		a.ID, a.Status, a.Procedures, a.Notes, StatusScheduled,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return clinerr.PolicyViolation("only scheduled appointments can receive procedures")
	}
	return nil
}

func (r *appointmentRepoPG) BusyAt(ctx context.Context, studentID, patientID uuid.UUID, at time.Time) (bool, bool, error) {
	var studentBusy, patientBusy bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT
			EXISTS (SELECT 1 FROM appointment WHERE student_id = $1 AND scheduled_at = $3),
			EXISTS (SELECT 1 FROM appointment WHERE patient_id = $2 AND scheduled_at = $3)`,
		studentID, patientID, at,
	).Scan(&studentBusy, &patientBusy)
	return studentBusy, patientBusy, err
}

func (r *appointmentRepoPG) PatientHasAppointmentBetween(ctx context.Context, patientID uuid.UUID, from, to time.Time) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointment
			WHERE patient_id = $1 AND scheduled_at >= $2 AND scheduled_at < $3
		)`,
		patientID, from, to,
	).Scan(&exists)
	return exists, err
}

func (r *appointmentRepoPG) ListByStudentBetween(ctx context.Context, studentID uuid.UUID, from, to time.Time) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptCols+` FROM appointment
		WHERE student_id = $1 AND scheduled_at >= $2 AND scheduled_at < $3
		ORDER BY scheduled_at`,
		studentID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appts = append(appts, a)
	}
	return appts, rows.Err()
}

func (r *appointmentRepoPG) ListByStudent(ctx context.Context, studentID uuid.UUID, status string, limit, offset int) ([]*Summary, int, error) {
	where := `WHERE a.student_id = $1`
	args := []any{studentID}
	if status != "" {
		where += ` AND a.status = $2`
		args = append(args, status)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM appointment a `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	// Upcoming bookings read forward, finished ones read backward.
	order := "a.scheduled_at DESC"
	if status == StatusScheduled {
		order = "a.scheduled_at ASC"
	}

	n := len(args)
	query := fmt.Sprintf(`
		SELECT a.id, a.student_id, a.patient_id, a.scheduled_at, a.status, a.kind,
		       a.procedures, a.notes, a.created_at, a.updated_at,
		       s.name AS student_name, p.name AS patient_name
		FROM appointment a
		LEFT JOIN person s ON s.id = a.student_id
		LEFT JOIN patient p ON p.id = a.patient_id
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`, where, order, n+1, n+2)

	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var summaries []*Summary
	for rows.Next() {
		s := &Summary{}
		if err := rows.Scan(&s.ID, &s.StudentID, &s.PatientID, &s.ScheduledAt, &s.Status, &s.Kind,
			&s.Procedures, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
			&s.StudentName, &s.PatientName); err != nil {
			return nil, 0, err
		}
		summaries = append(summaries, s)
	}
	return summaries, total, rows.Err()
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	a := &Appointment{}
	err := row.Scan(&a.ID, &a.StudentID, &a.PatientID, &a.ScheduledAt, &a.Status, &a.Kind,
		&a.Procedures, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}
