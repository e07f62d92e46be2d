package triage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinisys/clinisys/internal/domain/identity"
	"github.com/clinisys/clinisys/internal/platform/clinerr"
	"github.com/clinisys/clinisys/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const recordCols = `id, patient_id, chief_complaint, history, medications, allergies,
	blood_pressure, heart_rate, respiratory_rate, temperature, oxygen_saturation,
	pain_scale, priority, symptoms, created_at`

func (r *repoPG) Create(ctx context.Context, rec *Record) error {
	rec.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO triage_record (
			id, patient_id, chief_complaint, history, medications, allergies,
			blood_pressure, heart_rate, respiratory_rate, temperature, oxygen_saturation,
			pain_scale, priority, symptoms
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		rec.ID, rec.PatientID, rec.ChiefComplaint, rec.History, rec.Medications, rec.Allergies,
		rec.BloodPressure, rec.HeartRate, rec.RespiratoryRate, rec.Temperature, rec.OxygenSaturation,
		rec.PainScale, rec.Priority, rec.Symptoms,
	)
	return err
}

func (r *repoPG) LatestByPatient(ctx context.Context, patientID uuid.UUID) (*Record, error) {
	rec, err := scanRecord(r.conn(ctx).QueryRow(ctx, `
		SELECT `+recordCols+` FROM triage_record
		WHERE patient_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, patientID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, clinerr.NotFound("no triage record for this patient")
	}
	return rec, err
}

func (r *repoPG) PendingQueue(ctx context.Context) ([]*PendingEntry, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT p.id, p.cpf, p.name, p.birth_date, p.status, p.clinic_id, p.created_at, p.updated_at,
		       COALESCE(MIN(t.created_at), p.created_at) AS arrived_at
		FROM patient p
		LEFT JOIN triage_record t ON t.patient_id = p.id
		WHERE p.status = $1
		GROUP BY p.id
		ORDER BY arrived_at ASC`,
		identity.PatientAwaitingTriage,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*PendingEntry
	for rows.Next() {
		e := &PendingEntry{Patient: &identity.Patient{}}
		p := e.Patient
		if err := rows.Scan(&p.ID, &p.CPF, &p.Name, &p.BirthDate, &p.Status, &p.ClinicID,
			&p.CreatedAt, &p.UpdatedAt, &e.ArrivedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *repoPG) ReadyQueue(ctx context.Context) ([]*ReadyEntry, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT p.id, p.cpf, p.name, p.birth_date, p.status, p.clinic_id, p.created_at, p.updated_at,
		       t.id, t.patient_id, t.chief_complaint, t.history, t.medications, t.allergies,
		       t.blood_pressure, t.heart_rate, t.respiratory_rate, t.temperature, t.oxygen_saturation,
		       t.pain_scale, t.priority, t.symptoms, t.created_at
		FROM patient p
		JOIN LATERAL (
			SELECT * FROM triage_record tr
			WHERE tr.patient_id = p.id
			ORDER BY tr.created_at DESC
			LIMIT 1
		) t ON true
		WHERE p.status = $1
		ORDER BY CASE t.priority
			WHEN 'high' THEN 1
			WHEN 'medium' THEN 2
			WHEN 'low' THEN 3
			ELSE 4
		END, t.created_at ASC`,
		identity.PatientTriaged,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*ReadyEntry
	for rows.Next() {
		e := &ReadyEntry{Patient: &identity.Patient{}, Triage: &Record{}}
		p, t := e.Patient, e.Triage
		if err := rows.Scan(&p.ID, &p.CPF, &p.Name, &p.BirthDate, &p.Status, &p.ClinicID,
			&p.CreatedAt, &p.UpdatedAt,
			&t.ID, &t.PatientID, &t.ChiefComplaint, &t.History, &t.Medications, &t.Allergies,
			&t.BloodPressure, &t.HeartRate, &t.RespiratoryRate, &t.Temperature, &t.OxygenSaturation,
			&t.PainScale, &t.Priority, &t.Symptoms, &t.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanRecord(row pgx.Row) (*Record, error) {
	rec := &Record{}
	err := row.Scan(&rec.ID, &rec.PatientID, &rec.ChiefComplaint, &rec.History, &rec.Medications,
		&rec.Allergies, &rec.BloodPressure, &rec.HeartRate, &rec.RespiratoryRate, &rec.Temperature,
		&rec.OxygenSaturation, &rec.PainScale, &rec.Priority, &rec.Symptoms, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return rec, nil
}
