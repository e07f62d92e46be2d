package triage

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *Record) error
	LatestByPatient(ctx context.Context, patientID uuid.UUID) (*Record, error)

	// PendingQueue lists patients awaiting triage in arrival order: first
	// triage timestamp when one exists, patient registration time otherwise.
	PendingQueue(ctx context.Context) ([]*PendingEntry, error)

	// ReadyQueue lists triaged patients ordered by priority, then by how long
	// they have been waiting since classification.
	ReadyQueue(ctx context.Context) ([]*ReadyEntry, error)
}
