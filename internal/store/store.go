// Package store owns batch persistence. The engine only ever sees the
// BatchStore interface; concrete stores (Postgres via gorm, in-memory for
// tests) provide the per-batch mutual exclusion the stage machine relies on.
package store

import (
	"context"
	"errors"

	"github.com/agrichain/agrichaingo/internal/models"
)

var (
	// ErrNotFound means the batch id did not resolve. Callers surface it;
	// nothing silently defaults to an empty batch.
	ErrNotFound = errors.New("store: batch not found")

	// ErrConcurrentModification means a competing stage advance won the
	// race. Retryable by the caller; the store never retries itself.
	ErrConcurrentModification = errors.New("store: batch modified concurrently")
)

// BatchStore is the persistence contract for batch aggregates.
//
// AppendStage must be atomic per batch: the history append and the
// current-stage update either both happen or neither does, guarded by a
// compare-and-set on the expected current stage. When the batch's stage no
// longer matches expect, AppendStage fails with ErrConcurrentModification
// and leaves the batch untouched.
type BatchStore interface {
	CreateBatch(ctx context.Context, batch *models.Batch) error
	GetBatch(ctx context.Context, id string) (*models.Batch, error)
	ListBatchesForRole(ctx context.Context, role models.Role, actorID string) ([]models.Batch, error)
	AppendStage(ctx context.Context, batchID string, expect models.StageName, stage models.Stage) (*models.Batch, error)
}
