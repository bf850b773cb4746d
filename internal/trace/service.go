// Package trace is the application core: it composes the transition policy
// with the batch store to create batches and advance them through the
// lifecycle. The store is injected so the engine never owns global state.
package trace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agrichain/agrichaingo/internal/ledger"
	"github.com/agrichain/agrichaingo/internal/lifecycle"
	"github.com/agrichain/agrichaingo/internal/models"
	"github.com/agrichain/agrichaingo/internal/store"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ErrIllegalTransition means the requested stage advance is not permitted
// for the actor's role and the batch's current stage. The batch is left
// untouched.
var ErrIllegalTransition = errors.New("trace: stage transition not permitted")

// Service drives batch lifecycle operations against an injected store.
type Service struct {
	store store.BatchStore
	now   func() time.Time
}

// NewService wires the engine to a batch store. now defaults to time.Now
// and exists so tests can pin the clock.
func NewService(s store.BatchStore, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: s, now: now}
}

// CreateBatchInput carries the farmer-supplied fields for a new batch.
type CreateBatchInput struct {
	CropType     string
	FarmLocation string
	HarvestDate  string
	ExpiryDate   string
	BatchWeight  float64
	PricePerUnit float64
	Quantity     string
	SensorID     string
}

// CreateBatch registers a new batch at HARVESTED. The creation event is the
// batch's first history entry; a batch never exists with empty history.
func (s *Service) CreateBatch(ctx context.Context, in CreateBatchInput, farmer *models.UserAuth) (*models.Batch, error) {
	now := s.now()
	id := "B" + uuid.NewString()[:8]

	sensorID := in.SensorID
	if sensorID == "" {
		sensorID = "SENSOR-" + uuid.NewString()[:6]
	}

	details := datatypes.JSONMap{}
	if in.Quantity != "" {
		details["quantity"] = in.Quantity
	}

	batch := &models.Batch{
		ID:           id,
		CropType:     in.CropType,
		FarmerID:     farmer.ID,
		FarmerName:   farmer.Name,
		FarmLocation: in.FarmLocation,
		QRCodeURL:    fmt.Sprintf("#/consumer/%s", id),
		CurrentStage: lifecycle.InitialStage,
		IoTSensorID:  sensorID,
		HarvestDate:  in.HarvestDate,
		ExpiryDate:   in.ExpiryDate,
		BatchWeight:  in.BatchWeight,
		PricePerUnit: in.PricePerUnit,
		History: []models.Stage{{
			Name:      lifecycle.InitialStage,
			Timestamp: now,
			Actor:     farmer.Name,
			Details:   details,
			TxHash:    ledger.TxHash(id, lifecycle.InitialStage, now, farmer.Name),
		}},
	}

	if err := s.store.CreateBatch(ctx, batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// AdvanceResult reports a successful stage advance.
type AdvanceResult struct {
	Batch    *models.Batch
	NewStage models.StageName
}

// AdvanceStage applies the single transition the policy permits for this
// actor, appending the new history entry and moving currentStage atomically.
// When the policy permits nothing, it fails with ErrIllegalTransition and
// guarantees no mutation; a lost race against a concurrent advance surfaces
// the store's ErrConcurrentModification unchanged.
func (s *Service) AdvanceStage(ctx context.Context, batchID string, actorRole models.Role, actorName string, details map[string]interface{}) (*AdvanceResult, error) {
	batch, err := s.store.GetBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	next, ok := lifecycle.NextStage(batch.CurrentStage, actorRole)
	if !ok {
		return nil, fmt.Errorf("%w: %s may not advance a batch at %s",
			ErrIllegalTransition, actorRole, batch.CurrentStage)
	}

	now := s.now()
	stage := models.Stage{
		Name:      next,
		Timestamp: now,
		Actor:     actorName,
		Details:   datatypes.JSONMap(details),
		TxHash:    ledger.TxHash(batchID, next, now, actorName),
	}
	if stage.Details == nil {
		stage.Details = datatypes.JSONMap{}
	}

	updated, err := s.store.AppendStage(ctx, batchID, batch.CurrentStage, stage)
	if err != nil {
		return nil, err
	}
	return &AdvanceResult{Batch: updated, NewStage: next}, nil
}

// PermittedNext reports the stage this batch could advance to next and the
// role allowed to perform that advance, for surfacing guidance alongside
// declined transitions. ok is false when the batch is at a terminal stage.
func (s *Service) PermittedNext(ctx context.Context, batchID string) (models.StageName, models.Role, bool, error) {
	batch, err := s.store.GetBatch(ctx, batchID)
	if err != nil {
		return "", "", false, err
	}
	next, role, ok := lifecycle.Successor(batch.CurrentStage)
	return next, role, ok, nil
}
