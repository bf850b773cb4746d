package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/agrichain/agrichaingo/internal/models"
	"gorm.io/gorm"
)

// GormStore persists batches in PostgreSQL. Stage-advance atomicity comes
// from a transaction wrapping the history insert and a conditional
// current_stage update.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps a connected gorm handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateBatch(ctx context.Context, batch *models.Batch) error {
	if err := s.db.WithContext(ctx).Create(batch).Error; err != nil {
		return fmt.Errorf("create batch %s: %w", batch.ID, err)
	}
	return nil
}

func (s *GormStore) GetBatch(ctx context.Context, id string) (*models.Batch, error) {
	var batch models.Batch
	err := s.db.WithContext(ctx).
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp ASC, id ASC")
		}).
		First(&batch, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get batch %s: %w", id, err)
	}
	return &batch, nil
}

// ListBatchesForRole mirrors the dashboard visibility rules: farmers see
// their own batches, distributors everything at IN_TRANSIT or later,
// consumers everything at IN_TRANSIT_TO_CONSUMER or later. Other roles see
// nothing.
func (s *GormStore) ListBatchesForRole(ctx context.Context, role models.Role, actorID string) ([]models.Batch, error) {
	q := s.db.WithContext(ctx).
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp ASC, id ASC")
		}).
		Order("created_at DESC")

	switch role {
	case models.RoleFarmer:
		q = q.Where("farmer_id = ?", actorID)
	case models.RoleDistributor:
		q = q.Where("current_stage IN ?", stagesFromRank(models.StageInTransit))
	case models.RoleConsumer:
		q = q.Where("current_stage IN ?", stagesFromRank(models.StageInTransitToConsumer))
	default:
		return []models.Batch{}, nil
	}

	var batches []models.Batch
	if err := q.Find(&batches).Error; err != nil {
		return nil, fmt.Errorf("list batches for %s: %w", role, err)
	}
	return batches, nil
}

// stagesFromRank expands "at or after stage s" into an explicit value list,
// so visibility never depends on string collation or enum declaration order.
func stagesFromRank(s models.StageName) []models.StageName {
	min := models.StageRank(s)
	var out []models.StageName
	for _, name := range []models.StageName{
		models.StageHarvested,
		models.StageInTransit,
		models.StageAtDistributor,
		models.StageInTransitToConsumer,
		models.StageAtConsumer,
		models.StageAvailableForSale,
		models.StageSold,
	} {
		if models.StageRank(name) >= min {
			out = append(out, name)
		}
	}
	return out
}

func (s *GormStore) AppendStage(ctx context.Context, batchID string, expect models.StageName, stage models.Stage) (*models.Batch, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Batch{}).
			Where("id = ? AND current_stage = ?", batchID, expect).
			Update("current_stage", stage.Name)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Distinguish a missing batch from a lost race.
			var count int64
			if err := tx.Model(&models.Batch{}).Where("id = ?", batchID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrNotFound
			}
			return ErrConcurrentModification
		}

		stage.BatchID = batchID
		return tx.Create(&stage).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConcurrentModification) {
			return nil, err
		}
		return nil, fmt.Errorf("append stage to %s: %w", batchID, err)
	}

	return s.GetBatch(ctx, batchID)
}
