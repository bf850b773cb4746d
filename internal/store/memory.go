package store

import (
	"context"
	"sync"

	"github.com/agrichain/agrichaingo/internal/models"
)

// MemoryStore keeps batches in a mutex-guarded map. It implements the same
// compare-and-set semantics as the Postgres store and backs the unit tests.
type MemoryStore struct {
	mu      sync.Mutex
	batches map[string]*models.Batch
	order   []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{batches: make(map[string]*models.Batch)}
}

func (s *MemoryStore) CreateBatch(ctx context.Context, batch *models.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *batch
	cp.History = append([]models.Stage(nil), batch.History...)
	s.batches[batch.ID] = &cp
	s.order = append(s.order, batch.ID)
	return nil
}

func (s *MemoryStore) GetBatch(ctx context.Context, id string) (*models.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch, ok := s.batches[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyBatch(batch), nil
}

func (s *MemoryStore) ListBatchesForRole(ctx context.Context, role models.Role, actorID string) ([]models.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Batch{}
	for _, id := range s.order {
		b := s.batches[id]
		switch role {
		case models.RoleFarmer:
			if b.FarmerID == actorID {
				out = append(out, *copyBatch(b))
			}
		case models.RoleDistributor:
			if models.StageRank(b.CurrentStage) >= models.StageRank(models.StageInTransit) {
				out = append(out, *copyBatch(b))
			}
		case models.RoleConsumer:
			if models.StageRank(b.CurrentStage) >= models.StageRank(models.StageInTransitToConsumer) {
				out = append(out, *copyBatch(b))
			}
		}
	}
	return out, nil
}

func (s *MemoryStore) AppendStage(ctx context.Context, batchID string, expect models.StageName, stage models.Stage) (*models.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch, ok := s.batches[batchID]
	if !ok {
		return nil, ErrNotFound
	}
	if batch.CurrentStage != expect {
		return nil, ErrConcurrentModification
	}

	stage.BatchID = batchID
	batch.History = append(batch.History, stage)
	batch.CurrentStage = stage.Name
	return copyBatch(batch), nil
}

func copyBatch(b *models.Batch) *models.Batch {
	cp := *b
	cp.History = append([]models.Stage(nil), b.History...)
	return &cp
}
