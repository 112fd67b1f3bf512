package documents

import (
	"context"
	"sync"
	"time"

	"github.com/lvdopqt/carteira-digital-api/internal/common"
	"github.com/lvdopqt/carteira-digital-api/internal/server/models"
)

// MemoryRepository keeps documents in insertion order in process memory.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	docs   []*models.Document
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Create(_ context.Context, doc *models.Document) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	now := time.Now().UTC()
	stored := *doc
	stored.ID = r.nextID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.docs = append(r.docs, &stored)
	out := stored
	return &out, nil
}

func (r *MemoryRepository) ListByOwner(_ context.Context, ownerID int64) ([]*models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*models.Document{}
	for _, d := range r.docs {
		if d.OwnerID == ownerID {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MemoryRepository) GetByIDAndOwner(_ context.Context, id, ownerID int64) (*models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.docs {
		if d.ID == id && d.OwnerID == ownerID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}
