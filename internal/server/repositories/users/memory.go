package users

import (
	"context"
	"sync"
	"time"

	"github.com/lvdopqt/carteira-digital-api/internal/common"
	"github.com/lvdopqt/carteira-digital-api/internal/server/models"
)

// MemoryRepository is a Repository kept in process memory, used by tests and
// local runs without a database.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*models.User
	emails map[string]int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:   map[int64]*models.User{},
		emails: map[string]int64{},
	}
}

func (r *MemoryRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.emails[user.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	return r.insert(user), nil
}

func (r *MemoryRepository) CreateIfAbsent(_ context.Context, user *models.User) (*models.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.emails[user.Email]; ok {
		cp := *r.byID[id]
		return &cp, false, nil
	}
	return r.insert(user), true, nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.emails[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *r.byID[id]
	return &cp, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

// insert must be called with the lock held.
func (r *MemoryRepository) insert(user *models.User) *models.User {
	r.nextID++
	now := time.Now().UTC()
	stored := *user
	stored.ID = r.nextID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.byID[stored.ID] = &stored
	r.emails[stored.Email] = stored.ID
	out := stored
	return &out
}
