package balances

import (
	"context"
	"math"
	"sync"

	"github.com/lvdopqt/carteira-digital-api/internal/common"
)

// MemoryStore is the transient store: balances live until the process exits.
type MemoryStore struct {
	mu       sync.Mutex
	balances map[int64]float64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{balances: make(map[int64]float64)}
}

func (s *MemoryStore) Get(_ context.Context, ownerID int64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances[ownerID], nil
}

func (s *MemoryStore) Increment(_ context.Context, ownerID int64, amount float64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.balances[ownerID] + amount
	if math.IsInf(next, 0) {
		return s.balances[ownerID], common.ErrInvalidAmount
	}
	s.balances[ownerID] = next
	return next, nil
}

// Reset forgets every balance.
func (s *MemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.balances)
}
