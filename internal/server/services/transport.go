package services

import (
	"context"
	"fmt"
	"math"

	"github.com/lvdopqt/carteira-digital-api/internal/common"
	"github.com/lvdopqt/carteira-digital-api/internal/server/models"
	"github.com/lvdopqt/carteira-digital-api/internal/server/repositories/balances"
)

// TransportService is the mocked transit card ledger. Balances only grow.
type TransportService struct {
	store balances.Store
}

func NewTransportService(store balances.Store) *TransportService {
	return &TransportService{store: store}
}

// Balance returns owner's balance; zero when never recharged.
func (s *TransportService) Balance(ctx context.Context, owner *models.User) (float64, error) {
	b, err := s.store.Get(ctx, owner.ID)
	if err != nil {
		return 0, fmt.Errorf("error reading balance: %w", err)
	}
	return b, nil
}

// Recharge adds amount to owner's balance and returns the new balance.
// Amounts that are not finite and strictly positive yield
// common.ErrInvalidAmount and change nothing, as do top-ups that would
// overflow the stored balance.
func (s *TransportService) Recharge(ctx context.Context, owner *models.User, amount float64) (float64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, common.ErrInvalidAmount
	}
	b, err := s.store.Increment(ctx, owner.ID, amount)
	if err != nil {
		return 0, fmt.Errorf("error recharging balance: %w", err)
	}
	return b, nil
}
