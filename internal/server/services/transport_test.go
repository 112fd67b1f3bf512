package services

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/lvdopqt/carteira-digital-api/internal/common"
	"github.com/lvdopqt/carteira-digital-api/internal/server/models"
	"github.com/lvdopqt/carteira-digital-api/internal/server/repositories/balances"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) Get(context.Context, int64) (float64, error) { return 0, errBoom{} }
func (failingStore) Increment(context.Context, int64, float64) (float64, error) {
	return 0, errBoom{}
}

func TestTransport_RechargeSums(t *testing.T) {
	s := NewTransportService(balances.NewMemoryStore())
	ctx := context.Background()
	u := &models.User{ID: 1}

	b, err := s.Balance(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, 0.0, b)

	b, err = s.Recharge(ctx, u, 10.5)
	require.NoError(t, err)
	assert.Equal(t, 10.5, b)

	b, err = s.Recharge(ctx, u, 4.5)
	require.NoError(t, err)
	assert.Equal(t, 15.0, b)

	other, err := s.Balance(ctx, &models.User{ID: 2})
	require.NoError(t, err)
	assert.Equal(t, 0.0, other)
}

func TestTransport_RechargeRejectsInvalid(t *testing.T) {
	s := NewTransportService(balances.NewMemoryStore())
	ctx := context.Background()
	u := &models.User{ID: 1}
	_, err := s.Recharge(ctx, u, 5)
	require.NoError(t, err)

	for _, amount := range []float64{0, -3, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := s.Recharge(ctx, u, amount)
		if !errors.Is(err, common.ErrInvalidAmount) {
			t.Fatalf("amount %v: want ErrInvalidAmount, got %v", amount, err)
		}
	}

	b, err := s.Balance(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, 5.0, b)
}

func TestTransport_ConcurrentRecharges(t *testing.T) {
	s := NewTransportService(balances.NewMemoryStore())
	ctx := context.Background()
	u := &models.User{ID: 1}

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Recharge(ctx, u, 1)
		}()
	}
	wg.Wait()

	b, err := s.Balance(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, 100.0, b)
}

func TestTransport_StoreErrors(t *testing.T) {
	s := NewTransportService(failingStore{})
	_, err := s.Balance(context.Background(), &models.User{ID: 1})
	assert.Error(t, err)
	_, err = s.Recharge(context.Background(), &models.User{ID: 1}, 1)
	assert.Error(t, err)
}
