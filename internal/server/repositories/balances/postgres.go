package balances

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lvdopqt/carteira-digital-api/internal/common"
	"github.com/lvdopqt/carteira-digital-api/internal/dbx"
)

// PostgresStore persists balances in transport_balances. Increment is a
// single upsert, so concurrent top-ups for one owner never lose an update.
type PostgresStore struct {
	db dbx.DBTX
}

func NewPostgresStore(db dbx.DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, ownerID int64) (float64, error) {
	query := `SELECT balance FROM transport_balances WHERE user_id = $1`

	var balance float64
	err := s.db.QueryRowContext(ctx, query, ownerID).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return balance, nil
}

func (s *PostgresStore) Increment(ctx context.Context, ownerID int64, amount float64) (float64, error) {
	query :=
		`INSERT INTO transport_balances (user_id, balance)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id)
		 DO UPDATE SET balance = transport_balances.balance + EXCLUDED.balance, updated_at = now()
		 RETURNING balance
		 `

	var balance float64
	if err := s.db.QueryRowContext(ctx, query, ownerID, amount).Scan(&balance); err != nil {
		if dbx.IsOutOfRange(err) {
			return 0, common.ErrInvalidAmount
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return balance, nil
}
