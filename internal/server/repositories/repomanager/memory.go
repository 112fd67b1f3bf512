package repomanager

import (
	"context"
	"database/sql"

	"github.com/lvdopqt/carteira-digital-api/internal/dbx"
	"github.com/lvdopqt/carteira-digital-api/internal/server/repositories/balances"
	"github.com/lvdopqt/carteira-digital-api/internal/server/repositories/documents"
	"github.com/lvdopqt/carteira-digital-api/internal/server/repositories/users"
)

// InMemoryRepositoryManager serves the same repositories regardless of the
// handle it is given. Transactions are not supported.
type InMemoryRepositoryManager struct {
	users     *users.MemoryRepository
	documents *documents.MemoryRepository
	balances  *balances.MemoryStore
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) Documents(dbx.DBTX) documents.Repository {
	return m.documents
}

func (m *InMemoryRepositoryManager) Balances(dbx.DBTX) balances.Store {
	return m.balances
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users:     users.NewMemoryRepository(),
		documents: documents.NewMemoryRepository(),
		balances:  balances.NewMemoryStore(),
	}
}
