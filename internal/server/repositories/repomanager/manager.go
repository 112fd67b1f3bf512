package repomanager

import (
	"context"
	"database/sql"

	"github.com/lvdopqt/carteira-digital-api/internal/dbx"
	"github.com/lvdopqt/carteira-digital-api/internal/server/repositories/balances"
	"github.com/lvdopqt/carteira-digital-api/internal/server/repositories/documents"
	"github.com/lvdopqt/carteira-digital-api/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a handle, so services can run
// the same repository on the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Documents(db dbx.DBTX) documents.Repository
	Balances(db dbx.DBTX) balances.Store
}
