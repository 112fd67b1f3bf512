// Package documents implements owner-scoped document storage over a
// dbx.DBTX (*sql.DB or *sql.Tx).
package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lvdopqt/carteira-digital-api/internal/common"
	"github.com/lvdopqt/carteira-digital-api/internal/dbx"
	"github.com/lvdopqt/carteira-digital-api/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts doc for doc.OwnerID and fills id and timestamps.
func (r *PostgresRepository) Create(ctx context.Context, doc *models.Document) (*models.Document, error) {
	query :=
		`INSERT INTO documents (title, file_url, document_type, owner_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, doc.Title, doc.FileURL, doc.DocumentType, doc.OwnerID).
		Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return doc, nil
}

// ListByOwner returns the owner's documents, oldest first. The result is
// never nil.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Document, error) {
	query := `SELECT id, title, file_url, document_type, owner_id, created_at, updated_at FROM documents
		WHERE owner_id = $1
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select documents: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Document, 0)
	for rows.Next() {
		var item models.Document
		if err := rows.Scan(&item.ID, &item.Title, &item.FileURL, &item.DocumentType, &item.OwnerID, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByIDAndOwner matches on both id and owner, so a foreign document yields
// common.ErrorNotFound.
func (r *PostgresRepository) GetByIDAndOwner(ctx context.Context, id, ownerID int64) (*models.Document, error) {
	query := `SELECT id, title, file_url, document_type, owner_id, created_at, updated_at FROM documents
		WHERE id = $1 AND owner_id = $2`

	doc := &models.Document{}
	err := r.db.QueryRowContext(ctx, query, id, ownerID).
		Scan(&doc.ID, &doc.Title, &doc.FileURL, &doc.DocumentType, &doc.OwnerID, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return doc, nil
}
