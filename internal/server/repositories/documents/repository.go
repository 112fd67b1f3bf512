package documents

import (
	"context"

	"github.com/lvdopqt/carteira-digital-api/internal/server/models"
)

// Repository stores documents. Every read is scoped to an owner: a document
// owned by someone else is reported exactly like a missing one.
type Repository interface {
	Create(ctx context.Context, doc *models.Document) (*models.Document, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*models.Document, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID int64) (*models.Document, error)
}
