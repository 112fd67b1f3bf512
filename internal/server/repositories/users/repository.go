package users

import (
	"context"

	"github.com/lvdopqt/carteira-digital-api/internal/server/models"
)

// Repository is the user directory. Email uniqueness is enforced by the
// store itself, so concurrent registrations cannot both succeed.
type Repository interface {
	// Create inserts user and fills its id and timestamps. It returns
	// common.ErrorAlreadyExists when the email is taken.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// CreateIfAbsent inserts user unless the email exists, in which case the
	// stored user is returned. created reports which case happened.
	CreateIfAbsent(ctx context.Context, user *models.User) (result *models.User, created bool, err error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}
