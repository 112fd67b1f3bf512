package documents

import (
	"context"
	"testing"

	"github.com/lvdopqt/carteira-digital-api/internal/common"
	"github.com/lvdopqt/carteira-digital-api/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_ScopedToOwner(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	d1, err := repo.Create(ctx, &models.Document{Title: "a", FileURL: "u1", OwnerID: 1})
	require.NoError(t, err)
	d2, err := repo.Create(ctx, &models.Document{Title: "b", FileURL: "u2", OwnerID: 1})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.Document{Title: "c", FileURL: "u3", OwnerID: 2})
	require.NoError(t, err)

	list, err := repo.ListByOwner(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, d1.ID, list[0].ID)
	assert.Equal(t, d2.ID, list[1].ID)

	empty, err := repo.ListByOwner(ctx, 3)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = repo.GetByIDAndOwner(ctx, d1.ID, 2)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	got, err := repo.GetByIDAndOwner(ctx, d1.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Title)
}
