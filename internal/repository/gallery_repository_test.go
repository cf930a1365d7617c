package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pln-intern-api/internal/models"
	"github.com/noah-isme/pln-intern-api/internal/store"
)

func TestGalleryRepositoryCreateAndDelete(t *testing.T) {
	repo := NewGalleryRepository(newTestStore(t))
	ctx := context.Background()

	photo := &models.GalleryPhoto{InternID: "i1", InternName: "Ahmad", Photo: "a.jpg"}
	require.NoError(t, repo.Create(ctx, photo))
	assert.NotEmpty(t, photo.ID)
	assert.False(t, photo.UploadedAt.IsZero())

	fetched, err := repo.GetByID(ctx, photo.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ahmad", fetched.InternName)

	require.NoError(t, repo.Delete(ctx, photo.ID))
	_, err = repo.GetByID(ctx, photo.ID)
	assert.True(t, errors.Is(err, store.ErrNotFound))

	err = repo.Delete(ctx, photo.ID)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestGalleryRepositoryCreateMany(t *testing.T) {
	repo := NewGalleryRepository(newTestStore(t))
	ctx := context.Background()

	batch := []models.GalleryPhoto{
		{InternID: "i1", Photo: "a.jpg"},
		{InternID: "i1", Photo: "b.jpg"},
	}
	require.NoError(t, repo.CreateMany(ctx, batch))

	photos, err := repo.GetByInternID(ctx, "i1")
	require.NoError(t, err)
	assert.Len(t, photos, 2)
	for _, photo := range photos {
		assert.NotEmpty(t, photo.ID)
		assert.False(t, photo.UploadedAt.IsZero())
	}

	require.NoError(t, repo.CreateMany(ctx, nil), "empty batch is a no-op")
}

func TestGalleryRepositoryDeleteByInternID(t *testing.T) {
	repo := NewGalleryRepository(newTestStore(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.GalleryPhoto{InternID: "i1", Photo: "a.jpg"}))
	require.NoError(t, repo.Create(ctx, &models.GalleryPhoto{InternID: "i2", Photo: "b.jpg"}))

	require.NoError(t, repo.DeleteByInternID(ctx, "i1"))
	require.NoError(t, repo.DeleteByInternID(ctx, "i1"), "deleting zero photos is not an error")

	photos, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.Equal(t, "i2", photos[0].InternID)
}
