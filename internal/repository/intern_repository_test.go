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

func TestInternRepositoryCRUD(t *testing.T) {
	repo := NewInternRepository(newTestStore(t))
	ctx := context.Background()

	intern := &models.Intern{
		Name:        "Ahmad Fauzi",
		School:      "Universitas Indonesia",
		Major:       "Teknik Elektro",
		Division:    "Distribusi",
		MentorID:    "m1",
		PeriodStart: "2026-01-01",
		PeriodEnd:   "2026-03-01",
		Status:      models.StatusPending,
	}
	require.NoError(t, repo.Create(ctx, intern))
	assert.NotEmpty(t, intern.ID)
	assert.NotNil(t, intern.GalleryPhotos, "gallery photos must serialize as [] not null")

	fetched, err := repo.GetByID(ctx, intern.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, fetched.Status)

	fetched.Status = models.StatusActive
	require.NoError(t, repo.Update(ctx, fetched))

	active, err := repo.GetByStatus(ctx, models.StatusActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, intern.ID, active[0].ID)
}

func TestInternRepositoryGetByMentorID(t *testing.T) {
	repo := NewInternRepository(newTestStore(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Intern{Name: "A", MentorID: "m1"}))
	require.NoError(t, repo.Create(ctx, &models.Intern{Name: "B", MentorID: "m2"}))
	require.NoError(t, repo.Create(ctx, &models.Intern{Name: "C", MentorID: "m1"}))

	assigned, err := repo.GetByMentorID(ctx, "m1")
	require.NoError(t, err)
	assert.Len(t, assigned, 2)
}

func TestInternRepositorySearch(t *testing.T) {
	repo := NewInternRepository(newTestStore(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Intern{Name: "Dewi Lestari", School: "ITB", Major: "Informatika"}))
	require.NoError(t, repo.Create(ctx, &models.Intern{Name: "Rizky", School: "UGM", Major: "Teknik Mesin"}))

	matched, err := repo.Search(ctx, "dewi")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Dewi Lestari", matched[0].Name)

	matched, err = repo.Search(ctx, "mesin")
	require.NoError(t, err)
	assert.Len(t, matched, 1)

	matched, err = repo.Search(ctx, "nothing")
	require.NoError(t, err)
	assert.Empty(t, matched)
}

func TestDeleteWithGalleryCascades(t *testing.T) {
	s := newTestStore(t)
	interns := NewInternRepository(s)
	gallery := NewGalleryRepository(s)
	ctx := context.Background()

	intern := &models.Intern{Name: "Ahmad", Status: models.StatusActive}
	other := &models.Intern{Name: "Dewi", Status: models.StatusActive}
	require.NoError(t, interns.Create(ctx, intern))
	require.NoError(t, interns.Create(ctx, other))

	require.NoError(t, gallery.Create(ctx, &models.GalleryPhoto{InternID: intern.ID, Photo: "a.jpg"}))
	require.NoError(t, gallery.Create(ctx, &models.GalleryPhoto{InternID: intern.ID, Photo: "b.jpg"}))
	require.NoError(t, gallery.Create(ctx, &models.GalleryPhoto{InternID: other.ID, Photo: "c.jpg"}))

	require.NoError(t, interns.DeleteWithGallery(ctx, intern.ID))

	_, err := interns.GetByID(ctx, intern.ID)
	assert.True(t, errors.Is(err, store.ErrNotFound))

	orphaned, err := gallery.GetByInternID(ctx, intern.ID)
	require.NoError(t, err)
	assert.Empty(t, orphaned, "cascade must remove the intern's photos")

	remaining, err := gallery.GetByInternID(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 1, "other interns' photos survive the cascade")
}

func TestDeleteWithGalleryMissingLeavesGalleryUntouched(t *testing.T) {
	s := newTestStore(t)
	interns := NewInternRepository(s)
	gallery := NewGalleryRepository(s)
	ctx := context.Background()

	require.NoError(t, gallery.Create(ctx, &models.GalleryPhoto{InternID: "i1", Photo: "a.jpg"}))

	err := interns.DeleteWithGallery(ctx, "absent")
	assert.True(t, errors.Is(err, store.ErrNotFound))

	photos, err := gallery.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, photos, 1)
}
