package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pln-intern-api/internal/models"
	"github.com/noah-isme/pln-intern-api/internal/store"
	appErrors "github.com/noah-isme/pln-intern-api/pkg/errors"
)

type mockGalleryRepo struct {
	items map[string]*models.GalleryPhoto
	seq   int
}

func newMockGalleryRepo() *mockGalleryRepo {
	return &mockGalleryRepo{items: make(map[string]*models.GalleryPhoto)}
}

func (m *mockGalleryRepo) GetAll(ctx context.Context) ([]models.GalleryPhoto, error) {
	out := make([]models.GalleryPhoto, 0, len(m.items))
	for _, photo := range m.items {
		out = append(out, *photo)
	}
	return out, nil
}

func (m *mockGalleryRepo) GetByID(ctx context.Context, id string) (*models.GalleryPhoto, error) {
	photo, ok := m.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *photo
	return &clone, nil
}

func (m *mockGalleryRepo) GetByInternID(ctx context.Context, internID string) ([]models.GalleryPhoto, error) {
	out := make([]models.GalleryPhoto, 0)
	for _, photo := range m.items {
		if photo.InternID == internID {
			out = append(out, *photo)
		}
	}
	return out, nil
}

func (m *mockGalleryRepo) Create(ctx context.Context, photo *models.GalleryPhoto) error {
	if photo.ID == "" {
		m.seq++
		photo.ID = "photo-" + string(rune('a'+m.seq))
	}
	if photo.UploadedAt.IsZero() {
		photo.UploadedAt = time.Now().UTC()
	}
	clone := *photo
	m.items[photo.ID] = &clone
	return nil
}

func (m *mockGalleryRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type mockInternLookup struct {
	interns map[string]*models.Intern
}

func (m *mockInternLookup) GetByID(ctx context.Context, id string) (*models.Intern, error) {
	intern, ok := m.interns[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return intern, nil
}

func newGalleryFixture() (*GalleryService, *mockGalleryRepo) {
	repo := newMockGalleryRepo()
	lookup := &mockInternLookup{interns: map[string]*models.Intern{
		"i1": {ID: "i1", Name: "Ahmad Fauzi"},
	}}
	return NewGalleryService(repo, lookup, nil, nil), repo
}

func TestGalleryCreateDenormalisesInternName(t *testing.T) {
	svc, _ := newGalleryFixture()

	photo, err := svc.Create(context.Background(), CreateGalleryPhotoRequest{
		InternID: "i1", Photo: "a.jpg", Caption: "  Kunjungan gardu  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ahmad Fauzi", photo.InternName)
	assert.Equal(t, "Kunjungan gardu", photo.Caption)
	assert.NotEmpty(t, photo.ID)
}

func TestGalleryCreateUnknownIntern(t *testing.T) {
	svc, _ := newGalleryFixture()

	_, err := svc.Create(context.Background(), CreateGalleryPhotoRequest{InternID: "ghost", Photo: "a.jpg"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrorCode(t, err))
}

func TestGalleryCreateValidation(t *testing.T) {
	svc, _ := newGalleryFixture()

	_, err := svc.Create(context.Background(), CreateGalleryPhotoRequest{InternID: "i1"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrorCode(t, err))
}

func TestGalleryListNewestFirst(t *testing.T) {
	svc, repo := newGalleryFixture()
	ctx := context.Background()

	old := &models.GalleryPhoto{InternID: "i1", Photo: "old.jpg", UploadedAt: time.Now().Add(-time.Hour)}
	recent := &models.GalleryPhoto{InternID: "i1", Photo: "new.jpg", UploadedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, old))
	require.NoError(t, repo.Create(ctx, recent))

	photos, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, photos, 2)
	assert.Equal(t, "new.jpg", photos[0].Photo)
}

func TestGalleryDelete(t *testing.T) {
	svc, repo := newGalleryFixture()
	ctx := context.Background()

	photo, err := svc.Create(ctx, CreateGalleryPhotoRequest{InternID: "i1", Photo: "a.jpg"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, photo.ID))
	assert.NotContains(t, repo.items, photo.ID)

	err = svc.Delete(ctx, photo.ID)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrorCode(t, err))
}
