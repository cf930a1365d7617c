package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/pln-intern-api/internal/models"
	"github.com/noah-isme/pln-intern-api/internal/store"
)

// GalleryRepository manages persistence for gallery photos.
type GalleryRepository struct {
	store *store.Store
}

// NewGalleryRepository constructs a GalleryRepository.
func NewGalleryRepository(s *store.Store) *GalleryRepository {
	return &GalleryRepository{store: s}
}

// GetAll returns every gallery photo.
func (r *GalleryRepository) GetAll(ctx context.Context) ([]models.GalleryPhoto, error) {
	raw, err := r.store.Read(store.CollectionGallery)
	if err != nil {
		return nil, err
	}
	photos := make([]models.GalleryPhoto, 0)
	if err := store.DecodeList(raw, &photos); err != nil {
		return nil, err
	}
	return photos, nil
}

// GetByID fetches a photo by id.
func (r *GalleryRepository) GetByID(ctx context.Context, id string) (*models.GalleryPhoto, error) {
	photos, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range photos {
		if photos[i].ID == id {
			return &photos[i], nil
		}
	}
	return nil, store.ErrNotFound
}

// GetByInternID returns photos owned by an intern.
func (r *GalleryRepository) GetByInternID(ctx context.Context, internID string) ([]models.GalleryPhoto, error) {
	photos, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]models.GalleryPhoto, 0)
	for _, photo := range photos {
		if photo.InternID == internID {
			matched = append(matched, photo)
		}
	}
	return matched, nil
}

// Create appends a new photo, assigning id and upload timestamp.
func (r *GalleryRepository) Create(ctx context.Context, photo *models.GalleryPhoto) error {
	if photo.ID == "" {
		photo.ID = uuid.NewString()
	}
	if photo.UploadedAt.IsZero() {
		photo.UploadedAt = time.Now().UTC()
	}

	return r.store.Update(store.CollectionGallery, func(raw []byte) ([]byte, error) {
		photos := make([]models.GalleryPhoto, 0)
		if err := store.DecodeList(raw, &photos); err != nil {
			return nil, err
		}
		photos = append(photos, *photo)
		return store.EncodeList(photos)
	})
}

// CreateMany appends a batch of photos in one collection write.
func (r *GalleryRepository) CreateMany(ctx context.Context, batch []models.GalleryPhoto) error {
	if len(batch) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range batch {
		if batch[i].ID == "" {
			batch[i].ID = uuid.NewString()
		}
		if batch[i].UploadedAt.IsZero() {
			batch[i].UploadedAt = now
		}
	}

	return r.store.Update(store.CollectionGallery, func(raw []byte) ([]byte, error) {
		photos := make([]models.GalleryPhoto, 0)
		if err := store.DecodeList(raw, &photos); err != nil {
			return nil, err
		}
		photos = append(photos, batch...)
		return store.EncodeList(photos)
	})
}

// Delete removes a single photo.
func (r *GalleryRepository) Delete(ctx context.Context, id string) error {
	return r.store.Update(store.CollectionGallery, func(raw []byte) ([]byte, error) {
		photos := make([]models.GalleryPhoto, 0)
		if err := store.DecodeList(raw, &photos); err != nil {
			return nil, err
		}
		kept := photos[:0]
		found := false
		for _, photo := range photos {
			if photo.ID == id {
				found = true
				continue
			}
			kept = append(kept, photo)
		}
		if !found {
			return nil, store.ErrNotFound
		}
		return store.EncodeList(kept)
	})
}

// DeleteByInternID removes every photo owned by the intern. Deleting zero
// photos is not an error.
func (r *GalleryRepository) DeleteByInternID(ctx context.Context, internID string) error {
	return r.store.Update(store.CollectionGallery, func(raw []byte) ([]byte, error) {
		photos := make([]models.GalleryPhoto, 0)
		if err := store.DecodeList(raw, &photos); err != nil {
			return nil, err
		}
		kept := photos[:0]
		for _, photo := range photos {
			if photo.InternID == internID {
				continue
			}
			kept = append(kept, photo)
		}
		return store.EncodeList(kept)
	})
}
