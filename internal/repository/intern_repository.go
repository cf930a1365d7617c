package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/pln-intern-api/internal/models"
	"github.com/noah-isme/pln-intern-api/internal/store"
)

// InternRepository manages persistence for interns.
type InternRepository struct {
	store *store.Store
}

// NewInternRepository constructs an InternRepository.
func NewInternRepository(s *store.Store) *InternRepository {
	return &InternRepository{store: s}
}

// GetAll returns every intern. An absent collection yields an empty list.
func (r *InternRepository) GetAll(ctx context.Context) ([]models.Intern, error) {
	raw, err := r.store.Read(store.CollectionInterns)
	if err != nil {
		return nil, err
	}
	interns := make([]models.Intern, 0)
	if err := store.DecodeList(raw, &interns); err != nil {
		return nil, err
	}
	return interns, nil
}

// GetByID fetches an intern by id.
func (r *InternRepository) GetByID(ctx context.Context, id string) (*models.Intern, error) {
	interns, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range interns {
		if interns[i].ID == id {
			return &interns[i], nil
		}
	}
	return nil, store.ErrNotFound
}

// GetByMentorID returns the interns assigned to a mentor.
func (r *InternRepository) GetByMentorID(ctx context.Context, mentorID string) ([]models.Intern, error) {
	interns, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]models.Intern, 0)
	for _, intern := range interns {
		if intern.MentorID == mentorID {
			matched = append(matched, intern)
		}
	}
	return matched, nil
}

// GetByStatus returns interns in the given lifecycle state.
func (r *InternRepository) GetByStatus(ctx context.Context, status models.InternStatus) ([]models.Intern, error) {
	interns, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]models.Intern, 0)
	for _, intern := range interns {
		if intern.Status == status {
			matched = append(matched, intern)
		}
	}
	return matched, nil
}

// Search performs a case-insensitive substring match over name, school,
// division and major.
func (r *InternRepository) Search(ctx context.Context, query string) ([]models.Intern, error) {
	interns, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	matched := make([]models.Intern, 0)
	for _, intern := range interns {
		if strings.Contains(strings.ToLower(intern.Name), q) ||
			strings.Contains(strings.ToLower(intern.School), q) ||
			strings.Contains(strings.ToLower(intern.Division), q) ||
			strings.Contains(strings.ToLower(intern.Major), q) {
			matched = append(matched, intern)
		}
	}
	return matched, nil
}

// Create appends a new intern record, assigning id and creation timestamp.
func (r *InternRepository) Create(ctx context.Context, intern *models.Intern) error {
	if intern.ID == "" {
		intern.ID = uuid.NewString()
	}
	if intern.CreatedAt.IsZero() {
		intern.CreatedAt = time.Now().UTC()
	}
	if intern.GalleryPhotos == nil {
		intern.GalleryPhotos = []string{}
	}

	return r.store.Update(store.CollectionInterns, func(raw []byte) ([]byte, error) {
		interns := make([]models.Intern, 0)
		if err := store.DecodeList(raw, &interns); err != nil {
			return nil, err
		}
		interns = append(interns, *intern)
		return store.EncodeList(interns)
	})
}

// Update replaces the stored record matching the intern's id.
func (r *InternRepository) Update(ctx context.Context, intern *models.Intern) error {
	return r.store.Update(store.CollectionInterns, func(raw []byte) ([]byte, error) {
		interns := make([]models.Intern, 0)
		if err := store.DecodeList(raw, &interns); err != nil {
			return nil, err
		}
		for i := range interns {
			if interns[i].ID == intern.ID {
				interns[i] = *intern
				return store.EncodeList(interns)
			}
		}
		return nil, store.ErrNotFound
	})
}

// DeleteWithGallery removes an intern and every gallery photo that
// references it under a single store lock, so no caller observes the
// intern gone while its photos remain.
func (r *InternRepository) DeleteWithGallery(ctx context.Context, id string) error {
	collections := []string{store.CollectionInterns, store.CollectionGallery}
	return r.store.UpdateMany(collections, func(raw map[string][]byte) (map[string][]byte, error) {
		interns := make([]models.Intern, 0)
		if err := store.DecodeList(raw[store.CollectionInterns], &interns); err != nil {
			return nil, err
		}
		keptInterns := interns[:0]
		found := false
		for _, intern := range interns {
			if intern.ID == id {
				found = true
				continue
			}
			keptInterns = append(keptInterns, intern)
		}
		if !found {
			return nil, store.ErrNotFound
		}

		photos := make([]models.GalleryPhoto, 0)
		if err := store.DecodeList(raw[store.CollectionGallery], &photos); err != nil {
			return nil, err
		}
		keptPhotos := photos[:0]
		for _, photo := range photos {
			if photo.InternID == id {
				continue
			}
			keptPhotos = append(keptPhotos, photo)
		}

		encodedInterns, err := store.EncodeList(keptInterns)
		if err != nil {
			return nil, err
		}
		encodedPhotos, err := store.EncodeList(keptPhotos)
		if err != nil {
			return nil, err
		}
		return map[string][]byte{
			store.CollectionInterns: encodedInterns,
			store.CollectionGallery: encodedPhotos,
		}, nil
	})
}
