package repository

import (
	"context"

	"github.com/noah-isme/pln-intern-api/internal/models"
	"github.com/noah-isme/pln-intern-api/internal/store"
)

// BackupRepository handles whole-store snapshot reads and wholesale
// collection replacement for import.
type BackupRepository struct {
	store *store.Store
}

// NewBackupRepository constructs a BackupRepository.
func NewBackupRepository(s *store.Store) *BackupRepository {
	return &BackupRepository{store: s}
}

// Snapshot reads all three collections under a consistent view.
func (r *BackupRepository) Snapshot(ctx context.Context) ([]models.Mentor, []models.Intern, []models.GalleryPhoto, error) {
	mentors := make([]models.Mentor, 0)
	interns := make([]models.Intern, 0)
	gallery := make([]models.GalleryPhoto, 0)

	rawMentors, err := r.store.Read(store.CollectionMentors)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := store.DecodeList(rawMentors, &mentors); err != nil {
		return nil, nil, nil, err
	}
	rawInterns, err := r.store.Read(store.CollectionInterns)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := store.DecodeList(rawInterns, &interns); err != nil {
		return nil, nil, nil, err
	}
	rawGallery, err := r.store.Read(store.CollectionGallery)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := store.DecodeList(rawGallery, &gallery); err != nil {
		return nil, nil, nil, err
	}

	return mentors, interns, gallery, nil
}

// ReplaceAll swaps every collection wholesale in a single locked write.
func (r *BackupRepository) ReplaceAll(ctx context.Context, mentors []models.Mentor, interns []models.Intern, gallery []models.GalleryPhoto) error {
	return r.store.UpdateMany(store.Collections(), func(raw map[string][]byte) (map[string][]byte, error) {
		encodedMentors, err := store.EncodeList(mentors)
		if err != nil {
			return nil, err
		}
		encodedInterns, err := store.EncodeList(interns)
		if err != nil {
			return nil, err
		}
		encodedGallery, err := store.EncodeList(gallery)
		if err != nil {
			return nil, err
		}
		return map[string][]byte{
			store.CollectionMentors: encodedMentors,
			store.CollectionInterns: encodedInterns,
			store.CollectionGallery: encodedGallery,
		}, nil
	})
}
