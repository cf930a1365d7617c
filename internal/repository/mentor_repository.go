package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/pln-intern-api/internal/models"
	"github.com/noah-isme/pln-intern-api/internal/store"
)

// MentorRepository manages persistence for mentors.
type MentorRepository struct {
	store *store.Store
}

// NewMentorRepository constructs a MentorRepository.
func NewMentorRepository(s *store.Store) *MentorRepository {
	return &MentorRepository{store: s}
}

// GetAll returns every mentor. An absent collection yields an empty list.
func (r *MentorRepository) GetAll(ctx context.Context) ([]models.Mentor, error) {
	raw, err := r.store.Read(store.CollectionMentors)
	if err != nil {
		return nil, err
	}
	mentors := make([]models.Mentor, 0)
	if err := store.DecodeList(raw, &mentors); err != nil {
		return nil, err
	}
	return mentors, nil
}

// GetByID fetches a mentor by id.
func (r *MentorRepository) GetByID(ctx context.Context, id string) (*models.Mentor, error) {
	mentors, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range mentors {
		if mentors[i].ID == id {
			return &mentors[i], nil
		}
	}
	return nil, store.ErrNotFound
}

// GetByNIP fetches a mentor by its natural key.
func (r *MentorRepository) GetByNIP(ctx context.Context, nip string) (*models.Mentor, error) {
	mentors, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range mentors {
		if mentors[i].NIP == nip {
			return &mentors[i], nil
		}
	}
	return nil, store.ErrNotFound
}

// ExistsByNIP checks whether another mentor already uses the NIP.
func (r *MentorRepository) ExistsByNIP(ctx context.Context, nip, excludeID string) (bool, error) {
	mentors, err := r.GetAll(ctx)
	if err != nil {
		return false, err
	}
	for _, mentor := range mentors {
		if mentor.NIP == nip && (excludeID == "" || mentor.ID != excludeID) {
			return true, nil
		}
	}
	return false, nil
}

// Create appends a new mentor record, assigning id and timestamps.
func (r *MentorRepository) Create(ctx context.Context, mentor *models.Mentor) error {
	if mentor.ID == "" {
		mentor.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if mentor.CreatedAt.IsZero() {
		mentor.CreatedAt = now
	}
	mentor.UpdatedAt = now

	return r.store.Update(store.CollectionMentors, func(raw []byte) ([]byte, error) {
		mentors := make([]models.Mentor, 0)
		if err := store.DecodeList(raw, &mentors); err != nil {
			return nil, err
		}
		mentors = append(mentors, *mentor)
		return store.EncodeList(mentors)
	})
}

// Update replaces the stored record matching the mentor's id.
func (r *MentorRepository) Update(ctx context.Context, mentor *models.Mentor) error {
	mentor.UpdatedAt = time.Now().UTC()
	return r.store.Update(store.CollectionMentors, func(raw []byte) ([]byte, error) {
		mentors := make([]models.Mentor, 0)
		if err := store.DecodeList(raw, &mentors); err != nil {
			return nil, err
		}
		for i := range mentors {
			if mentors[i].ID == mentor.ID {
				mentors[i] = *mentor
				return store.EncodeList(mentors)
			}
		}
		return nil, store.ErrNotFound
	})
}

// Delete removes a mentor record. Dependency checks belong to the service.
func (r *MentorRepository) Delete(ctx context.Context, id string) error {
	return r.store.Update(store.CollectionMentors, func(raw []byte) ([]byte, error) {
		mentors := make([]models.Mentor, 0)
		if err := store.DecodeList(raw, &mentors); err != nil {
			return nil, err
		}
		kept := mentors[:0]
		found := false
		for _, mentor := range mentors {
			if mentor.ID == id {
				found = true
				continue
			}
			kept = append(kept, mentor)
		}
		if !found {
			return nil, store.ErrNotFound
		}
		return store.EncodeList(kept)
	})
}
