package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/pln-intern-api/internal/models"
	"github.com/noah-isme/pln-intern-api/internal/store"
	appErrors "github.com/noah-isme/pln-intern-api/pkg/errors"
)

type galleryRepository interface {
	GetAll(ctx context.Context) ([]models.GalleryPhoto, error)
	GetByID(ctx context.Context, id string) (*models.GalleryPhoto, error)
	GetByInternID(ctx context.Context, internID string) ([]models.GalleryPhoto, error)
	Create(ctx context.Context, photo *models.GalleryPhoto) error
	Delete(ctx context.Context, id string) error
}

type galleryInternReader interface {
	GetByID(ctx context.Context, id string) (*models.Intern, error)
}

// CreateGalleryPhotoRequest represents payload for adding gallery photos.
type CreateGalleryPhotoRequest struct {
	InternID string `json:"intern_id" validate:"required"`
	Photo    string `json:"photo" validate:"required,max=500"`
	Caption  string `json:"caption" validate:"omitempty,max=500"`
}

// GalleryService orchestrates gallery photo operations.
type GalleryService struct {
	repo      galleryRepository
	interns   galleryInternReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGalleryService constructs a GalleryService.
func NewGalleryService(repo galleryRepository, interns galleryInternReader, validate *validator.Validate, logger *zap.Logger) *GalleryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GalleryService{repo: repo, interns: interns, validator: validate, logger: logger}
}

// List returns gallery photos, newest upload first.
func (s *GalleryService) List(ctx context.Context) ([]models.GalleryPhoto, error) {
	photos, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list gallery photos")
	}
	sort.Slice(photos, func(i, j int) bool { return photos[i].UploadedAt.After(photos[j].UploadedAt) })
	return photos, nil
}

// ListByIntern returns all gallery photos for one intern.
func (s *GalleryService) ListByIntern(ctx context.Context, internID string) ([]models.GalleryPhoto, error) {
	photos, err := s.repo.GetByInternID(ctx, internID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list gallery photos")
	}
	return photos, nil
}

// Get returns a gallery photo by id.
func (s *GalleryService) Get(ctx context.Context, id string) (*models.GalleryPhoto, error) {
	photo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "gallery photo not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load gallery photo")
	}
	return photo, nil
}

// Create attaches a photo to an existing intern. The intern name is
// denormalised onto the record at creation time.
func (s *GalleryService) Create(ctx context.Context, req CreateGalleryPhotoRequest) (*models.GalleryPhoto, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid gallery payload")
	}

	intern, err := s.interns.GetByID(ctx, req.InternID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "intern does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify intern")
	}

	photo := &models.GalleryPhoto{
		InternID:   intern.ID,
		InternName: intern.Name,
		Photo:      strings.TrimSpace(req.Photo),
		Caption:    strings.TrimSpace(req.Caption),
	}
	if err := s.repo.Create(ctx, photo); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create gallery photo")
	}
	return photo, nil
}

// Delete removes a gallery photo.
func (s *GalleryService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "gallery photo not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load gallery photo")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete gallery photo")
	}
	return nil
}
