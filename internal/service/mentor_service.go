package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/pln-intern-api/internal/models"
	"github.com/noah-isme/pln-intern-api/internal/store"
	appErrors "github.com/noah-isme/pln-intern-api/pkg/errors"
)

// defaultMentorPassword is issued when a mentor is created without an
// explicit password and must be changed on first login.
const defaultMentorPassword = "mentor123"

type mentorRepository interface {
	GetAll(ctx context.Context) ([]models.Mentor, error)
	GetByID(ctx context.Context, id string) (*models.Mentor, error)
	ExistsByNIP(ctx context.Context, nip, excludeID string) (bool, error)
	Create(ctx context.Context, mentor *models.Mentor) error
	Update(ctx context.Context, mentor *models.Mentor) error
	Delete(ctx context.Context, id string) error
}

type mentorInternReader interface {
	GetByMentorID(ctx context.Context, mentorID string) ([]models.Intern, error)
}

// CreateMentorRequest represents payload for registering mentors.
type CreateMentorRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	NIP      string `json:"nip" validate:"required,max=50"`
	Division string `json:"division" validate:"required,max=100"`
	Position string `json:"position" validate:"omitempty,max=100"`
	Photo    string `json:"photo" validate:"omitempty,max=500"`
	Password string `json:"password" validate:"omitempty,min=6"`
}

// UpdateMentorRequest represents payload for updating mentors.
type UpdateMentorRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	NIP      string `json:"nip" validate:"required,max=50"`
	Division string `json:"division" validate:"required,max=100"`
	Position string `json:"position" validate:"omitempty,max=100"`
	Photo    string `json:"photo" validate:"omitempty,max=500"`
	Password string `json:"password" validate:"omitempty,min=6"`
}

// MentorService orchestrates mentor operations.
type MentorService struct {
	repo      mentorRepository
	interns   mentorInternReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMentorService constructs a MentorService.
func NewMentorService(repo mentorRepository, interns mentorInternReader, validate *validator.Validate, logger *zap.Logger) *MentorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MentorService{repo: repo, interns: interns, validator: validate, logger: logger}
}

// List returns mentors matching the filter plus pagination data. Password
// hashes never leave the service layer.
func (s *MentorService) List(ctx context.Context, filter models.MentorFilter) ([]models.Mentor, *models.Pagination, error) {
	mentors, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list mentors")
	}

	filtered := mentors[:0:0]
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, mentor := range mentors {
		if filter.Division != "" && mentor.Division != filter.Division {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(mentor.Name), search) &&
			!strings.Contains(mentor.NIP, search) {
			continue
		}
		filtered = append(filtered, mentor.Sanitized())
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Name < filtered[j].Name })

	page, size, window := paginate(len(filtered), filter.Page, filter.PageSize)
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: len(filtered)}
	return filtered[window[0]:window[1]], pagination, nil
}

// Get returns a mentor by id.
func (s *MentorService) Get(ctx context.Context, id string) (*models.Mentor, error) {
	mentor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mentor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mentor")
	}
	clean := mentor.Sanitized()
	return &clean, nil
}

// Create registers a new mentor record.
func (s *MentorService) Create(ctx context.Context, req CreateMentorRequest) (*models.Mentor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mentor payload")
	}

	nip := strings.TrimSpace(req.NIP)
	exists, err := s.repo.ExistsByNIP(ctx, nip, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check NIP uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "NIP already registered")
	}

	password := req.Password
	if password == "" {
		password = defaultMentorPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	mentor := &models.Mentor{
		Name:         strings.TrimSpace(req.Name),
		NIP:          nip,
		Division:     strings.TrimSpace(req.Division),
		Position:     strings.TrimSpace(req.Position),
		Photo:        strings.TrimSpace(req.Photo),
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, mentor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create mentor")
	}
	clean := mentor.Sanitized()
	return &clean, nil
}

// Update modifies an existing mentor.
func (s *MentorService) Update(ctx context.Context, id string, req UpdateMentorRequest) (*models.Mentor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mentor payload")
	}

	mentor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mentor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mentor")
	}

	nip := strings.TrimSpace(req.NIP)
	exists, err := s.repo.ExistsByNIP(ctx, nip, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check NIP uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "NIP already registered")
	}

	mentor.Name = strings.TrimSpace(req.Name)
	mentor.NIP = nip
	mentor.Division = strings.TrimSpace(req.Division)
	mentor.Position = strings.TrimSpace(req.Position)
	mentor.Photo = strings.TrimSpace(req.Photo)
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
		}
		mentor.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, mentor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update mentor")
	}
	clean := mentor.Sanitized()
	return &clean, nil
}

// Delete removes a mentor. Deletion is refused while interns still
// reference the mentor so intern records never orphan.
func (s *MentorService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "mentor not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mentor")
	}

	assigned, err := s.interns.GetByMentorID(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check assigned interns")
	}
	if len(assigned) > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "mentor still has interns assigned")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete mentor")
	}
	return nil
}

// RecountInterns recomputes a mentor's supervised count from the roster.
// Pending submissions are excluded until approved.
func (s *MentorService) RecountInterns(ctx context.Context, mentorID string) error {
	mentor, err := s.repo.GetByID(ctx, mentorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// The mentor may have been removed concurrently, nothing to refresh.
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mentor")
	}

	assigned, err := s.interns.GetByMentorID(ctx, mentorID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assigned interns")
	}

	count := 0
	for _, intern := range assigned {
		if intern.Status == models.StatusActive || intern.Status == models.StatusAlumni {
			count++
		}
	}
	if mentor.TotalInterns == count {
		return nil
	}
	mentor.TotalInterns = count
	if err := s.repo.Update(ctx, mentor); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update mentor count")
	}
	return nil
}

// paginate clamps page inputs and returns the slice window for in-memory
// collections.
func paginate(total, page, size int) (int, int, [2]int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return page, size, [2]int{start, end}
}
