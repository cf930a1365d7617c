package service

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/pln-intern-api/internal/models"
	"github.com/noah-isme/pln-intern-api/internal/store"
	appErrors "github.com/noah-isme/pln-intern-api/pkg/errors"
)

type internRepository interface {
	GetAll(ctx context.Context) ([]models.Intern, error)
	GetByID(ctx context.Context, id string) (*models.Intern, error)
	GetByMentorID(ctx context.Context, mentorID string) ([]models.Intern, error)
	GetByStatus(ctx context.Context, status models.InternStatus) ([]models.Intern, error)
	Search(ctx context.Context, query string) ([]models.Intern, error)
	Create(ctx context.Context, intern *models.Intern) error
	Update(ctx context.Context, intern *models.Intern) error
	DeleteWithGallery(ctx context.Context, id string) error
}

type internMentorReader interface {
	GetByID(ctx context.Context, id string) (*models.Mentor, error)
}

type mentorRecounter interface {
	RecountInterns(ctx context.Context, mentorID string) error
}

type internGalleryWriter interface {
	CreateMany(ctx context.Context, batch []models.GalleryPhoto) error
}

// phoneRx restricts contact numbers to digits, plus, dash and spaces.
var phoneRx = regexp.MustCompile(`^[0-9+\-\s]+$`)

// CreateInternRequest represents an internship submission payload.
type CreateInternRequest struct {
	Name          string   `json:"name" validate:"required,max=200"`
	Phone         string   `json:"phone" validate:"omitempty,max=50,phone"`
	Email         string   `json:"email" validate:"omitempty,email"`
	Address       string   `json:"address" validate:"omitempty,max=500"`
	SocialMedia   string   `json:"social_media" validate:"omitempty,max=200"`
	School        string   `json:"school" validate:"required,max=200"`
	Major         string   `json:"major" validate:"omitempty,max=200"`
	Location      string   `json:"location" validate:"omitempty,max=200"`
	Division      string   `json:"division" validate:"omitempty,max=100"`
	MentorID      string   `json:"mentor_id" validate:"required"`
	PeriodStart   string   `json:"period_start" validate:"required,datetime=2006-01-02"`
	PeriodEnd     string   `json:"period_end" validate:"required,datetime=2006-01-02"`
	Impression    string   `json:"impression" validate:"omitempty,max=2000"`
	Message       string   `json:"message" validate:"omitempty,max=2000"`
	Photo         string   `json:"photo" validate:"omitempty,max=500"`
	GalleryPhotos []string `json:"gallery_photos" validate:"omitempty,dive,max=500"`
}

// UpdateInternRequest represents payload for updating intern records.
type UpdateInternRequest struct {
	Name          string   `json:"name" validate:"required,max=200"`
	Phone         string   `json:"phone" validate:"omitempty,max=50,phone"`
	Email         string   `json:"email" validate:"omitempty,email"`
	Address       string   `json:"address" validate:"omitempty,max=500"`
	SocialMedia   string   `json:"social_media" validate:"omitempty,max=200"`
	School        string   `json:"school" validate:"required,max=200"`
	Major         string   `json:"major" validate:"omitempty,max=200"`
	Location      string   `json:"location" validate:"omitempty,max=200"`
	Division      string   `json:"division" validate:"omitempty,max=100"`
	MentorID      string   `json:"mentor_id" validate:"required"`
	PeriodStart   string   `json:"period_start" validate:"required,datetime=2006-01-02"`
	PeriodEnd     string   `json:"period_end" validate:"required,datetime=2006-01-02"`
	Impression    string   `json:"impression" validate:"omitempty,max=2000"`
	Message       string   `json:"message" validate:"omitempty,max=2000"`
	Photo         string   `json:"photo" validate:"omitempty,max=500"`
	GalleryPhotos []string `json:"gallery_photos" validate:"omitempty,dive,max=500"`
	Status        string   `json:"status" validate:"omitempty,oneof=pending active alumni"`
}

// InternService orchestrates the intern lifecycle: submission, approval,
// rejection and roster maintenance.
type InternService struct {
	repo      internRepository
	mentors   internMentorReader
	recounter mentorRecounter
	gallery   internGalleryWriter
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewInternService constructs an InternService.
func NewInternService(repo internRepository, mentors internMentorReader, recounter mentorRecounter, gallery internGalleryWriter, validate *validator.Validate, logger *zap.Logger) *InternService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &InternService{
		repo:      repo,
		mentors:   mentors,
		recounter: recounter,
		gallery:   gallery,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
	svc.validator.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRx.MatchString(fl.Field().String())
	})
	return svc
}

// List returns interns matching the filter plus pagination data.
func (s *InternService) List(ctx context.Context, filter models.InternFilter) ([]models.Intern, *models.Pagination, error) {
	var (
		interns []models.Intern
		err     error
	)
	if filter.Status != "" {
		interns, err = s.repo.GetByStatus(ctx, filter.Status)
	} else {
		interns, err = s.repo.GetAll(ctx)
	}
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list interns")
	}

	filtered := make([]models.Intern, 0, len(interns))
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, intern := range interns {
		if filter.MentorID != "" && intern.MentorID != filter.MentorID {
			continue
		}
		if search != "" && !internMatches(intern, search) {
			continue
		}
		filtered = append(filtered, intern)
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].CreatedAt.After(filtered[j].CreatedAt) })

	page, size, window := paginate(len(filtered), filter.Page, filter.PageSize)
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: len(filtered)}
	return filtered[window[0]:window[1]], pagination, nil
}

// Get returns an intern by id.
func (s *InternService) Get(ctx context.Context, id string) (*models.Intern, error) {
	intern, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "intern not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load intern")
	}
	return intern, nil
}

// ListByMentor returns all interns assigned to one mentor.
func (s *InternService) ListByMentor(ctx context.Context, mentorID string) ([]models.Intern, error) {
	interns, err := s.repo.GetByMentorID(ctx, mentorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list interns by mentor")
	}
	return interns, nil
}

// Search performs a free-text roster search.
func (s *InternService) Search(ctx context.Context, query string) ([]models.Intern, error) {
	interns, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search interns")
	}
	return interns, nil
}

// Create stores a new submission in pending state. Gallery photos attached
// to the submission are materialised as gallery records immediately.
func (s *InternService) Create(ctx context.Context, req CreateInternRequest) (*models.Intern, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid intern payload")
	}
	if err := validatePeriod(req.PeriodStart, req.PeriodEnd); err != nil {
		return nil, err
	}
	if err := s.ensureMentorExists(ctx, req.MentorID); err != nil {
		return nil, err
	}

	intern := &models.Intern{
		Name:          strings.TrimSpace(req.Name),
		Phone:         strings.TrimSpace(req.Phone),
		Email:         strings.TrimSpace(req.Email),
		Address:       strings.TrimSpace(req.Address),
		SocialMedia:   strings.TrimSpace(req.SocialMedia),
		School:        strings.TrimSpace(req.School),
		Major:         strings.TrimSpace(req.Major),
		Location:      strings.TrimSpace(req.Location),
		Division:      strings.TrimSpace(req.Division),
		MentorID:      req.MentorID,
		PeriodStart:   req.PeriodStart,
		PeriodEnd:     req.PeriodEnd,
		Impression:    strings.TrimSpace(req.Impression),
		Message:       strings.TrimSpace(req.Message),
		Photo:         strings.TrimSpace(req.Photo),
		GalleryPhotos: req.GalleryPhotos,
		Status:        models.StatusPending,
	}
	if err := s.repo.Create(ctx, intern); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create intern")
	}

	if len(req.GalleryPhotos) > 0 {
		batch := make([]models.GalleryPhoto, 0, len(req.GalleryPhotos))
		for _, photo := range req.GalleryPhotos {
			batch = append(batch, models.GalleryPhoto{
				ID:         uuid.NewString(),
				InternID:   intern.ID,
				InternName: intern.Name,
				Photo:      photo,
				UploadedAt: s.now(),
			})
		}
		if err := s.gallery.CreateMany(ctx, batch); err != nil {
			s.logger.Warn("failed to materialise submission gallery photos",
				zap.String("intern_id", intern.ID), zap.Error(err))
		}
	}
	return intern, nil
}

// Update modifies an existing intern. An approved intern can never be moved
// back to pending.
func (s *InternService) Update(ctx context.Context, id string, req UpdateInternRequest) (*models.Intern, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid intern payload")
	}
	if err := validatePeriod(req.PeriodStart, req.PeriodEnd); err != nil {
		return nil, err
	}

	intern, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "intern not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load intern")
	}

	if req.Status != "" {
		requested := models.InternStatus(req.Status)
		if requested == models.StatusPending && intern.Status != models.StatusPending {
			return nil, appErrors.Clone(appErrors.ErrConflict, "an approved intern cannot return to pending")
		}
		intern.Status = requested
	}

	previousMentor := intern.MentorID
	if err := s.ensureMentorExists(ctx, req.MentorID); err != nil {
		return nil, err
	}

	intern.Name = strings.TrimSpace(req.Name)
	intern.Phone = strings.TrimSpace(req.Phone)
	intern.Email = strings.TrimSpace(req.Email)
	intern.Address = strings.TrimSpace(req.Address)
	intern.SocialMedia = strings.TrimSpace(req.SocialMedia)
	intern.School = strings.TrimSpace(req.School)
	intern.Major = strings.TrimSpace(req.Major)
	intern.Location = strings.TrimSpace(req.Location)
	intern.Division = strings.TrimSpace(req.Division)
	intern.MentorID = req.MentorID
	intern.PeriodStart = req.PeriodStart
	intern.PeriodEnd = req.PeriodEnd
	intern.Impression = strings.TrimSpace(req.Impression)
	intern.Message = strings.TrimSpace(req.Message)
	intern.Photo = strings.TrimSpace(req.Photo)
	intern.GalleryPhotos = req.GalleryPhotos

	if err := s.repo.Update(ctx, intern); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update intern")
	}

	s.refreshMentorCounts(ctx, previousMentor, intern.MentorID)
	return intern, nil
}

// Approve promotes a pending submission. A submission whose period already
// ended lands directly in alumni, otherwise it becomes active.
func (s *InternService) Approve(ctx context.Context, id string) (*models.Intern, error) {
	intern, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "intern not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load intern")
	}
	if intern.Status != models.StatusPending {
		return nil, appErrors.Clone(appErrors.ErrConflict, "intern is not pending approval")
	}

	if intern.PeriodEnded(s.now()) {
		intern.Status = models.StatusAlumni
	} else {
		intern.Status = models.StatusActive
	}
	if err := s.repo.Update(ctx, intern); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to approve intern")
	}

	s.refreshMentorCounts(ctx, intern.MentorID)
	return intern, nil
}

// Reject discards a pending submission together with its gallery records.
func (s *InternService) Reject(ctx context.Context, id string) error {
	intern, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "intern not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load intern")
	}
	if intern.Status != models.StatusPending {
		return appErrors.Clone(appErrors.ErrConflict, "only pending interns can be rejected")
	}
	if err := s.repo.DeleteWithGallery(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reject intern")
	}
	return nil
}

// Delete removes an intern and cascades to its gallery records.
func (s *InternService) Delete(ctx context.Context, id string) error {
	intern, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "intern not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load intern")
	}
	if err := s.repo.DeleteWithGallery(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete intern")
	}
	s.refreshMentorCounts(ctx, intern.MentorID)
	return nil
}

func (s *InternService) ensureMentorExists(ctx context.Context, mentorID string) error {
	if _, err := s.mentors.GetByID(ctx, mentorID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrValidation, "mentor does not exist")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify mentor")
	}
	return nil
}

// refreshMentorCounts is best effort, count drift heals on the next write.
func (s *InternService) refreshMentorCounts(ctx context.Context, mentorIDs ...string) {
	seen := make(map[string]struct{}, len(mentorIDs))
	for _, id := range mentorIDs {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if err := s.recounter.RecountInterns(ctx, id); err != nil {
			s.logger.Warn("failed to refresh mentor intern count",
				zap.String("mentor_id", id), zap.Error(err))
		}
	}
}

func internMatches(intern models.Intern, search string) bool {
	for _, field := range []string{intern.Name, intern.School, intern.Division, intern.Major, intern.Location} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

func validatePeriod(start, end string) error {
	from, err := time.Parse("2006-01-02", start)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "invalid period start date")
	}
	to, err := time.Parse("2006-01-02", end)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "invalid period end date")
	}
	if to.Before(from) {
		return appErrors.Clone(appErrors.ErrValidation, "period end precedes period start")
	}
	return nil
}
