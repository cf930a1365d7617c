package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/pln-intern-api/internal/models"
	appErrors "github.com/noah-isme/pln-intern-api/pkg/errors"
)

// DashboardCacheKeyPrefix namespaces cached dashboard payloads so store
// writes can invalidate them wholesale.
const DashboardCacheKeyPrefix = "dashboard:"

const statisticsCacheKey = DashboardCacheKeyPrefix + "statistics"

type dashboardInternReader interface {
	GetAll(ctx context.Context) ([]models.Intern, error)
}

type dashboardMentorReader interface {
	GetAll(ctx context.Context) ([]models.Mentor, error)
}

type dashboardGalleryReader interface {
	GetAll(ctx context.Context) ([]models.GalleryPhoto, error)
}

// DashboardOverview bundles the aggregates the landing page renders.
type DashboardOverview struct {
	Statistics   models.InternStatistics `json:"statistics"`
	MentorTotal  int                     `json:"mentor_total"`
	GalleryTotal int                     `json:"gallery_total"`
	Sync         models.SyncStatus       `json:"sync"`
	Metrics      models.SystemMetrics    `json:"metrics"`
}

// DashboardService aggregates roster statistics.
type DashboardService struct {
	interns  dashboardInternReader
	mentors  dashboardMentorReader
	gallery  dashboardGalleryReader
	backups  *BackupService
	cache    *CacheService
	metrics  *MetricsService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(interns dashboardInternReader, mentors dashboardMentorReader, gallery dashboardGalleryReader, backups *BackupService, cache *CacheService, metrics *MetricsService, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		interns:  interns,
		mentors:  mentors,
		gallery:  gallery,
		backups:  backups,
		cache:    cache,
		metrics:  metrics,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Statistics computes the roster breakdown, served from cache when warm.
func (s *DashboardService) Statistics(ctx context.Context) (*models.InternStatistics, error) {
	var cached models.InternStatistics
	if hit, err := s.cache.Get(ctx, statisticsCacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	interns, err := s.interns.GetAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load interns")
	}
	mentors, err := s.mentors.GetAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mentors")
	}

	mentorNames := make(map[string]string, len(mentors))
	for _, mentor := range mentors {
		mentorNames[mentor.ID] = mentor.Name
	}

	stats := models.InternStatistics{
		ByDivision: make(map[string]int),
		ByMentor:   make(map[string]int),
	}
	years := make(map[string]int)
	for _, intern := range interns {
		stats.Total++
		switch intern.Status {
		case models.StatusActive:
			stats.Active++
		case models.StatusAlumni:
			stats.Alumni++
		case models.StatusPending:
			stats.Pending++
		}
		if intern.Division != "" {
			stats.ByDivision[intern.Division]++
		}
		if name, ok := mentorNames[intern.MentorID]; ok {
			stats.ByMentor[name]++
		}
		if len(intern.PeriodStart) >= 4 {
			years[intern.PeriodStart[:4]]++
		}
	}

	stats.ByYear = make([]models.YearCount, 0, len(years))
	for year, count := range years {
		stats.ByYear = append(stats.ByYear, models.YearCount{Year: year, Count: count})
	}
	sort.Slice(stats.ByYear, func(i, j int) bool { return stats.ByYear[i].Year < stats.ByYear[j].Year })

	if err := s.cache.Set(ctx, statisticsCacheKey, stats, s.cacheTTL); err != nil {
		s.logger.Debug("statistics cache write skipped", zap.Error(err))
	}
	return &stats, nil
}

// Overview aggregates statistics, collection totals and sync health.
func (s *DashboardService) Overview(ctx context.Context) (*DashboardOverview, error) {
	stats, err := s.Statistics(ctx)
	if err != nil {
		return nil, err
	}
	mentors, err := s.mentors.GetAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mentors")
	}
	photos, err := s.gallery.GetAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load gallery")
	}

	return &DashboardOverview{
		Statistics:   *stats,
		MentorTotal:  len(mentors),
		GalleryTotal: len(photos),
		Sync:         s.backups.SyncStatus(ctx),
		Metrics:      s.metrics.Snapshot(),
	}, nil
}
