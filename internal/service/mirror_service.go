package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/pln-intern-api/internal/models"
	"github.com/noah-isme/pln-intern-api/internal/store"
	"github.com/noah-isme/pln-intern-api/pkg/jobs"
)

type mirrorFlusher interface {
	EnsureSchema(ctx context.Context) error
	ReplaceMentors(ctx context.Context, mentors []models.Mentor) error
	ReplaceInterns(ctx context.Context, interns []models.Intern) error
	ReplaceGallery(ctx context.Context, photos []models.GalleryPhoto) error
	Ping(ctx context.Context) error
}

type mirrorSource interface {
	Snapshot(ctx context.Context) ([]models.Mentor, []models.Intern, []models.GalleryPhoto, error)
}

// MirrorService keeps a best-effort Postgres copy of the local store. Store
// events enqueue whole-collection flush jobs; a background worker pool
// drains them with retries. The roster keeps working when the mirror is
// down, the backlog just grows until connectivity returns.
type MirrorService struct {
	flusher  mirrorFlusher
	source   mirrorSource
	queue    *jobs.Queue
	metrics  *MetricsService
	logger   *zap.Logger
	interval time.Duration
	online   atomic.Bool
}

// NewMirrorService constructs a MirrorService with its own flush queue.
func NewMirrorService(flusher mirrorFlusher, source mirrorSource, metrics *MetricsService, logger *zap.Logger, queueCfg jobs.QueueConfig, pingInterval time.Duration) *MirrorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	if queueCfg.Logger == nil {
		queueCfg.Logger = logger
	}
	s := &MirrorService{
		flusher:  flusher,
		source:   source,
		metrics:  metrics,
		logger:   logger,
		interval: pingInterval,
	}
	s.queue = jobs.NewQueue("mirror-flush", s.flush, queueCfg)
	return s
}

// Start brings up the schema, workers and the health probe.
func (s *MirrorService) Start(ctx context.Context) {
	if err := s.flusher.EnsureSchema(ctx); err != nil {
		s.logger.Warn("mirror schema bootstrap failed", zap.Error(err))
	}
	s.refreshHealth(ctx)
	s.queue.Start(ctx)
	go s.pingLoop(ctx)

	// Flush everything once on boot so a mirror created after the store
	// catches up without waiting for the next write.
	for _, collection := range store.Collections() {
		s.enqueue(collection)
	}
}

// Stop drains the worker pool.
func (s *MirrorService) Stop() {
	s.queue.Stop()
}

// HandleEvent is registered as a store subscriber.
func (s *MirrorService) HandleEvent(ev store.Event) {
	s.enqueue(ev.Collection)
}

// Online reports the last observed mirror health.
func (s *MirrorService) Online() bool {
	return s.online.Load()
}

// PendingChanges reports flushes accepted but not yet applied.
func (s *MirrorService) PendingChanges() int {
	return s.queue.Depth()
}

func (s *MirrorService) enqueue(collection string) {
	err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    "flush",
		Payload: collection,
	})
	if err != nil {
		s.logger.Warn("mirror flush enqueue failed",
			zap.String("collection", collection), zap.Error(err))
	}
}

func (s *MirrorService) flush(ctx context.Context, job jobs.Job) error {
	collection, ok := job.Payload.(string)
	if !ok {
		return fmt.Errorf("unexpected flush payload %T", job.Payload)
	}

	mentors, interns, gallery, err := s.source.Snapshot(ctx)
	if err != nil {
		s.metrics.RecordMirrorFlush(false)
		return fmt.Errorf("snapshot store: %w", err)
	}

	switch collection {
	case store.CollectionMentors:
		err = s.flusher.ReplaceMentors(ctx, mentors)
	case store.CollectionInterns:
		err = s.flusher.ReplaceInterns(ctx, interns)
	case store.CollectionGallery:
		err = s.flusher.ReplaceGallery(ctx, gallery)
	default:
		return fmt.Errorf("unknown collection %q", collection)
	}
	if err != nil {
		s.metrics.RecordMirrorFlush(false)
		s.online.Store(false)
		return fmt.Errorf("flush %s: %w", collection, err)
	}

	s.metrics.RecordMirrorFlush(true)
	s.online.Store(true)
	return nil
}

func (s *MirrorService) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refreshHealth(ctx)
		}
	}
}

func (s *MirrorService) refreshHealth(ctx context.Context) {
	probe, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	healthy := s.flusher.Ping(probe) == nil
	if healthy != s.online.Swap(healthy) {
		s.logger.Info("mirror health changed", zap.Bool("online", healthy))
	}
}
