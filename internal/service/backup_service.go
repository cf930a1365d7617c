package service

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/pln-intern-api/internal/models"
	"github.com/noah-isme/pln-intern-api/internal/store"
	appErrors "github.com/noah-isme/pln-intern-api/pkg/errors"
)

type backupRepository interface {
	Snapshot(ctx context.Context) ([]models.Mentor, []models.Intern, []models.GalleryPhoto, error)
	ReplaceAll(ctx context.Context, mentors []models.Mentor, interns []models.Intern, gallery []models.GalleryPhoto) error
}

type backupStore interface {
	Version() string
	LastSync() time.Time
	Clear() error
	Migrate(seed *store.SeedData) error
}

// MirrorObserver reports the health of the background mirror pipeline.
// A nil observer means the mirror is disabled entirely.
type MirrorObserver interface {
	Online() bool
	PendingChanges() int
}

// backupEnvelope mirrors models.BackupDocument with pointer collections so
// an absent key is distinguishable from an empty array during import.
type backupEnvelope struct {
	Version    *string                `json:"version"`
	ExportedAt *time.Time             `json:"exportedAt"`
	Interns    *[]models.Intern       `json:"interns"`
	Mentors    *[]models.Mentor       `json:"mentors"`
	Gallery    *[]models.GalleryPhoto `json:"gallery"`
}

// BackupService handles whole-store export, import, reset and sync status.
type BackupService struct {
	repo   backupRepository
	store  backupStore
	mirror MirrorObserver
	logger *zap.Logger
}

// NewBackupService constructs a BackupService.
func NewBackupService(repo backupRepository, st backupStore, mirror MirrorObserver, logger *zap.Logger) *BackupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackupService{repo: repo, store: st, mirror: mirror, logger: logger}
}

// Export captures every collection into a versioned backup document. The
// document includes mentor password hashes so imports restore logins; the
// endpoint serving it is admin only.
func (s *BackupService) Export(ctx context.Context) (*models.BackupDocument, error) {
	mentors, interns, gallery, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to snapshot store")
	}
	return &models.BackupDocument{
		Version:    s.store.Version(),
		ExportedAt: time.Now().UTC(),
		Interns:    interns,
		Mentors:    mentors,
		Gallery:    gallery,
	}, nil
}

// Import replaces every collection with the contents of a backup document.
// The document is validated before any write happens, a malformed backup
// leaves the store untouched.
func (s *BackupService) Import(ctx context.Context, raw []byte) error {
	doc, err := parseBackup(raw)
	if err != nil {
		return err
	}
	if err := s.repo.ReplaceAll(ctx, doc.Mentors, doc.Interns, doc.Gallery); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to apply backup")
	}
	s.logger.Info("backup imported",
		zap.Int("mentors", len(doc.Mentors)),
		zap.Int("interns", len(doc.Interns)),
		zap.Int("gallery", len(doc.Gallery)))
	return nil
}

// Reset wipes the store and restores the default seed data.
func (s *BackupService) Reset(ctx context.Context) error {
	seed, err := store.DefaultSeed()
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build seed data")
	}
	return s.reinitialise(seed)
}

// Clear wipes the store, leaving empty collections behind.
func (s *BackupService) Clear(ctx context.Context) error {
	return s.reinitialise(nil)
}

// SyncStatus assembles persistence observability for clients.
func (s *BackupService) SyncStatus(ctx context.Context) models.SyncStatus {
	status := models.SyncStatus{LastSync: s.store.LastSync()}
	if s.mirror != nil {
		status.IsOnline = s.mirror.Online()
		status.PendingChanges = s.mirror.PendingChanges()
	}
	return status
}

func (s *BackupService) reinitialise(seed *store.SeedData) error {
	if err := s.store.Clear(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear store")
	}
	if err := s.store.Migrate(seed); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reinitialise store")
	}
	return nil
}

func parseBackup(raw []byte) (*models.BackupDocument, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))

	var envelope backupEnvelope
	if err := decoder.Decode(&envelope); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrBadImport.Code, appErrors.ErrBadImport.Status, "backup document is not valid JSON")
	}
	if envelope.Version == nil || *envelope.Version == "" {
		return nil, appErrors.Clone(appErrors.ErrBadImport, "backup document is missing a version")
	}
	if envelope.Interns == nil || envelope.Mentors == nil {
		return nil, appErrors.Clone(appErrors.ErrBadImport, "backup document is missing collections")
	}
	// Older exports may lack the gallery key entirely.
	if envelope.Gallery == nil {
		envelope.Gallery = &[]models.GalleryPhoto{}
	}
	for _, mentor := range *envelope.Mentors {
		if mentor.ID == "" {
			return nil, appErrors.Clone(appErrors.ErrBadImport, "backup contains a mentor without an id")
		}
	}
	for _, intern := range *envelope.Interns {
		if intern.ID == "" {
			return nil, appErrors.Clone(appErrors.ErrBadImport, "backup contains an intern without an id")
		}
		if intern.Status != "" && !intern.Status.Valid() {
			return nil, appErrors.Clone(appErrors.ErrBadImport, "backup contains an intern with an unknown status")
		}
	}
	for _, photo := range *envelope.Gallery {
		if photo.ID == "" {
			return nil, appErrors.Clone(appErrors.ErrBadImport, "backup contains a gallery photo without an id")
		}
	}

	doc := &models.BackupDocument{
		Version: *envelope.Version,
		Interns: *envelope.Interns,
		Mentors: *envelope.Mentors,
		Gallery: *envelope.Gallery,
	}
	if envelope.ExportedAt != nil {
		doc.ExportedAt = *envelope.ExportedAt
	}
	return doc, nil
}
