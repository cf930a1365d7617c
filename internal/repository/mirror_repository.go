package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/pln-intern-api/internal/models"
)

// MirrorRepository mirrors the local collections into Postgres tables.
// Writes happen at whole-collection granularity, matching the local
// store's last-writer-wins semantics. The mirror is best-effort and never
// consulted as a source of truth.
type MirrorRepository struct {
	db *sqlx.DB
}

// NewMirrorRepository constructs a MirrorRepository.
func NewMirrorRepository(db *sqlx.DB) *MirrorRepository {
	return &MirrorRepository{db: db}
}

type mirrorMentorRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	NIP          string    `db:"nip"`
	Division     string    `db:"division"`
	Position     string    `db:"position"`
	Photo        string    `db:"photo"`
	TotalInterns int       `db:"total_interns"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type mirrorInternRow struct {
	ID            string    `db:"id"`
	Name          string    `db:"name"`
	Phone         string    `db:"phone"`
	Email         string    `db:"email"`
	Address       string    `db:"address"`
	SocialMedia   string    `db:"social_media"`
	School        string    `db:"school"`
	Major         string    `db:"major"`
	Location      string    `db:"location"`
	Division      string    `db:"division"`
	MentorID      string    `db:"mentor_id"`
	PeriodStart   string    `db:"period_start"`
	PeriodEnd     string    `db:"period_end"`
	Impression    string    `db:"impression"`
	Message       string    `db:"message"`
	Status        string    `db:"status"`
	Photo         string    `db:"photo"`
	GalleryPhotos string    `db:"gallery_photos"`
	CreatedAt     time.Time `db:"created_at"`
}

type mirrorGalleryRow struct {
	ID         string    `db:"id"`
	InternID   string    `db:"intern_id"`
	InternName string    `db:"intern_name"`
	Photo      string    `db:"photo"`
	Caption    string    `db:"caption"`
	UploadedAt time.Time `db:"uploaded_at"`
}

// EnsureSchema creates the mirror tables when they do not exist yet.
func (r *MirrorRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS mirror_mentors (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			nip TEXT NOT NULL,
			division TEXT NOT NULL,
			position TEXT NOT NULL DEFAULT '',
			photo TEXT NOT NULL DEFAULT '',
			total_interns INT NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS mirror_interns (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			social_media TEXT NOT NULL DEFAULT '',
			school TEXT NOT NULL,
			major TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			division TEXT NOT NULL DEFAULT '',
			mentor_id TEXT NOT NULL,
			period_start TEXT NOT NULL DEFAULT '',
			period_end TEXT NOT NULL DEFAULT '',
			impression TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			photo TEXT NOT NULL DEFAULT '',
			gallery_photos TEXT NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS mirror_gallery (
			id TEXT PRIMARY KEY,
			intern_id TEXT NOT NULL,
			intern_name TEXT NOT NULL DEFAULT '',
			photo TEXT NOT NULL,
			caption TEXT NOT NULL DEFAULT '',
			uploaded_at TIMESTAMPTZ NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure mirror schema: %w", err)
		}
	}
	return nil
}

// ReplaceMentors rewrites the mentor mirror table inside one transaction.
func (r *MirrorRepository) ReplaceMentors(ctx context.Context, mentors []models.Mentor) error {
	rows := make([]mirrorMentorRow, 0, len(mentors))
	for _, mentor := range mentors {
		rows = append(rows, mirrorMentorRow{
			ID:           mentor.ID,
			Name:         mentor.Name,
			NIP:          mentor.NIP,
			Division:     mentor.Division,
			Position:     mentor.Position,
			Photo:        mentor.Photo,
			TotalInterns: mentor.TotalInterns,
			UpdatedAt:    mentor.UpdatedAt,
		})
	}
	const insert = `INSERT INTO mirror_mentors (id, name, nip, division, position, photo, total_interns, updated_at)
		VALUES (:id, :name, :nip, :division, :position, :photo, :total_interns, :updated_at)`
	return r.replaceTable(ctx, "mirror_mentors", insert, len(rows), func(tx *sqlx.Tx) error {
		for _, row := range rows {
			if _, err := tx.NamedExecContext(ctx, insert, row); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceInterns rewrites the intern mirror table inside one transaction.
func (r *MirrorRepository) ReplaceInterns(ctx context.Context, interns []models.Intern) error {
	rows := make([]mirrorInternRow, 0, len(interns))
	for _, intern := range interns {
		encoded, err := json.Marshal(intern.GalleryPhotos)
		if err != nil {
			return fmt.Errorf("encode gallery refs for %s: %w", intern.ID, err)
		}
		rows = append(rows, mirrorInternRow{
			ID:            intern.ID,
			Name:          intern.Name,
			Phone:         intern.Phone,
			Email:         intern.Email,
			Address:       intern.Address,
			SocialMedia:   intern.SocialMedia,
			School:        intern.School,
			Major:         intern.Major,
			Location:      intern.Location,
			Division:      intern.Division,
			MentorID:      intern.MentorID,
			PeriodStart:   intern.PeriodStart,
			PeriodEnd:     intern.PeriodEnd,
			Impression:    intern.Impression,
			Message:       intern.Message,
			Status:        string(intern.Status),
			Photo:         intern.Photo,
			GalleryPhotos: string(encoded),
			CreatedAt:     intern.CreatedAt,
		})
	}
	const insert = `INSERT INTO mirror_interns (id, name, phone, email, address, social_media, school, major, location, division, mentor_id, period_start, period_end, impression, message, status, photo, gallery_photos, created_at)
		VALUES (:id, :name, :phone, :email, :address, :social_media, :school, :major, :location, :division, :mentor_id, :period_start, :period_end, :impression, :message, :status, :photo, :gallery_photos, :created_at)`
	return r.replaceTable(ctx, "mirror_interns", insert, len(rows), func(tx *sqlx.Tx) error {
		for _, row := range rows {
			if _, err := tx.NamedExecContext(ctx, insert, row); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceGallery rewrites the gallery mirror table inside one transaction.
func (r *MirrorRepository) ReplaceGallery(ctx context.Context, photos []models.GalleryPhoto) error {
	rows := make([]mirrorGalleryRow, 0, len(photos))
	for _, photo := range photos {
		rows = append(rows, mirrorGalleryRow{
			ID:         photo.ID,
			InternID:   photo.InternID,
			InternName: photo.InternName,
			Photo:      photo.Photo,
			Caption:    photo.Caption,
			UploadedAt: photo.UploadedAt,
		})
	}
	const insert = `INSERT INTO mirror_gallery (id, intern_id, intern_name, photo, caption, uploaded_at)
		VALUES (:id, :intern_id, :intern_name, :photo, :caption, :uploaded_at)`
	return r.replaceTable(ctx, "mirror_gallery", insert, len(rows), func(tx *sqlx.Tx) error {
		for _, row := range rows {
			if _, err := tx.NamedExecContext(ctx, insert, row); err != nil {
				return err
			}
		}
		return nil
	})
}

// Ping reports mirror reachability.
func (r *MirrorRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *MirrorRepository) replaceTable(ctx context.Context, table, insert string, count int, insertAll func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin mirror tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("truncate %s: %w", table, err)
	}
	if count > 0 {
		if err := insertAll(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("fill %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", table, err)
	}
	return nil
}
