package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/pln-intern-api/internal/models"
	appErrors "github.com/noah-isme/pln-intern-api/pkg/errors"
	"github.com/noah-isme/pln-intern-api/pkg/export"
	"github.com/noah-isme/pln-intern-api/pkg/storage"
)

// ExportType enumerates the downloadable reports.
type ExportType string

const (
	ExportTypeInterns ExportType = "interns"
	ExportTypeMentors ExportType = "mentors"
)

// ExportFormat enumerates supported output formats.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

type exportInternReader interface {
	GetAll(ctx context.Context) ([]models.Intern, error)
}

type exportMentorReader interface {
	GetAll(ctx context.Context) ([]models.Mentor, error)
}

type exportFileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportRequest selects what to render.
type ExportRequest struct {
	Type   ExportType
	Format ExportFormat
	Status models.InternStatus
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string       `json:"relative_path"`
	Token        string       `json:"token"`
	URL          string       `json:"url"`
	Format       ExportFormat `json:"format"`
	ExpiresAt    time.Time    `json:"expires_at"`
}

// ExportService renders roster reports and persists the files behind
// signed download URLs.
type ExportService struct {
	interns exportInternReader
	mentors exportMentorReader
	storage exportFileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	signer  *storage.SignedURLSigner
	logger  *zap.Logger
	cfg     ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(interns exportInternReader, mentors exportMentorReader, files exportFileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportService{
		interns: interns,
		mentors: mentors,
		storage: files,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		signer:  signer,
		logger:  logger,
		cfg:     cfg,
	}
}

// Generate renders the requested report and stores the file.
func (s *ExportService) Generate(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	var (
		dataset export.Dataset
		title   string
		err     error
	)
	switch req.Type {
	case ExportTypeInterns:
		dataset, title, err = s.buildInternDataset(ctx, req.Status)
	case ExportTypeMentors:
		dataset, title, err = s.buildMentorDataset(ctx)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export type %q", req.Type))
	}
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch req.Format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", req.Format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	filename := fmt.Sprintf("%s_%s.%s", req.Type, time.Now().UTC().Format("20060102_150405"), req.Format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}

	token, expiresAt, err := s.signer.Generate(string(req.Type), relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download url")
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/exports/%s", prefix, token),
		Format:       req.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (exportType, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to a stored export file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Cleanup removes export files older than ttl, defaulting to the configured
// result TTL.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildInternDataset(ctx context.Context, status models.InternStatus) (export.Dataset, string, error) {
	interns, err := s.interns.GetAll(ctx)
	if err != nil {
		return export.Dataset{}, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load interns")
	}
	mentors, err := s.mentors.GetAll(ctx)
	if err != nil {
		return export.Dataset{}, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mentors")
	}
	mentorNames := make(map[string]string, len(mentors))
	for _, mentor := range mentors {
		mentorNames[mentor.ID] = mentor.Name
	}

	rows := make([]map[string]string, 0, len(interns))
	for _, intern := range interns {
		if status != "" && intern.Status != status {
			continue
		}
		rows = append(rows, map[string]string{
			"Name":     intern.Name,
			"School":   intern.School,
			"Major":    intern.Major,
			"Division": intern.Division,
			"Mentor":   mentorNames[intern.MentorID],
			"Period":   fmt.Sprintf("%s to %s", intern.PeriodStart, intern.PeriodEnd),
			"Status":   string(intern.Status),
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Name", "School", "Major", "Division", "Mentor", "Period", "Status"},
		Rows:    rows,
	}
	title := "Intern Roster"
	if status != "" {
		title = fmt.Sprintf("Intern Roster (%s)", status)
	}
	return dataset, title, nil
}

func (s *ExportService) buildMentorDataset(ctx context.Context) (export.Dataset, string, error) {
	mentors, err := s.mentors.GetAll(ctx)
	if err != nil {
		return export.Dataset{}, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mentors")
	}
	rows := make([]map[string]string, 0, len(mentors))
	for _, mentor := range mentors {
		rows = append(rows, map[string]string{
			"Name":     mentor.Name,
			"NIP":      mentor.NIP,
			"Division": mentor.Division,
			"Position": mentor.Position,
			"Interns":  fmt.Sprintf("%d", mentor.TotalInterns),
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Name", "NIP", "Division", "Position", "Interns"},
		Rows:    rows,
	}
	return dataset, "Mentor Directory", nil
}
