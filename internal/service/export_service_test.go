package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pln-intern-api/internal/models"
	appErrors "github.com/noah-isme/pln-intern-api/pkg/errors"
	"github.com/noah-isme/pln-intern-api/pkg/storage"
)

func newExportFixture(t *testing.T) *ExportService {
	t.Helper()
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)

	interns := &staticInternReader{interns: []models.Intern{
		{Name: "Ahmad Fauzi", School: "UI", Division: "Distribusi", MentorID: "m1", PeriodStart: "2026-01-01", PeriodEnd: "2026-03-01", Status: models.StatusActive},
		{Name: "Dewi Lestari", School: "ITB", Division: "TI", MentorID: "m1", PeriodStart: "2026-02-01", PeriodEnd: "2026-06-01", Status: models.StatusPending},
	}}
	mentors := &staticMentorReader{mentors: []models.Mentor{
		{ID: "m1", Name: "Budi Santoso", NIP: "100", Division: "Distribusi", TotalInterns: 1},
	}}
	return NewExportService(interns, mentors, files, signer, ExportConfig{}, nil)
}

func TestExportInternsCSV(t *testing.T) {
	svc := newExportFixture(t)

	result, err := svc.Generate(context.Background(), ExportRequest{Type: ExportTypeInterns, Format: ExportFormatCSV})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.True(t, strings.HasPrefix(result.URL, "/api/v1/exports/"))
	assert.True(t, result.ExpiresAt.After(time.Now()))

	fileID, relPath, _, err := svc.ParseToken(result.Token, false)
	require.NoError(t, err)
	assert.Equal(t, "interns", fileID)
	assert.Equal(t, result.RelativePath, relPath)

	file, err := svc.Open(relPath)
	require.NoError(t, err)
	defer file.Close()
	content, err := io.ReadAll(file)
	require.NoError(t, err)

	csv := string(content)
	assert.Contains(t, csv, "Name,School,Major,Division,Mentor,Period,Status")
	assert.Contains(t, csv, "Ahmad Fauzi")
	assert.Contains(t, csv, "Budi Santoso", "mentor ids resolve to display names")
	assert.Contains(t, csv, "2026-01-01 to 2026-03-01")
}

func TestExportInternsStatusFilter(t *testing.T) {
	svc := newExportFixture(t)

	result, err := svc.Generate(context.Background(), ExportRequest{
		Type: ExportTypeInterns, Format: ExportFormatCSV, Status: models.StatusActive,
	})
	require.NoError(t, err)

	file, err := svc.Open(result.RelativePath)
	require.NoError(t, err)
	defer file.Close()
	content, err := io.ReadAll(file)
	require.NoError(t, err)

	assert.Contains(t, string(content), "Ahmad Fauzi")
	assert.NotContains(t, string(content), "Dewi Lestari")
}

func TestExportMentorsPDF(t *testing.T) {
	svc := newExportFixture(t)

	result, err := svc.Generate(context.Background(), ExportRequest{Type: ExportTypeMentors, Format: ExportFormatPDF})
	require.NoError(t, err)
	assert.Equal(t, ExportFormatPDF, result.Format)

	file, err := svc.Open(result.RelativePath)
	require.NoError(t, err)
	defer file.Close()
	content, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "%PDF"), "rendered file is a PDF document")
}

func TestExportRejectsUnknownTypeAndFormat(t *testing.T) {
	svc := newExportFixture(t)
	ctx := context.Background()

	_, err := svc.Generate(ctx, ExportRequest{Type: "payroll", Format: ExportFormatCSV})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrorCode(t, err))

	_, err = svc.Generate(ctx, ExportRequest{Type: ExportTypeInterns, Format: "xlsx"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrorCode(t, err))
}

func TestExportTamperedToken(t *testing.T) {
	svc := newExportFixture(t)

	result, err := svc.Generate(context.Background(), ExportRequest{Type: ExportTypeInterns, Format: ExportFormatCSV})
	require.NoError(t, err)

	_, _, _, err = svc.ParseToken(result.Token+"x", false)
	assert.Error(t, err)
}
