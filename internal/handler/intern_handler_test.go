package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/pln-intern-api/internal/models"
	"github.com/noah-isme/pln-intern-api/internal/repository"
	"github.com/noah-isme/pln-intern-api/internal/service"
	"github.com/noah-isme/pln-intern-api/internal/store"
)

type internTestEnv struct {
	router *gin.Engine
	mentor *models.Mentor
}

func newInternTestEnv(t *testing.T) *internTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.Open(t.TempDir(), "pln", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, st.Migrate(nil))

	mentorRepo := repository.NewMentorRepository(st)
	internRepo := repository.NewInternRepository(st)
	galleryRepo := repository.NewGalleryRepository(st)

	mentorSvc := service.NewMentorService(mentorRepo, internRepo, nil, nil)
	internSvc := service.NewInternService(internRepo, mentorRepo, mentorSvc, galleryRepo, nil, nil)
	h := NewInternHandler(internSvc)

	router := gin.New()
	router.GET("/interns", h.List)
	router.GET("/interns/search", h.Search)
	router.GET("/interns/:id", h.Get)
	router.POST("/interns", h.Create)
	router.POST("/interns/:id/approve", h.Approve)
	router.POST("/interns/:id/reject", h.Reject)
	router.DELETE("/interns/:id", h.Delete)

	mentor, err := mentorSvc.Create(context.Background(), service.CreateMentorRequest{
		Name: "Budi Santoso", NIP: "100", Division: "Distribusi",
	})
	require.NoError(t, err)

	return &internTestEnv{router: router, mentor: mentor}
}

func (e *internTestEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *internTestEnv) submit(t *testing.T) models.Intern {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/interns", gin.H{
		"name": "Ahmad Fauzi", "phone": "0812345", "email": "ahmad@email.com",
		"school": "Universitas Indonesia", "mentor_id": e.mentor.ID,
		"period_start": "2026-01-01", "period_end": "2026-12-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var envelope struct {
		Data models.Intern `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestInternSubmissionFlow(t *testing.T) {
	env := newInternTestEnv(t)

	intern := env.submit(t)
	assert.Equal(t, models.StatusPending, intern.Status)
	assert.NotEmpty(t, intern.ID)

	rec := env.do(t, http.MethodGet, "/interns/"+intern.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, fmt.Sprintf("/interns/%s/approve", intern.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var envelope struct {
		Data models.Intern `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, models.StatusActive, envelope.Data.Status)

	rec = env.do(t, http.MethodPost, fmt.Sprintf("/interns/%s/approve", intern.ID), nil)
	assert.Equal(t, http.StatusConflict, rec.Code, "a second approval conflicts")
}

func TestInternRejectFlow(t *testing.T) {
	env := newInternTestEnv(t)

	intern := env.submit(t)
	rec := env.do(t, http.MethodPost, fmt.Sprintf("/interns/%s/reject", intern.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/interns/"+intern.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "rejection removes the record")
}

func TestInternCreateRejectsUnknownMentor(t *testing.T) {
	env := newInternTestEnv(t)

	rec := env.do(t, http.MethodPost, "/interns", gin.H{
		"name": "Ahmad", "phone": "0812345", "email": "ahmad@email.com",
		"school": "UI", "mentor_id": "ghost",
		"period_start": "2026-01-01", "period_end": "2026-12-01",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInternCreateMalformedBody(t *testing.T) {
	env := newInternTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/interns", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInternListStatusFilterValidation(t *testing.T) {
	env := newInternTestEnv(t)

	rec := env.do(t, http.MethodGet, "/interns?status=retired", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/interns?status=pending", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestInternSearchEndpoint(t *testing.T) {
	env := newInternTestEnv(t)
	env.submit(t)

	rec := env.do(t, http.MethodGet, "/interns/search?q=fauzi", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data []models.Intern `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "Ahmad Fauzi", envelope.Data[0].Name)
}

func TestInternDeleteEndpoint(t *testing.T) {
	env := newInternTestEnv(t)
	intern := env.submit(t)

	rec := env.do(t, http.MethodDelete, "/interns/"+intern.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodDelete, "/interns/"+intern.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
