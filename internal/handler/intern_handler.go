package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/pln-intern-api/internal/models"
	"github.com/noah-isme/pln-intern-api/internal/service"
	appErrors "github.com/noah-isme/pln-intern-api/pkg/errors"
	"github.com/noah-isme/pln-intern-api/pkg/response"
)

// InternHandler wires the intern lifecycle to HTTP routes.
type InternHandler struct {
	interns *service.InternService
}

// NewInternHandler constructs a new InternHandler.
func NewInternHandler(interns *service.InternService) *InternHandler {
	return &InternHandler{interns: interns}
}

// List godoc
// @Summary List interns
// @Tags Interns
// @Produce json
// @Param search query string false "Search by name/school/division/major"
// @Param status query string false "Filter by status (pending/active/alumni)"
// @Param mentor_id query string false "Filter by assigned mentor"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /interns [get]
func (h *InternHandler) List(c *gin.Context) {
	filter := models.InternFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		MentorID: strings.TrimSpace(c.Query("mentor_id")),
		Status:   models.InternStatus(strings.TrimSpace(c.Query("status"))),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown status filter"))
		return
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	interns, pagination, err := h.interns.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, interns, pagination)
}

// Get godoc
// @Summary Get intern detail
// @Tags Interns
// @Produce json
// @Param id path string true "Intern ID"
// @Success 200 {object} response.Envelope
// @Router /interns/{id} [get]
func (h *InternHandler) Get(c *gin.Context) {
	intern, err := h.interns.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, intern, nil)
}

// Search godoc
// @Summary Search interns by free text
// @Tags Interns
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {object} response.Envelope
// @Router /interns/search [get]
func (h *InternHandler) Search(c *gin.Context) {
	interns, err := h.interns.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, interns, nil)
}

// Create godoc
// @Summary Submit an internship application
// @Tags Interns
// @Accept json
// @Produce json
// @Param payload body service.CreateInternRequest true "Submission payload"
// @Success 201 {object} response.Envelope
// @Router /interns [post]
func (h *InternHandler) Create(c *gin.Context) {
	var req service.CreateInternRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid intern payload"))
		return
	}
	intern, err := h.interns.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, intern)
}

// Update godoc
// @Summary Update intern
// @Tags Interns
// @Accept json
// @Produce json
// @Param id path string true "Intern ID"
// @Param payload body service.UpdateInternRequest true "Intern payload"
// @Success 200 {object} response.Envelope
// @Router /interns/{id} [put]
func (h *InternHandler) Update(c *gin.Context) {
	var req service.UpdateInternRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid intern payload"))
		return
	}
	intern, err := h.interns.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, intern, nil)
}

// Approve godoc
// @Summary Approve a pending submission
// @Tags Interns
// @Produce json
// @Param id path string true "Intern ID"
// @Success 200 {object} response.Envelope
// @Router /interns/{id}/approve [post]
func (h *InternHandler) Approve(c *gin.Context) {
	intern, err := h.interns.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, intern, nil)
}

// Reject godoc
// @Summary Reject and discard a pending submission
// @Tags Interns
// @Produce json
// @Param id path string true "Intern ID"
// @Success 204 {object} nil
// @Router /interns/{id}/reject [post]
func (h *InternHandler) Reject(c *gin.Context) {
	if err := h.interns.Reject(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Delete godoc
// @Summary Delete intern and its gallery photos
// @Tags Interns
// @Produce json
// @Param id path string true "Intern ID"
// @Success 204 {object} nil
// @Router /interns/{id} [delete]
func (h *InternHandler) Delete(c *gin.Context) {
	if err := h.interns.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
