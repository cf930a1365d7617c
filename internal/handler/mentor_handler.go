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

// MentorHandler wires mentor services to HTTP routes.
type MentorHandler struct {
	mentors *service.MentorService
	interns *service.InternService
}

// NewMentorHandler constructs a new MentorHandler.
func NewMentorHandler(mentors *service.MentorService, interns *service.InternService) *MentorHandler {
	return &MentorHandler{mentors: mentors, interns: interns}
}

// List godoc
// @Summary List mentors
// @Tags Mentors
// @Produce json
// @Param search query string false "Search by name/NIP"
// @Param division query string false "Filter by division"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /mentors [get]
func (h *MentorHandler) List(c *gin.Context) {
	filter := models.MentorFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Division: strings.TrimSpace(c.Query("division")),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	mentors, pagination, err := h.mentors.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mentors, pagination)
}

// Get godoc
// @Summary Get mentor detail
// @Tags Mentors
// @Produce json
// @Param id path string true "Mentor ID"
// @Success 200 {object} response.Envelope
// @Router /mentors/{id} [get]
func (h *MentorHandler) Get(c *gin.Context) {
	mentor, err := h.mentors.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mentor, nil)
}

// Interns godoc
// @Summary List interns assigned to a mentor
// @Tags Mentors
// @Produce json
// @Param id path string true "Mentor ID"
// @Success 200 {object} response.Envelope
// @Router /mentors/{id}/interns [get]
func (h *MentorHandler) Interns(c *gin.Context) {
	interns, err := h.interns.ListByMentor(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, interns, nil)
}

// Create godoc
// @Summary Create mentor
// @Tags Mentors
// @Accept json
// @Produce json
// @Param payload body service.CreateMentorRequest true "Mentor payload"
// @Success 201 {object} response.Envelope
// @Router /mentors [post]
func (h *MentorHandler) Create(c *gin.Context) {
	var req service.CreateMentorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid mentor payload"))
		return
	}
	mentor, err := h.mentors.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, mentor)
}

// Update godoc
// @Summary Update mentor
// @Tags Mentors
// @Accept json
// @Produce json
// @Param id path string true "Mentor ID"
// @Param payload body service.UpdateMentorRequest true "Mentor payload"
// @Success 200 {object} response.Envelope
// @Router /mentors/{id} [put]
func (h *MentorHandler) Update(c *gin.Context) {
	var req service.UpdateMentorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid mentor payload"))
		return
	}
	mentor, err := h.mentors.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mentor, nil)
}

// Delete godoc
// @Summary Delete mentor
// @Tags Mentors
// @Produce json
// @Param id path string true "Mentor ID"
// @Success 204 {object} nil
// @Router /mentors/{id} [delete]
func (h *MentorHandler) Delete(c *gin.Context) {
	if err := h.mentors.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
