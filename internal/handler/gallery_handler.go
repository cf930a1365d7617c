package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/pln-intern-api/internal/service"
	appErrors "github.com/noah-isme/pln-intern-api/pkg/errors"
	"github.com/noah-isme/pln-intern-api/pkg/response"
)

// GalleryHandler wires gallery operations to HTTP routes.
type GalleryHandler struct {
	gallery *service.GalleryService
}

// NewGalleryHandler constructs a new GalleryHandler.
func NewGalleryHandler(gallery *service.GalleryService) *GalleryHandler {
	return &GalleryHandler{gallery: gallery}
}

// List godoc
// @Summary List gallery photos
// @Tags Gallery
// @Produce json
// @Param intern_id query string false "Filter by intern"
// @Success 200 {object} response.Envelope
// @Router /gallery [get]
func (h *GalleryHandler) List(c *gin.Context) {
	if internID := strings.TrimSpace(c.Query("intern_id")); internID != "" {
		photos, err := h.gallery.ListByIntern(c.Request.Context(), internID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, photos, nil)
		return
	}

	photos, err := h.gallery.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, photos, nil)
}

// Get godoc
// @Summary Get gallery photo detail
// @Tags Gallery
// @Produce json
// @Param id path string true "Photo ID"
// @Success 200 {object} response.Envelope
// @Router /gallery/{id} [get]
func (h *GalleryHandler) Get(c *gin.Context) {
	photo, err := h.gallery.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, photo, nil)
}

// Create godoc
// @Summary Attach a photo to an intern
// @Tags Gallery
// @Accept json
// @Produce json
// @Param payload body service.CreateGalleryPhotoRequest true "Photo payload"
// @Success 201 {object} response.Envelope
// @Router /gallery [post]
func (h *GalleryHandler) Create(c *gin.Context) {
	var req service.CreateGalleryPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid gallery payload"))
		return
	}
	photo, err := h.gallery.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, photo)
}

// Delete godoc
// @Summary Delete gallery photo
// @Tags Gallery
// @Produce json
// @Param id path string true "Photo ID"
// @Success 204 {object} nil
// @Router /gallery/{id} [delete]
func (h *GalleryHandler) Delete(c *gin.Context) {
	if err := h.gallery.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
