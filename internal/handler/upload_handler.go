package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appErrors "github.com/noah-isme/pln-intern-api/pkg/errors"
	"github.com/noah-isme/pln-intern-api/pkg/response"
	"github.com/noah-isme/pln-intern-api/pkg/storage"
)

const maxUploadBytes = 8 << 20

var allowedUploadExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// UploadHandler receives photo uploads referenced by mentor, intern and
// gallery records.
type UploadHandler struct {
	files *storage.LocalStorage
}

// NewUploadHandler constructs a new UploadHandler.
func NewUploadHandler(files *storage.LocalStorage) *UploadHandler {
	return &UploadHandler{files: files}
}

// Upload godoc
// @Summary Upload a photo and receive its stored path
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image file"
// @Success 201 {object} response.Envelope
// @Router /uploads [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "missing file field"))
		return
	}
	if header.Size > maxUploadBytes {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file exceeds the 8MB upload limit"))
		return
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, ok := allowedUploadExts[ext]; !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unsupported image type"))
		return
	}

	src, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}
	defer src.Close()

	filename := fmt.Sprintf("%s_%s%s", time.Now().UTC().Format("20060102"), uuid.NewString(), ext)
	relPath, err := h.files.SaveStream(filename, src)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store upload"))
		return
	}

	response.Created(c, gin.H{"path": relPath})
}
