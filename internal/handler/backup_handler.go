package handler

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/pln-intern-api/internal/service"
	appErrors "github.com/noah-isme/pln-intern-api/pkg/errors"
	"github.com/noah-isme/pln-intern-api/pkg/response"
)

// backup uploads are small JSON documents, cap reads defensively
const maxBackupBytes = 32 << 20

// BackupHandler wires backup and sync status operations to HTTP routes.
type BackupHandler struct {
	backups *service.BackupService
}

// NewBackupHandler constructs a new BackupHandler.
func NewBackupHandler(backups *service.BackupService) *BackupHandler {
	return &BackupHandler{backups: backups}
}

// Export godoc
// @Summary Download a full backup document
// @Tags Backup
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.BackupDocument
// @Router /backup/export [get]
func (h *BackupHandler) Export(c *gin.Context) {
	doc, err := h.backups.Export(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("backup_%s.json", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.JSON(http.StatusOK, doc)
}

// Import godoc
// @Summary Replace the whole store with a backup document
// @Tags Backup
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 204 {object} nil
// @Router /backup/import [post]
func (h *BackupHandler) Import(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBackupBytes))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrBadImport.Code, http.StatusBadRequest, "failed to read backup document"))
		return
	}
	if err := h.backups.Import(c.Request.Context(), raw); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Reset godoc
// @Summary Wipe the store and restore seed data
// @Tags Backup
// @Produce json
// @Security BearerAuth
// @Success 204 {object} nil
// @Router /backup/reset [post]
func (h *BackupHandler) Reset(c *gin.Context) {
	if err := h.backups.Reset(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Clear godoc
// @Summary Wipe the store, leaving empty collections
// @Tags Backup
// @Produce json
// @Security BearerAuth
// @Success 204 {object} nil
// @Router /backup/clear [post]
func (h *BackupHandler) Clear(c *gin.Context) {
	if err := h.backups.Clear(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SyncStatus godoc
// @Summary Persistence and mirror health
// @Tags Backup
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sync/status [get]
func (h *BackupHandler) SyncStatus(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.backups.SyncStatus(c.Request.Context()), nil)
}
