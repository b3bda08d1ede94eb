package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"holoframe-backend/internal/models"
)

type FileAdmin interface {
	ListFiles(ctx context.Context, folder string) ([]models.AdminFile, error)
	DeleteFile(ctx context.Context, path string) error
}

type AdminHandler struct {
	files FileAdmin
}

func NewAdminHandler(files FileAdmin) *AdminHandler {
	return &AdminHandler{files: files}
}

// ListFiles godoc
// @Summary     List bucket files
// @Description Lists stored objects in one folder or, without a folder, in all of them
// @Tags        admin
// @Produce     json
// @Param       X-Admin-Password header string true  "Admin password"
// @Param       folder           query  string false "user_images, removed_backgrounds or veo_video"
// @Success     200 {object} map[string]interface{}
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /api/v1/admin/files [get]
func (h *AdminHandler) ListFiles(c *gin.Context) {
	files, err := h.files.ListFiles(c.Request.Context(), c.Query("folder"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "files": files})
}

// DeleteFile godoc
// @Summary     Delete a bucket file
// @Tags        admin
// @Accept      json
// @Produce     json
// @Param       X-Admin-Password header string                  true "Admin password"
// @Param       request          body   models.DeleteFileRequest true "Object path as folder/file"
// @Success     200 {object} map[string]interface{}
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /api/v1/admin/files [delete]
func (h *AdminHandler) DeleteFile(c *gin.Context) {
	var req models.DeleteFileRequest
	if !bindJSON(c, &req) {
		return
	}

	path := strings.TrimSpace(req.Path)
	if err := h.files.DeleteFile(c.Request.Context(), path); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "path": path})
}
