package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"holoframe-backend/internal/middleware"
	"holoframe-backend/internal/models"
	"holoframe-backend/internal/prompts"
)

const (
	defaultHologramLimit = 50
	maxHologramLimit     = 200
	defaultArchiveLimit  = 100
	maxArchiveLimit      = 1000
)

type HologramRepository interface {
	ListHolograms(ctx context.Context, userID uuid.NullUUID, limit int) ([]models.Hologram, error)
	CreateHologram(ctx context.Context, h *models.Hologram) (*models.Hologram, error)
}

type VideoArchive interface {
	Archive(ctx context.Context, limit int) ([]models.ArchiveVideo, error)
}

type HologramsHandler struct {
	holograms HologramRepository
	archive   VideoArchive
}

func NewHologramsHandler(holograms HologramRepository, archive VideoArchive) *HologramsHandler {
	return &HologramsHandler{holograms: holograms, archive: archive}
}

// ListHolograms godoc
// @Summary     List holograms
// @Description Returns saved holograms newest first. mine=true restricts the list to the caller.
// @Tags        holograms
// @Produce     json
// @Param       limit query int    false "Max rows (default 50, max 200)"
// @Param       mine  query bool   false "Only the caller's holograms"
// @Success     200 {object} models.HologramListResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/v1/holograms [get]
func (h *HologramsHandler) ListHolograms(c *gin.Context) {
	if h.holograms == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	var owner uuid.NullUUID
	if mine, _ := strconv.ParseBool(c.Query("mine")); mine {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "sign in to list your holograms"})
			return
		}
		owner = uuid.NullUUID{UUID: userID, Valid: true}
	}

	rows, err := h.holograms.ListHolograms(c.Request.Context(), owner, queryLimit(c, defaultHologramLimit, maxHologramLimit))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list holograms",
			Message: err.Error(),
		})
		return
	}

	out := make([]models.HologramResponse, len(rows))
	for i := range rows {
		out[i] = models.NewHologramResponse(&rows[i])
	}
	c.JSON(http.StatusOK, models.HologramListResponse{Success: true, Holograms: out})
}

// CreateHologram godoc
// @Summary     Save a hologram
// @Description Records a finished hologram. The caller becomes the owner when signed in.
// @Tags        holograms
// @Accept      json
// @Produce     json
// @Param       request body models.CreateHologramRequest true "Hologram fields"
// @Success     200 {object} models.HologramCreatedResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/v1/holograms [post]
func (h *HologramsHandler) CreateHologram(c *gin.Context) {
	if h.holograms == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	var req models.CreateHologramRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.OriginalImageURL == "" || req.VideoURL == "" || req.Platform == "" || req.HologramType == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "missing required fields",
			Message: "original_image_url, video_url, platform and hologram_type are required",
		})
		return
	}
	if !models.ValidPlatform(req.Platform) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "platform must be replicate or veo"})
		return
	}
	if !prompts.HologramType(req.HologramType).Valid() {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "hologram_type must be 1side or 4sides"})
		return
	}

	row := &models.Hologram{
		Title:                     req.Title,
		Description:               req.Description,
		OriginalImageURL:          req.OriginalImageURL,
		BackgroundRemovedImageURL: nullString(req.BackgroundRemovedImageURL),
		VideoURL:                  req.VideoURL,
		Platform:                  req.Platform,
		HologramType:              req.HologramType,
		UserPrompt:                nullString(req.UserPrompt),
	}
	if userID, ok := middleware.UserID(c); ok {
		row.UserID = uuid.NullUUID{UUID: userID, Valid: true}
	}

	created, err := h.holograms.CreateHologram(c.Request.Context(), row)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to save hologram",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.HologramCreatedResponse{Success: true, Hologram: models.NewHologramResponse(created)})
}

// Archive godoc
// @Summary     Public video archive
// @Description Lists stored videos newest first with the owner's nickname
// @Tags        holograms
// @Produce     json
// @Param       limit query int false "Max videos (default 100)"
// @Success     200 {object} models.ArchiveResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/v1/archive [get]
func (h *HologramsHandler) Archive(c *gin.Context) {
	videos, err := h.archive.Archive(c.Request.Context(), queryLimit(c, defaultArchiveLimit, maxArchiveLimit))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ArchiveResponse{Success: true, Videos: videos})
}

func queryLimit(c *gin.Context, fallback, ceiling int) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil || n <= 0 {
		return fallback
	}
	return min(n, ceiling)
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}
