package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"holoframe-backend/internal/apierr"
	"holoframe-backend/internal/middleware"
	"holoframe-backend/internal/models"
	"holoframe-backend/internal/services"
)

type VideoCreator interface {
	CreateVideo(ctx context.Context, userID uuid.UUID, in services.CreateVideoInput) (*services.CreateVideoResult, error)
	StartVideo(ctx context.Context, userID uuid.UUID, in services.CreateVideoInput) (*models.GenerationJob, error)
}

type OperationChecker interface {
	CheckOperation(ctx context.Context, operationName, userID, platform string) (*services.OperationStatus, error)
}

type VideosHandler struct {
	videos     VideoCreator
	operations OperationChecker
}

func NewVideosHandler(videos VideoCreator, operations OperationChecker) *VideosHandler {
	return &VideosHandler{videos: videos, operations: operations}
}

// CreateVideo godoc
// @Summary     Generate a hologram video
// @Description Checks the caller's credit, generates a video from imageUrl with the chosen platform, stores it
// @Description under veo_video/ and deducts credit. With async=true (veo only) it returns 202 and a job id instead
// @Description of waiting; the job finishes in the background and is announced on the realtime topic jobs:{userId}.
// @Description prompt carries only the user's additional requirements. The server wraps it in the hologram template
// @Description for hologramType, so clients must not send a prompt they have already composed.
// @Tags        videos
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.CreateVideoRequest true "Generation options"
// @Success     200 {object} models.CreateVideoResponse
// @Success     202 {object} models.VideoJobResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/v1/hologram-videos [post]
func (h *VideosHandler) CreateVideo(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return
	}

	var req models.CreateVideoRequest
	if !bindJSON(c, &req) {
		return
	}

	in := services.CreateVideoInput{
		ImageURL:         req.ImageURL,
		Prompt:           req.Prompt,
		Platform:         req.Platform,
		HologramType:     req.HologramType,
		Title:            req.Title,
		Description:      req.Description,
		OriginalImageURL: req.OriginalImageURL,
	}

	if req.Async {
		job, err := h.videos.StartVideo(c.Request.Context(), userID, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, models.VideoJobResponse{
			Success:       true,
			JobID:         job.ID.String(),
			OperationName: job.OperationName,
			Status:        job.Status,
		})
		return
	}

	result, err := h.videos.CreateVideo(c.Request.Context(), userID, in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CreateVideoResponse{
		Success:         true,
		VideoURL:        result.VideoURL,
		FileName:        result.FileName,
		FilePath:        result.FilePath,
		Platform:        result.Platform,
		RemainingCredit: result.RemainingCredit,
	})
}

// CheckOperation godoc
// @Summary     Check a Veo operation
// @Description Reports whether a Veo operation has finished. Finished videos are stored under veo_video/ as
// @Description {userId}_{n}.mp4, or anonymous_{ms}.mp4 without a userId.
// @Tags        videos
// @Produce     json
// @Param       operationName query string true  "Operation name returned at submission"
// @Param       userId        query string false "Owner used for the stored file name"
// @Param       platform      query string false "Only veo is supported"
// @Success     200 {object} models.OperationResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.OperationResponse
// @Router      /api/v1/hologram-operations [get]
func (h *VideosHandler) CheckOperation(c *gin.Context) {
	userID := c.Query("userId")
	if id, ok := middleware.UserID(c); ok && userID == "" {
		userID = id.String()
	}

	status, err := h.operations.CheckOperation(c.Request.Context(), c.Query("operationName"), userID, c.Query("platform"))
	if err != nil {
		if e, ok := apierr.As(err); ok && finishedWithError(e.Kind) {
			resp := models.OperationResponse{Done: true, Status: services.OperationError, Error: e.Message, Detail: e.Detail}
			if e.Kind == apierr.KindTimeout {
				resp.Status = services.OperationTimedOut
			}
			if resp.Detail == "" && e.Err != nil {
				resp.Detail = e.Err.Error()
			}
			c.JSON(http.StatusInternalServerError, resp)
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.OperationResponse{
		Done:     status.Done,
		Status:   status.Status,
		VideoURL: status.VideoURL,
		FileName: status.FileName,
		FilePath: status.FilePath,
		Error:    status.Error,
	})
}

// finishedWithError reports whether an operation check error means the
// operation itself is over: it failed, timed out, or its video could not be
// stored.
func finishedWithError(kind apierr.Kind) bool {
	switch kind {
	case apierr.KindProvider, apierr.KindTimeout, apierr.KindStorage:
		return true
	}
	return false
}
