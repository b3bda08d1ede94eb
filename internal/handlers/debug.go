package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"holoframe-backend/internal/googleauth"
	"holoframe-backend/internal/models"
)

const tokenPreviewLen = 20

type CredentialChecker interface {
	AccessToken(ctx context.Context) (string, error)
	Method() googleauth.Method
	ProjectID() string
}

type DebugHandler struct {
	credentials CredentialChecker
	envCheck    map[string]bool
	now         func() time.Time
}

func NewDebugHandler(credentials CredentialChecker, envCheck map[string]bool) *DebugHandler {
	return &DebugHandler{credentials: credentials, envCheck: envCheck, now: time.Now}
}

// GoogleAuth godoc
// @Summary     Check Google credentials
// @Description Obtains a Google access token with the configured credential method and reports which settings are present
// @Tags        debug
// @Produce     json
// @Success     200 {object} models.DebugAuthResponse
// @Failure     500 {object} models.DebugAuthResponse
// @Router      /api/v1/debug/auth [get]
// @Router      /api/v1/debug/auth [post]
func (h *DebugHandler) GoogleAuth(c *gin.Context) {
	resp := models.DebugAuthResponse{
		EnvCheck:  h.envCheck,
		Timestamp: h.now().UTC(),
	}

	token, err := h.credentials.AccessToken(c.Request.Context())
	if err != nil {
		resp.Message = "google authentication failed"
		resp.Error = err.Error()
		c.JSON(http.StatusInternalServerError, resp)
		return
	}

	preview := token
	if len(preview) > tokenPreviewLen {
		preview = preview[:tokenPreviewLen]
	}

	resp.Success = true
	resp.Message = "google authentication succeeded"
	resp.ProjectID = h.credentials.ProjectID()
	resp.AuthMethod = string(h.credentials.Method())
	resp.TokenPreview = preview + "..."
	c.JSON(http.StatusOK, resp)
}
