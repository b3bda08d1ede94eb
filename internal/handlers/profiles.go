package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"holoframe-backend/internal/middleware"
	"holoframe-backend/internal/models"
	"holoframe-backend/internal/supabase"
)

type ProfileReader interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

type ProfilesHandler struct {
	profiles   ProfileReader
	creditCost int
}

func NewProfilesHandler(profiles ProfileReader, creditCost int) *ProfilesHandler {
	return &ProfilesHandler{profiles: profiles, creditCost: creditCost}
}

// Me godoc
// @Summary     Current user's profile
// @Description Returns the caller's nickname, credit balance and the cost of one video
// @Tags        profiles
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.MeResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/v1/me [get]
func (h *ProfilesHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return
	}

	if h.profiles == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	profile, err := h.profiles.GetProfile(c.Request.Context(), userID)
	if errors.Is(err, supabase.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "user profile not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to load profile",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.MeResponse{
		ID:         profile.ID.String(),
		Nickname:   profile.Nickname,
		Credit:     profile.Credit,
		CreditCost: h.creditCost,
	})
}
