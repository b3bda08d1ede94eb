package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"holoframe-backend/internal/models"
)

type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type GeminiHandler struct {
	gen TextGenerator
}

func NewGeminiHandler(gen TextGenerator) *GeminiHandler {
	return &GeminiHandler{gen: gen}
}

// Generate godoc
// @Summary     Gemini text generation
// @Tags        gemini
// @Accept      json
// @Produce     json
// @Param       request body models.GeminiRequest true "Prompt"
// @Success     200 {object} models.GeminiResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/v1/gemini [post]
func (h *GeminiHandler) Generate(c *gin.Context) {
	var req models.GeminiRequest
	if !bindJSON(c, &req) {
		return
	}

	text, err := h.gen.Generate(c.Request.Context(), req.Prompt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.GeminiResponse{Success: true, Response: text})
}
