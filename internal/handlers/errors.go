package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"holoframe-backend/internal/apierr"
	"holoframe-backend/internal/models"
)

func respondError(c *gin.Context, err error) {
	e, ok := apierr.As(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal server error",
			Message: err.Error(),
		})
		return
	}

	resp := models.ErrorResponse{Error: e.Message, Detail: e.Detail}
	if resp.Error == "" {
		resp.Error = string(e.Kind)
	}
	if e.Err != nil {
		resp.Message = e.Err.Error()
	}
	c.JSON(e.Status(), resp)
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return false
	}
	return true
}
