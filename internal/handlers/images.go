package handlers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"holoframe-backend/internal/models"
	"holoframe-backend/internal/services"
)

type ImageProcessor interface {
	RemoveBackground(ctx context.Context, imageURL string) (*models.StoredAsset, error)
	UploadUserImage(ctx context.Context, data []byte, fileName, contentType string) (*models.StoredAsset, error)
}

type ImagesHandler struct {
	images ImageProcessor
}

func NewImagesHandler(images ImageProcessor) *ImagesHandler {
	return &ImagesHandler{images: images}
}

// RemoveBackground godoc
// @Summary     Remove an image background
// @Description Runs background removal on imageUrl and stores the cut-out as removed_backgrounds/{n}.png
// @Tags        images
// @Accept      json
// @Produce     json
// @Param       request body models.RemoveBackgroundRequest true "Source image"
// @Success     200 {object} models.AssetResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/v1/remove-background [post]
func (h *ImagesHandler) RemoveBackground(c *gin.Context) {
	var req models.RemoveBackgroundRequest
	if !bindJSON(c, &req) {
		return
	}

	asset, err := h.images.RemoveBackground(c.Request.Context(), req.ImageURL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, assetResponse(asset))
}

// UploadUserImage godoc
// @Summary     Upload a source image
// @Description Stores an uploaded image as user_images/{n}.{ext}
// @Tags        images
// @Accept      multipart/form-data
// @Produce     json
// @Param       file formData file true "Image file (max 10MB)"
// @Success     200 {object} models.AssetResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/v1/user-images [post]
func (h *ImagesHandler) UploadUserImage(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to parse multipart form",
			Message: err.Error(),
		})
		return
	}

	// Try the common field names
	var header *multipart.FileHeader
	fieldNames := []string{"file", "image", "images"}
	for _, fieldName := range fieldNames {
		if f := c.Request.MultipartForm.File[fieldName]; len(f) > 0 {
			header = f[0]
			break
		}
	}
	if header == nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "no file uploaded",
			Message: fmt.Sprintf("please provide the image in one of these fields: %v", fieldNames),
		})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to open uploaded file", Message: err.Error()})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, services.MaxUserImageSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to read uploaded file", Message: err.Error()})
		return
	}

	asset, err := h.images.UploadUserImage(c.Request.Context(), data, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, assetResponse(asset))
}

func assetResponse(asset *models.StoredAsset) models.AssetResponse {
	return models.AssetResponse{
		Success:  true,
		ImageURL: asset.PublicURL,
		FileName: asset.FileName,
		FilePath: asset.FilePath,
	}
}
