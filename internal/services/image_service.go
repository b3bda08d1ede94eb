package services

import (
	"context"
	"path"
	"strings"

	"holoframe-backend/internal/apierr"
	"holoframe-backend/internal/logger"
	"holoframe-backend/internal/models"
)

const MaxUserImageSize = 10 << 20

type BackgroundRemover interface {
	RemoveBackground(ctx context.Context, imageURL, version string) (string, error)
}

type ImageService struct {
	remover      BackgroundRemover
	rembgVersion string
	assets       *Materializer
	log          *logger.Logger
}

func NewImageService(remover BackgroundRemover, rembgVersion string, assets *Materializer, log *logger.Logger) *ImageService {
	if log == nil {
		log = logger.Nop()
	}
	return &ImageService{remover: remover, rembgVersion: rembgVersion, assets: assets, log: log}
}

// RemoveBackground cuts out imageURL and stores the result as
// removed_backgrounds/{n}.png.
func (s *ImageService) RemoveBackground(ctx context.Context, imageURL string) (*models.StoredAsset, error) {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return nil, apierr.Validation("imageUrl is required")
	}

	s.log.Info("Starting background removal", "image_url", imageURL)
	resultURL, err := s.remover.RemoveBackground(ctx, imageURL, s.rembgVersion)
	if err != nil {
		s.log.Error("Background removal failed", "image_url", imageURL, "error", err)
		return nil, err
	}

	asset, err := s.assets.Materialize(ctx, MaterializeInput{
		SourceURI:   resultURL,
		Folder:      FolderRemovedBackgrounds,
		Naming:      NamingSequential,
		Ext:         "png",
		ContentType: "image/png",
	})
	if err != nil {
		s.log.Error("Failed to store background-removed image", "source", resultURL, "error", err)
		return nil, err
	}

	s.log.Info("Background removal completed", "file_path", asset.FilePath)
	return asset, nil
}

// UploadUserImage stores an uploaded source image as user_images/{n}.{ext}.
func (s *ImageService) UploadUserImage(ctx context.Context, data []byte, fileName, contentType string) (*models.StoredAsset, error) {
	if len(data) == 0 {
		return nil, apierr.Validation("file is empty")
	}
	if len(data) > MaxUserImageSize {
		return nil, apierr.Validation("file is larger than 10MB")
	}
	contentType = strings.TrimSpace(contentType)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = contentTypeForExt(path.Ext(fileName))
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apierr.Validation("file must be an image")
	}

	ext := strings.TrimPrefix(strings.ToLower(path.Ext(fileName)), ".")
	if ext == "" || contentTypeForExt("."+ext) != contentType {
		ext = extForContentType(contentType)
	}

	return s.assets.Store(ctx, StoreInput{
		Data:        data,
		Folder:      FolderUserImages,
		Naming:      NamingSequential,
		Ext:         ext,
		ContentType: contentType,
	})
}
