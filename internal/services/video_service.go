package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"holoframe-backend/internal/apierr"
	"holoframe-backend/internal/logger"
	"holoframe-backend/internal/models"
	"holoframe-backend/internal/prompts"
	"holoframe-backend/internal/replicate"
	"holoframe-backend/internal/vertex"
)

type ReplicateVideo interface {
	GenerateVideo(ctx context.Context, in replicate.VideoInput) (string, error)
}

type VeoClient interface {
	Submit(ctx context.Context, req vertex.GenerateRequest) (string, error)
	Wait(ctx context.Context, operationName string) (vertex.Result, error)
	FetchOperation(ctx context.Context, operationName string) (*vertex.Operation, error)
}

type CreateVideoInput struct {
	ImageURL         string
	Prompt           string
	Platform         string
	HologramType     string
	Title            string
	Description      string
	OriginalImageURL string
}

type CreateVideoResult struct {
	VideoURL        string
	FileName        string
	FilePath        string
	Platform        string
	RemainingCredit int
}

type VideoServiceConfig struct {
	ReplicateModel string
	VeoStorageURI  string
}

type VideoService struct {
	billing   *Biller
	holograms HologramStore
	jobs      JobStore
	replicate ReplicateVideo
	veo       VeoClient
	assets    *Materializer
	cfg       VideoServiceConfig
	log       *logger.Logger
}

func NewVideoService(
	billing *Biller,
	holograms HologramStore,
	jobs JobStore,
	replicateClient ReplicateVideo,
	veo VeoClient,
	assets *Materializer,
	cfg VideoServiceConfig,
	log *logger.Logger,
) *VideoService {
	if log == nil {
		log = logger.Nop()
	}
	return &VideoService{
		billing:   billing,
		holograms: holograms,
		jobs:      jobs,
		replicate: replicateClient,
		veo:       veo,
		assets:    assets,
		cfg:       cfg,
		log:       log,
	}
}

func (in *CreateVideoInput) normalize() error {
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	if in.ImageURL == "" {
		return apierr.Validation("imageUrl is required")
	}
	if strings.TrimSpace(in.Prompt) == "" {
		return apierr.Validation("prompt is required")
	}
	if in.Platform == "" {
		in.Platform = models.PlatformReplicate
	}
	if !models.ValidPlatform(in.Platform) {
		return apierr.Validation("platform must be replicate or veo")
	}
	if in.HologramType == "" {
		in.HologramType = string(prompts.OneSide)
	}
	if !prompts.HologramType(in.HologramType).Valid() {
		return apierr.Validation("hologramType must be 1side or 4sides")
	}
	return nil
}

// CreateVideo runs a full generation for userID and blocks until the video
// is stored. Balance is checked before any provider call and charged last.
func (s *VideoService) CreateVideo(ctx context.Context, userID uuid.UUID, in CreateVideoInput) (*CreateVideoResult, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	profile, err := s.billing.CheckBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	prompt := prompts.CreateHologramPrompt(in.Prompt, prompts.HologramType(in.HologramType))
	log := s.log.With("user_id", userID.String(), "platform", in.Platform)
	log.Info("Starting video generation", "hologram_type", in.HologramType)

	var sourceURI string
	switch in.Platform {
	case models.PlatformVeo:
		sourceURI, err = s.generateVeo(ctx, in.ImageURL, prompt)
	default:
		sourceURI, err = s.replicate.GenerateVideo(ctx, replicate.VideoInput{
			Model:    s.cfg.ReplicateModel,
			ImageURL: in.ImageURL,
			Prompt:   prompt,
		})
	}
	if err != nil {
		log.Error("Video generation failed", "error", err)
		return nil, err
	}

	asset, err := s.assets.Materialize(ctx, MaterializeInput{
		SourceURI:   sourceURI,
		Folder:      FolderVideos,
		Naming:      NamingOwner,
		OwnerKey:    userID.String(),
		Ext:         "mp4",
		ContentType: "video/mp4",
	})
	if err != nil {
		log.Error("Failed to store generated video", "source", sourceURI, "error", err)
		return nil, err
	}

	remaining := s.billing.Charge(ctx, userID, profile.Credit, asset.FilePath)

	recordHologram(ctx, s.holograms, log, hologramRecord{
		UserID:           userID,
		Title:            in.Title,
		Description:      in.Description,
		OriginalImageURL: in.OriginalImageURL,
		SourceImageURL:   in.ImageURL,
		VideoURL:         asset.PublicURL,
		Platform:         in.Platform,
		HologramType:     in.HologramType,
		UserPrompt:       in.Prompt,
	})

	log.Info("Video generation completed", "file_path", asset.FilePath, "remaining_credit", remaining)
	return &CreateVideoResult{
		VideoURL:        asset.PublicURL,
		FileName:        asset.FileName,
		FilePath:        asset.FilePath,
		Platform:        in.Platform,
		RemainingCredit: remaining,
	}, nil
}

// generateVeo sends the image inline and returns an HTTPS locator for the
// finished video.
func (s *VideoService) generateVeo(ctx context.Context, imageURL, prompt string) (string, error) {
	name, err := s.submitVeo(ctx, imageURL, prompt)
	if err != nil {
		return "", err
	}

	result, err := s.veo.Wait(ctx, name)
	if err != nil {
		return "", err
	}
	return result.HTTPURI()
}

func (s *VideoService) submitVeo(ctx context.Context, imageURL, prompt string) (string, error) {
	image, contentType, err := s.assets.Fetch(ctx, imageURL)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(contentType, "image/") {
		contentType = "image/png"
	}

	return s.veo.Submit(ctx, vertex.GenerateRequest{
		Prompt:        prompt,
		ImageBytes:    image,
		ImageMimeType: contentType,
		StorageURI:    s.cfg.VeoStorageURI,
	})
}

// StartVideo submits a Veo generation and returns the persisted job without
// waiting. The worker finishes it and charges credit on success.
func (s *VideoService) StartVideo(ctx context.Context, userID uuid.UUID, in CreateVideoInput) (*models.GenerationJob, error) {
	if in.Platform == "" {
		in.Platform = models.PlatformVeo
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if in.Platform != models.PlatformVeo {
		return nil, apierr.Validation("async generation is only available for veo")
	}
	if s.jobs == nil {
		return nil, apierr.Configuration("async generation requires DATABASE_URL")
	}

	if _, err := s.billing.CheckBalance(ctx, userID); err != nil {
		return nil, err
	}

	prompt := prompts.CreateHologramPrompt(in.Prompt, prompts.HologramType(in.HologramType))
	name, err := s.submitVeo(ctx, in.ImageURL, prompt)
	if err != nil {
		return nil, err
	}

	job, err := s.jobs.CreateJob(context.WithoutCancel(ctx), &models.GenerationJob{
		UserID:           userID,
		OperationName:    name,
		Platform:         models.PlatformVeo,
		Status:           models.JobStatusSubmitted,
		Prompt:           in.Prompt,
		HologramType:     in.HologramType,
		Title:            in.Title,
		Description:      in.Description,
		OriginalImageURL: in.OriginalImageURL,
		SourceImageURL:   in.ImageURL,
	})
	if err != nil {
		s.log.Error("Submitted operation could not be persisted", "operation", name, "user_id", userID.String(), "error", err)
		return nil, apierr.New(apierr.KindInternal, "failed to persist generation job", err)
	}

	s.log.Info("Video generation submitted", "operation", name, "job_id", job.ID.String(), "user_id", userID.String())
	return job, nil
}
