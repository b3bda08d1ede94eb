package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"holoframe-backend/internal/logger"
	"holoframe-backend/internal/models"
	"holoframe-backend/internal/supabase"
	"holoframe-backend/internal/vertex"
)

const (
	EventJobCompleted = "job_completed"
	EventJobFailed    = "job_failed"
)

type EventPublisher interface {
	PublishJobEvent(ctx context.Context, userID uuid.UUID, event string, payload map[string]interface{}) error
}

// JobService advances persisted Veo jobs: one provider fetch per call, then
// either a poll count bump or a terminal transition.
type JobService struct {
	jobs      JobStore
	veo       VeoClient
	assets    *Materializer
	billing   *Biller
	holograms HologramStore
	events    EventPublisher
	maxPolls  int
	log       *logger.Logger
}

func NewJobService(
	jobs JobStore,
	veo VeoClient,
	assets *Materializer,
	billing *Biller,
	holograms HologramStore,
	events EventPublisher,
	maxPolls int,
	log *logger.Logger,
) *JobService {
	if log == nil {
		log = logger.Nop()
	}
	if maxPolls <= 0 {
		maxPolls = vertex.DefaultMaxPolls
	}
	return &JobService{
		jobs:      jobs,
		veo:       veo,
		assets:    assets,
		billing:   billing,
		holograms: holograms,
		events:    events,
		maxPolls:  maxPolls,
		log:       log,
	}
}

func (s *JobService) ListPending(ctx context.Context, limit int) ([]models.GenerationJob, error) {
	return s.jobs.ListPendingJobs(ctx, limit)
}

func (s *JobService) ProcessJob(ctx context.Context, job *models.GenerationJob) error {
	log := s.log.With("job_id", job.ID.String(), "operation", job.OperationName)

	op, err := s.veo.FetchOperation(ctx, job.OperationName)
	if err != nil {
		// Fetch failures count as a poll so a dead operation still times out.
		log.Warn("Operation fetch failed", "error", err)
		return s.handlePending(ctx, job)
	}
	if !op.Done {
		return s.handlePending(ctx, job)
	}
	if claimed, err := s.claim(ctx, job); err != nil || !claimed {
		return err
	}
	if op.Error != nil {
		return s.HandleOperationFailed(ctx, job, models.JobStatusFailed, vertex.OperationFailure(op).Error())
	}
	return s.HandleOperationCompleted(ctx, job, op)
}

func (s *JobService) handlePending(ctx context.Context, job *models.GenerationJob) error {
	polls, err := s.jobs.IncrementJobPolls(ctx, job.ID)
	if errors.Is(err, supabase.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if polls >= s.maxPolls {
		if claimed, err := s.claim(ctx, job); err != nil || !claimed {
			return err
		}
		msg := fmt.Sprintf("video generation timed out after %d polls (영상 생성 시간 초과)", polls)
		return s.HandleOperationFailed(ctx, job, models.JobStatusTimedOut, msg)
	}
	return nil
}

// claim takes ownership of a finished job. Only the worker whose claim
// succeeds may store, charge, or fail it.
func (s *JobService) claim(ctx context.Context, job *models.GenerationJob) (bool, error) {
	claimed, err := s.jobs.ClaimJob(ctx, job.ID)
	if err != nil {
		return false, err
	}
	if !claimed {
		s.log.Info("Job already claimed", "job_id", job.ID.String(), "operation", job.OperationName)
	}
	return claimed, nil
}

// HandleOperationCompleted stores the video, charges the owner, records the
// hologram, and notifies subscribers. The caller must hold the job's claim.
func (s *JobService) HandleOperationCompleted(ctx context.Context, job *models.GenerationJob, op *vertex.Operation) error {
	log := s.log.With("job_id", job.ID.String(), "user_id", job.UserID.String())

	sourceURI, err := vertex.ParseResult(op.Response).SourceURI()
	if err != nil {
		return s.HandleOperationFailed(ctx, job, models.JobStatusFailed, err.Error())
	}

	asset, err := s.assets.Materialize(ctx, MaterializeInput{
		SourceURI:   sourceURI,
		Folder:      FolderVideos,
		Naming:      NamingOwner,
		OwnerKey:    job.UserID.String(),
		Ext:         "mp4",
		ContentType: "video/mp4",
	})
	if err != nil {
		return s.HandleOperationFailed(ctx, job, models.JobStatusFailed, fmt.Sprintf("failed to store video: %v", err))
	}

	lastKnown := 0
	if profile, err := s.billing.profiles.GetProfile(ctx, job.UserID); err == nil {
		lastKnown = profile.Credit
	}
	remaining := s.billing.Charge(ctx, job.UserID, lastKnown, job.OperationName)

	recordHologram(ctx, s.holograms, log, hologramRecord{
		UserID:           job.UserID,
		Title:            job.Title,
		Description:      job.Description,
		OriginalImageURL: job.OriginalImageURL,
		SourceImageURL:   job.SourceImageURL,
		VideoURL:         asset.PublicURL,
		Platform:         job.Platform,
		HologramType:     job.HologramType,
		UserPrompt:       job.Prompt,
	})

	if err := s.jobs.MarkJobSucceeded(ctx, job.ID, asset.PublicURL); err != nil {
		log.Error("Failed to mark job succeeded", "video_url", asset.PublicURL, "error", err)
		return err
	}
	log.Info("Job completed", "file_path", asset.FilePath, "remaining_credit", remaining)

	s.publish(ctx, job.UserID, EventJobCompleted, supabase.JobCompletedPayload(job, asset.PublicURL, remaining))
	return nil
}

func (s *JobService) HandleOperationFailed(ctx context.Context, job *models.GenerationJob, status, errorMsg string) error {
	if err := s.jobs.MarkJobFailed(ctx, job.ID, status, errorMsg); err != nil {
		return err
	}
	s.log.Warn("Job failed", "job_id", job.ID.String(), "status", status, "error", errorMsg)

	s.publish(ctx, job.UserID, EventJobFailed, supabase.JobFailedPayload(job, status, errorMsg))
	return nil
}

func (s *JobService) publish(ctx context.Context, userID uuid.UUID, event string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishJobEvent(ctx, userID, event, payload); err != nil {
		s.log.Warn("Failed to publish job event", "event", event, "user_id", userID.String(), "error", err)
	}
}
