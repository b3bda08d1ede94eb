package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"holoframe-backend/internal/apierr"
	"holoframe-backend/internal/logger"
	"holoframe-backend/internal/models"
	"holoframe-backend/internal/supabase"
	"holoframe-backend/internal/vertex"
)

const (
	OperationProcessing = "processing"
	OperationCompleted  = "completed"
	OperationError      = "error"
	OperationTimedOut   = "timed_out"
)

type JobStore interface {
	CreateJob(ctx context.Context, job *models.GenerationJob) (*models.GenerationJob, error)
	GetJobByOperation(ctx context.Context, operationName string) (*models.GenerationJob, error)
	ListPendingJobs(ctx context.Context, limit int) ([]models.GenerationJob, error)
	IncrementJobPolls(ctx context.Context, jobID uuid.UUID) (int, error)
	ClaimJob(ctx context.Context, jobID uuid.UUID) (bool, error)
	MarkJobSucceeded(ctx context.Context, jobID uuid.UUID, videoURL string) error
	MarkJobFailed(ctx context.Context, jobID uuid.UUID, status, message string) error
}

type OperationStatus struct {
	Done     bool
	Status   string
	VideoURL string
	FileName string
	FilePath string
	Error    string
}

type OperationService struct {
	jobs   JobStore
	veo    VeoClient
	assets *Materializer
	log    *logger.Logger
}

func NewOperationService(jobs JobStore, veo VeoClient, assets *Materializer, log *logger.Logger) *OperationService {
	if log == nil {
		log = logger.Nop()
	}
	return &OperationService{jobs: jobs, veo: veo, assets: assets, log: log}
}

// CheckOperation reports on a Veo operation. A tracked job answers from its
// row; otherwise the operation is fetched once and, when finished, its video
// is stored as {userID}_{n}.mp4 (or anonymous_{ms}.mp4).
func (s *OperationService) CheckOperation(ctx context.Context, operationName, userID, platform string) (*OperationStatus, error) {
	operationName = strings.TrimSpace(operationName)
	if operationName == "" {
		return nil, apierr.Validation("operationName is required")
	}
	if platform == "" {
		platform = models.PlatformVeo
	}
	if platform != models.PlatformVeo {
		return nil, apierr.Validation("only the veo platform supports operation checks")
	}

	if s.jobs != nil {
		job, err := s.jobs.GetJobByOperation(ctx, operationName)
		switch {
		case err == nil:
			return jobStatus(job), nil
		case !errors.Is(err, supabase.ErrNotFound):
			s.log.Warn("Job lookup failed, checking provider directly", "operation", operationName, "error", err)
		}
	}

	op, err := s.veo.FetchOperation(ctx, operationName)
	if err != nil {
		return nil, err
	}
	if !op.Done {
		return &OperationStatus{Status: OperationProcessing}, nil
	}
	if op.Error != nil {
		return nil, vertex.OperationFailure(op)
	}

	sourceURI, err := vertex.ParseResult(op.Response).SourceURI()
	if err != nil {
		return nil, err
	}

	asset, err := s.assets.Materialize(ctx, MaterializeInput{
		SourceURI:   sourceURI,
		Folder:      FolderVideos,
		Naming:      NamingOwner,
		OwnerKey:    strings.TrimSpace(userID),
		Ext:         "mp4",
		ContentType: "video/mp4",
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Operation video stored", "operation", operationName, "file_path", asset.FilePath)
	return &OperationStatus{
		Done:     true,
		Status:   OperationCompleted,
		VideoURL: asset.PublicURL,
		FileName: asset.FileName,
		FilePath: asset.FilePath,
	}, nil
}

func jobStatus(job *models.GenerationJob) *OperationStatus {
	switch job.Status {
	case models.JobStatusSucceeded:
		return &OperationStatus{Done: true, Status: OperationCompleted, VideoURL: job.VideoURL.String}
	case models.JobStatusFailed:
		return &OperationStatus{Done: true, Status: OperationError, Error: job.ErrorMessage.String}
	case models.JobStatusTimedOut:
		return &OperationStatus{Done: true, Status: OperationTimedOut, Error: job.ErrorMessage.String}
	default:
		return &OperationStatus{Status: OperationProcessing}
	}
}
