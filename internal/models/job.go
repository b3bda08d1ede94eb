package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const (
	JobStatusSubmitted     = "submitted"
	JobStatusProcessing    = "processing"
	JobStatusMaterializing = "materializing"
	JobStatusSucceeded     = "succeeded"
	JobStatusFailed        = "failed"
	JobStatusTimedOut      = "timed_out"
)

// GenerationJob tracks an asynchronous Veo operation until its video is
// stored and charged.
type GenerationJob struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	OperationName    string
	Platform         string
	Status           string
	Prompt           string
	HologramType     string
	Title            string
	Description      string
	OriginalImageURL string
	SourceImageURL   string
	VideoURL         sql.NullString
	ErrorMessage     sql.NullString
	Polls            int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (j *GenerationJob) Pending() bool {
	return j.Status == JobStatusSubmitted || j.Status == JobStatusProcessing
}
