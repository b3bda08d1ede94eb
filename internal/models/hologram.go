package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const (
	PlatformReplicate = "replicate"
	PlatformVeo       = "veo"
)

func ValidPlatform(p string) bool {
	return p == PlatformReplicate || p == PlatformVeo
}

type Hologram struct {
	ID                        uuid.UUID
	UserID                    uuid.NullUUID
	Title                     string
	Description               string
	OriginalImageURL          string
	BackgroundRemovedImageURL sql.NullString
	VideoURL                  string
	Platform                  string
	HologramType              string
	UserPrompt                sql.NullString
	CreatedAt                 time.Time
	UpdatedAt                 time.Time

	// Joined from profiles when listing.
	Nickname sql.NullString
}

// StoredAsset is an object that now lives in our bucket.
type StoredAsset struct {
	FileName    string
	FilePath    string
	PublicURL   string
	ContentType string
	Size        int
}
