package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"holoframe-backend/internal/apierr"
	"holoframe-backend/internal/logger"
	"holoframe-backend/internal/models"
	"holoframe-backend/internal/supabase"
)

type ProfileStore interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	DeductCredit(ctx context.Context, userID uuid.UUID, amount int, reference string) (int, error)
	RecordUnreconciledCharge(ctx context.Context, userID uuid.UUID, amount int, reference, reason string) error
}

type HologramStore interface {
	CreateHologram(ctx context.Context, h *models.Hologram) (*models.Hologram, error)
}

// Biller gates generation on a profile's balance and charges after delivery.
type Biller struct {
	profiles ProfileStore
	cost     int
	log      *logger.Logger
}

func NewBiller(profiles ProfileStore, cost int, log *logger.Logger) *Biller {
	if log == nil {
		log = logger.Nop()
	}
	return &Biller{profiles: profiles, cost: cost, log: log}
}

func (b *Biller) Cost() int { return b.cost }

// CheckBalance loads the profile and rejects it when the balance is below cost.
func (b *Biller) CheckBalance(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	profile, err := b.profiles.GetProfile(ctx, userID)
	if errors.Is(err, supabase.ErrNotFound) {
		return nil, apierr.NotFound("profile not found")
	}
	if err != nil {
		return nil, apierr.New(apierr.KindInternal, "failed to load profile", err)
	}
	if profile.Credit < b.cost {
		return nil, apierr.InsufficientCredit(profile.Credit, b.cost)
	}
	return profile, nil
}

// Charge deducts the cost for a delivered asset and returns the new balance.
// A failed deduction does not fail the request: it is logged, recorded as an
// unreconciled ledger row, and lastKnown is returned.
func (b *Biller) Charge(ctx context.Context, userID uuid.UUID, lastKnown int, reference string) int {
	ctx = context.WithoutCancel(ctx)

	balance, err := b.profiles.DeductCredit(ctx, userID, b.cost, reference)
	if err == nil {
		return balance
	}

	b.log.Error("Credit deduction failed after delivery",
		"user_id", userID.String(),
		"amount", b.cost,
		"reference", reference,
		"error", err,
	)
	if recErr := b.profiles.RecordUnreconciledCharge(ctx, userID, b.cost, reference, err.Error()); recErr != nil {
		b.log.Error("Failed to record unreconciled charge",
			"user_id", userID.String(),
			"reference", reference,
			"error", recErr,
		)
	}
	return lastKnown
}

type hologramRecord struct {
	UserID           uuid.UUID
	Title            string
	Description      string
	OriginalImageURL string
	SourceImageURL   string
	VideoURL         string
	Platform         string
	HologramType     string
	UserPrompt       string
}

// recordHologram inserts the gallery row for a finished video. Failures are
// logged only.
func recordHologram(ctx context.Context, store HologramStore, log *logger.Logger, r hologramRecord) {
	if store == nil {
		return
	}

	h := &models.Hologram{
		UserID:           uuid.NullUUID{UUID: r.UserID, Valid: r.UserID != uuid.Nil},
		Title:            r.Title,
		Description:      r.Description,
		OriginalImageURL: r.OriginalImageURL,
		VideoURL:         r.VideoURL,
		Platform:         r.Platform,
		HologramType:     r.HologramType,
		UserPrompt:       sql.NullString{String: r.UserPrompt, Valid: r.UserPrompt != ""},
	}
	if h.OriginalImageURL == "" {
		h.OriginalImageURL = r.SourceImageURL
	} else if r.SourceImageURL != "" && r.SourceImageURL != r.OriginalImageURL {
		h.BackgroundRemovedImageURL = sql.NullString{String: r.SourceImageURL, Valid: true}
	}

	if _, err := store.CreateHologram(context.WithoutCancel(ctx), h); err != nil {
		log.Warn("Failed to record hologram", "user_id", r.UserID.String(), "video_url", r.VideoURL, "error", err)
	}
}
