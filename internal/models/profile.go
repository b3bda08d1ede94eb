package models

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	ID       uuid.UUID
	Nickname string
	Credit   int
}

const (
	LedgerStatusCharged      = "charged"
	LedgerStatusUnreconciled = "unreconciled"
)

// CreditLedgerEntry records one deduction attempt.
type CreditLedgerEntry struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Amount    int
	Status    string
	Reference string
	Reason    string
	CreatedAt time.Time
}
