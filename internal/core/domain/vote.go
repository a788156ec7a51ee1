package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vote is what one voter gave one target within one period. PeriodStart is
// the first instant of the month the vote belongs to and scopes uniqueness.
type Vote struct {
	ID          uuid.UUID `json:"id"`
	VoterID     string    `json:"voter_id"`
	TargetID    string    `json:"target_id"`
	Points      Points    `json:"points"`
	Comment     string    `json:"comment,omitempty"`
	PeriodStart time.Time `json:"period_start"`
	CreatedAt   time.Time `json:"created_at"`
	ModifiedAt  time.Time `json:"modified_at"`
}

// Updated reports whether the vote was resubmitted after its creation.
func (v *Vote) Updated() bool {
	return v.ModifiedAt.After(v.CreatedAt)
}
