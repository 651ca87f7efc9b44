package domain

import (
	"time"

	"github.com/google/uuid"
)

type Poll struct {
	ID                 uuid.UUID    `json:"id"`
	Title              string       `json:"title"`
	Description        string       `json:"description,omitempty"`
	CreatedBy          uuid.UUID    `json:"created_by"`
	Options            []PollOption `json:"options"`
	TotalVotes         int64        `json:"total_votes"`
	AllowMultipleVotes bool         `json:"allow_multiple_votes"`
	RequireAuthToVote  bool         `json:"require_auth_to_vote"`
	IsActive           bool         `json:"is_active"`
	ShareToken         string       `json:"share_token"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
	ExpiresAt          *time.Time   `json:"expires_at,omitempty"`
}

type PollOption struct {
	ID         uuid.UUID `json:"id"`
	PollID     uuid.UUID `json:"poll_id"`
	Text       string    `json:"text"`
	SortOrder  int       `json:"sort_order"`
	VoteCount  int64     `json:"vote_count"`
	Percentage float64   `json:"percentage"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Expired reports whether the poll's expiration, if any, has passed.
func (p *Poll) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && !p.ExpiresAt.After(now)
}

type PollStatus string

const (
	PollStatusActive   PollStatus = "active"
	PollStatusInactive PollStatus = "inactive"
	PollStatusExpired  PollStatus = "expired"
)

// PollSummary is the owner's view of a poll: counts plus derived status.
type PollSummary struct {
	Poll
	OptionCount int64      `json:"option_count"`
	Status      PollStatus `json:"status"`
}

// DeriveStatus computes a poll's status. Expiration wins over the active
// flag: an expired poll reports expired even while still flagged active.
func DeriveStatus(isActive bool, expiresAt *time.Time, now time.Time) PollStatus {
	if expiresAt != nil && !expiresAt.After(now) {
		return PollStatusExpired
	}
	if !isActive {
		return PollStatusInactive
	}
	return PollStatusActive
}
