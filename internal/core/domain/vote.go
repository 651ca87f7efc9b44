package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vote associates a poll option with either an authenticated user (UserID
// set) or an anonymous voter (VoterEmail, and optionally VoterName, set).
// IPAddress and UserAgent exist in the schema but no code path fills them.
type Vote struct {
	ID         uuid.UUID  `json:"id"`
	PollID     uuid.UUID  `json:"poll_id"`
	OptionID   uuid.UUID  `json:"option_id"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	VoterEmail string     `json:"voter_email,omitempty"`
	VoterName  string     `json:"voter_name,omitempty"`
	IPAddress  string     `json:"-"`
	UserAgent  string     `json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
}
