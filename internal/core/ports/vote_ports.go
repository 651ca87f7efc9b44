package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/pollbox/api/internal/core/domain"
)

type VoteRepository interface {
	SaveVote(ctx context.Context, vote *domain.Vote) error
	HasUserVoted(ctx context.Context, pollID, userID uuid.UUID) (bool, error)
	HasEmailVoted(ctx context.Context, pollID uuid.UUID, voterEmail string) (bool, error)
	OptionIDsByUser(ctx context.Context, pollID, userID uuid.UUID) ([]uuid.UUID, error)
	OptionIDsByEmail(ctx context.Context, pollID uuid.UUID, voterEmail string) ([]uuid.UUID, error)
}

type SubmitVoteInput struct {
	PollID     uuid.UUID
	OptionID   uuid.UUID
	UserID     *uuid.UUID
	VoterEmail string
	VoterName  string
}

type VoteService interface {
	Submit(ctx context.Context, input SubmitVoteInput) error
	UserVotes(ctx context.Context, pollID uuid.UUID, userID *uuid.UUID) []uuid.UUID
	AnonymousVotes(ctx context.Context, pollID uuid.UUID, voterEmail string) []uuid.UUID
}
