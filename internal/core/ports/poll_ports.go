package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pollbox/api/internal/core/domain"
)

type PollRepository interface {
	CreatePoll(ctx context.Context, poll *domain.Poll) error
	CreateOptions(ctx context.Context, options []domain.PollOption) error
	DeletePoll(ctx context.Context, id uuid.UUID) error
	GetActiveByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	GetActiveByShareToken(ctx context.Context, token string) (*domain.Poll, error)
	ListActive(ctx context.Context, limit int) ([]*domain.Poll, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.PollSummary, error)
}

type CreatePollInput struct {
	CreatedBy          uuid.UUID
	Title              string
	Description        string
	Options            []string
	ExpiresAt          *time.Time
	AllowMultipleVotes bool
	RequireAuthToVote  bool
}

type PollService interface {
	Create(ctx context.Context, input CreatePollInput) (*domain.Poll, error)
	GetPoll(ctx context.Context, id string) (*domain.Poll, error)
	GetPollByShareToken(ctx context.Context, token string) (*domain.Poll, error)
	ListPublicPolls(ctx context.Context) ([]*domain.Poll, error)
	ListUserPolls(ctx context.Context, userID uuid.UUID) ([]*domain.PollSummary, error)
}
