package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pollbox/api/internal/core/domain"
	"github.com/pollbox/api/internal/core/ports"
)

const publicPollLimit = 20

type pollService struct {
	repo  ports.PollRepository
	cache ports.PageCache
}

func NewPollService(repo ports.PollRepository, cache ports.PageCache) ports.PollService {
	return &pollService{
		repo:  repo,
		cache: cache,
	}
}

// Create validates the input in a fixed order, then inserts the poll row
// followed by its option rows. The two inserts are deliberately not wrapped
// in a transaction: when option insertion fails, the poll row is removed by
// a compensating delete so no orphan poll survives a partial failure.
func (s *pollService) Create(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error) {
	if input.CreatedBy == uuid.Nil {
		return nil, domain.ErrAuthRequired
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.NewValidationError("poll title is required")
	}

	// Raw count first, then the count of non-blank options. Two distinct
	// messages so the caller can tell which rule failed.
	if len(input.Options) < 2 {
		return nil, domain.NewValidationError("at least 2 options are required")
	}

	var validOptions []string
	for _, text := range input.Options {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			validOptions = append(validOptions, trimmed)
		}
	}
	if len(validOptions) < 2 {
		return nil, domain.NewValidationError("at least 2 valid options are required")
	}

	now := time.Now()
	if input.ExpiresAt != nil && !input.ExpiresAt.After(now) {
		return nil, domain.NewValidationError("expiration date must be in the future")
	}

	shareToken, err := newShareToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate share token: %w", err)
	}

	poll := &domain.Poll{
		ID:                 uuid.New(),
		Title:              title,
		Description:        strings.TrimSpace(input.Description),
		CreatedBy:          input.CreatedBy,
		AllowMultipleVotes: input.AllowMultipleVotes,
		RequireAuthToVote:  input.RequireAuthToVote,
		IsActive:           true,
		ShareToken:         shareToken,
		CreatedAt:          now,
		UpdatedAt:          now,
		ExpiresAt:          input.ExpiresAt,
	}

	for i, text := range validOptions {
		poll.Options = append(poll.Options, domain.PollOption{
			ID:        uuid.New(),
			PollID:    poll.ID,
			Text:      text,
			SortOrder: i,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := s.repo.CreatePoll(ctx, poll); err != nil {
		log.Printf("error creating poll: %v", err)
		return nil, domain.NewStorageError("failed to create poll", err)
	}

	if err := s.repo.CreateOptions(ctx, poll.Options); err != nil {
		log.Printf("error creating poll options: %v", err)
		if delErr := s.repo.DeletePoll(ctx, poll.ID); delErr != nil {
			log.Printf("error cleaning up poll %s after failed options insert: %v", poll.ID, delErr)
		}
		return nil, domain.NewStorageError("failed to create poll options", err)
	}

	s.invalidate(ctx, "/polls", "/polls/"+poll.ID.String())

	return poll, nil
}

func (s *pollService) GetPoll(ctx context.Context, id string) (*domain.Poll, error) {
	pollID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInvalidPollID
	}

	return s.repo.GetActiveByID(ctx, pollID)
}

func (s *pollService) GetPollByShareToken(ctx context.Context, token string) (*domain.Poll, error) {
	if token == "" {
		return nil, domain.ErrPollNotFound
	}

	return s.repo.GetActiveByShareToken(ctx, token)
}

func (s *pollService) ListPublicPolls(ctx context.Context) ([]*domain.Poll, error) {
	polls, err := s.repo.ListActive(ctx, publicPollLimit)
	if err != nil {
		log.Printf("error listing public polls: %v", err)
		return nil, domain.NewStorageError("failed to fetch polls", err)
	}
	return polls, nil
}

func (s *pollService) ListUserPolls(ctx context.Context, userID uuid.UUID) ([]*domain.PollSummary, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrAuthRequired
	}

	summaries, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		log.Printf("error listing polls for user %s: %v", userID, err)
		return nil, domain.NewStorageError("failed to fetch polls", err)
	}
	return summaries, nil
}

// invalidate is best-effort: a stale cached page is acceptable, a failed
// write is not allowed to fail the operation.
func (s *pollService) invalidate(ctx context.Context, paths ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, paths...); err != nil {
		log.Printf("error invalidating cached pages %v: %v", paths, err)
	}
}

func newShareToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}
