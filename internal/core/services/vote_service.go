package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/pollbox/api/internal/core/domain"
	"github.com/pollbox/api/internal/core/ports"
)

type voteService struct {
	pollRepo ports.PollRepository
	voteRepo ports.VoteRepository
	cache    ports.PageCache
}

func NewVoteService(pollRepo ports.PollRepository, voteRepo ports.VoteRepository, cache ports.PageCache) ports.VoteService {
	return &voteService{
		pollRepo: pollRepo,
		voteRepo: voteRepo,
		cache:    cache,
	}
}

// Submit runs the vote check chain in order: poll active, not expired, auth
// satisfied, anonymous voter identified by email, no prior vote (unless the
// poll allows several), option belongs to the poll.
// The duplicate check here is a best-effort fast path; the
// storage layer enforces the real single-vote guarantee and the repository
// surfaces its rejection as ErrAlreadyVoted.
func (s *voteService) Submit(ctx context.Context, input ports.SubmitVoteInput) error {
	poll, err := s.pollRepo.GetActiveByID(ctx, input.PollID)
	if err != nil {
		return err
	}

	if poll.Expired(time.Now()) {
		return domain.ErrPollExpired
	}

	authenticated := input.UserID != nil && *input.UserID != uuid.Nil
	if poll.RequireAuthToVote && !authenticated {
		return domain.ErrAuthRequired
	}
	if !authenticated && input.VoterEmail == "" {
		return domain.NewValidationError("voter email is required")
	}

	if !poll.AllowMultipleVotes {
		voted, err := s.hasVoted(ctx, poll.ID, input, authenticated)
		if err != nil {
			return err
		}
		if voted {
			return domain.ErrAlreadyVoted
		}
	}

	validOption := false
	for _, opt := range poll.Options {
		if opt.ID == input.OptionID {
			validOption = true
			break
		}
	}
	if !validOption {
		return domain.ErrInvalidOption
	}

	vote := &domain.Vote{
		ID:        uuid.New(),
		PollID:    poll.ID,
		OptionID:  input.OptionID,
		CreatedAt: time.Now(),
	}
	if authenticated {
		vote.UserID = input.UserID
	} else {
		vote.VoterEmail = input.VoterEmail
		vote.VoterName = input.VoterName
	}

	if err := s.voteRepo.SaveVote(ctx, vote); err != nil {
		if errors.Is(err, domain.ErrAlreadyVoted) {
			return domain.ErrAlreadyVoted
		}
		log.Printf("error saving vote on poll %s: %v", poll.ID, err)
		return domain.NewStorageError("failed to submit vote", err)
	}

	s.invalidate(ctx, "/polls/"+poll.ID.String())

	return nil
}

func (s *voteService) hasVoted(ctx context.Context, pollID uuid.UUID, input ports.SubmitVoteInput, authenticated bool) (bool, error) {
	if authenticated {
		voted, err := s.voteRepo.HasUserVoted(ctx, pollID, *input.UserID)
		if err != nil {
			return false, fmt.Errorf("failed to check existing vote: %w", err)
		}
		return voted, nil
	}
	voted, err := s.voteRepo.HasEmailVoted(ctx, pollID, input.VoterEmail)
	if err != nil {
		return false, fmt.Errorf("failed to check existing vote: %w", err)
	}
	return voted, nil
}

// UserVotes returns the option IDs the user has voted for on a poll. It is
// advisory: with no user, or on a read failure, it returns an empty list
// rather than an error.
func (s *voteService) UserVotes(ctx context.Context, pollID uuid.UUID, userID *uuid.UUID) []uuid.UUID {
	if userID == nil || *userID == uuid.Nil {
		return []uuid.UUID{}
	}

	ids, err := s.voteRepo.OptionIDsByUser(ctx, pollID, *userID)
	if err != nil {
		log.Printf("error fetching votes for user %s on poll %s: %v", userID, pollID, err)
		return []uuid.UUID{}
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return ids
}

// AnonymousVotes is the voter-email counterpart of UserVotes, with the same
// best-effort contract.
func (s *voteService) AnonymousVotes(ctx context.Context, pollID uuid.UUID, voterEmail string) []uuid.UUID {
	if voterEmail == "" {
		return []uuid.UUID{}
	}

	ids, err := s.voteRepo.OptionIDsByEmail(ctx, pollID, voterEmail)
	if err != nil {
		log.Printf("error fetching anonymous votes on poll %s: %v", pollID, err)
		return []uuid.UUID{}
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return ids
}

func (s *voteService) invalidate(ctx context.Context, paths ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, paths...); err != nil {
		log.Printf("error invalidating cached pages %v: %v", paths, err)
	}
}
