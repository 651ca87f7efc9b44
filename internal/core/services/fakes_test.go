package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pollbox/api/internal/core/domain"
)

// Hand-written fakes; each test flips the failure switches it needs.

type fakePollRepo struct {
	polls   map[uuid.UUID]*domain.Poll
	deleted []uuid.UUID

	failCreatePoll    bool
	failCreateOptions bool
	failList          bool
}

func newFakePollRepo() *fakePollRepo {
	return &fakePollRepo{polls: make(map[uuid.UUID]*domain.Poll)}
}

func (r *fakePollRepo) CreatePoll(ctx context.Context, poll *domain.Poll) error {
	if r.failCreatePoll {
		return errors.New("insert failed")
	}
	copied := *poll
	copied.Options = nil
	r.polls[poll.ID] = &copied
	return nil
}

func (r *fakePollRepo) CreateOptions(ctx context.Context, options []domain.PollOption) error {
	if r.failCreateOptions {
		return errors.New("insert failed")
	}
	for _, opt := range options {
		if poll, ok := r.polls[opt.PollID]; ok {
			poll.Options = append(poll.Options, opt)
		}
	}
	return nil
}

func (r *fakePollRepo) DeletePoll(ctx context.Context, id uuid.UUID) error {
	delete(r.polls, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakePollRepo) GetActiveByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	poll, ok := r.polls[id]
	if !ok || !poll.IsActive {
		return nil, domain.ErrPollNotFound
	}
	return poll, nil
}

func (r *fakePollRepo) GetActiveByShareToken(ctx context.Context, token string) (*domain.Poll, error) {
	for _, poll := range r.polls {
		if poll.ShareToken == token && poll.IsActive {
			return poll, nil
		}
	}
	return nil, domain.ErrPollNotFound
}

func (r *fakePollRepo) ListActive(ctx context.Context, limit int) ([]*domain.Poll, error) {
	if r.failList {
		return nil, errors.New("query failed")
	}
	var polls []*domain.Poll
	for _, poll := range r.polls {
		if poll.IsActive && len(polls) < limit {
			polls = append(polls, poll)
		}
	}
	return polls, nil
}

func (r *fakePollRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.PollSummary, error) {
	if r.failList {
		return nil, errors.New("query failed")
	}
	var summaries []*domain.PollSummary
	for _, poll := range r.polls {
		if poll.CreatedBy == ownerID {
			summaries = append(summaries, &domain.PollSummary{
				Poll:        *poll,
				OptionCount: int64(len(poll.Options)),
				Status:      domain.DeriveStatus(poll.IsActive, poll.ExpiresAt, time.Now()),
			})
		}
	}
	return summaries, nil
}

type voteKey struct {
	pollID uuid.UUID
	voter  string
}

type fakeVoteRepo struct {
	votes    map[voteKey][]uuid.UUID
	saved    []*domain.Vote
	failRead bool
	failSave bool
}

func newFakeVoteRepo() *fakeVoteRepo {
	return &fakeVoteRepo{votes: make(map[voteKey][]uuid.UUID)}
}

func (r *fakeVoteRepo) SaveVote(ctx context.Context, vote *domain.Vote) error {
	if r.failSave {
		return errors.New("insert failed")
	}
	voter := vote.VoterEmail
	if vote.UserID != nil {
		voter = vote.UserID.String()
	}
	key := voteKey{pollID: vote.PollID, voter: voter}
	r.votes[key] = append(r.votes[key], vote.OptionID)
	r.saved = append(r.saved, vote)
	return nil
}

func (r *fakeVoteRepo) HasUserVoted(ctx context.Context, pollID, userID uuid.UUID) (bool, error) {
	if r.failRead {
		return false, errors.New("query failed")
	}
	return len(r.votes[voteKey{pollID: pollID, voter: userID.String()}]) > 0, nil
}

func (r *fakeVoteRepo) HasEmailVoted(ctx context.Context, pollID uuid.UUID, voterEmail string) (bool, error) {
	if r.failRead {
		return false, errors.New("query failed")
	}
	return len(r.votes[voteKey{pollID: pollID, voter: voterEmail}]) > 0, nil
}

func (r *fakeVoteRepo) OptionIDsByUser(ctx context.Context, pollID, userID uuid.UUID) ([]uuid.UUID, error) {
	if r.failRead {
		return nil, errors.New("query failed")
	}
	return r.votes[voteKey{pollID: pollID, voter: userID.String()}], nil
}

func (r *fakeVoteRepo) OptionIDsByEmail(ctx context.Context, pollID uuid.UUID, voterEmail string) ([]uuid.UUID, error) {
	if r.failRead {
		return nil, errors.New("query failed")
	}
	return r.votes[voteKey{pollID: pollID, voter: voterEmail}], nil
}

type fakeCache struct {
	invalidated []string
	failAll     bool
}

func (c *fakeCache) Get(ctx context.Context, path string) ([]byte, error) {
	return nil, nil
}

func (c *fakeCache) Set(ctx context.Context, path string, body []byte, ttl time.Duration) error {
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context, paths ...string) error {
	if c.failAll {
		return errors.New("redis down")
	}
	c.invalidated = append(c.invalidated, paths...)
	return nil
}

type fakeUserRepo struct {
	byEmail   map[string]*domain.User
	failAll   bool
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if r.failAll {
		return nil, errors.New("query failed")
	}
	return r.byEmail[email], nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if r.failAll {
		return nil, errors.New("query failed")
	}
	for _, user := range r.byEmail {
		if user.ID.String() == id {
			return user, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	if r.failAll {
		return errors.New("insert failed")
	}
	if r.createErr != nil {
		return r.createErr
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.byEmail[user.Email] = user
	return nil
}

type fakeAuthRepo struct {
	tokens map[string]*domain.RefreshToken
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{tokens: make(map[string]*domain.RefreshToken)}
}

func (r *fakeAuthRepo) StoreRefreshToken(ctx context.Context, token *domain.RefreshToken) error {
	token.ID = uuid.New()
	token.CreatedAt = time.Now()
	r.tokens[token.TokenHash] = token
	return nil
}

func (r *fakeAuthRepo) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	return r.tokens[tokenHash], nil
}

func (r *fakeAuthRepo) RevokeRefreshToken(ctx context.Context, id string) error {
	for _, token := range r.tokens {
		if token.ID.String() == id {
			token.Revoked = true
		}
	}
	return nil
}
