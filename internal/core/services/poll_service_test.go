package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollbox/api/internal/core/domain"
	"github.com/pollbox/api/internal/core/ports"
)

func TestCreatePoll(t *testing.T) {
	repo := newFakePollRepo()
	cache := &fakeCache{}
	svc := NewPollService(repo, cache)

	poll, err := svc.Create(context.Background(), ports.CreatePollInput{
		CreatedBy:   uuid.New(),
		Title:       "  Favorite color?  ",
		Description: "pick one",
		Options:     []string{"Red", "", "  ", "Blue", "Green"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Favorite color?", poll.Title)
	assert.True(t, poll.IsActive)
	assert.Nil(t, poll.ExpiresAt)
	assert.NotEmpty(t, poll.ShareToken)

	// Blank options dropped, the rest keep submission order with dense
	// sort positions.
	require.Len(t, poll.Options, 3)
	texts := []string{"Red", "Blue", "Green"}
	for i, opt := range poll.Options {
		assert.Equal(t, texts[i], opt.Text)
		assert.Equal(t, i, opt.SortOrder)
		assert.Equal(t, poll.ID, opt.PollID)
	}

	assert.Contains(t, cache.invalidated, "/polls")
	assert.Contains(t, cache.invalidated, "/polls/"+poll.ID.String())
}

func TestCreatePollValidation(t *testing.T) {
	future := time.Now().Add(time.Hour)
	past := time.Now().Add(-time.Hour)

	tests := []struct {
		name    string
		input   ports.CreatePollInput
		wantErr string
	}{
		{
			name:    "no user",
			input:   ports.CreatePollInput{Title: "T", Options: []string{"A", "B"}},
			wantErr: domain.ErrAuthRequired.Error(),
		},
		{
			name:    "blank title",
			input:   ports.CreatePollInput{CreatedBy: uuid.New(), Title: "   ", Options: []string{"A", "B"}},
			wantErr: "poll title is required",
		},
		{
			name:    "single raw option",
			input:   ports.CreatePollInput{CreatedBy: uuid.New(), Title: "T", Options: []string{"A"}},
			wantErr: "at least 2 options are required",
		},
		{
			name:    "only blank options",
			input:   ports.CreatePollInput{CreatedBy: uuid.New(), Title: "T", Options: []string{"", "   "}},
			wantErr: "at least 2 valid options are required",
		},
		{
			name:    "one valid one blank",
			input:   ports.CreatePollInput{CreatedBy: uuid.New(), Title: "T", Options: []string{"A", "  "}},
			wantErr: "at least 2 valid options are required",
		},
		{
			name:    "past expiration",
			input:   ports.CreatePollInput{CreatedBy: uuid.New(), Title: "T", Options: []string{"A", "B"}, ExpiresAt: &past},
			wantErr: "expiration date must be in the future",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewPollService(newFakePollRepo(), nil)
			_, err := svc.Create(context.Background(), tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}

	// A future expiration is kept as-is.
	svc := NewPollService(newFakePollRepo(), nil)
	poll, err := svc.Create(context.Background(), ports.CreatePollInput{
		CreatedBy: uuid.New(),
		Title:     "T",
		Options:   []string{"A", "B"},
		ExpiresAt: &future,
	})
	require.NoError(t, err)
	require.NotNil(t, poll.ExpiresAt)
	assert.True(t, poll.ExpiresAt.Equal(future))
}

func TestCreatePollCleansUpOnOptionFailure(t *testing.T) {
	repo := newFakePollRepo()
	repo.failCreateOptions = true
	cache := &fakeCache{}
	svc := NewPollService(repo, cache)

	_, err := svc.Create(context.Background(), ports.CreatePollInput{
		CreatedBy: uuid.New(),
		Title:     "T",
		Options:   []string{"A", "B"},
	})
	require.Error(t, err)
	assert.Equal(t, "failed to create poll options", err.Error())

	// No orphan poll left behind, nothing invalidated.
	assert.Empty(t, repo.polls)
	assert.Len(t, repo.deleted, 1)
	assert.Empty(t, cache.invalidated)
}

func TestGetPoll(t *testing.T) {
	repo := newFakePollRepo()
	svc := NewPollService(repo, nil)

	_, err := svc.GetPoll(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrInvalidPollID)

	_, err = svc.GetPoll(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrPollNotFound)

	created, err := svc.Create(context.Background(), ports.CreatePollInput{
		CreatedBy: uuid.New(),
		Title:     "T",
		Options:   []string{"A", "B"},
	})
	require.NoError(t, err)

	poll, err := svc.GetPoll(context.Background(), created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.ID, poll.ID)

	byToken, err := svc.GetPollByShareToken(context.Background(), created.ShareToken)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byToken.ID)

	_, err = svc.GetPollByShareToken(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrPollNotFound)
}

func TestListUserPollsRequiresAuth(t *testing.T) {
	svc := NewPollService(newFakePollRepo(), nil)

	_, err := svc.ListUserPolls(context.Background(), uuid.Nil)
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestListPublicPollsFailure(t *testing.T) {
	repo := newFakePollRepo()
	repo.failList = true
	svc := NewPollService(repo, nil)

	_, err := svc.ListPublicPolls(context.Background())
	require.Error(t, err)
	assert.Equal(t, "failed to fetch polls", err.Error())
}

func TestCreatePollSurvivesCacheFailure(t *testing.T) {
	repo := newFakePollRepo()
	svc := NewPollService(repo, &fakeCache{failAll: true})

	_, err := svc.Create(context.Background(), ports.CreatePollInput{
		CreatedBy: uuid.New(),
		Title:     "T",
		Options:   []string{"A", "B"},
	})
	assert.NoError(t, err)
}
