package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pollbox/api/internal/core/domain"
	"github.com/pollbox/api/internal/core/ports"
)

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

// SaveVote inserts a vote. The enforce_single_vote trigger is the real
// guard against concurrent duplicates; its unique_violation is translated
// here so races lose with the same error the fast-path check produces.
func (r *voteRepository) SaveVote(ctx context.Context, vote *domain.Vote) error {
	query := `
		INSERT INTO votes (id, poll_id, option_id, user_id, voter_email, voter_name)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		vote.ID, vote.PollID, vote.OptionID, vote.UserID,
		nullableString(vote.VoterEmail), nullableString(vote.VoterName),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return domain.ErrAlreadyVoted
		}
		return fmt.Errorf("failed to save vote: %w", err)
	}
	return nil
}

func (r *voteRepository) HasUserVoted(ctx context.Context, pollID, userID uuid.UUID) (bool, error) {
	query := `SELECT 1 FROM votes WHERE poll_id = $1 AND user_id = $2 LIMIT 1`
	return r.exists(ctx, query, pollID, userID)
}

func (r *voteRepository) HasEmailVoted(ctx context.Context, pollID uuid.UUID, voterEmail string) (bool, error) {
	query := `SELECT 1 FROM votes WHERE poll_id = $1 AND voter_email = $2 LIMIT 1`
	return r.exists(ctx, query, pollID, voterEmail)
}

func (r *voteRepository) OptionIDsByUser(ctx context.Context, pollID, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT option_id FROM votes WHERE poll_id = $1 AND user_id = $2`
	return r.optionIDs(ctx, query, pollID, userID)
}

func (r *voteRepository) OptionIDsByEmail(ctx context.Context, pollID uuid.UUID, voterEmail string) ([]uuid.UUID, error) {
	query := `SELECT option_id FROM votes WHERE poll_id = $1 AND voter_email = $2`
	return r.optionIDs(ctx, query, pollID, voterEmail)
}

func (r *voteRepository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check existing vote: %w", err)
	}
	return true, nil
}

func (r *voteRepository) optionIDs(ctx context.Context, query string, args ...any) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get votes: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating votes: %w", err)
	}
	return ids, nil
}
