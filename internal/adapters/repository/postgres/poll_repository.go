package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pollbox/api/internal/core/domain"
	"github.com/pollbox/api/internal/core/ports"
)

type pollRepository struct {
	db *sql.DB
}

func NewPollRepository(db *sql.DB) ports.PollRepository {
	return &pollRepository{
		db: db,
	}
}

func (r *pollRepository) CreatePoll(ctx context.Context, poll *domain.Poll) error {
	query := `
		INSERT INTO polls (id, title, description, created_by, expires_at, is_active, allow_multiple_votes, require_auth_to_vote, share_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		poll.ID, poll.Title, nullableString(poll.Description), poll.CreatedBy, poll.ExpiresAt,
		poll.IsActive, poll.AllowMultipleVotes, poll.RequireAuthToVote, poll.ShareToken,
	)
	if err != nil {
		return fmt.Errorf("failed to insert poll: %w", err)
	}
	return nil
}

func (r *pollRepository) CreateOptions(ctx context.Context, options []domain.PollOption) error {
	query := `
		INSERT INTO poll_options (id, poll_id, text, sort_order)
		VALUES ($1, $2, $3, $4)
	`
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare option statement: %w", err)
	}
	defer stmt.Close()

	for _, opt := range options {
		if _, err := stmt.ExecContext(ctx, opt.ID, opt.PollID, opt.Text, opt.SortOrder); err != nil {
			return fmt.Errorf("failed to insert option: %w", err)
		}
	}
	return nil
}

func (r *pollRepository) DeletePoll(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM polls WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	return nil
}

func (r *pollRepository) GetActiveByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	query := pollColumns + ` FROM polls WHERE id = $1 AND is_active = true`
	return r.getOne(ctx, query, id)
}

func (r *pollRepository) GetActiveByShareToken(ctx context.Context, token string) (*domain.Poll, error) {
	query := pollColumns + ` FROM polls WHERE share_token = $1 AND is_active = true`
	return r.getOne(ctx, query, token)
}

func (r *pollRepository) ListActive(ctx context.Context, limit int) ([]*domain.Poll, error) {
	query := pollColumns + `
		FROM polls
		WHERE is_active = true
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}
	defer rows.Close()

	return r.scanPolls(ctx, rows)
}

func (r *pollRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.PollSummary, error) {
	query := `
		SELECT id, title, description, created_by, created_at, updated_at, expires_at,
		       is_active, allow_multiple_votes, require_auth_to_vote, share_token,
		       option_count, total_votes, status
		FROM user_polls
		WHERE created_by = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user polls: %w", err)
	}
	defer rows.Close()

	var summaries []*domain.PollSummary
	for rows.Next() {
		var s domain.PollSummary
		var description sql.NullString
		if err := rows.Scan(
			&s.ID, &s.Title, &description, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt, &s.ExpiresAt,
			&s.IsActive, &s.AllowMultipleVotes, &s.RequireAuthToVote, &s.ShareToken,
			&s.OptionCount, &s.TotalVotes, &s.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user poll: %w", err)
		}
		s.Description = description.String
		summaries = append(summaries, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user polls: %w", err)
	}
	return summaries, nil
}

const pollColumns = `
	SELECT id, title, description, created_by, created_at, updated_at, expires_at,
	       is_active, allow_multiple_votes, require_auth_to_vote, share_token`

func (r *pollRepository) getOne(ctx context.Context, query string, arg any) (*domain.Poll, error) {
	var poll domain.Poll
	var description sql.NullString
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&poll.ID, &poll.Title, &description, &poll.CreatedBy, &poll.CreatedAt, &poll.UpdatedAt,
		&poll.ExpiresAt, &poll.IsActive, &poll.AllowMultipleVotes, &poll.RequireAuthToVote, &poll.ShareToken,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPollNotFound
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}
	poll.Description = description.String

	if err := r.attachOptions(ctx, &poll); err != nil {
		return nil, err
	}
	return &poll, nil
}

func (r *pollRepository) scanPolls(ctx context.Context, rows *sql.Rows) ([]*domain.Poll, error) {
	var polls []*domain.Poll
	for rows.Next() {
		var poll domain.Poll
		var description sql.NullString
		if err := rows.Scan(
			&poll.ID, &poll.Title, &description, &poll.CreatedBy, &poll.CreatedAt, &poll.UpdatedAt,
			&poll.ExpiresAt, &poll.IsActive, &poll.AllowMultipleVotes, &poll.RequireAuthToVote, &poll.ShareToken,
		); err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		poll.Description = description.String
		polls = append(polls, &poll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating polls: %w", err)
	}

	for _, poll := range polls {
		if err := r.attachOptions(ctx, poll); err != nil {
			return nil, err
		}
	}
	return polls, nil
}

// attachOptions loads the poll's options in sort order together with live
// vote counts, then derives per-option percentages from the poll total.
func (r *pollRepository) attachOptions(ctx context.Context, poll *domain.Poll) error {
	query := `
		SELECT o.id, o.poll_id, o.text, o.sort_order, o.created_at, o.updated_at, COUNT(v.id)
		FROM poll_options o
		LEFT JOIN votes v ON v.option_id = o.id
		WHERE o.poll_id = $1
		GROUP BY o.id
		ORDER BY o.sort_order
	`
	rows, err := r.db.QueryContext(ctx, query, poll.ID)
	if err != nil {
		return fmt.Errorf("failed to get poll options: %w", err)
	}
	defer rows.Close()

	var options []domain.PollOption
	var total int64
	for rows.Next() {
		var opt domain.PollOption
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.Text, &opt.SortOrder, &opt.CreatedAt, &opt.UpdatedAt, &opt.VoteCount); err != nil {
			return fmt.Errorf("failed to scan option: %w", err)
		}
		total += opt.VoteCount
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating options: %w", err)
	}

	if total > 0 {
		for i := range options {
			options[i].Percentage = (float64(options[i].VoteCount) / float64(total)) * 100
		}
	}

	poll.Options = options
	poll.TotalVotes = total
	return nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
