package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Pesokrava/review_moderation/internal/domain"
)

// VoteRepository implements domain.VoteRepository for PostgreSQL
type VoteRepository struct {
	db *sqlx.DB
}

// NewVoteRepository creates a new PostgreSQL vote repository
func NewVoteRepository(db *sqlx.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// Upsert inserts the vote or overwrites the voter's previous value in a
// single statement. xmax is zero only for freshly inserted rows.
func (r *VoteRepository) Upsert(ctx context.Context, vote *domain.HelpfulVote) (bool, error) {
	query := `
		INSERT INTO helpful_votes (review_id, voter_email, is_helpful)
		VALUES ($1, $2, $3)
		ON CONFLICT ON CONSTRAINT helpful_votes_review_voter_key
		DO UPDATE SET is_helpful = EXCLUDED.is_helpful, voted_at = NOW()
		RETURNING id, voted_at, (xmax = 0) AS created
	`

	var created bool
	err := r.db.QueryRowxContext(ctx, query, vote.ReviewID, vote.VoterEmail, vote.IsHelpful).
		Scan(&vote.ID, &vote.VotedAt, &created)
	if err != nil {
		return false, fmt.Errorf("upsert helpful vote: %w", err)
	}

	return created, nil
}
