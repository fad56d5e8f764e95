package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// HelpfulVote is a voter's judgment of whether a review was useful
type HelpfulVote struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ReviewID   uuid.UUID `json:"review_id" db:"review_id"`
	VoterEmail string    `json:"voter_email" db:"voter_email" validate:"required,email,max=254"`
	IsHelpful  bool      `json:"is_helpful" db:"is_helpful"`
	VotedAt    time.Time `json:"voted_at" db:"voted_at"`
}

// IsSelfVote reports whether the voter is the review's own submitter
func (v *HelpfulVote) IsSelfVote(review *Review) bool {
	return strings.EqualFold(strings.TrimSpace(v.VoterEmail), strings.TrimSpace(review.CustomerEmail))
}

// VoteRepository defines the interface for helpfulness votes
type VoteRepository interface {
	// Upsert creates the vote or overwrites the voter's previous value.
	// created reports whether a new row was inserted.
	Upsert(ctx context.Context, vote *HelpfulVote) (created bool, err error)
}
