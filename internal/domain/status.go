package domain

import "fmt"

// ReviewStatus is the moderation state of a review
type ReviewStatus string

const (
	StatusPending  ReviewStatus = "pending"
	StatusApproved ReviewStatus = "approved"
	StatusRejected ReviewStatus = "rejected"
)

// Valid reports whether s is one of the known states
func (s ReviewStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsPublic reports whether reviews in this state may be shown to customers
func (s ReviewStatus) IsPublic() bool {
	return s == StatusApproved
}

// Transition validates a moderation decision and returns the resulting state.
// Only approved and rejected are reachable by moderation. The current state
// is not a precondition: any review may be re-moderated.
func (s ReviewStatus) Transition(target ReviewStatus) (ReviewStatus, error) {
	switch target {
	case StatusApproved, StatusRejected:
		return target, nil
	default:
		return s, fmt.Errorf("%w: got %q", ErrInvalidStatus, string(target))
	}
}

// SoftDelete forces the rejected state regardless of the current one
func (s ReviewStatus) SoftDelete() ReviewStatus {
	return StatusRejected
}
