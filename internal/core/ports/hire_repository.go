package ports

import (
	"context"
	"time"

	"github.com/oficiosya/hires-api/internal/core/domain"
)

// StatusChange describes the write applied by a conditional status update.
type StatusChange struct {
	To        domain.HireStatus
	UpdatedAt time.Time
	// ClaimProfessionalID is set only when a professional accepts an open
	// request; the update then also requires professional_id to be unset.
	ClaimProfessionalID string
	StartedAt           *time.Time
	CompletedAt         *time.Time
}

// OpenRequestFilter narrows the open pool.
type OpenRequestFilter struct {
	Category string // optional, exact match
}

// HireRepository defines persistence operations for hires.
type HireRepository interface {
	Create(ctx context.Context, h *domain.Hire) error
	FindByID(ctx context.Context, id string) (*domain.Hire, error)

	// UpdateStatus applies change only if the stored status still equals
	// expected (compare-and-swap). It returns domain.ErrConcurrencyConflict
	// when the row exists but no longer matches, and domain.ErrHireNotFound
	// when it does not exist.
	UpdateStatus(ctx context.Context, id string, expected domain.HireStatus, change StatusChange) error

	// ConsumeGuestToken marks the guest capability as used. It succeeds at
	// most once per hire.
	ConsumeGuestToken(ctx context.Context, id string, at time.Time) error

	ListByClient(ctx context.Context, clientID string) ([]*domain.Hire, error)
	ListByProfessional(ctx context.Context, professionalID string) ([]*domain.Hire, error)
	ListOpen(ctx context.Context, filter OpenRequestFilter) ([]*domain.Hire, error)
}
