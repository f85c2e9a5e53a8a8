package ports

import (
	"context"

	"github.com/oficiosya/hires-api/internal/core/domain"
)

// ReviewRepository persists reviews. Create must enforce uniqueness on hire
// id at insert time and report a violation as domain.ErrDuplicateReview.
type ReviewRepository interface {
	Create(ctx context.Context, r *domain.Review) error
	FindByHireID(ctx context.Context, hireID string) (*domain.Review, error)
	ListByProfessional(ctx context.Context, professionalID string) ([]*domain.Review, error)
}
