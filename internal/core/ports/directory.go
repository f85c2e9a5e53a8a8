package ports

import (
	"context"

	"github.com/oficiosya/hires-api/internal/core/domain"
)

// ProfessionalQuery is the storage-side prefilter. Ranking and premium
// normalisation always happen in process afterwards.
type ProfessionalQuery struct {
	Category string
	City     string
}

// ProfessionalRepository defines persistence for directory listings.
type ProfessionalRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Professional, error)
	FindByUserID(ctx context.Context, userID string) (*domain.Professional, error)
	List(ctx context.Context, q ProfessionalQuery) ([]domain.Professional, error)
	// ApplyRating folds one new rating into the stored mean and count in a
	// single atomic write.
	ApplyRating(ctx context.Context, id string, rating int) error
}

// CategoryCatalog knows the service categories offered on the platform.
type CategoryCatalog interface {
	Has(category string) bool
	Canonical(category string) (string, bool)
	All() []string
}
