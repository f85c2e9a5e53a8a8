package ports

import (
	"context"

	"github.com/oficiosya/hires-api/internal/core/domain"
)

// CreateHireInput carries an authenticated client's request. An empty
// ProfessionalID publishes an open request.
type CreateHireInput struct {
	ProfessionalID string
	Category       string
	Description    string
	Department     string
	City           string
	Barrio         string
}

// ProfessionalContact is only populated once the status allows it.
type ProfessionalContact struct {
	DisplayName string
	Phone       string
	Email       string
}

// HireView is a hire as shown to a specific actor.
type HireView struct {
	Hire    *domain.Hire
	Contact *ProfessionalContact
}

// HireService is the single entry point for hire creation, reads and every
// status change.
type HireService interface {
	CreateHire(ctx context.Context, actor domain.Actor, in CreateHireInput) (*domain.Hire, error)
	Transition(ctx context.Context, hireID string, to domain.HireStatus, actor domain.Actor) (*domain.Hire, error)
	GetHire(ctx context.Context, hireID string, actor domain.Actor) (*HireView, error)
	ListClientHires(ctx context.Context, actor domain.Actor) ([]*domain.Hire, error)
	ListOpenRequests(ctx context.Context, actor domain.Actor, category string) ([]*domain.Hire, error)
	ListProfessionalHires(ctx context.Context, actor domain.Actor) ([]*domain.Hire, error)
}

// DirectoryService serves the ranked professional list.
type DirectoryService interface {
	Search(ctx context.Context, f domain.DirectoryFilter) ([]domain.Professional, error)
}

// GuestContactInput is the guest flow form.
type GuestContactInput struct {
	Name             string
	Email            string
	Phone            string
	Category         string
	Description      string
	Department       string
	City             string
	Barrio           string
	TimingPreference string
	ProfessionalID   string
}

// GuestContactResult is returned after a successful guest submission.
type GuestContactResult struct {
	Hire        *domain.Hire
	ReviewToken string
}

// GuestDraft is what survives a no-match guest submission until the visitor
// registers.
type GuestDraft struct {
	Category    string
	Description string
	Department  string
	City        string
	Barrio      string
}

// GuestService implements the unauthenticated contact flow.
type GuestService interface {
	MatchProfessionals(ctx context.Context, category, city string) ([]domain.Professional, error)
	Submit(ctx context.Context, in GuestContactInput) (*GuestContactResult, error)
	PublishAfterRegistration(ctx context.Context, actor domain.Actor, draft GuestDraft) (*domain.Hire, error)
}

// SubmitReviewInput carries a review from either an account client (Actor)
// or a guest (Actor.GuestToken).
type SubmitReviewInput struct {
	HireID  string
	Rating  int
	Comment string
	Actor   domain.Actor
}

// ReviewService is the review/rating gate.
type ReviewService interface {
	Submit(ctx context.Context, in SubmitReviewInput) (*domain.Review, error)
	ListProfessionalReviews(ctx context.Context, professionalID string) ([]*domain.Review, error)
}

// InboxService reads the in-app notifications addressed to an account.
type InboxService interface {
	List(ctx context.Context, actor domain.Actor, limit int) ([]*domain.Notification, error)
}
