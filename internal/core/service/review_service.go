package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/oficiosya/hires-api/internal/api/metrics"
	"github.com/oficiosya/hires-api/internal/core/domain"
	"github.com/oficiosya/hires-api/internal/core/ports"
)

// ReviewService gates ratings: one review per completed hire, written by the
// client who owns it.
type ReviewService struct {
	reviews ports.ReviewRepository
	hires   ports.HireRepository
	pros    ports.ProfessionalRepository
	events  ports.EventPublisher
	clock   ports.Clock
	logger  zerolog.Logger
}

func NewReviewService(
	reviews ports.ReviewRepository,
	hires ports.HireRepository,
	pros ports.ProfessionalRepository,
	events ports.EventPublisher,
	clock ports.Clock,
	logger zerolog.Logger,
) *ReviewService {
	return &ReviewService{
		reviews: reviews,
		hires:   hires,
		pros:    pros,
		events:  events,
		clock:   clock,
		logger:  logger,
	}
}

func (s *ReviewService) Submit(ctx context.Context, in ports.SubmitReviewInput) (*domain.Review, error) {
	h, err := s.hires.FindByID(ctx, in.HireID)
	if err != nil {
		return nil, fmt.Errorf("submit review: %w", err)
	}

	review := &domain.Review{
		HireID:         h.ID,
		ProfessionalID: h.ProfessionalID,
		Rating:         in.Rating,
		Comment:        strings.TrimSpace(in.Comment),
	}

	path := "account"
	switch {
	case in.Actor.UserID != "" && h.AccountClientID() == in.Actor.UserID:
		review.ClientID = in.Actor.UserID
	case in.Actor.IsGuest() && h.ValidGuestToken(in.Actor.GuestToken):
		g, _ := h.Guest()
		review.GuestName = g.Name
		path = "guest"
	case in.Actor.UserID != "":
		return nil, fmt.Errorf("submit review: %w", domain.ErrUnauthorized)
	default:
		return nil, fmt.Errorf("submit review: %w", domain.ErrInvalidReviewToken)
	}

	if h.Status != domain.StatusCompleted {
		return nil, fmt.Errorf("submit review: %w (status %s)", domain.ErrNotEligible, h.Status)
	}
	if h.ProfessionalID == "" {
		return nil, fmt.Errorf("submit review: %w (no professional assigned)", domain.ErrNotEligible)
	}
	if !domain.ValidRating(in.Rating) {
		return nil, fmt.Errorf("submit review: %w: rating must be between %d and %d",
			domain.ErrValidation, domain.RatingMin, domain.RatingMax)
	}
	if !domain.ValidComment(review.Comment) {
		return nil, fmt.Errorf("submit review: %w: comment exceeds %d characters",
			domain.ErrValidation, domain.CommentMaxLength)
	}

	review.ID = uuid.NewString()
	review.CreatedAt = s.clock.Now()

	// Uniqueness is enforced by the store at insert time, not by a prior read.
	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, domain.ErrDuplicateReview) {
			return nil, fmt.Errorf("submit review: %w", err)
		}
		s.logger.Error().Err(err).Str("hire_id", h.ID).Msg("failed to store review")
		return nil, fmt.Errorf("submit review: %w", err)
	}

	metrics.ReviewsSubmittedTotal.WithLabelValues(path).Inc()
	s.logger.Info().
		Str("hire_id", h.ID).
		Str("professional_id", review.ProfessionalID).
		Int("rating", review.Rating).
		Str("path", path).
		Msg("review stored")

	if err := s.pros.ApplyRating(ctx, review.ProfessionalID, review.Rating); err != nil {
		s.logger.Warn().Err(err).Str("professional_id", review.ProfessionalID).Msg("failed to update rating aggregate")
	}

	if path == "guest" {
		if err := s.hires.ConsumeGuestToken(ctx, h.ID, review.CreatedAt); err != nil {
			s.logger.Warn().Err(err).Str("hire_id", h.ID).Msg("failed to consume review token")
		}
	}

	stored := *review
	s.events.Publish(domain.TransitionEvent{
		Kind:       domain.EventReviewCreated,
		HireID:     h.ID,
		Hire:       h,
		Review:     &stored,
		ActorID:    review.ClientID,
		OccurredAt: review.CreatedAt,
	})

	return review, nil
}

// ListProfessionalReviews returns reviews for a listing, newest first.
func (s *ReviewService) ListProfessionalReviews(ctx context.Context, professionalID string) ([]*domain.Review, error) {
	if _, err := s.pros.FindByID(ctx, professionalID); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	reviews, err := s.reviews.ListByProfessional(ctx, professionalID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}
