package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/oficiosya/hires-api/internal/core/domain"
	"github.com/oficiosya/hires-api/internal/core/ports"
)

const reviewTokenBytes = 32

// GuestService implements the contact flow for visitors without an account.
// It enters the lifecycle at pending and never advances a hire itself.
type GuestService struct {
	hires  *HireService
	pros   ports.ProfessionalRepository
	clock  ports.Clock
	logger zerolog.Logger
}

func NewGuestService(hires *HireService, pros ports.ProfessionalRepository, clock ports.Clock, logger zerolog.Logger) *GuestService {
	return &GuestService{hires: hires, pros: pros, clock: clock, logger: logger}
}

// MatchProfessionals returns the ranked professionals offering category,
// optionally narrowed to a city.
func (s *GuestService) MatchProfessionals(ctx context.Context, category, city string) ([]domain.Professional, error) {
	canonical, ok := s.hires.catalog.Canonical(category)
	if !ok {
		return nil, fmt.Errorf("match professionals: %w: unknown category %q", domain.ErrValidation, category)
	}

	pros, err := s.pros.List(ctx, ports.ProfessionalQuery{Category: canonical, City: city})
	if err != nil {
		return nil, fmt.Errorf("match professionals: %w", err)
	}

	ranked, err := Rank(pros, domain.DirectoryFilter{Category: canonical, City: city}, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("match professionals: %w", err)
	}
	return ranked, nil
}

// Submit stores the guest's request against the chosen professional and
// mints the capability the guest later uses to confirm and review.
func (s *GuestService) Submit(ctx context.Context, in ports.GuestContactInput) (*ports.GuestContactResult, error) {
	if err := validateGuestIdentity(in.Name, in.Email, in.Phone); err != nil {
		return nil, fmt.Errorf("guest contact: %w", err)
	}

	category, err := s.hires.validateContent(in.Category, in.Description, in.City, in.Department)
	if err != nil {
		return nil, fmt.Errorf("guest contact: %w", err)
	}

	// Matching is by category across every city, same as the selection list.
	ranked, err := s.MatchProfessionals(ctx, category, "")
	if err != nil {
		return nil, fmt.Errorf("guest contact: %w", err)
	}
	if len(ranked) == 0 {
		s.logger.Info().Str("category", category).Msg("guest contact without matching professionals")
		return nil, fmt.Errorf("guest contact: %w: %s", domain.ErrNoProfessionalsAvailable, category)
	}

	if strings.TrimSpace(in.ProfessionalID) == "" {
		return nil, fmt.Errorf("guest contact: %w: a professional must be selected", domain.ErrValidation)
	}
	if !containsProfessional(ranked, in.ProfessionalID) {
		return nil, fmt.Errorf("guest contact: %w", domain.ErrProfessionalNotEligible)
	}

	token, err := newReviewToken()
	if err != nil {
		return nil, fmt.Errorf("guest contact: mint token: %w", err)
	}

	now := s.clock.Now()
	h := &domain.Hire{
		ID: uuid.NewString(),
		Client: domain.GuestClient{
			Name:        strings.TrimSpace(in.Name),
			Email:       strings.TrimSpace(in.Email),
			Phone:       strings.TrimSpace(in.Phone),
			ReviewToken: token,
		},
		ProfessionalID:     in.ProfessionalID,
		ServiceCategory:    category,
		ServiceDescription: strings.TrimSpace(in.Description),
		ServiceLocation:    domain.ComposeLocation(in.City, in.Department, in.Barrio),
		Status:             domain.StatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if in.TimingPreference != "" {
		s.logger.Debug().Str("hire_id", h.ID).Str("timing", in.TimingPreference).Msg("guest timing preference")
	}

	if err := s.hires.store(ctx, h, flowGuest, ""); err != nil {
		return nil, fmt.Errorf("guest contact: %w", err)
	}

	return &ports.GuestContactResult{Hire: h, ReviewToken: token}, nil
}

// PublishAfterRegistration turns the draft of a no-match guest submission
// into an open request owned by the freshly registered client.
func (s *GuestService) PublishAfterRegistration(ctx context.Context, actor domain.Actor, draft ports.GuestDraft) (*domain.Hire, error) {
	h, err := s.hires.CreateHire(ctx, actor, ports.CreateHireInput{
		Category:    draft.Category,
		Description: draft.Description,
		Department:  draft.Department,
		City:        draft.City,
		Barrio:      draft.Barrio,
	})
	if err != nil {
		return nil, fmt.Errorf("publish guest draft: %w", err)
	}
	return h, nil
}

func validateGuestIdentity(name, email, phone string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		return fmt.Errorf("%w: invalid email", domain.ErrValidation)
	}
	if strings.TrimSpace(phone) == "" {
		return fmt.Errorf("%w: phone is required", domain.ErrValidation)
	}
	return nil
}

func containsProfessional(pros []domain.Professional, id string) bool {
	for _, p := range pros {
		if p.ID == id {
			return true
		}
	}
	return false
}

func newReviewToken() (string, error) {
	b := make([]byte, reviewTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
