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

const (
	flowTargeted = "targeted"
	flowOpen     = "open"
	flowGuest    = "guest"
)

// HireService owns hire creation and every status change.
type HireService struct {
	hires   ports.HireRepository
	pros    ports.ProfessionalRepository
	catalog ports.CategoryCatalog
	events  ports.EventPublisher
	clock   ports.Clock
	logger  zerolog.Logger
}

func NewHireService(
	hires ports.HireRepository,
	pros ports.ProfessionalRepository,
	catalog ports.CategoryCatalog,
	events ports.EventPublisher,
	clock ports.Clock,
	logger zerolog.Logger,
) *HireService {
	return &HireService{
		hires:   hires,
		pros:    pros,
		catalog: catalog,
		events:  events,
		clock:   clock,
		logger:  logger,
	}
}

// CreateHire publishes a request from an authenticated client, either targeted
// at one professional or open to all of them.
func (s *HireService) CreateHire(ctx context.Context, actor domain.Actor, in ports.CreateHireInput) (*domain.Hire, error) {
	if actor.UserID == "" {
		return nil, fmt.Errorf("create hire: %w: authentication required", domain.ErrUnauthorized)
	}

	category, err := s.validateContent(in.Category, in.Description, in.City, in.Department)
	if err != nil {
		return nil, fmt.Errorf("create hire: %w", err)
	}

	flow := flowOpen
	if in.ProfessionalID != "" {
		pro, err := s.pros.FindByID(ctx, in.ProfessionalID)
		if err != nil {
			return nil, fmt.Errorf("create hire: %w", err)
		}
		if pro.UserID != "" && pro.UserID == actor.UserID {
			return nil, fmt.Errorf("create hire: %w: cannot hire your own listing", domain.ErrValidation)
		}
		flow = flowTargeted
	}

	now := s.clock.Now()
	h := &domain.Hire{
		ID:                 uuid.NewString(),
		Client:             domain.AccountClient{ClientID: actor.UserID},
		ProfessionalID:     in.ProfessionalID,
		ServiceCategory:    category,
		ServiceDescription: strings.TrimSpace(in.Description),
		ServiceLocation:    domain.ComposeLocation(in.City, in.Department, in.Barrio),
		Status:             domain.StatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.store(ctx, h, flow, actor.UserID); err != nil {
		return nil, fmt.Errorf("create hire: %w", err)
	}
	return h, nil
}

// store persists a new pending hire and announces it.
func (s *HireService) store(ctx context.Context, h *domain.Hire, flow, actorID string) error {
	if err := s.hires.Create(ctx, h); err != nil {
		s.logger.Error().Err(err).Str("flow", flow).Msg("failed to create hire")
		return err
	}

	metrics.HiresCreatedTotal.WithLabelValues(flow).Inc()
	s.logger.Info().
		Str("hire_id", h.ID).
		Str("flow", flow).
		Str("professional_id", h.ProfessionalID).
		Str("category", h.ServiceCategory).
		Msg("hire created")

	snapshot := *h
	s.events.Publish(domain.TransitionEvent{
		Kind:       domain.EventHireCreated,
		HireID:     h.ID,
		To:         domain.StatusPending,
		Hire:       &snapshot,
		ActorID:    actorID,
		OccurredAt: h.CreatedAt,
	})
	return nil
}

// Transition moves a hire to status to on behalf of actor. It is the only
// code path that changes a hire's status.
func (s *HireService) Transition(ctx context.Context, hireID string, to domain.HireStatus, actor domain.Actor) (*domain.Hire, error) {
	if !to.Valid() {
		metrics.TransitionErrorsTotal.WithLabelValues("invalid_transition").Inc()
		return nil, fmt.Errorf("transition hire: %w (unknown status %q)", domain.ErrInvalidTransition, to)
	}

	actor, err := s.resolveActor(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("transition hire: %w", err)
	}

	h, err := s.hires.FindByID(ctx, hireID)
	if err != nil {
		if errors.Is(err, domain.ErrHireNotFound) {
			metrics.TransitionErrorsTotal.WithLabelValues("not_found").Inc()
		}
		return nil, fmt.Errorf("transition hire: %w", err)
	}

	// 1. Validate state machine transition.
	if !h.Status.CanTransitionTo(to) {
		metrics.TransitionErrorsTotal.WithLabelValues("invalid_transition").Inc()
		return nil, fmt.Errorf("transition hire: %w (from %s to %s)", domain.ErrInvalidTransition, h.Status, to)
	}

	// 2. Check the actor is the party allowed to perform it.
	if err := domain.Authorize(h, to, actor); err != nil {
		metrics.TransitionErrorsTotal.WithLabelValues("unauthorized").Inc()
		return nil, fmt.Errorf("transition hire: %w", err)
	}

	// 3. Conditional write against the status we validated.
	now := s.clock.Now()
	change := ports.StatusChange{To: to, UpdatedAt: now}
	switch to {
	case domain.StatusAccepted:
		if h.ProfessionalID == "" {
			change.ClaimProfessionalID = actor.ProfessionalID
		}
	case domain.StatusInProgress:
		change.StartedAt = &now
	case domain.StatusCompleted:
		change.CompletedAt = &now
	}

	from := h.Status
	if err := s.hires.UpdateStatus(ctx, h.ID, from, change); err != nil {
		reason := "update_failed"
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			reason = "conflict"
		}
		metrics.TransitionErrorsTotal.WithLabelValues(reason).Inc()
		return nil, fmt.Errorf("transition hire: %w", err)
	}

	h.Status = to
	h.UpdatedAt = now
	if change.ClaimProfessionalID != "" {
		h.ProfessionalID = change.ClaimProfessionalID
	}
	if change.StartedAt != nil {
		h.StartedAt = change.StartedAt
	}
	if change.CompletedAt != nil {
		h.CompletedAt = change.CompletedAt
	}

	metrics.TransitionsTotal.WithLabelValues(string(from), string(to)).Inc()
	s.logger.Info().
		Str("hire_id", h.ID).
		Str("from", string(from)).
		Str("to", string(to)).
		Str("actor", actorLabel(actor)).
		Msg("hire transitioned")

	// 4. Notify. Delivery happens elsewhere and can never undo the write.
	snapshot := *h
	s.events.Publish(domain.TransitionEvent{
		Kind:       domain.EventHireTransition,
		HireID:     h.ID,
		From:       from,
		To:         to,
		Hire:       &snapshot,
		ActorID:    actor.UserID,
		OccurredAt: now,
	})

	return h, nil
}

func (s *HireService) Accept(ctx context.Context, hireID string, actor domain.Actor) (*domain.Hire, error) {
	return s.Transition(ctx, hireID, domain.StatusAccepted, actor)
}

func (s *HireService) Reject(ctx context.Context, hireID string, actor domain.Actor) (*domain.Hire, error) {
	return s.Transition(ctx, hireID, domain.StatusRejected, actor)
}

func (s *HireService) Start(ctx context.Context, hireID string, actor domain.Actor) (*domain.Hire, error) {
	return s.Transition(ctx, hireID, domain.StatusInProgress, actor)
}

func (s *HireService) RequestCompletion(ctx context.Context, hireID string, actor domain.Actor) (*domain.Hire, error) {
	return s.Transition(ctx, hireID, domain.StatusWaitingClientApproval, actor)
}

// ConfirmCompletion is the client's (or token-holding guest's) approval.
func (s *HireService) ConfirmCompletion(ctx context.Context, hireID string, actor domain.Actor) (*domain.Hire, error) {
	return s.Transition(ctx, hireID, domain.StatusCompleted, actor)
}

func (s *HireService) Cancel(ctx context.Context, hireID string, actor domain.Actor) (*domain.Hire, error) {
	return s.Transition(ctx, hireID, domain.StatusCancelled, actor)
}

// GetHire returns a hire if actor may see it. Hires outside the actor's
// visibility are reported as not found.
func (s *HireService) GetHire(ctx context.Context, hireID string, actor domain.Actor) (*ports.HireView, error) {
	actor, err := s.resolveActor(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("get hire: %w", err)
	}

	h, err := s.hires.FindByID(ctx, hireID)
	if err != nil {
		return nil, fmt.Errorf("get hire: %w", err)
	}

	owner := actor.UserID != "" && h.AccountClientID() == actor.UserID
	targeted := actor.ProfessionalID != "" && h.ProfessionalID == actor.ProfessionalID
	openForPro := actor.IsProfessional && h.IsOpen()
	if !owner && !targeted && !openForPro {
		return nil, fmt.Errorf("get hire: %w", domain.ErrHireNotFound)
	}

	view := &ports.HireView{Hire: h}
	if owner && h.ProfessionalID != "" && domain.ContactVisible(h.Status) {
		pro, err := s.pros.FindByID(ctx, h.ProfessionalID)
		if err != nil {
			s.logger.Warn().Err(err).Str("hire_id", h.ID).Msg("failed to load professional contact")
		} else {
			view.Contact = &ports.ProfessionalContact{
				DisplayName: pro.DisplayName,
				Phone:       pro.Phone,
				Email:       pro.Email,
			}
		}
	}
	return view, nil
}

// ListClientHires returns every hire owned by the actor, any status.
func (s *HireService) ListClientHires(ctx context.Context, actor domain.Actor) ([]*domain.Hire, error) {
	if actor.UserID == "" {
		return nil, fmt.Errorf("list client hires: %w", domain.ErrUnauthorized)
	}
	hires, err := s.hires.ListByClient(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("list client hires: %w", err)
	}
	return hires, nil
}

// ListOpenRequests returns the unassigned pending pool. Only professionals see it.
func (s *HireService) ListOpenRequests(ctx context.Context, actor domain.Actor, category string) ([]*domain.Hire, error) {
	if !actor.IsProfessional {
		return nil, fmt.Errorf("list open requests: %w", domain.ErrUnauthorized)
	}

	filter := ports.OpenRequestFilter{}
	if strings.TrimSpace(category) != "" {
		canonical, ok := s.catalog.Canonical(category)
		if !ok {
			return nil, fmt.Errorf("list open requests: %w: unknown category %q", domain.ErrValidation, category)
		}
		filter.Category = canonical
	}

	hires, err := s.hires.ListOpen(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list open requests: %w", err)
	}
	return hires, nil
}

// ListProfessionalHires returns hires targeted at the actor's listing.
func (s *HireService) ListProfessionalHires(ctx context.Context, actor domain.Actor) ([]*domain.Hire, error) {
	actor, err := s.resolveActor(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("list professional hires: %w", err)
	}
	if actor.ProfessionalID == "" {
		return nil, fmt.Errorf("list professional hires: %w", domain.ErrProfessionalNotFound)
	}

	hires, err := s.hires.ListByProfessional(ctx, actor.ProfessionalID)
	if err != nil {
		return nil, fmt.Errorf("list professional hires: %w", err)
	}
	return hires, nil
}

// resolveActor fills ProfessionalID for professional accounts.
func (s *HireService) resolveActor(ctx context.Context, actor domain.Actor) (domain.Actor, error) {
	if !actor.IsProfessional || actor.ProfessionalID != "" || actor.UserID == "" {
		return actor, nil
	}
	pro, err := s.pros.FindByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrProfessionalNotFound) {
			return actor, nil
		}
		return actor, err
	}
	actor.ProfessionalID = pro.ID
	return actor, nil
}

// validateContent checks category, description and location, returning the
// catalog's spelling of the category.
func (s *HireService) validateContent(category, description, city, department string) (string, error) {
	canonical, ok := s.catalog.Canonical(category)
	if !ok {
		return "", fmt.Errorf("%w: unknown category %q", domain.ErrValidation, category)
	}
	if !domain.ValidDescription(description) {
		return "", fmt.Errorf("%w: description must be between %d and %d characters",
			domain.ErrValidation, domain.DescriptionMinLen, domain.DescriptionMaxLen)
	}
	if strings.TrimSpace(city) == "" || strings.TrimSpace(department) == "" {
		return "", fmt.Errorf("%w: city and department are required", domain.ErrValidation)
	}
	return canonical, nil
}

func actorLabel(a domain.Actor) string {
	switch {
	case a.UserID != "":
		return a.UserID
	case a.GuestToken != "":
		return "guest"
	}
	return "anonymous"
}
