package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/oficiosya/hires-api/internal/core/domain"
	"github.com/oficiosya/hires-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Clock and logger
// ---------------------------------------------------------------------------

var (
	discardLogger = zerolog.Nop()
	baseTime      = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// ---------------------------------------------------------------------------
// Hires
// ---------------------------------------------------------------------------

type stubHireRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.Hire

	createErr error
	// beforeUpdate runs inside UpdateStatus before the compare, with the lock
	// released, so a test can slip in a competing write.
	beforeUpdate func()
	updates      int
}

func newStubHireRepo() *stubHireRepo {
	return &stubHireRepo{byID: make(map[string]*domain.Hire)}
}

func cloneHire(h *domain.Hire) *domain.Hire {
	c := *h
	return &c
}

func (r *stubHireRepo) put(h *domain.Hire) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[h.ID] = cloneHire(h)
}

func (r *stubHireRepo) get(id string) *domain.Hire {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.byID[id]
	if !ok {
		return nil
	}
	return cloneHire(h)
}

func (r *stubHireRepo) Create(_ context.Context, h *domain.Hire) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.put(h)
	return nil
}

func (r *stubHireRepo) FindByID(_ context.Context, id string) (*domain.Hire, error) {
	h := r.get(id)
	if h == nil {
		return nil, domain.ErrHireNotFound
	}
	return h, nil
}

// UpdateStatus mirrors the Mongo conditional update.
func (r *stubHireRepo) UpdateStatus(_ context.Context, id string, expected domain.HireStatus, change ports.StatusChange) error {
	if r.beforeUpdate != nil {
		r.beforeUpdate()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.byID[id]
	if !ok {
		return domain.ErrHireNotFound
	}
	if h.Status != expected {
		return domain.ErrConcurrencyConflict
	}
	if change.ClaimProfessionalID != "" {
		if h.ProfessionalID != "" {
			return domain.ErrConcurrencyConflict
		}
		h.ProfessionalID = change.ClaimProfessionalID
	}
	h.Status = change.To
	h.UpdatedAt = change.UpdatedAt
	if change.StartedAt != nil {
		h.StartedAt = change.StartedAt
	}
	if change.CompletedAt != nil {
		h.CompletedAt = change.CompletedAt
	}
	r.updates++
	return nil
}

func (r *stubHireRepo) ConsumeGuestToken(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.byID[id]
	if !ok {
		return domain.ErrHireNotFound
	}
	g, ok := h.Client.(domain.GuestClient)
	if !ok || g.TokenConsumedAt != nil {
		return domain.ErrInvalidReviewToken
	}
	g.TokenConsumedAt = &at
	h.Client = g
	return nil
}

func (r *stubHireRepo) list(keep func(*domain.Hire) bool) []*domain.Hire {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Hire{}
	for _, h := range r.byID {
		if keep(h) {
			out = append(out, cloneHire(h))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *stubHireRepo) ListByClient(_ context.Context, clientID string) ([]*domain.Hire, error) {
	return r.list(func(h *domain.Hire) bool { return h.AccountClientID() == clientID }), nil
}

func (r *stubHireRepo) ListByProfessional(_ context.Context, professionalID string) ([]*domain.Hire, error) {
	return r.list(func(h *domain.Hire) bool { return h.ProfessionalID == professionalID }), nil
}

func (r *stubHireRepo) ListOpen(_ context.Context, f ports.OpenRequestFilter) ([]*domain.Hire, error) {
	return r.list(func(h *domain.Hire) bool {
		return h.IsOpen() && (f.Category == "" || h.ServiceCategory == f.Category)
	}), nil
}

// ---------------------------------------------------------------------------
// Professionals and catalog
// ---------------------------------------------------------------------------

type stubProRepo struct {
	mu      sync.Mutex
	pros    []domain.Professional
	ratings map[string][]int
}

func newStubProRepo(pros ...domain.Professional) *stubProRepo {
	return &stubProRepo{pros: pros, ratings: make(map[string][]int)}
}

func (r *stubProRepo) FindByID(_ context.Context, id string) (*domain.Professional, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.pros {
		if p.ID == id {
			c := p
			return &c, nil
		}
	}
	return nil, domain.ErrProfessionalNotFound
}

func (r *stubProRepo) FindByUserID(_ context.Context, userID string) (*domain.Professional, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.pros {
		if p.UserID != "" && p.UserID == userID {
			c := p
			return &c, nil
		}
	}
	return nil, domain.ErrProfessionalNotFound
}

func (r *stubProRepo) List(_ context.Context, q ports.ProfessionalQuery) ([]domain.Professional, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Professional{}
	for _, p := range r.pros {
		if q.Category != "" && !strings.EqualFold(p.Profession, q.Category) {
			continue
		}
		if q.City != "" && !strings.EqualFold(p.City, q.City) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *stubProRepo) ApplyRating(_ context.Context, id string, rating int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.pros {
		if r.pros[i].ID == id {
			p := &r.pros[i]
			p.Rating = (p.Rating*float64(p.RatingCount) + float64(rating)) / float64(p.RatingCount+1)
			p.RatingCount++
			r.ratings[id] = append(r.ratings[id], rating)
			return nil
		}
	}
	return domain.ErrProfessionalNotFound
}

type stubCatalog struct{ names []string }

func newStubCatalog() stubCatalog {
	return stubCatalog{names: []string{"Plomero", "Electricista", "Carpintero", "Pintor"}}
}

func (c stubCatalog) Canonical(category string) (string, bool) {
	for _, n := range c.names {
		if strings.EqualFold(n, strings.TrimSpace(category)) {
			return n, true
		}
	}
	return "", false
}

func (c stubCatalog) Has(category string) bool {
	_, ok := c.Canonical(category)
	return ok
}

func (c stubCatalog) All() []string { return c.names }

// ---------------------------------------------------------------------------
// Events
// ---------------------------------------------------------------------------

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.TransitionEvent
}

func (p *recordingPublisher) Publish(ev domain.TransitionEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) all() []domain.TransitionEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.TransitionEvent(nil), p.events...)
}

// ---------------------------------------------------------------------------
// Reviews
// ---------------------------------------------------------------------------

type stubReviewRepo struct {
	mu     sync.Mutex
	byHire map[string]*domain.Review
}

func newStubReviewRepo() *stubReviewRepo {
	return &stubReviewRepo{byHire: make(map[string]*domain.Review)}
}

// Create enforces the hire_id unique index.
func (r *stubReviewRepo) Create(_ context.Context, rv *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byHire[rv.HireID]; exists {
		return domain.ErrDuplicateReview
	}
	c := *rv
	r.byHire[rv.HireID] = &c
	return nil
}

func (r *stubReviewRepo) FindByHireID(_ context.Context, hireID string) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rv, ok := r.byHire[hireID]
	if !ok {
		return nil, domain.ErrReviewNotFound
	}
	c := *rv
	return &c, nil
}

func (r *stubReviewRepo) ListByProfessional(_ context.Context, professionalID string) ([]*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Review{}
	for _, rv := range r.byHire {
		if rv.ProfessionalID == professionalID {
			c := *rv
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ---------------------------------------------------------------------------
// Notification collaborators
// ---------------------------------------------------------------------------

type stubNotificationRepo struct {
	mu        sync.Mutex
	stored    []*domain.Notification
	insertErr error
	lastLimit int
}

func (r *stubNotificationRepo) Insert(_ context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	for _, s := range r.stored {
		if s.SourceID == n.SourceID && s.Type == n.Type && s.RecipientUserID == n.RecipientUserID {
			return domain.ErrNotificationExists
		}
	}
	c := *n
	r.stored = append(r.stored, &c)
	return nil
}

func (r *stubNotificationRepo) ListByRecipient(_ context.Context, userID string, limit int) ([]*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastLimit = limit
	var out []*domain.Notification
	for _, n := range r.stored {
		if n.RecipientUserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *stubNotificationRepo) ofType(t domain.NotificationType) []*domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Notification
	for _, n := range r.stored {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

func (r *stubNotificationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stored)
}

type stubConversationRepo struct {
	byID map[string]*domain.Conversation
}

func (r stubConversationRepo) FindByID(_ context.Context, id string) (*domain.Conversation, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrConversationNotFound
	}
	return c, nil
}

type stubEmailSender struct {
	mu   sync.Mutex
	sent []domain.EmailRequest
	err  error
}

func (s *stubEmailSender) Send(_ context.Context, req domain.EmailRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, req)
	return nil
}

func (s *stubEmailSender) requests() []domain.EmailRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.EmailRequest(nil), s.sent...)
}

type stubDedup struct {
	mu   sync.Mutex
	keys map[string]bool
	err  error
}

func newStubDedup() *stubDedup {
	return &stubDedup{keys: make(map[string]bool)}
}

func (d *stubDedup) Claim(_ context.Context, key string, _ time.Duration) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return false, d.err
	}
	if d.keys[key] {
		return false, nil
	}
	d.keys[key] = true
	return true, nil
}

func (d *stubDedup) Release(_ context.Context, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.keys, key)
	return nil
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.byEmail[user.Email] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byEmail {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}
