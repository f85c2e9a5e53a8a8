package domain

import (
	"crypto/subtle"
	"strings"
	"time"
	"unicode/utf8"
)

// HireStatus represents the lifecycle state of a hire.
type HireStatus string

const (
	StatusPending               HireStatus = "pending"
	StatusAccepted              HireStatus = "accepted"
	StatusRejected              HireStatus = "rejected"
	StatusInProgress            HireStatus = "in_progress"
	StatusWaitingClientApproval HireStatus = "waiting_client_approval"
	StatusCompleted             HireStatus = "completed"
	StatusCancelled             HireStatus = "cancelled"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []HireStatus{
	StatusPending,
	StatusAccepted,
	StatusRejected,
	StatusInProgress,
	StatusWaitingClientApproval,
	StatusCompleted,
	StatusCancelled,
}

// validTransitions defines the allowed state machine transitions.
// Statuses without an entry are terminal.
var validTransitions = map[HireStatus][]HireStatus{
	StatusPending:               {StatusAccepted, StatusRejected, StatusCancelled},
	StatusAccepted:              {StatusInProgress, StatusCancelled},
	StatusInProgress:            {StatusWaitingClientApproval, StatusCancelled},
	StatusWaitingClientApproval: {StatusCompleted, StatusCancelled},
}

// actionTargets maps the verbs exposed to callers onto target statuses.
var actionTargets = map[string]HireStatus{
	"accept":             StatusAccepted,
	"reject":             StatusRejected,
	"start":              StatusInProgress,
	"request-completion": StatusWaitingClientApproval,
	"confirm-completion": StatusCompleted,
	"cancel":             StatusCancelled,
}

// TargetForAction returns the status an action moves a hire to.
func TargetForAction(action string) (HireStatus, bool) {
	s, ok := actionTargets[action]
	return s, ok
}

const (
	DescriptionMinLen = 20
	DescriptionMaxLen = 500
)

// Valid reports whether s is one of the known statuses.
func (s HireStatus) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no further status change is permitted.
func (s HireStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusRejected
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s HireStatus) CanTransitionTo(next HireStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CanTransition is the table lookup used by the state machine.
func CanTransition(from, to HireStatus) bool {
	return from.CanTransitionTo(to)
}

// ContactVisible reports whether the professional's contact details may be
// shown to the client for a hire in status s.
func ContactVisible(s HireStatus) bool {
	switch s {
	case StatusAccepted, StatusInProgress, StatusWaitingClientApproval, StatusCompleted:
		return true
	}
	return false
}

// ClientRef identifies who requested a hire. It is either an AccountClient or
// a GuestClient, never both.
type ClientRef interface {
	clientRef()
}

// AccountClient is an authenticated client with an account.
type AccountClient struct {
	ClientID string
}

// GuestClient is an unauthenticated visitor who only left contact details.
type GuestClient struct {
	Name            string
	Email           string
	Phone           string
	ReviewToken     string
	TokenConsumedAt *time.Time
}

func (AccountClient) clientRef() {}
func (GuestClient) clientRef()   {}

// Hire is the core aggregate root: one client-professional engagement.
type Hire struct {
	ID                 string
	Client             ClientRef
	ProfessionalID     string // empty while the hire is an open request
	ServiceCategory    string
	ServiceDescription string
	ServiceLocation    string
	Status             HireStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
	StartedAt          *time.Time
	CompletedAt        *time.Time
}

// IsOpen reports whether the hire is an unassigned solicitation visible to
// every professional.
func (h *Hire) IsOpen() bool {
	return h.ProfessionalID == "" && h.Status == StatusPending
}

// AccountClientID returns the owning client id, or "" for guest hires.
func (h *Hire) AccountClientID() string {
	if c, ok := h.Client.(AccountClient); ok {
		return c.ClientID
	}
	return ""
}

// Guest returns the guest bundle when the hire came through the guest flow.
func (h *Hire) Guest() (GuestClient, bool) {
	g, ok := h.Client.(GuestClient)
	return g, ok
}

// ValidGuestToken reports whether token is the unconsumed capability minted
// for this hire.
func (h *Hire) ValidGuestToken(token string) bool {
	g, ok := h.Guest()
	if !ok || g.ReviewToken == "" || token == "" || g.TokenConsumedAt != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(g.ReviewToken), []byte(token)) == 1
}

// ComposeLocation builds the "city, department[, barrio]" location string.
func ComposeLocation(city, department, barrio string) string {
	parts := []string{strings.TrimSpace(city), strings.TrimSpace(department)}
	if b := strings.TrimSpace(barrio); b != "" {
		parts = append(parts, b)
	}
	return strings.Join(parts, ", ")
}

// ValidDescription checks the 20..500 character bound on the trimmed text.
func ValidDescription(desc string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(desc))
	return n >= DescriptionMinLen && n <= DescriptionMaxLen
}
