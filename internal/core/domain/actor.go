package domain

import "fmt"

// Actor is the identity performing an operation, as supplied by the auth
// context. ProfessionalID is resolved by the service layer for professionals.
type Actor struct {
	UserID         string
	IsProfessional bool
	ProfessionalID string
	// GuestToken is set instead of UserID when a guest acts through the
	// capability minted at contact time.
	GuestToken string
}

// IsGuest reports whether the actor authenticates only by review token.
func (a Actor) IsGuest() bool {
	return a.UserID == "" && a.GuestToken != ""
}

// Authorize checks that actor may move h to the target status. It does not
// check the transition table; callers do that first.
func Authorize(h *Hire, to HireStatus, actor Actor) error {
	switch to {
	case StatusAccepted:
		if !actor.IsProfessional || actor.ProfessionalID == "" {
			return fmt.Errorf("%w: only a professional can accept", ErrUnauthorized)
		}
		if h.ProfessionalID == "" {
			// claiming an open request
			return nil
		}
		if h.ProfessionalID != actor.ProfessionalID {
			return fmt.Errorf("%w: hire is targeted at another professional", ErrUnauthorized)
		}
		return nil

	case StatusRejected, StatusInProgress, StatusWaitingClientApproval:
		if !actor.IsProfessional || actor.ProfessionalID == "" || h.ProfessionalID == "" {
			return fmt.Errorf("%w: only the targeted professional can move to %s", ErrUnauthorized, to)
		}
		if h.ProfessionalID != actor.ProfessionalID {
			return fmt.Errorf("%w: hire is targeted at another professional", ErrUnauthorized)
		}
		return nil

	case StatusCompleted:
		if ownsHire(h, actor) {
			return nil
		}
		if actor.IsGuest() && h.ValidGuestToken(actor.GuestToken) {
			return nil
		}
		return fmt.Errorf("%w: only the owning client can confirm completion", ErrUnauthorized)

	case StatusCancelled:
		if ownsHire(h, actor) {
			return nil
		}
		return fmt.Errorf("%w: only the owning client can cancel", ErrUnauthorized)
	}

	return fmt.Errorf("%w: no actor may move a hire to %s", ErrUnauthorized, to)
}

func ownsHire(h *Hire, actor Actor) bool {
	id := h.AccountClientID()
	return id != "" && actor.UserID != "" && id == actor.UserID
}
