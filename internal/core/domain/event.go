package domain

import "time"

// EventKind distinguishes what the dispatcher is reacting to.
type EventKind string

const (
	EventHireCreated    EventKind = "hire_created"
	EventHireTransition EventKind = "hire_transition"
	EventReviewCreated  EventKind = "review_created"
	EventMessageCreated EventKind = "message_created"
)

// TransitionEvent is published after a successful write. Hire is a snapshot
// of the record as written.
type TransitionEvent struct {
	Kind       EventKind
	HireID     string
	From       HireStatus // empty for creation
	To         HireStatus
	Hire       *Hire
	Review     *Review
	ActorID    string
	OccurredAt time.Time

	// Chat events only.
	ConversationID string
	MessageID      string
	SenderID       string
}

// ShardKey is the key events are ordered by.
func (e TransitionEvent) ShardKey() string {
	if e.HireID != "" {
		return e.HireID
	}
	return e.ConversationID
}
