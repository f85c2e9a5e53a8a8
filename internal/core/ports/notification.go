package ports

import (
	"context"
	"time"

	"github.com/oficiosya/hires-api/internal/core/domain"
)

// NotificationRepository is an append-only store of in-app notifications.
// Insert reports an already-stored (source id, type, recipient) triple as
// ErrNotificationExists.
type NotificationRepository interface {
	Insert(ctx context.Context, n *domain.Notification) error
	ListByRecipient(ctx context.Context, userID string, limit int) ([]*domain.Notification, error)
}

// ConversationRepository resolves chat participants.
type ConversationRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Conversation, error)
}

// EmailSender invokes the external email function.
type EmailSender interface {
	Send(ctx context.Context, req domain.EmailRequest) error
}

// DedupStore guards "at most once" side effects. Claim returns true for the
// first caller of a key within ttl and false for every later one. Release
// gives a key back after a failed delivery so a retry can claim it.
type DedupStore interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// EventPublisher hands events to the notification dispatcher without waiting
// for delivery.
type EventPublisher interface {
	Publish(ev domain.TransitionEvent)
}
