package service

import (
	"context"
	"fmt"

	"github.com/oficiosya/hires-api/internal/core/domain"
	"github.com/oficiosya/hires-api/internal/core/ports"
)

const maxInboxLimit = 100

type InboxService struct {
	notifications ports.NotificationRepository
}

func NewInboxService(notifications ports.NotificationRepository) *InboxService {
	return &InboxService{notifications: notifications}
}

// List returns the actor's notifications, newest first. A non-positive limit
// falls back to the repository default.
func (s *InboxService) List(ctx context.Context, actor domain.Actor, limit int) ([]*domain.Notification, error) {
	if actor.UserID == "" {
		return nil, fmt.Errorf("list notifications: %w: authentication required", domain.ErrUnauthorized)
	}
	if limit > maxInboxLimit {
		limit = maxInboxLimit
	}
	list, err := s.notifications.ListByRecipient(ctx, actor.UserID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return list, nil
}
