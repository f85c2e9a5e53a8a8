package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oficiosya/hires-api/internal/core/domain"
)

const (
	defaultNotificationLimit = 50

	// replaced by the source_id unique index
	legacyNotificationIndex = "related_id_1_type_1_recipient_user_id_1"

	codeNamespaceNotFound = 26
	codeIndexNotFound     = 27
)

// NotificationRepository is the append-only in-app notification store.
type NotificationRepository struct {
	col *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{col: db.Collection(collectionNotifications)}
}

type notificationDoc struct {
	ID              string    `bson:"_id"`
	Type            string    `bson:"type"`
	RecipientUserID string    `bson:"recipient_user_id"`
	SenderID        string    `bson:"sender_id,omitempty"`
	SenderName      string    `bson:"sender_name,omitempty"`
	Title           string    `bson:"title"`
	Message         string    `bson:"message"`
	RelatedID       string    `bson:"related_id"`
	RelatedType     string    `bson:"related_type"`
	SourceID        string    `bson:"source_id"`
	CreatedAt       time.Time `bson:"created_at"`
	Read            bool      `bson:"read"`
}

// Insert stores n. A second insert for the same (source_id, type,
// recipient_user_id) reports domain.ErrNotificationExists.
func (r *NotificationRepository) Insert(ctx context.Context, n *domain.Notification) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := notificationDoc{
		ID:              n.ID,
		Type:            string(n.Type),
		RecipientUserID: n.RecipientUserID,
		SenderID:        n.SenderID,
		SenderName:      n.SenderName,
		Title:           n.Title,
		Message:         n.Message,
		RelatedID:       n.RelatedID,
		RelatedType:     n.RelatedType,
		SourceID:        n.SourceID,
		CreatedAt:       n.CreatedAt.UTC(),
		Read:            n.Read,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrNotificationExists
		}
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, userID string, limit int) ([]*domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.col.Find(ctx, bson.M{"recipient_user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []notificationDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}

	out := make([]*domain.Notification, 0, len(docs))
	for _, d := range docs {
		out = append(out, &domain.Notification{
			ID:              d.ID,
			Type:            domain.NotificationType(d.Type),
			RecipientUserID: d.RecipientUserID,
			SenderID:        d.SenderID,
			SenderName:      d.SenderName,
			Title:           d.Title,
			Message:         d.Message,
			RelatedID:       d.RelatedID,
			RelatedType:     d.RelatedType,
			SourceID:        d.SourceID,
			CreatedAt:       d.CreatedAt,
			Read:            d.Read,
		})
	}
	return out, nil
}

// EnsureIndexes creates necessary indexes on the notifications collection.
func (r *NotificationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := r.col.Indexes().DropOne(ctx, legacyNotificationIndex); err != nil && !indexMissing(err) {
		return fmt.Errorf("drop %s: %w", legacyNotificationIndex, err)
	}

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "source_id", Value: 1},
				{Key: "type", Value: 1},
				{Key: "recipient_user_id", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "recipient_user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func indexMissing(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == codeIndexNotFound || cmdErr.Code == codeNamespaceNotFound
	}
	return false
}
