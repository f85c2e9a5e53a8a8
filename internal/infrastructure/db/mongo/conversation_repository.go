package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oficiosya/hires-api/internal/core/domain"
)

// ConversationRepository resolves chat participants. Messages themselves are
// written by the chat backend.
type ConversationRepository struct {
	col *mongo.Collection
}

func NewConversationRepository(db *mongo.Database) *ConversationRepository {
	return &ConversationRepository{col: db.Collection(collectionConversations)}
}

type conversationDoc struct {
	ID           string   `bson:"_id"`
	HireID       string   `bson:"hire_id,omitempty"`
	Participants []string `bson:"participants"`
}

func (r *ConversationRepository) FindByID(ctx context.Context, id string) (*domain.Conversation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc conversationDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrConversationNotFound
		}
		return nil, fmt.Errorf("find conversation: %w", err)
	}

	c := &domain.Conversation{ID: doc.ID, HireID: doc.HireID}
	// anything but a pair stays degenerate and is rejected by OtherParticipant
	if len(doc.Participants) == 2 {
		c.Participants = [2]string{doc.Participants[0], doc.Participants[1]}
	}
	return c, nil
}
