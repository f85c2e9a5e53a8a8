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
	"github.com/oficiosya/hires-api/internal/core/ports"
)

// HireRepository implements ports.HireRepository using MongoDB.
type HireRepository struct {
	col *mongo.Collection
}

func NewHireRepository(db *mongo.Database) *HireRepository {
	return &HireRepository{col: db.Collection(collectionHires)}
}

// hireDoc is the stored shape. Nullable references are pointers so that an
// absent value is written as null and can be matched as such.
type hireDoc struct {
	ID                 string     `bson:"_id"`
	ClientID           *string    `bson:"client_id"`
	GuestName          *string    `bson:"guest_name"`
	GuestEmail         *string    `bson:"guest_email"`
	GuestPhone         *string    `bson:"guest_phone"`
	ReviewToken        *string    `bson:"review_token"`
	TokenConsumedAt    *time.Time `bson:"token_consumed_at"`
	ProfessionalID     *string    `bson:"professional_id"`
	ServiceCategory    string     `bson:"service_category"`
	ServiceDescription string     `bson:"service_description"`
	ServiceLocation    string     `bson:"service_location"`
	Status             string     `bson:"status"`
	CreatedAt          time.Time  `bson:"created_at"`
	UpdatedAt          time.Time  `bson:"updated_at"`
	StartedAt          *time.Time `bson:"started_at,omitempty"`
	CompletedAt        *time.Time `bson:"completed_at,omitempty"`
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toHireDoc(h *domain.Hire) (hireDoc, error) {
	doc := hireDoc{
		ID:                 h.ID,
		ProfessionalID:     strPtr(h.ProfessionalID),
		ServiceCategory:    h.ServiceCategory,
		ServiceDescription: h.ServiceDescription,
		ServiceLocation:    h.ServiceLocation,
		Status:             string(h.Status),
		CreatedAt:          h.CreatedAt.UTC(),
		UpdatedAt:          h.UpdatedAt.UTC(),
		StartedAt:          h.StartedAt,
		CompletedAt:        h.CompletedAt,
	}

	switch c := h.Client.(type) {
	case domain.AccountClient:
		if c.ClientID == "" {
			return hireDoc{}, domain.ErrCorruptHire
		}
		doc.ClientID = strPtr(c.ClientID)
	case domain.GuestClient:
		if c.Name == "" {
			return hireDoc{}, domain.ErrCorruptHire
		}
		doc.GuestName = strPtr(c.Name)
		doc.GuestEmail = strPtr(c.Email)
		doc.GuestPhone = strPtr(c.Phone)
		doc.ReviewToken = strPtr(c.ReviewToken)
		doc.TokenConsumedAt = c.TokenConsumedAt
	default:
		return hireDoc{}, domain.ErrCorruptHire
	}
	return doc, nil
}

// toDomain rebuilds the tagged client reference. Documents carrying both a
// client id and a guest bundle, or neither, are rejected.
func (d hireDoc) toDomain() (*domain.Hire, error) {
	hasClient := strVal(d.ClientID) != ""
	hasGuest := strVal(d.GuestName) != ""
	if hasClient == hasGuest {
		return nil, fmt.Errorf("hire %s: %w", d.ID, domain.ErrCorruptHire)
	}

	h := &domain.Hire{
		ID:                 d.ID,
		ProfessionalID:     strVal(d.ProfessionalID),
		ServiceCategory:    d.ServiceCategory,
		ServiceDescription: d.ServiceDescription,
		ServiceLocation:    d.ServiceLocation,
		Status:             domain.HireStatus(d.Status),
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
		StartedAt:          d.StartedAt,
		CompletedAt:        d.CompletedAt,
	}
	if hasClient {
		h.Client = domain.AccountClient{ClientID: *d.ClientID}
	} else {
		h.Client = domain.GuestClient{
			Name:            strVal(d.GuestName),
			Email:           strVal(d.GuestEmail),
			Phone:           strVal(d.GuestPhone),
			ReviewToken:     strVal(d.ReviewToken),
			TokenConsumedAt: d.TokenConsumedAt,
		}
	}
	return h, nil
}

// Create inserts a new hire document.
func (r *HireRepository) Create(ctx context.Context, h *domain.Hire) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toHireDoc(h)
	if err != nil {
		return err
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert hire: %w", err)
	}
	return nil
}

// FindByID retrieves a hire by id.
func (r *HireRepository) FindByID(ctx context.Context, id string) (*domain.Hire, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc hireDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrHireNotFound
		}
		return nil, fmt.Errorf("find hire: %w", err)
	}
	return doc.toDomain()
}

// UpdateStatus writes the new status only if the stored one still equals
// expected. Claims additionally require professional_id to be null.
func (r *HireRepository) UpdateStatus(ctx context.Context, id string, expected domain.HireStatus, change ports.StatusChange) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "status": string(expected)}
	set := bson.M{
		"status":     string(change.To),
		"updated_at": change.UpdatedAt.UTC(),
	}
	if change.ClaimProfessionalID != "" {
		filter["professional_id"] = nil
		set["professional_id"] = change.ClaimProfessionalID
	}
	if change.StartedAt != nil {
		set["started_at"] = change.StartedAt.UTC()
	}
	if change.CompletedAt != nil {
		set["completed_at"] = change.CompletedAt.UTC()
	}

	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update hire status: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("update hire status: %w", err)
	}
	if n == 0 {
		return domain.ErrHireNotFound
	}
	return domain.ErrConcurrencyConflict
}

// ConsumeGuestToken stamps token_consumed_at once.
func (r *HireRepository) ConsumeGuestToken(ctx context.Context, id string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":               id,
		"review_token":      bson.M{"$ne": nil},
		"token_consumed_at": nil,
	}
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"token_consumed_at": at.UTC()}})
	if err != nil {
		return fmt.Errorf("consume review token: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrInvalidReviewToken
	}
	return nil
}

func (r *HireRepository) ListByClient(ctx context.Context, clientID string) ([]*domain.Hire, error) {
	return r.find(ctx, bson.M{"client_id": clientID})
}

func (r *HireRepository) ListByProfessional(ctx context.Context, professionalID string) ([]*domain.Hire, error) {
	return r.find(ctx, bson.M{"professional_id": professionalID})
}

// ListOpen returns pending requests nobody has claimed yet.
func (r *HireRepository) ListOpen(ctx context.Context, f ports.OpenRequestFilter) ([]*domain.Hire, error) {
	filter := bson.M{"status": string(domain.StatusPending), "professional_id": nil}
	if f.Category != "" {
		filter["service_category"] = f.Category
	}
	return r.find(ctx, filter)
}

func (r *HireRepository) find(ctx context.Context, filter bson.M) ([]*domain.Hire, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find hires: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []hireDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode hires: %w", err)
	}

	out := make([]*domain.Hire, 0, len(docs))
	for _, d := range docs {
		h, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}

// EnsureIndexes creates necessary indexes on the hires collection.
func (r *HireRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "professional_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "professional_id", Value: 1}, {Key: "service_category", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
