package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oficiosya/hires-api/internal/core/domain"
	"github.com/oficiosya/hires-api/internal/core/ports"
)

// ProfessionalRepository reads directory listings and maintains their rating
// aggregate.
type ProfessionalRepository struct {
	col *mongo.Collection
}

func NewProfessionalRepository(db *mongo.Database) *ProfessionalRepository {
	return &ProfessionalRepository{col: db.Collection(collectionProfessionals)}
}

type professionalDoc struct {
	ID                  string     `bson:"_id"`
	UserID              string     `bson:"user_id,omitempty"`
	DisplayName         string     `bson:"display_name"`
	Profession          string     `bson:"profession"`
	City                string     `bson:"city"`
	State               string     `bson:"state"`
	Barrio              string     `bson:"barrio,omitempty"`
	Bio                 string     `bson:"bio,omitempty"`
	HourlyRate          float64    `bson:"hourly_rate"`
	AvatarURL           string     `bson:"avatar_url,omitempty"`
	Phone               string     `bson:"phone,omitempty"`
	Email               string     `bson:"email,omitempty"`
	Rating              float64    `bson:"rating"`
	RatingCount         int        `bson:"rating_count"`
	IsPremium           bool       `bson:"is_premium"`
	SubscriptionEndDate *time.Time `bson:"subscription_end_date,omitempty"`
}

// toDomain leaves PremiumEffective unset; only the ranking engine derives it.
func (d professionalDoc) toDomain() domain.Professional {
	return domain.Professional{
		ID:                  d.ID,
		UserID:              d.UserID,
		DisplayName:         d.DisplayName,
		Profession:          d.Profession,
		City:                d.City,
		State:               d.State,
		Barrio:              d.Barrio,
		Bio:                 d.Bio,
		HourlyRate:          d.HourlyRate,
		AvatarURL:           d.AvatarURL,
		Phone:               d.Phone,
		Email:               d.Email,
		Rating:              d.Rating,
		RatingCount:         d.RatingCount,
		IsPremiumFlag:       d.IsPremium,
		SubscriptionEndDate: d.SubscriptionEndDate,
	}
}

func (r *ProfessionalRepository) findOne(ctx context.Context, filter bson.M) (*domain.Professional, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc professionalDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfessionalNotFound
		}
		return nil, fmt.Errorf("find professional: %w", err)
	}
	p := doc.toDomain()
	return &p, nil
}

func (r *ProfessionalRepository) FindByID(ctx context.Context, id string) (*domain.Professional, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *ProfessionalRepository) FindByUserID(ctx context.Context, userID string) (*domain.Professional, error) {
	if userID == "" {
		return nil, domain.ErrProfessionalNotFound
	}
	return r.findOne(ctx, bson.M{"user_id": userID})
}

// List prefilters by exact, case-insensitive category and city. Ordering is
// left to the ranking engine.
func (r *ProfessionalRepository) List(ctx context.Context, q ports.ProfessionalQuery) ([]domain.Professional, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if c := strings.TrimSpace(q.Category); c != "" {
		filter["profession"] = exactFold(c)
	}
	if c := strings.TrimSpace(q.City); c != "" {
		filter["city"] = exactFold(c)
	}

	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list professionals: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []professionalDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode professionals: %w", err)
	}

	out := make([]domain.Professional, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func exactFold(s string) primitive.Regex {
	return primitive.Regex{Pattern: "^\\s*" + regexp.QuoteMeta(s) + "\\s*$", Options: "i"}
}

// ApplyRating folds rating into the stored mean with a pipeline update, so
// concurrent reviews never lose a write. Both fields are computed from the
// document as it was before the stage.
func (r *ProfessionalRepository) ApplyRating(ctx context.Context, id string, rating int) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	count := bson.D{{Key: "$ifNull", Value: bson.A{"$rating_count", 0}}}
	mean := bson.D{{Key: "$ifNull", Value: bson.A{"$rating", 0}}}
	newCount := bson.D{{Key: "$add", Value: bson.A{count, 1}}}

	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "rating", Value: bson.D{{Key: "$divide", Value: bson.A{
				bson.D{{Key: "$add", Value: bson.A{
					bson.D{{Key: "$multiply", Value: bson.A{mean, count}}},
					rating,
				}}},
				newCount,
			}}}},
			{Key: "rating_count", Value: newCount},
		}}},
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("apply rating: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProfessionalNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the professionals collection.
func (r *ProfessionalRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "profession", Value: 1}, {Key: "city", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
