package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/filmfest/catalog-api/internal/core/domain"
)

const ratingsCollection = "ratings"

type RatingRepository struct {
	coll *mongo.Collection
}

func NewRatingRepository(db *mongo.Database) *RatingRepository {
	return &RatingRepository{coll: db.Collection(ratingsCollection)}
}

type mongoRating struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Username  string             `bson:"username,omitempty"`
	MovieID   string             `bson:"movie_id"`
	Score     int                `bson:"score"`
	Comment   string             `bson:"comment,omitempty"`
	CreatedAt int64              `bson:"created_at"`
}

func (mr *mongoRating) toDomain() *domain.Rating {
	return &domain.Rating{
		ID:        mr.ID.Hex(),
		UserID:    mr.UserID,
		Username:  mr.Username,
		MovieID:   mr.MovieID,
		Score:     mr.Score,
		Comment:   mr.Comment,
		CreatedAt: unixToTime(mr.CreatedAt),
	}
}

func (r *RatingRepository) ExistsByUserAndMovie(ctx context.Context, userID, movieID string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx,
		bson.M{"user_id": userID, "movie_id": movieID},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, fmt.Errorf("count ratings: %w", err)
	}
	return n > 0, nil
}

// Insert persists a rating. The unique compound index on (user_id, movie_id)
// is the authoritative duplicate arbiter: a duplicate-key error here means a
// concurrent submission won the race, and surfaces as ErrDuplicateRating just
// like the service's pre-check.
func (r *RatingRepository) Insert(ctx context.Context, rating *domain.Rating) (*domain.Rating, error) {
	doc := mongoRating{
		UserID:    rating.UserID,
		Username:  rating.Username,
		MovieID:   rating.MovieID,
		Score:     rating.Score,
		Comment:   rating.Comment,
		CreatedAt: rating.CreatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateRating
		}
		return nil, fmt.Errorf("insert rating: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *RatingRepository) FindByMovie(ctx context.Context, movieID string) ([]*domain.Rating, error) {
	return r.find(ctx, bson.M{"movie_id": movieID})
}

func (r *RatingRepository) FindByUser(ctx context.Context, userID string) ([]*domain.Rating, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *RatingRepository) find(ctx context.Context, filter bson.M) ([]*domain.Rating, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find ratings: %w", err)
	}
	defer cur.Close(ctx)

	var ratings []*domain.Rating
	for cur.Next(ctx) {
		var mr mongoRating
		if err := cur.Decode(&mr); err != nil {
			return nil, fmt.Errorf("decode rating: %w", err)
		}
		ratings = append(ratings, mr.toDomain())
	}
	return ratings, cur.Err()
}

// AverageForMovie lets MongoDB compute the mean, so the read is a
// snapshot-consistent aggregation instead of pulling every row into the
// process.
func (r *RatingRepository) AverageForMovie(ctx context.Context, movieID string) (float64, bool, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"movie_id": movieID}}},
		{{Key: "$group", Value: bson.M{
			"_id": nil,
			"avg": bson.M{"$avg": "$score"},
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, false, fmt.Errorf("aggregate average: %w", err)
	}
	defer cur.Close(ctx)

	var result struct {
		Avg float64 `bson:"avg"`
	}
	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return 0, false, fmt.Errorf("aggregate average: %w", err)
		}
		return 0, false, nil
	}
	if err := cur.Decode(&result); err != nil {
		return 0, false, fmt.Errorf("decode average: %w", err)
	}
	return result.Avg, true, nil
}

func (r *RatingRepository) CountForMovie(ctx context.Context, movieID string) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"movie_id": movieID})
	if err != nil {
		return 0, fmt.Errorf("count ratings: %w", err)
	}
	return n, nil
}

// EnsureIndexes creates the unique compound index that enforces
// one-rating-per-(user, movie) at the storage layer.
func (r *RatingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "movie_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "movie_id", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
