package reviewRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stayhub/database"
	"stayhub/models"
)

var (
	// ErrNotFound is returned when no review matches the given identifier.
	ErrNotFound = errors.New("review not found")
	// ErrDuplicate is returned when the booking has already been reviewed.
	ErrDuplicate = errors.New("booking already reviewed")
)

// ReviewRepository is the persistence contract for review documents.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByBooking(ctx context.Context, bookingID string) (*models.Review, error)
	ListByHotel(ctx context.Context, hotelID string) ([]models.Review, error)
	EnsureIndexes(ctx context.Context) error
}

// MongoReviewRepo implements ReviewRepository using MongoDB.
type MongoReviewRepo struct {
	coll *mongo.Collection
}

// NewMongoReviewRepo constructs a new instance of MongoReviewRepo.
func NewMongoReviewRepo() ReviewRepository {
	return &MongoReviewRepo{
		coll: database.DB().Collection("reviews"),
	}
}

func (repo *MongoReviewRepo) Create(ctx context.Context, review *models.Review) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctxWithTimeout, review); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("error creating review: %w", err)
	}
	return nil
}

func (repo *MongoReviewRepo) GetByBooking(ctx context.Context, bookingID string) (*models.Review, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var review models.Review
	err := repo.coll.FindOne(ctxWithTimeout, bson.M{"bookingId": bookingID}).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching review for booking %s: %w", bookingID, err)
	}
	return &review, nil
}

func (repo *MongoReviewRepo) ListByHotel(ctx context.Context, hotelID string) ([]models.Review, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := repo.coll.Find(ctxWithTimeout, bson.M{"hotelId": hotelID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching reviews for hotel %s: %w", hotelID, err)
	}
	defer cursor.Close(ctxWithTimeout)

	var reviews []models.Review
	if err := cursor.All(ctxWithTimeout, &reviews); err != nil {
		return nil, fmt.Errorf("error decoding reviews: %w", err)
	}
	return reviews, nil
}

// EnsureIndexes creates the review collection indexes; the unique bookingId
// index enforces one review per stay.
func (repo *MongoReviewRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "bookingId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "hotelId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	}
	if _, err := repo.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create review indexes: %w", err)
	}
	return nil
}
