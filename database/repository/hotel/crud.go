package hotelRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"stayhub/database"
	"stayhub/models"
)

// ErrNotFound is returned when no hotel matches the given identifier.
var ErrNotFound = errors.New("hotel not found")

// MongoHotelRepo implements HotelRepository using MongoDB.
type MongoHotelRepo struct {
	coll *mongo.Collection
}

// NewMongoHotelRepo constructs a new instance of MongoHotelRepo.
func NewMongoHotelRepo() HotelRepository {
	return &MongoHotelRepo{
		coll: database.DB().Collection("hotels"),
	}
}

func (repo *MongoHotelRepo) Create(ctx context.Context, hotel *models.Hotel) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctxWithTimeout, hotel); err != nil {
		return fmt.Errorf("error creating hotel: %w", err)
	}
	return nil
}

func (repo *MongoHotelRepo) GetByID(ctx context.Context, hotelID string) (*models.Hotel, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var hotel models.Hotel
	err := repo.coll.FindOne(ctxWithTimeout, bson.M{"_id": hotelID}).Decode(&hotel)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching hotel %s: %w", hotelID, err)
	}
	return &hotel, nil
}

func (repo *MongoHotelRepo) Update(ctx context.Context, hotel *models.Hotel) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	hotel.UpdatedAt = time.Now().UTC()
	res, err := repo.coll.UpdateOne(ctxWithTimeout, bson.M{"_id": hotel.ID}, bson.M{"$set": hotel})
	if err != nil {
		return fmt.Errorf("error updating hotel %s: %w", hotel.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *MongoHotelRepo) UpdateFields(ctx context.Context, hotelID string, fields map[string]interface{}) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	fields["updatedAt"] = time.Now().UTC()
	res, err := repo.coll.UpdateOne(ctxWithTimeout, bson.M{"_id": hotelID}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("error updating hotel fields for %s: %w", hotelID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *MongoHotelRepo) Delete(ctx context.Context, hotelID string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.coll.DeleteOne(ctxWithTimeout, bson.M{"_id": hotelID})
	if err != nil {
		return fmt.Errorf("error deleting hotel %s: %w", hotelID, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *MongoHotelRepo) List(ctx context.Context, activeOnly bool) ([]models.Hotel, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}
	cursor, err := repo.coll.Find(ctxWithTimeout, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching hotels: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var hotels []models.Hotel
	if err := cursor.All(ctxWithTimeout, &hotels); err != nil {
		return nil, fmt.Errorf("error decoding hotels: %w", err)
	}
	return hotels, nil
}

// ApplyRating recomputes the rating average and count in one atomic pipeline
// update so concurrent reviews never lose increments.
func (repo *MongoHotelRepo) ApplyRating(ctx context.Context, hotelID string, rating int) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.M{
			"ratingAvg": bson.M{
				"$divide": bson.A{
					bson.M{"$add": bson.A{
						bson.M{"$multiply": bson.A{"$ratingAvg", "$ratingCount"}},
						rating,
					}},
					bson.M{"$add": bson.A{"$ratingCount", 1}},
				},
			},
			"ratingCount": bson.M{"$add": bson.A{"$ratingCount", 1}},
			"updatedAt":   time.Now().UTC(),
		}}},
	}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, bson.M{"_id": hotelID}, update)
	if err != nil {
		return fmt.Errorf("error applying rating to hotel %s: %w", hotelID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
