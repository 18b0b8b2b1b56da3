package roomRepo

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

// ErrNotFound is returned when no room matches the given identifier.
var ErrNotFound = errors.New("room not found")

// MongoRoomRepo implements RoomRepository using MongoDB.
type MongoRoomRepo struct {
	coll *mongo.Collection
}

// NewMongoRoomRepo constructs a new instance of MongoRoomRepo.
func NewMongoRoomRepo() RoomRepository {
	return &MongoRoomRepo{
		coll: database.DB().Collection("rooms"),
	}
}

func (repo *MongoRoomRepo) Create(ctx context.Context, room *models.Room) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctxWithTimeout, room); err != nil {
		return fmt.Errorf("error creating room: %w", err)
	}
	return nil
}

func (repo *MongoRoomRepo) GetByID(ctx context.Context, roomID string) (*models.Room, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var room models.Room
	err := repo.coll.FindOne(ctxWithTimeout, bson.M{"_id": roomID}).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching room %s: %w", roomID, err)
	}
	return &room, nil
}

// GetForHotel fetches a room scoped to a hotel; a room from another hotel is
// treated as not found.
func (repo *MongoRoomRepo) GetForHotel(ctx context.Context, roomID, hotelID string) (*models.Room, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var room models.Room
	err := repo.coll.FindOne(ctxWithTimeout, bson.M{"_id": roomID, "hotelId": hotelID}).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching room %s for hotel %s: %w", roomID, hotelID, err)
	}
	return &room, nil
}

func (repo *MongoRoomRepo) ListByHotel(ctx context.Context, hotelID string, minGuests int) ([]models.Room, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"hotelId": hotelID}
	if minGuests > 0 {
		filter["$expr"] = bson.M{
			"$gte": bson.A{
				bson.M{"$add": bson.A{"$capacity.adults", "$capacity.children"}},
				minGuests,
			},
		}
	}
	cursor, err := repo.coll.Find(ctxWithTimeout, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching rooms for hotel %s: %w", hotelID, err)
	}
	defer cursor.Close(ctxWithTimeout)

	var rooms []models.Room
	if err := cursor.All(ctxWithTimeout, &rooms); err != nil {
		return nil, fmt.Errorf("error decoding rooms: %w", err)
	}
	return rooms, nil
}

func (repo *MongoRoomRepo) Update(ctx context.Context, room *models.Room) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	room.UpdatedAt = time.Now().UTC()
	res, err := repo.coll.UpdateOne(ctxWithTimeout, bson.M{"_id": room.ID}, bson.M{"$set": room})
	if err != nil {
		return fmt.Errorf("error updating room %s: %w", room.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *MongoRoomRepo) Delete(ctx context.Context, roomID string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.coll.DeleteOne(ctxWithTimeout, bson.M{"_id": roomID})
	if err != nil {
		return fmt.Errorf("error deleting room %s: %w", roomID, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// EnsureIndexes creates the room collection indexes.
func (repo *MongoRoomRepo) EnsureIndexes(ctx context.Context) error {
	index := mongo.IndexModel{
		Keys: bson.D{{Key: "hotelId", Value: 1}},
	}
	if _, err := repo.coll.Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("failed to create room indexes: %w", err)
	}
	return nil
}
