package offerRepo

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
	// ErrNotFound is returned when no offer matches the given identifier.
	ErrNotFound = errors.New("offer not found")
	// ErrDuplicateCode is returned when an offer code already exists for the hotel.
	ErrDuplicateCode = errors.New("offer code already exists for this hotel")
)

// MongoOfferRepo implements OfferRepository using MongoDB.
type MongoOfferRepo struct {
	coll *mongo.Collection
}

// NewMongoOfferRepo constructs a new instance of MongoOfferRepo.
func NewMongoOfferRepo() OfferRepository {
	return &MongoOfferRepo{
		coll: database.DB().Collection("offers"),
	}
}

func (repo *MongoOfferRepo) Create(ctx context.Context, offer *models.Offer) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctxWithTimeout, offer); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateCode
		}
		return fmt.Errorf("error creating offer: %w", err)
	}
	return nil
}

func (repo *MongoOfferRepo) GetByID(ctx context.Context, offerID string) (*models.Offer, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var offer models.Offer
	err := repo.coll.FindOne(ctxWithTimeout, bson.M{"_id": offerID}).Decode(&offer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching offer %s: %w", offerID, err)
	}
	return &offer, nil
}

// GetByCode resolves an offer by (hotelId, code). An active offer read past
// its expiry is auto-deactivated before being returned.
func (repo *MongoOfferRepo) GetByCode(ctx context.Context, hotelID, code string) (*models.Offer, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var offer models.Offer
	err := repo.coll.FindOne(ctxWithTimeout, bson.M{"hotelId": hotelID, "code": code}).Decode(&offer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching offer %s for hotel %s: %w", code, hotelID, err)
	}

	if offer.IsActive && offer.Expired(time.Now()) {
		update := bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now().UTC()}}
		if _, err := repo.coll.UpdateOne(ctxWithTimeout, bson.M{"_id": offer.ID}, update); err != nil {
			return nil, fmt.Errorf("error auto-deactivating expired offer %s: %w", offer.ID, err)
		}
		offer.IsActive = false
	}
	return &offer, nil
}

func (repo *MongoOfferRepo) Update(ctx context.Context, offer *models.Offer) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	offer.UpdatedAt = time.Now().UTC()
	res, err := repo.coll.UpdateOne(ctxWithTimeout, bson.M{"_id": offer.ID}, bson.M{"$set": offer})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateCode
		}
		return fmt.Errorf("error updating offer %s: %w", offer.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *MongoOfferRepo) Deactivate(ctx context.Context, offerID string) (*models.Offer, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now().UTC()}}

	var offer models.Offer
	err := repo.coll.FindOneAndUpdate(ctxWithTimeout, bson.M{"_id": offerID}, update, opts).Decode(&offer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error deactivating offer %s: %w", offerID, err)
	}
	return &offer, nil
}

func (repo *MongoOfferRepo) List(ctx context.Context, filter ListFilter) ([]models.Offer, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := bson.M{}
	if filter.HotelID != "" {
		query["hotelId"] = filter.HotelID
	}
	switch filter.Status {
	case "active":
		query["isActive"] = true
		query["validTo"] = bson.M{"$gte": time.Now()}
	case "expired":
		query["validTo"] = bson.M{"$lt": time.Now()}
	}

	opts := options.Find().SetSort(bson.M{"validFrom": -1})
	cursor, err := repo.coll.Find(ctxWithTimeout, query, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching offers: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var offers []models.Offer
	if err := cursor.All(ctxWithTimeout, &offers); err != nil {
		return nil, fmt.Errorf("error decoding offers: %w", err)
	}
	return offers, nil
}

// IncrementRedemptions bumps the redemption counter atomically.
func (repo *MongoOfferRepo) IncrementRedemptions(ctx context.Context, hotelID, code string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"hotelId": hotelID, "code": code}
	update := bson.M{"$inc": bson.M{"redemptionCount": 1}}
	if _, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update); err != nil {
		return fmt.Errorf("error incrementing redemptions for offer %s: %w", code, err)
	}
	return nil
}
