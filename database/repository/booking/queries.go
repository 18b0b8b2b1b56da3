package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stayhub/models"
)

// HasOverlapping reports whether any inventory-holding booking for the room
// intersects [start, end). Half-open semantics: checkIn < end && checkOut > start.
func (repo *MongoBookingRepo) HasOverlapping(ctx context.Context, hotelID, roomID string, start, end time.Time) (bool, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"hotelId":  hotelID,
		"roomId":   roomID,
		"status":   bson.M{"$in": models.HoldStatuses},
		"checkIn":  bson.M{"$lt": end},
		"checkOut": bson.M{"$gt": start},
	}
	count, err := repo.coll.CountDocuments(ctxWithTimeout, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("error checking overlapping bookings: %w", err)
	}
	return count > 0, nil
}

// ListHolds returns inventory-holding bookings for a hotel that intersect
// [start, end) at the query level.
func (repo *MongoBookingRepo) ListHolds(ctx context.Context, hotelID string, start, end time.Time) ([]models.Booking, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"hotelId":  hotelID,
		"status":   bson.M{"$in": models.HoldStatuses},
		"checkIn":  bson.M{"$lt": end},
		"checkOut": bson.M{"$gt": start},
	}
	cursor, err := repo.coll.Find(ctxWithTimeout, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching hold bookings: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var bookings []models.Booking
	if err := cursor.All(ctxWithTimeout, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding hold bookings: %w", err)
	}
	return bookings, nil
}

// ListAll returns every booking, newest first.
func (repo *MongoBookingRepo) ListAll(ctx context.Context) ([]models.Booking, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := repo.coll.Find(ctxWithTimeout, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching bookings: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var bookings []models.Booking
	if err := cursor.All(ctxWithTimeout, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

// ListByUser returns a user's bookings, newest first.
func (repo *MongoBookingRepo) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := repo.coll.Find(ctxWithTimeout, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching bookings for user %s: %w", userID, err)
	}
	defer cursor.Close(ctxWithTimeout)

	var bookings []models.Booking
	if err := cursor.All(ctxWithTimeout, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

// ListByHotel returns a hotel's bookings, optionally filtered by status set
// and owner.
func (repo *MongoBookingRepo) ListByHotel(ctx context.Context, hotelID string, statuses []string, userID string) ([]models.Booking, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"hotelId": hotelID}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}
	if userID != "" {
		filter["userId"] = userID
	}
	cursor, err := repo.coll.Find(ctxWithTimeout, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching bookings for hotel %s: %w", hotelID, err)
	}
	defer cursor.Close(ctxWithTimeout)

	var bookings []models.Booking
	if err := cursor.All(ctxWithTimeout, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

// MarkCompletedBefore promotes paid booked stays past checkout to completed.
func (repo *MongoBookingRepo) MarkCompletedBefore(ctx context.Context, now time.Time) (int64, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"status":        models.BookingBooked,
		"paymentStatus": models.PaymentPaid,
		"checkOut":      bson.M{"$lt": now},
	}
	update := bson.M{"$set": bson.M{"status": models.BookingCompleted, "updatedAt": now}}
	res, err := repo.coll.UpdateMany(ctxWithTimeout, filter, update)
	if err != nil {
		return 0, fmt.Errorf("error marking bookings completed: %w", err)
	}
	return res.ModifiedCount, nil
}

// ListReviewInvitePending returns recently completed paid stays awaiting a
// review invitation.
func (repo *MongoBookingRepo) ListReviewInvitePending(ctx context.Context, since, now time.Time) ([]models.Booking, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"status":           models.BookingCompleted,
		"paymentStatus":    models.PaymentPaid,
		"reviewInviteSent": bson.M{"$ne": true},
		"checkOut":         bson.M{"$lt": now, "$gt": since},
	}
	cursor, err := repo.coll.Find(ctxWithTimeout, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching review invite candidates: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var bookings []models.Booking
	if err := cursor.All(ctxWithTimeout, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding review invite candidates: %w", err)
	}
	return bookings, nil
}

// ListStalePending returns pending bookings created before the cutoff, so the
// sweep can undo their side effects (coin holds, open intents) before removal.
func (repo *MongoBookingRepo) ListStalePending(ctx context.Context, cutoff time.Time) ([]models.Booking, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"status":    models.BookingPending,
		"createdAt": bson.M{"$lt": cutoff},
	}
	cursor, err := repo.coll.Find(ctxWithTimeout, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching stale pending bookings: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var bookings []models.Booking
	if err := cursor.All(ctxWithTimeout, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding stale pending bookings: %w", err)
	}
	return bookings, nil
}

// DeleteStalePending removes abandoned pending bookings older than the cutoff.
func (repo *MongoBookingRepo) DeleteStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"status":    models.BookingPending,
		"createdAt": bson.M{"$lt": cutoff},
	}
	res, err := repo.coll.DeleteMany(ctxWithTimeout, filter)
	if err != nil {
		return 0, fmt.Errorf("error deleting stale pending bookings: %w", err)
	}
	return res.DeletedCount, nil
}
