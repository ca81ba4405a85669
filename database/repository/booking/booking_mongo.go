package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"deskhive/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrBookingNotFound indicates no booking exists with the given id.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrStaleStatus indicates the stored status no longer matches the
	// expected one; the caller lost a race and must re-read.
	ErrStaleStatus = errors.New("booking status changed concurrently")
)

// MongoBookingRepo is the MongoDB implementation of BookingRepository.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs the repository over the given database.
func NewMongoBookingRepo(db *mongo.Database) *MongoBookingRepo {
	return &MongoBookingRepo{coll: db.Collection("bookings")}
}

func (repo *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	if _, err := repo.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (repo *MongoBookingRepo) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}
	return &booking, nil
}

func (repo *MongoBookingRepo) FindBySeries(ctx context.Context, seriesID string) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cursor, err := repo.coll.Find(ctx, bson.M{"series_id": seriesID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query series %s: %w", seriesID, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode series bookings: %w", err)
	}
	return bookings, nil
}

func (repo *MongoBookingRepo) FindActiveByResource(ctx context.Context, resourceID string, windowStart, windowEnd time.Time, excludeIDs []string) ([]models.Booking, error) {
	// Half-open overlap against the bounding window: start < windowEnd
	// AND end > windowStart. The window scopes the scan before the
	// pairwise checks run in memory.
	filter := bson.M{
		"resource_id": resourceID,
		"status":      bson.M{"$in": models.ActiveStatuses},
		"start":       bson.M{"$lt": windowEnd},
		"end":         bson.M{"$gt": windowStart},
	}
	if len(excludeIDs) > 0 {
		filter["id"] = bson.M{"$nin": excludeIDs}
	}

	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cursor, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query active bookings for resource %s: %w", resourceID, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode active bookings: %w", err)
	}
	return bookings, nil
}

func (repo *MongoBookingRepo) UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus, meta StatusUpdate) (*models.Booking, error) {
	set := bson.M{
		"status":     to,
		"updated_at": time.Now(),
	}
	if meta.ApprovedAt != nil {
		set["approved_at"] = *meta.ApprovedAt
		set["approved_by"] = meta.ApprovedBy
	}
	if meta.CancelledBy != "" {
		set["cancelled_by"] = meta.CancelledBy
	}
	if meta.CancellationReason != "" {
		set["cancellation_reason"] = meta.CancellationReason
	}

	// The status filter makes the transition a compare-and-swap: a
	// concurrent transition on the same booking loses cleanly.
	filter := bson.M{"id": id, "status": from}
	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)

	var updated models.Booking
	err := repo.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Distinguish a missing booking from a lost race.
			if _, lookupErr := repo.FindByID(ctx, id); lookupErr != nil {
				return nil, lookupErr
			}
			return nil, ErrStaleStatus
		}
		return nil, fmt.Errorf("failed to update booking %s status: %w", id, err)
	}
	return &updated, nil
}

func (repo *MongoBookingRepo) FindConfirmedEndedBefore(ctx context.Context, cutoff time.Time) ([]models.Booking, error) {
	filter := bson.M{
		"status": models.StatusConfirmed,
		"end":    bson.M{"$lte": cutoff},
	}
	cursor, err := repo.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query elapsed bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode elapsed bookings: %w", err)
	}
	return bookings, nil
}
