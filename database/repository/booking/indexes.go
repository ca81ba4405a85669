package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the bookings collection.
func (repo *MongoBookingRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		// Serves the windowed active-booking scan behind every
		// conflict check.
		{
			Keys: bson.D{
				{Key: "resource_id", Value: 1},
				{Key: "status", Value: 1},
				{Key: "start", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "series_id", Value: 1}},
		},
		// Serves the completion sweep.
		{
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "end", Value: 1}},
		},
	}

	if _, err := repo.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}
