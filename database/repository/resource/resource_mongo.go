package resourceRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"deskhive/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrResourceNotFound indicates no resource exists with the given id.
var ErrResourceNotFound = errors.New("resource not found")

// MongoResourceRepo is the MongoDB implementation of ResourceRepository.
type MongoResourceRepo struct {
	coll *mongo.Collection
}

// NewMongoResourceRepo constructs the repository over the given database.
func NewMongoResourceRepo(db *mongo.Database) *MongoResourceRepo {
	return &MongoResourceRepo{coll: db.Collection("resources")}
}

func (repo *MongoResourceRepo) Create(ctx context.Context, resource *models.Resource) error {
	now := time.Now()
	resource.CreatedAt = now
	resource.UpdatedAt = now
	if _, err := repo.coll.InsertOne(ctx, resource); err != nil {
		return fmt.Errorf("failed to insert resource: %w", err)
	}
	return nil
}

func (repo *MongoResourceRepo) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	var resource models.Resource
	err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&resource)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrResourceNotFound
		}
		return nil, fmt.Errorf("failed to fetch resource %s: %w", id, err)
	}
	return &resource, nil
}

func (repo *MongoResourceRepo) GetAll(ctx context.Context) ([]models.Resource, error) {
	cursor, err := repo.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	defer cursor.Close(ctx)

	var resources []models.Resource
	if err := cursor.All(ctx, &resources); err != nil {
		return nil, fmt.Errorf("failed to decode resources: %w", err)
	}
	return resources, nil
}

func (repo *MongoResourceRepo) Update(ctx context.Context, resource *models.Resource) error {
	resource.UpdatedAt = time.Now()
	res, err := repo.coll.ReplaceOne(ctx, bson.M{"id": resource.ID}, resource)
	if err != nil {
		return fmt.Errorf("failed to update resource %s: %w", resource.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrResourceNotFound
	}
	return nil
}

func (repo *MongoResourceRepo) Deactivate(ctx context.Context, id string) error {
	update := bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now()}}
	res, err := repo.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to deactivate resource %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrResourceNotFound
	}
	return nil
}
