package resourceRepo

import (
	"context"

	"deskhive/models"
)

// ResourceRepository defines persistence operations for bookable spaces.
type ResourceRepository interface {
	Create(ctx context.Context, resource *models.Resource) error
	GetByID(ctx context.Context, id string) (*models.Resource, error)
	GetAll(ctx context.Context) ([]models.Resource, error)
	Update(ctx context.Context, resource *models.Resource) error
	// Deactivate soft-deletes a space; booking history is retained.
	Deactivate(ctx context.Context, id string) error
}
