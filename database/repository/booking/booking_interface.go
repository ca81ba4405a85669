package bookingRepo

import (
	"context"
	"time"

	"deskhive/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// StatusUpdate carries the metadata written alongside a status
// transition. Only the fields relevant to the transition are set.
type StatusUpdate struct {
	ApprovedBy         string
	ApprovedAt         *time.Time
	CancelledBy        string
	CancellationReason string
}

// BookingRepository defines persistence operations for bookings. The
// engine treats it as an abstract transactional store; conflict
// re-checks always run inside ExecuteTransaction so a check result is
// never assumed valid outside the isolation boundary.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	FindBySeries(ctx context.Context, seriesID string) ([]models.Booking, error)
	// FindActiveByResource returns PENDING and CONFIRMED bookings for
	// the resource whose intervals intersect [windowStart, windowEnd),
	// excluding any ids in excludeIDs.
	FindActiveByResource(ctx context.Context, resourceID string, windowStart, windowEnd time.Time, excludeIDs []string) ([]models.Booking, error)
	// UpdateStatus transitions a booking from one status to another
	// atomically; it fails with ErrStaleStatus when the stored status
	// no longer matches from.
	UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus, meta StatusUpdate) (*models.Booking, error)
	// FindConfirmedEndedBefore returns CONFIRMED bookings whose end
	// instant has passed, for the completion sweep.
	FindConfirmedEndedBefore(ctx context.Context, cutoff time.Time) ([]models.Booking, error)
	// ExecuteTransaction runs fn inside a MongoDB multi-document
	// transaction.
	ExecuteTransaction(ctx context.Context, fn func(sessCtx mongo.SessionContext) error) error
}
