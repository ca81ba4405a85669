package booking

import (
	"context"
	"time"

	bookingRepo "deskhive/database/repository/booking"
	lockRepo "deskhive/database/repository/lock"
	resourceRepo "deskhive/database/repository/resource"
	"deskhive/models"
)

// CreateSeriesRequest describes a single or recurring booking request.
type CreateSeriesRequest struct {
	ResourceID  string
	RequestedBy string
	Start       time.Time
	End         time.Time
	Recurrence  *models.RecurrenceRule // nil for a single booking
}

// BookingService is the engine surface consumed by the API layer.
type BookingService interface {
	CreateSeries(ctx context.Context, req CreateSeriesRequest) (*models.SeriesResult, error)
	CheckAvailability(ctx context.Context, resourceID string, start, end time.Time) (*models.ConflictReport, error)
	Approve(ctx context.Context, bookingID, approverID string) (*models.Booking, error)
	Reject(ctx context.Context, bookingID, actorID, reason string) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID, actorID, reason string) (*models.Booking, error)
	Complete(ctx context.Context, bookingID string) (*models.Booking, error)
	CompleteElapsed(ctx context.Context) (int, error)
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
	GetSeries(ctx context.Context, seriesID string) ([]models.Booking, error)
}

// CompletionScheduler schedules the deferred CONFIRMED -> COMPLETED
// transition for a booking once its interval has elapsed. Implemented
// by the task-queue worker; nil disables scheduling (the periodic
// sweep still completes elapsed bookings).
type CompletionScheduler interface {
	ScheduleCompletion(booking models.Booking) error
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	ResourceRepo resourceRepo.ResourceRepository
	Repo         bookingRepo.BookingRepository
	Locks        lockRepo.ResourceLocker
	Completion   CompletionScheduler

	// MaxOccurrences overrides the expansion ceiling; 0 uses the default.
	MaxOccurrences int
	// CancelCutoff moves the cancellation deadline earlier than the
	// booking's start instant. Zero means cancellable until start.
	CancelCutoff time.Duration

	// Now is overridable for tests; nil means time.Now.
	Now func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultBookingService) detector() *ConflictDetector {
	return &ConflictDetector{Repo: s.Repo}
}
