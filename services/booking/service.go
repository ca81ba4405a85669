package booking

import (
	"context"
	"time"

	bookingRepo "deskhive/database/repository/booking"
	"deskhive/models"
	"deskhive/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func approvalUpdate(approverID string, at time.Time) bookingRepo.StatusUpdate {
	return bookingRepo.StatusUpdate{ApprovedBy: approverID, ApprovedAt: &at}
}

func cancellationUpdate(actorID, reason string) bookingRepo.StatusUpdate {
	return bookingRepo.StatusUpdate{CancelledBy: actorID, CancellationReason: reason}
}

func emptyStatusUpdate() bookingRepo.StatusUpdate {
	return bookingRepo.StatusUpdate{}
}

// CheckAvailability reports what a candidate interval would collide
// with. Pure query: repeated calls with no intervening writes yield
// the same report.
func (s *DefaultBookingService) CheckAvailability(ctx context.Context, resourceID string, start, end time.Time) (*models.ConflictReport, error) {
	candidate, err := NewInterval(start, end)
	if err != nil {
		return nil, err
	}
	reports, err := s.detector().Check(ctx, resourceID, []models.Interval{candidate}, nil)
	if err != nil {
		return nil, err
	}
	return &reports[0], nil
}

// Approve confirms a PENDING booking. The slot may have been taken
// while the booking waited, so a fresh conflict re-check runs inside
// the lock and transaction; on a new conflict the approval fails with
// ConflictError and the booking remains PENDING.
func (s *DefaultBookingService) Approve(ctx context.Context, bookingID, approverID string) (*models.Booking, error) {
	booking, err := s.Repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	release, err := s.Locks.Acquire(ctx, booking.ResourceID)
	if err != nil {
		return nil, err
	}
	defer release()

	var approved *models.Booking
	err = s.Repo.ExecuteTransaction(ctx, func(sc mongo.SessionContext) error {
		fresh, err := s.Repo.FindByID(sc, bookingID)
		if err != nil {
			return err
		}
		if err := checkTransition(fresh.Status, models.StatusConfirmed); err != nil {
			return err
		}

		reports, err := s.detector().Check(sc, fresh.ResourceID, []models.Interval{fresh.Interval()}, []string{fresh.ID})
		if err != nil {
			return err
		}
		if reports[0].HasConflicts() {
			return NewConflictError(fresh.ResourceID, reports[0].ConflictIDs())
		}

		now := s.now()
		approved, err = s.Repo.UpdateStatus(sc, bookingID, models.StatusPending, models.StatusConfirmed, approvalUpdate(approverID, now))
		return err
	})
	if err != nil {
		return nil, err
	}

	s.scheduleCompletions([]models.Booking{*approved})

	utils.GetLogger().Info("booking approved",
		zap.String("bookingId", bookingID), zap.String("approvedBy", approverID))
	return approved, nil
}

// Reject cancels a PENDING booking with the rejector's reason. The
// same transition covers withdrawal by the requester.
func (s *DefaultBookingService) Reject(ctx context.Context, bookingID, actorID, reason string) (*models.Booking, error) {
	booking, err := s.Repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.StatusPending {
		return nil, NewInvalidTransitionError(booking.Status, models.StatusCancelled, "only pending bookings can be rejected")
	}
	return s.cancelWith(ctx, bookingID, models.StatusPending, actorID, reason)
}

// Cancel releases a PENDING or CONFIRMED booking's slot, capturing the
// reason. Permitted until the booking's start instant, minus the
// configured cutoff.
func (s *DefaultBookingService) Cancel(ctx context.Context, bookingID, actorID, reason string) (*models.Booking, error) {
	booking, err := s.Repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(booking.Status, models.StatusCancelled); err != nil {
		return nil, err
	}

	deadline := booking.Start.Add(-s.CancelCutoff)
	if !s.now().Before(deadline) {
		return nil, NewInvalidTransitionError(booking.Status, models.StatusCancelled, "cancellation window has closed")
	}
	return s.cancelWith(ctx, bookingID, booking.Status, actorID, reason)
}

// Complete finalizes a CONFIRMED booking whose interval has elapsed.
func (s *DefaultBookingService) Complete(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := s.Repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(booking.Status, models.StatusCompleted); err != nil {
		return nil, err
	}
	if s.now().Before(booking.End) {
		return nil, NewInvalidTransitionError(booking.Status, models.StatusCompleted, "interval has not elapsed")
	}
	return s.Repo.UpdateStatus(ctx, bookingID, booking.Status, models.StatusCompleted, emptyStatusUpdate())
}

// CompleteElapsed sweeps CONFIRMED bookings whose end has passed and
// completes them. Backstop for the task-queue path; returns how many
// bookings were completed.
func (s *DefaultBookingService) CompleteElapsed(ctx context.Context) (int, error) {
	elapsed, err := s.Repo.FindConfirmedEndedBefore(ctx, s.now())
	if err != nil {
		return 0, err
	}

	logger := utils.GetLogger()
	completed := 0
	for _, b := range elapsed {
		if _, err := s.Repo.UpdateStatus(ctx, b.ID, models.StatusConfirmed, models.StatusCompleted, emptyStatusUpdate()); err != nil {
			// Lost races are fine; the booking was cancelled or already
			// completed in the meantime.
			logger.Debug("completion sweep skipped booking",
				zap.String("bookingId", b.ID), zap.Error(err))
			continue
		}
		completed++
	}
	return completed, nil
}

// GetByID returns a booking by id.
func (s *DefaultBookingService) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	return s.Repo.FindByID(ctx, bookingID)
}

// GetSeries returns every occurrence of a series in start order.
func (s *DefaultBookingService) GetSeries(ctx context.Context, seriesID string) ([]models.Booking, error) {
	return s.Repo.FindBySeries(ctx, seriesID)
}

func (s *DefaultBookingService) cancelWith(ctx context.Context, bookingID string, from models.BookingStatus, actorID, reason string) (*models.Booking, error) {
	cancelled, err := s.Repo.UpdateStatus(ctx, bookingID, from, models.StatusCancelled, cancellationUpdate(actorID, reason))
	if err != nil {
		return nil, err
	}
	utils.GetLogger().Info("booking cancelled",
		zap.String("bookingId", bookingID),
		zap.String("cancelledBy", actorID),
		zap.String("reason", reason))
	return cancelled, nil
}
