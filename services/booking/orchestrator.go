package booking

import (
	"context"
	"errors"

	resourceRepo "deskhive/database/repository/resource"
	"deskhive/models"
	"deskhive/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// CreateSeries creates a single or recurring booking as one logical
// operation. Occurrences are expanded, checked against the resource's
// active bookings in chronological order (each accepted occurrence
// counts as active for the ones after it) and created in their initial
// lifecycle state. Partial success is the defined outcome for
// recurring requests; a single-occurrence request that collides fails
// with ConflictError instead.
func (s *DefaultBookingService) CreateSeries(ctx context.Context, req CreateSeriesRequest) (*models.SeriesResult, error) {
	logger := utils.GetLogger()

	base, err := NewInterval(req.Start, req.End)
	if err != nil {
		return nil, err
	}

	resource, err := s.ResourceRepo.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			return nil, NewResourceUnavailableError(req.ResourceID, "does not exist")
		}
		return nil, err
	}
	if !resource.Bookable() {
		return nil, NewResourceUnavailableError(req.ResourceID, "is not open for booking")
	}

	occurrences, seriesID, err := s.expandRequest(req, base)
	if err != nil {
		return nil, err
	}

	// Resource-scoped mutual exclusion around the check-and-write; the
	// conflict check below never outlives this boundary.
	release, err := s.Locks.Acquire(ctx, req.ResourceID)
	if err != nil {
		return nil, err
	}
	defer release()

	result := &models.SeriesResult{SeriesID: seriesID}
	windowStart, windowEnd := boundingWindow(occurrences)

	err = s.Repo.ExecuteTransaction(ctx, func(sc mongo.SessionContext) error {
		active, err := s.Repo.FindActiveByResource(sc, req.ResourceID, windowStart, windowEnd, nil)
		if err != nil {
			return err
		}

		now := s.now()
		running := active
		for i, occ := range occurrences {
			conflicts := overlapping(running, occ)
			if len(conflicts) > 0 {
				report := models.ConflictReport{Candidate: occ, Conflicts: conflicts}
				result.Rejected = append(result.Rejected, models.RejectedOccurrence{
					Interval:    occ,
					ConflictIDs: report.ConflictIDs(),
				})
				continue
			}

			booking := models.Booking{
				ID:               uuid.New().String(),
				ResourceID:       req.ResourceID,
				RequestedBy:      req.RequestedBy,
				SeriesID:         seriesID,
				Start:            occ.Start,
				End:              occ.End,
				Status:           InitialStatus(resource.RequiresApproval),
				RequiresApproval: resource.RequiresApproval,
				CreatedAt:        now,
				UpdatedAt:        now,
			}
			if i == 0 && req.Recurrence != nil {
				booking.Recurrence = req.Recurrence
			}

			if err := s.Repo.Create(sc, &booking); err != nil {
				return err
			}
			result.Accepted = append(result.Accepted, booking)
			running = append(running, booking)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// A single booking that collides is a plain conflict failure, not a
	// partial result.
	if req.Recurrence == nil && len(result.Rejected) > 0 {
		return nil, NewConflictError(req.ResourceID, result.Rejected[0].ConflictIDs)
	}

	s.scheduleCompletions(result.Accepted)

	logger.Info("booking series created",
		zap.String("seriesId", seriesID),
		zap.String("resourceId", req.ResourceID),
		zap.Int("accepted", len(result.Accepted)),
		zap.Int("rejected", len(result.Rejected)),
	)
	return result, nil
}

// expandRequest turns the request into its occurrence list. A request
// without a recurrence rule is a series of length one with no series
// id.
func (s *DefaultBookingService) expandRequest(req CreateSeriesRequest, base models.Interval) ([]models.Interval, string, error) {
	if req.Recurrence == nil {
		return []models.Interval{base}, "", nil
	}

	rule := *req.Recurrence
	if rule.StartDate.IsZero() {
		rule.StartDate = base.Start
	}
	occurrences, err := ExpandRule(rule, base, s.MaxOccurrences)
	if err != nil {
		return nil, "", err
	}
	return occurrences, uuid.New().String(), nil
}

// scheduleCompletions enqueues the deferred completion task for every
// confirmed booking. Best effort: the periodic sweep backstops any
// enqueue failure.
func (s *DefaultBookingService) scheduleCompletions(bookings []models.Booking) {
	if s.Completion == nil {
		return
	}
	logger := utils.GetLogger()
	for _, b := range bookings {
		if b.Status != models.StatusConfirmed {
			continue
		}
		if err := s.Completion.ScheduleCompletion(b); err != nil {
			logger.Warn("failed to schedule booking completion",
				zap.String("bookingId", b.ID), zap.Error(err))
		}
	}
}
