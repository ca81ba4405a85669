package booking

import (
	"context"

	bookingRepo "deskhive/database/repository/booking"
	"deskhive/models"
)

// ConflictDetector reports overlaps between candidate intervals and
// the active bookings of a resource. It is the single authority
// consulted before any transition that reserves a slot; it performs no
// mutation itself.
type ConflictDetector struct {
	Repo bookingRepo.BookingRepository
}

// Check fetches the resource's active bookings within the candidates'
// bounding window and returns one report per candidate, in input
// order. Ids in excludeIDs are ignored, which lets an existing booking
// be re-checked against everyone but itself.
func (d *ConflictDetector) Check(ctx context.Context, resourceID string, candidates []models.Interval, excludeIDs []string) ([]models.ConflictReport, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	for _, c := range candidates {
		if !c.IsValid() {
			return nil, NewInvalidIntervalError("candidate interval start must be before end")
		}
	}

	windowStart, windowEnd := boundingWindow(candidates)
	active, err := d.Repo.FindActiveByResource(ctx, resourceID, windowStart, windowEnd, excludeIDs)
	if err != nil {
		return nil, err
	}

	reports := make([]models.ConflictReport, 0, len(candidates))
	for _, candidate := range candidates {
		reports = append(reports, models.ConflictReport{
			Candidate: candidate,
			Conflicts: overlapping(active, candidate),
		})
	}
	return reports, nil
}

// overlapping returns the bookings whose intervals overlap candidate.
func overlapping(bookings []models.Booking, candidate models.Interval) []models.Booking {
	var conflicts []models.Booking
	for _, b := range bookings {
		if b.Interval().Overlaps(candidate) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts
}
