package booking

import (
	"context"
	"testing"

	"deskhive/models"
)

func seedBooking(repo *fakeBookingRepo, id, resourceID string, start, end int) models.Booking {
	b := models.Booking{
		ID:         id,
		ResourceID: resourceID,
		Start:      at(start, 0),
		End:        at(end, 0),
		Status:     models.StatusConfirmed,
	}
	repo.put(b)
	return b
}

func TestDetectorReportsPerCandidateInOrder(t *testing.T) {
	repo := newFakeBookingRepo()
	seedBooking(repo, "b1", "room-a", 9, 11)
	seedBooking(repo, "b2", "room-a", 14, 15)
	seedBooking(repo, "other", "room-b", 9, 11) // different resource, invisible

	detector := &ConflictDetector{Repo: repo}
	candidates := []models.Interval{
		{Start: at(10, 0), End: at(10, 30)}, // inside b1
		{Start: at(11, 0), End: at(12, 0)},  // adjacent, free
		{Start: at(14, 30), End: at(16, 0)}, // overlaps b2
	}

	reports, err := detector.Check(context.Background(), "room-a", candidates, nil)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(reports) != 3 {
		t.Fatalf("expected one report per candidate, got %d", len(reports))
	}

	if ids := reports[0].ConflictIDs(); len(ids) != 1 || ids[0] != "b1" {
		t.Errorf("candidate 0 conflicts %v, want [b1]", ids)
	}
	if reports[1].HasConflicts() {
		t.Errorf("candidate 1 must be free, got %v", reports[1].ConflictIDs())
	}
	if ids := reports[2].ConflictIDs(); len(ids) != 1 || ids[0] != "b2" {
		t.Errorf("candidate 2 conflicts %v, want [b2]", ids)
	}
}

func TestDetectorIgnoresInactiveBookings(t *testing.T) {
	repo := newFakeBookingRepo()
	cancelled := seedBooking(repo, "gone", "room-a", 9, 11)
	cancelled.Status = models.StatusCancelled
	repo.put(cancelled)
	done := seedBooking(repo, "done", "room-a", 12, 13)
	done.Status = models.StatusCompleted
	repo.put(done)

	detector := &ConflictDetector{Repo: repo}
	reports, err := detector.Check(context.Background(), "room-a",
		[]models.Interval{{Start: at(9, 0), End: at(13, 0)}}, nil)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if reports[0].HasConflicts() {
		t.Fatalf("cancelled and completed bookings must not conflict, got %v", reports[0].ConflictIDs())
	}
}

func TestDetectorExcludesListedIDs(t *testing.T) {
	repo := newFakeBookingRepo()
	seedBooking(repo, "self", "room-a", 9, 11)

	detector := &ConflictDetector{Repo: repo}
	reports, err := detector.Check(context.Background(), "room-a",
		[]models.Interval{{Start: at(9, 0), End: at(11, 0)}}, []string{"self"})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if reports[0].HasConflicts() {
		t.Fatalf("a booking must not conflict with itself, got %v", reports[0].ConflictIDs())
	}
}

func TestDetectorRejectsInvalidCandidates(t *testing.T) {
	detector := &ConflictDetector{Repo: newFakeBookingRepo()}
	_, err := detector.Check(context.Background(), "room-a",
		[]models.Interval{{Start: at(11, 0), End: at(9, 0)}}, nil)
	if err == nil {
		t.Fatal("inverted candidate must be rejected")
	}
}
