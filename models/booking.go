package models

import "time"

// BookingStatus enumerates the lifecycle states of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "PENDING"
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCancelled BookingStatus = "CANCELLED"
	StatusCompleted BookingStatus = "COMPLETED"
)

// ActiveStatuses are the states in which a booking still holds its slot.
var ActiveStatuses = []BookingStatus{StatusPending, StatusConfirmed}

// Booking represents a reservation of a resource for a time interval.
// A recurring request produces one Booking per occurrence, all sharing
// a SeriesID. Rows are never hard-deleted; cancellation is a status.
type Booking struct {
	ID          string    `bson:"id" json:"id"`
	ResourceID  string    `bson:"resource_id" json:"resourceId"`
	RequestedBy string    `bson:"requested_by" json:"requestedBy"`
	SeriesID    string    `bson:"series_id,omitempty" json:"seriesId,omitempty"` // empty for single bookings
	Start       time.Time `bson:"start" json:"start"`
	End         time.Time `bson:"end" json:"end"`

	Status           BookingStatus `bson:"status" json:"status"`
	RequiresApproval bool          `bson:"requires_approval" json:"requiresApproval"` // frozen at creation

	Recurrence *RecurrenceRule `bson:"recurrence,omitempty" json:"recurrence,omitempty"` // stored on the first occurrence only

	ApprovedAt         *time.Time `bson:"approved_at,omitempty" json:"approvedAt,omitempty"`
	ApprovedBy         string     `bson:"approved_by,omitempty" json:"approvedBy,omitempty"`
	CancelledBy        string     `bson:"cancelled_by,omitempty" json:"cancelledBy,omitempty"`
	CancellationReason string     `bson:"cancellation_reason,omitempty" json:"cancellationReason,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Interval returns the booking's time range as a value.
func (b Booking) Interval() Interval {
	return Interval{Start: b.Start, End: b.End}
}

// IsActive reports whether the booking still holds its slot.
func (b Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// ConflictReport pairs a candidate interval with the active bookings it
// overlaps. It is a read-only query result, never persisted.
type ConflictReport struct {
	Candidate Interval  `json:"candidate"`
	Conflicts []Booking `json:"conflicts"`
}

// HasConflicts reports whether the candidate overlaps anything.
func (r ConflictReport) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// ConflictIDs returns the ids of the conflicting bookings.
func (r ConflictReport) ConflictIDs() []string {
	ids := make([]string, 0, len(r.Conflicts))
	for _, b := range r.Conflicts {
		ids = append(ids, b.ID)
	}
	return ids
}

// RejectedOccurrence records one occurrence of a series that could not
// be created, with the bookings it collided with.
type RejectedOccurrence struct {
	Interval    Interval `json:"interval"`
	ConflictIDs []string `json:"conflictIds"`
}

// SeriesResult is the aggregate outcome of a series creation request.
// Partial success is a defined, non-error outcome: the caller receives
// both lists and decides whether to keep or roll back.
type SeriesResult struct {
	SeriesID string               `json:"seriesId"`
	Accepted []Booking            `json:"accepted"`
	Rejected []RejectedOccurrence `json:"rejected"`
}
