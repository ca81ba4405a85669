package booking

import (
	"fmt"
	"strings"

	"deskhive/models"
)

// InvalidIntervalError reports a caller-supplied interval with
// start >= end. Rejected before any persistence access.
type InvalidIntervalError struct {
	Code    string
	Message string
}

func (e *InvalidIntervalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewInvalidIntervalError(msg string) error {
	return &InvalidIntervalError{Code: "invalidInterval", Message: msg}
}

// InvalidRecurrenceRuleError reports a malformed recurrence rule:
// both or neither termination bound, empty weekday set, non-positive
// step, or an expansion exceeding the occurrence ceiling.
type InvalidRecurrenceRuleError struct {
	Code    string
	Message string
}

func (e *InvalidRecurrenceRuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewInvalidRecurrenceRuleError(msg string) error {
	return &InvalidRecurrenceRuleError{Code: "invalidRecurrenceRule", Message: msg}
}

// ResourceUnavailableError reports a booking attempt against an
// inactive or non-bookable resource.
type ResourceUnavailableError struct {
	Code       string
	ResourceID string
	Message    string
}

func (e *ResourceUnavailableError) Error() string {
	return fmt.Sprintf("%s: resource %s %s", e.Code, e.ResourceID, e.Message)
}

func NewResourceUnavailableError(resourceID, msg string) error {
	return &ResourceUnavailableError{Code: "resourceUnavailable", ResourceID: resourceID, Message: msg}
}

// ConflictError reports that a candidate interval overlaps one or more
// active bookings. It carries the conflicting booking ids; under
// concurrent load it is an expected outcome, cheap to produce.
type ConflictError struct {
	Code        string
	ResourceID  string
	ConflictIDs []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: resource %s already booked by [%s]", e.Code, e.ResourceID, strings.Join(e.ConflictIDs, ", "))
}

func NewConflictError(resourceID string, conflictIDs []string) error {
	return &ConflictError{Code: "bookingConflict", ResourceID: resourceID, ConflictIDs: conflictIDs}
}

// InvalidTransitionError reports a lifecycle transition not permitted
// from the booking's current status. Never silently ignored.
type InvalidTransitionError struct {
	Code    string
	From    models.BookingStatus
	To      models.BookingStatus
	Message string
}

func (e *InvalidTransitionError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s -> %s (%s)", e.Code, e.From, e.To, e.Message)
	}
	return fmt.Sprintf("%s: %s -> %s", e.Code, e.From, e.To)
}

func NewInvalidTransitionError(from, to models.BookingStatus, msg string) error {
	return &InvalidTransitionError{Code: "invalidStateTransition", From: from, To: to, Message: msg}
}
