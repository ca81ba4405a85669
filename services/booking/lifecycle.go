package booking

import "deskhive/models"

// allowedTransitions is the lifecycle table. CANCELLED and COMPLETED
// are terminal; anything not listed is an invalid-state-transition
// error, never a silent no-op.
var allowedTransitions = map[models.BookingStatus][]models.BookingStatus{
	models.StatusPending:   {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed: {models.StatusCancelled, models.StatusCompleted},
	models.StatusCancelled: {},
	models.StatusCompleted: {},
}

// CanTransition reports whether the lifecycle permits from -> to.
func CanTransition(from, to models.BookingStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// checkTransition returns the typed error for a forbidden transition.
func checkTransition(from, to models.BookingStatus) error {
	if !CanTransition(from, to) {
		return NewInvalidTransitionError(from, to, "")
	}
	return nil
}

// InitialStatus resolves the state a new booking is created in: PENDING
// when the resource's policy requires approval, CONFIRMED otherwise.
// The orchestrator only calls this after a clean conflict check.
func InitialStatus(requiresApproval bool) models.BookingStatus {
	if requiresApproval {
		return models.StatusPending
	}
	return models.StatusConfirmed
}
