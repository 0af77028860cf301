// Package booking validates and mutates the reservation lifecycle.
package booking

import (
	"fmt"

	"tavolo/internal/models"
)

// transitions is the legal status graph. Arrived and no-show rows stay
// readable for auditing and can only move back to cancelled; a cancelled
// reservation may be re-confirmed into booked.
var transitions = map[string][]string{
	models.StatusPending:   {models.StatusBooked, models.StatusCancelled},
	models.StatusBooked:    {models.StatusCancelled, models.StatusArrived, models.StatusNoShow},
	models.StatusCancelled: {models.StatusBooked},
	models.StatusArrived:   {models.StatusCancelled},
	models.StatusNoShow:    {models.StatusCancelled},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CheckTransition validates a requested status change against the current
// stored status. Unknown targets are rejected, never silently ignored.
func CheckTransition(current, target string) error {
	if !models.KnownStatus(target) {
		return fmt.Errorf("%w: %q", models.ErrInvalidStatus, target)
	}
	if current == target {
		// Idempotent no-op, e.g. a second cancel call.
		return nil
	}
	if !CanTransition(current, target) {
		return fmt.Errorf("%w: cannot change status %s -> %s", models.ErrValidation, current, target)
	}
	return nil
}
