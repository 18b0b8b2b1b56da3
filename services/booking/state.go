package booking

import (
	"fmt"

	"stayhub/models"
	"stayhub/utils"
)

// transitions is the single source of truth for the booking lifecycle.
// Cancelled and completed are terminal.
var transitions = map[string][]string{
	models.BookingPending:   {models.BookingBooked, models.BookingCancelled},
	models.BookingBooked:    {models.BookingCheckedIn, models.BookingCancelled, models.BookingCompleted},
	models.BookingCheckedIn: {models.BookingCompleted},
	models.BookingCancelled: {},
	models.BookingCompleted: {},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// checkTransition returns a conflict error when the move is not allowed.
func checkTransition(from, to string) error {
	if !CanTransition(from, to) {
		return utils.ConflictError(fmt.Sprintf("booking cannot move from %s to %s", from, to))
	}
	return nil
}
