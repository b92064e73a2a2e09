// Package booking implements the reservation and room-availability
// engine: booking a room for an interval, substituting rooms, cancelling
// within policy and checking out.  All room availability flags and
// reservation rows are mutated exclusively through this package, inside
// a single store transaction per operation.
package booking

import "errors"

// Sentinel errors returned by the engine.  Handlers translate these
// into HTTP responses; all of them are recoverable by the caller and
// none leaves the store in a partially written state.
var (
	// ErrInvalidInterval is returned when a requested interval does not
	// satisfy checkIn < checkOut.
	ErrInvalidInterval = errors.New("invalid interval: check-in must be before check-out")

	// ErrRoomNotFound is returned when the referenced room does not exist.
	ErrRoomNotFound = errors.New("room not found")

	// ErrRoomUnavailable is returned when a room cannot be taken, either
	// because an existing reservation overlaps the requested interval or
	// because its availability flag is off during a room change.
	ErrRoomUnavailable = errors.New("room unavailable")

	// ErrReservationNotFound is returned when no matching reservation exists.
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrCancellationWindow is returned when a cancellation is attempted
	// within two hours of check-in.
	ErrCancellationWindow = errors.New("reservation cannot be cancelled within two hours of check-in")

	// ErrStoreConflict signals that the transactional store detected a
	// race on the same rows (deadlock or lock wait).  The engine retries
	// these internally a bounded number of times before surfacing it.
	ErrStoreConflict = errors.New("store conflict, retry")
)
