package booking

import (
	"context"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Tx is the set of store operations available inside one transaction.
// Implementations must scope every call to the same underlying
// transaction so that "check conflicts, then write" is atomic.
//
// Lookup methods return the package sentinel errors (ErrRoomNotFound,
// ErrReservationNotFound) rather than driver-specific ones.
type Tx interface {
	// RoomForUpdate loads a room and locks its row for the remainder of
	// the transaction.  Concurrent operations on the same room serialize
	// on this lock, which closes the race between the conflict check and
	// the reservation write.
	RoomForUpdate(ctx context.Context, roomID uint64) (model.Room, error)

	// SetRoomAvailability updates the room's availability cache.
	SetRoomAvailability(ctx context.Context, roomID uint64, available bool) error

	// RoomsByHotel lists all rooms belonging to a hotel.
	RoomsByHotel(ctx context.Context, hotelID uint64) ([]model.Room, error)

	// OverlappingByRoom returns reservations on the room whose interval
	// overlaps iv under the half-open rule.
	OverlappingByRoom(ctx context.Context, roomID uint64, iv Interval) ([]model.Reservation, error)

	// OverlappingByHotel returns reservations on any room of the hotel
	// whose interval overlaps iv.
	OverlappingByHotel(ctx context.Context, hotelID uint64, iv Interval) ([]model.Reservation, error)

	// CreateReservation persists a new reservation and fills in its ID.
	CreateReservation(ctx context.Context, res *model.Reservation) error

	// ReservationByID loads a reservation by primary key.
	ReservationByID(ctx context.Context, id uint64) (model.Reservation, error)

	// ReservationByUserAndHotel finds the user's reservation at the given
	// hotel via the room join.
	ReservationByUserAndHotel(ctx context.Context, userID, hotelID uint64) (model.Reservation, error)

	// ReassignReservation moves a reservation to another room, keeping
	// its interval.
	ReassignReservation(ctx context.Context, reservationID, newRoomID uint64) error

	// DeleteReservation removes a single reservation.
	DeleteReservation(ctx context.Context, id uint64) error

	// DeleteReservationsByRoom removes every reservation attached to the
	// room, regardless of interval.
	DeleteReservationsByRoom(ctx context.Context, roomID uint64) error
}

// Store runs a function inside a single transaction.  If fn returns an
// error the transaction is rolled back and the error is returned; the
// engine never performs partial writes.  Implementations map retryable
// driver failures (deadlock, lock wait timeout) to ErrStoreConflict.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
}
