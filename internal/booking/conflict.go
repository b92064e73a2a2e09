package booking

import (
	"context"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Scope selects which reservations the conflict resolver inspects:
// a single room or every room of a hotel.  Exactly one of the two
// constructors must be used.
type Scope struct {
	roomID  uint64
	hotelID uint64
}

// RoomScope restricts conflict resolution to one room.
func RoomScope(roomID uint64) Scope { return Scope{roomID: roomID} }

// HotelScope widens conflict resolution to all rooms of a hotel.
func HotelScope(hotelID uint64) Scope { return Scope{hotelID: hotelID} }

// FindConflicts returns every reservation in scope whose interval
// overlaps iv under the half-open rule.  It is a pure read: correctness
// depends only on the overlap predicate, not on any ordering of the
// reservation set.  The caller is responsible for validating iv through
// NewInterval first; a zero scope yields no conflicts.
func FindConflicts(ctx context.Context, tx Tx, s Scope, iv Interval) ([]model.Reservation, error) {
	switch {
	case s.roomID != 0:
		return tx.OverlappingByRoom(ctx, s.roomID, iv)
	case s.hotelID != 0:
		return tx.OverlappingByHotel(ctx, s.hotelID, iv)
	default:
		return nil, nil
	}
}
