package model

import "time"

// Reservation records that a user holds a room for a time interval.
// Intervals are half-open: the room is occupied from CheckIn inclusive
// to CheckOut exclusive, so back-to-back stays may share a boundary
// instant without conflicting.  All timestamps are stored in UTC.
//
// Fields:
//  ID       – primary key identifier.
//  UserID   – user who made the reservation.
//  RoomID   – room being held.
//  CheckIn  – start of the stay (inclusive).
//  CheckOut – end of the stay (exclusive); strictly after CheckIn.
type Reservation struct {
	ID       uint64    `json:"id"`        // reservations.id
	UserID   uint64    `json:"user_id"`   // reservations.user_id
	RoomID   uint64    `json:"room_id"`   // reservations.room_id
	CheckIn  time.Time `json:"check_in"`  // reservations.check_in
	CheckOut time.Time `json:"check_out"` // reservations.check_out
}
