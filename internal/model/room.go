package model

// RoomType enumerates the kinds of rooms a hotel offers.  The numeric
// values match the legacy schema (1..4) and are stable across the API.
type RoomType int

const (
	RoomSingle      RoomType = 1
	RoomDouble      RoomType = 2
	RoomSuite       RoomType = 3
	RoomMatrimonial RoomType = 4
)

// String returns a human readable name for the room type.
func (t RoomType) String() string {
	switch t {
	case RoomSingle:
		return "SINGLE"
	case RoomDouble:
		return "DOUBLE"
	case RoomSuite:
		return "SUITE"
	case RoomMatrimonial:
		return "MATRIMONIAL"
	default:
		return "UNKNOWN"
	}
}

// Room represents a bookable room inside a hotel.
//
// Available is a cache: it mirrors "no reservation occupies this room
// right now" and is flipped only by the booking engine, inside the same
// transaction as the reservation write it accompanies.  Queries about
// arbitrary future windows must not trust it and must consult the
// reservation intervals instead.
//
// Fields:
//  ID        – primary key identifier.
//  HotelID   – hotel that owns the room.
//  Number    – room number as printed on the door.
//  Type      – room type (see RoomType).
//  Price     – price per night.
//  Available – availability cache, maintained by the booking engine.
type Room struct {
	ID        uint64   `json:"id"`          // rooms.id
	HotelID   uint64   `json:"hotel_id"`    // rooms.hotel_id
	Number    int      `json:"number"`      // rooms.room_number
	Type      RoomType `json:"type"`        // rooms.type
	Price     float64  `json:"price"`       // rooms.price
	Available bool     `json:"isAvailable"` // rooms.available
}
