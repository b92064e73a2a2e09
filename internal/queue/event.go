// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationBookedEvent is published after a booking commits.  It
// carries enough context for downstream consumers (notifications,
// analytics) to act without querying the primary database.
type ReservationBookedEvent struct {
	ReservationID uint64  `json:"reservation_id"`
	UserID        uint64  `json:"user_id"`
	HotelID       uint64  `json:"hotel_id"`
	HotelName     string  `json:"hotel_name"`
	RoomID        uint64  `json:"room_id"`
	RoomNumber    int     `json:"room_number"`
	Price         float64 `json:"price"`
	CheckIn       string  `json:"check_in"`
	CheckOut      string  `json:"check_out"`
	BookedAt      string  `json:"booked_at"`
}
