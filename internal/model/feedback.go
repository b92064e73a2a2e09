package model

// Feedback is a guest review left for a hotel.  Ratings run from 1 to 5
// and feed the average rating shown in nearby-hotel searches.
type Feedback struct {
	ID      uint64 `json:"id"`       // feedback.id
	HotelID uint64 `json:"hotel_id"` // feedback.hotel_id
	UserID  uint64 `json:"user_id"`  // feedback.user_id
	Comment string `json:"comment"`  // feedback.comment
	Rating  int    `json:"rating"`   // feedback.rating
}
