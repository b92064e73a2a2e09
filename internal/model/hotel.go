package model

// Hotel represents a property that owns a collection of rooms.
// It is read-only for the reservation engine: hotels are provisioned
// out of band (seed data or an admin tool) and never mutated here.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name of the hotel.
//  Latitude  – geographic latitude of the hotel.
//  Longitude – geographic longitude of the hotel.
type Hotel struct {
	ID        uint64  `json:"id"`        // hotels.id
	Name      string  `json:"name"`      // hotels.name
	Latitude  float64 `json:"latitude"`  // hotels.latitude
	Longitude float64 `json:"longitude"` // hotels.longitude
}
