package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// seedHotel mirrors one entry of the hotels.json seed file: a hotel
// with its rooms inline.
type seedHotel struct {
	Name      string     `json:"name"`
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Rooms     []seedRoom `json:"rooms"`
}

type seedRoom struct {
	Number int            `json:"roomNumber"`
	Type   model.RoomType `json:"type"`
	Price  float64        `json:"price"`
}

// SeedHotels imports the hotel data set from path when the hotels table
// is empty.  A missing file is not an error: the service can run
// against an already-provisioned database.
func SeedHotels(ctx context.Context, hotels *repository.HotelRepo, path string) error {
	n, err := hotels.Count(ctx)
	if err != nil {
		return fmt.Errorf("count hotels: %w", err)
	}
	if n > 0 {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("seed: no hotel data file at %s, skipping", path)
			return nil
		}
		return fmt.Errorf("read seed file: %w", err)
	}
	var entries []seedHotel
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}
	for _, e := range entries {
		h := model.Hotel{Name: e.Name, Latitude: e.Latitude, Longitude: e.Longitude}
		rooms := make([]model.Room, 0, len(e.Rooms))
		for _, r := range e.Rooms {
			rooms = append(rooms, model.Room{
				Number:    r.Number,
				Type:      r.Type,
				Price:     r.Price,
				Available: true,
			})
		}
		if err := hotels.Create(ctx, &h, rooms); err != nil {
			return fmt.Errorf("seed hotel %q: %w", e.Name, err)
		}
	}
	log.Printf("seed: imported %d hotels from %s", len(entries), path)
	return nil
}
