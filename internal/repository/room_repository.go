package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// RoomRepo provides read access to rooms.  Availability writes are not
// exposed here: flipping the cache is the booking engine's job and
// happens inside its transaction through the store adapter.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo returns a RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

const roomColumns = "id, hotel_id, room_number, type, price, available"

func scanRoom(row *sql.Row) (model.Room, error) {
	var rm model.Room
	err := row.Scan(&rm.ID, &rm.HotelID, &rm.Number, &rm.Type, &rm.Price, &rm.Available)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Room{}, ErrNotFound
	}
	return rm, err
}

// GetByID loads a single room.  Returns ErrNotFound when absent.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (model.Room, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+roomColumns+" FROM rooms WHERE id = ?", id)
	return scanRoom(row)
}

// ListByHotel returns all rooms of a hotel ordered by room number.
func (r *RoomRepo) ListByHotel(ctx context.Context, hotelID uint64) ([]model.Room, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+roomColumns+" FROM rooms WHERE hotel_id = ? ORDER BY room_number", hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Room
	for rows.Next() {
		var rm model.Room
		if err := rows.Scan(&rm.ID, &rm.HotelID, &rm.Number, &rm.Type, &rm.Price, &rm.Available); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}
