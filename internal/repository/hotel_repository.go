package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// HotelRepo provides access to hotels.  Hotels are read-only for the
// reservation flow; Create exists solely for the startup seed loader.
type HotelRepo struct {
	db *sql.DB
}

// NewHotelRepo returns a HotelRepo bound to the given database.
func NewHotelRepo(db *sql.DB) *HotelRepo { return &HotelRepo{db: db} }

// List returns all hotels.
func (r *HotelRepo) List(ctx context.Context) ([]model.Hotel, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, latitude, longitude FROM hotels ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Hotel
	for rows.Next() {
		var h model.Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.Latitude, &h.Longitude); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// GetByID loads a single hotel.  Returns ErrNotFound when absent.
func (r *HotelRepo) GetByID(ctx context.Context, id uint64) (model.Hotel, error) {
	var h model.Hotel
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, latitude, longitude FROM hotels WHERE id = ?", id).
		Scan(&h.ID, &h.Name, &h.Latitude, &h.Longitude)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Hotel{}, ErrNotFound
	}
	return h, err
}

// Count returns the number of hotels.  The seed loader uses it to
// decide whether the initial data set has already been imported.
func (r *HotelRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM hotels").Scan(&n)
	return n, err
}

// Create inserts a hotel together with its rooms in one transaction.
// Only the seed loader calls this; the reservation engine never creates
// or deletes hotels.
func (r *HotelRepo) Create(ctx context.Context, h *model.Hotel, rooms []model.Room) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	res, err := tx.ExecContext(ctx,
		"INSERT INTO hotels (name, latitude, longitude) VALUES (?, ?, ?)",
		h.Name, h.Latitude, h.Longitude)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	for i := range rooms {
		rooms[i].HotelID = h.ID
		rr, err := tx.ExecContext(ctx,
			"INSERT INTO rooms (hotel_id, room_number, type, price, available) VALUES (?, ?, ?, ?, ?)",
			rooms[i].HotelID, rooms[i].Number, rooms[i].Type, rooms[i].Price, rooms[i].Available)
		if err != nil {
			return err
		}
		rid, err := rr.LastInsertId()
		if err != nil {
			return err
		}
		rooms[i].ID = uint64(rid)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
