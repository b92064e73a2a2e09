package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// ReservationRepo provides read access to the reservation ledger for
// request handlers: listing a user's reservations and ownership checks.
// Creation, reassignment and deletion live behind the booking engine's
// store adapter so no handler can bypass the conflict check.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = "id, user_id, room_id, check_in, check_out"

// ReservationDetail is a reservation joined with its room and hotel,
// returned when listing a user's reservations.
type ReservationDetail struct {
	ID         uint64    `json:"id"`
	RoomID     uint64    `json:"room_id"`
	RoomNumber int       `json:"room_number"`
	RoomType   string    `json:"room_type"`
	HotelID    uint64    `json:"hotel_id"`
	HotelName  string    `json:"hotel_name"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
}

// ListByUser returns all reservations belonging to a user together with
// room and hotel context, newest check-in first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	const q = `SELECT res.id, res.room_id, rm.room_number, rm.type, h.id, h.name, res.check_in, res.check_out
	           FROM reservations res
	           JOIN rooms rm ON rm.id = res.room_id
	           JOIN hotels h ON h.id = rm.hotel_id
	           WHERE res.user_id = ?
	           ORDER BY res.check_in DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []ReservationDetail{}
	for rows.Next() {
		var d ReservationDetail
		var roomType model.RoomType
		if err := rows.Scan(&d.ID, &d.RoomID, &d.RoomNumber, &roomType, &d.HotelID, &d.HotelName, &d.CheckIn, &d.CheckOut); err != nil {
			return nil, err
		}
		d.RoomType = roomType.String()
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetByIDForUser loads a reservation only if it belongs to the given
// user.  Handlers use it to enforce ownership before cancelling.
// Returns ErrNotFound when the reservation does not exist or belongs to
// someone else.
func (r *ReservationRepo) GetByIDForUser(ctx context.Context, reservationID, userID uint64) (model.Reservation, error) {
	var res model.Reservation
	err := r.db.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE id = ? AND user_id = ?",
		reservationID, userID).
		Scan(&res.ID, &res.UserID, &res.RoomID, &res.CheckIn, &res.CheckOut)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, ErrNotFound
	}
	return res, err
}

// ExistsByUserAndHotel reports whether the user currently holds a
// reservation at the hotel.
func (r *ReservationRepo) ExistsByUserAndHotel(ctx context.Context, userID, hotelID uint64) (bool, error) {
	const q = `SELECT EXISTS(
	               SELECT 1 FROM reservations res
	               JOIN rooms rm ON rm.id = res.room_id
	               WHERE res.user_id = ? AND rm.hotel_id = ?)`
	var exists bool
	err := r.db.QueryRowContext(ctx, q, userID, hotelID).Scan(&exists)
	return exists, err
}
