package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// MySQL error numbers that indicate a genuine race on the same rows.
// 1213 = deadlock victim, 1205 = lock wait timeout.  Both are safe to
// retry by re-running the whole transaction.
const (
	mysqlErrDeadlock    = 1213
	mysqlErrLockTimeout = 1205
)

// BookingStore adapts the MySQL database to the booking engine's
// transactional port.  Every engine operation runs inside a single
// BeginTx/Commit pair; the room row is locked with SELECT ... FOR
// UPDATE before any conflict check, which serializes concurrent
// operations per room.
type BookingStore struct {
	db *sql.DB
}

// NewBookingStore returns a BookingStore bound to the given database.
func NewBookingStore(db *sql.DB) *BookingStore { return &BookingStore{db: db} }

// InTx implements booking.Store.  Retryable driver failures are mapped
// to booking.ErrStoreConflict; everything else passes through verbatim.
func (s *BookingStore) InTx(ctx context.Context, fn func(tx booking.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&bookingTx{tx: tx}); err != nil {
		return mapStoreErr(err)
	}
	if err := tx.Commit(); err != nil {
		return mapStoreErr(err)
	}
	committed = true
	return nil
}

func mapStoreErr(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && (me.Number == mysqlErrDeadlock || me.Number == mysqlErrLockTimeout) {
		return booking.ErrStoreConflict
	}
	return err
}

// bookingTx implements booking.Tx on top of one *sql.Tx.
type bookingTx struct {
	tx *sql.Tx
}

func (t *bookingTx) RoomForUpdate(ctx context.Context, roomID uint64) (model.Room, error) {
	var rm model.Room
	err := t.tx.QueryRowContext(ctx,
		"SELECT id, hotel_id, room_number, type, price, available FROM rooms WHERE id = ? FOR UPDATE",
		roomID).Scan(&rm.ID, &rm.HotelID, &rm.Number, &rm.Type, &rm.Price, &rm.Available)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Room{}, booking.ErrRoomNotFound
	}
	return rm, err
}

func (t *bookingTx) SetRoomAvailability(ctx context.Context, roomID uint64, available bool) error {
	_, err := t.tx.ExecContext(ctx,
		"UPDATE rooms SET available = ? WHERE id = ?", available, roomID)
	return err
}

func (t *bookingTx) RoomsByHotel(ctx context.Context, hotelID uint64) ([]model.Room, error) {
	rows, err := t.tx.QueryContext(ctx,
		"SELECT id, hotel_id, room_number, type, price, available FROM rooms WHERE hotel_id = ? ORDER BY room_number",
		hotelID)
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

// Overlap predicate in SQL form: existing.check_in < end AND
// existing.check_out > start.  Matches booking.Interval.Overlaps.
func (t *bookingTx) OverlappingByRoom(ctx context.Context, roomID uint64, iv booking.Interval) ([]model.Reservation, error) {
	const q = `SELECT id, user_id, room_id, check_in, check_out
	           FROM reservations
	           WHERE room_id = ? AND check_in < ? AND check_out > ?`
	rows, err := t.tx.QueryContext(ctx, q, roomID, iv.End, iv.Start)
	if err != nil {
		return nil, err
	}
	return scanReservations(rows)
}

func (t *bookingTx) OverlappingByHotel(ctx context.Context, hotelID uint64, iv booking.Interval) ([]model.Reservation, error) {
	const q = `SELECT res.id, res.user_id, res.room_id, res.check_in, res.check_out
	           FROM reservations res
	           JOIN rooms rm ON rm.id = res.room_id
	           WHERE rm.hotel_id = ? AND res.check_in < ? AND res.check_out > ?`
	rows, err := t.tx.QueryContext(ctx, q, hotelID, iv.End, iv.Start)
	if err != nil {
		return nil, err
	}
	return scanReservations(rows)
}

func scanReservations(rows *sql.Rows) ([]model.Reservation, error) {
	defer rows.Close()
	var out []model.Reservation
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(&res.ID, &res.UserID, &res.RoomID, &res.CheckIn, &res.CheckOut); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (t *bookingTx) CreateReservation(ctx context.Context, res *model.Reservation) error {
	result, err := t.tx.ExecContext(ctx,
		"INSERT INTO reservations (user_id, room_id, check_in, check_out) VALUES (?, ?, ?, ?)",
		res.UserID, res.RoomID, res.CheckIn, res.CheckOut)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return nil
}

func (t *bookingTx) ReservationByID(ctx context.Context, id uint64) (model.Reservation, error) {
	var res model.Reservation
	err := t.tx.QueryRowContext(ctx,
		"SELECT id, user_id, room_id, check_in, check_out FROM reservations WHERE id = ?",
		id).Scan(&res.ID, &res.UserID, &res.RoomID, &res.CheckIn, &res.CheckOut)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, booking.ErrReservationNotFound
	}
	return res, err
}

func (t *bookingTx) ReservationByUserAndHotel(ctx context.Context, userID, hotelID uint64) (model.Reservation, error) {
	const q = `SELECT res.id, res.user_id, res.room_id, res.check_in, res.check_out
	           FROM reservations res
	           JOIN rooms rm ON rm.id = res.room_id
	           WHERE res.user_id = ? AND rm.hotel_id = ?
	           ORDER BY res.check_in
	           LIMIT 1`
	var res model.Reservation
	err := t.tx.QueryRowContext(ctx, q, userID, hotelID).
		Scan(&res.ID, &res.UserID, &res.RoomID, &res.CheckIn, &res.CheckOut)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, booking.ErrReservationNotFound
	}
	return res, err
}

func (t *bookingTx) ReassignReservation(ctx context.Context, reservationID, newRoomID uint64) error {
	// No RowsAffected check: MySQL reports zero affected rows when the
	// new room equals the old one, and the engine has already loaded the
	// reservation within this transaction.
	_, err := t.tx.ExecContext(ctx,
		"UPDATE reservations SET room_id = ? WHERE id = ?", newRoomID, reservationID)
	return err
}

func (t *bookingTx) DeleteReservation(ctx context.Context, id uint64) error {
	result, err := t.tx.ExecContext(ctx, "DELETE FROM reservations WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return booking.ErrReservationNotFound
	}
	return nil
}

func (t *bookingTx) DeleteReservationsByRoom(ctx context.Context, roomID uint64) error {
	_, err := t.tx.ExecContext(ctx, "DELETE FROM reservations WHERE room_id = ?", roomID)
	return err
}
