package booking

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// cancelBuffer is the no-cancel window immediately before check-in.
// Cancellation is refused once checkIn <= now + cancelBuffer.
const cancelBuffer = 2 * time.Hour

// Bounded retry for ErrStoreConflict.  A conflict means two requests
// raced on the same room; the retry re-runs the whole transaction so
// the loser re-checks conflicts against the winner's committed state.
const (
	conflictAttempts = 3
	conflictDelay    = 50 * time.Millisecond
)

// Engine orchestrates reservations against a transactional store.
// All dependencies are explicit construction-time handles; nothing in
// this package reaches for globals.  The clock is injected so the
// cancellation-window policy is testable.
type Engine struct {
	store Store
	now   func() time.Time
}

// NewEngine builds an Engine.  The now func may be nil, in which case
// time.Now is used.
func NewEngine(store Store, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{store: store, now: now}
}

// inTx runs fn in a transaction, retrying bounded times when the store
// reports a conflict.  Any other error aborts immediately.
func (e *Engine) inTx(ctx context.Context, fn func(tx Tx) error) error {
	var err error
	for attempt := 0; attempt < conflictAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(conflictDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		err = e.store.InTx(ctx, fn)
		if !errors.Is(err, ErrStoreConflict) {
			return err
		}
	}
	return err
}

// Book reserves roomID for userID over [checkIn, checkOut).  The room
// row is locked, the interval is checked for conflicts, and only then
// is the reservation written and the availability cache flipped — all
// in one transaction.  On any failure nothing is persisted.
func (e *Engine) Book(ctx context.Context, userID, roomID uint64, checkIn, checkOut time.Time) (model.Reservation, error) {
	iv, err := NewInterval(checkIn, checkOut)
	if err != nil {
		return model.Reservation{}, err
	}
	var res model.Reservation
	err = e.inTx(ctx, func(tx Tx) error {
		room, err := tx.RoomForUpdate(ctx, roomID)
		if err != nil {
			return err
		}
		conflicts, err := FindConflicts(ctx, tx, RoomScope(room.ID), iv)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return ErrRoomUnavailable
		}
		res = model.Reservation{
			UserID:   userID,
			RoomID:   room.ID,
			CheckIn:  iv.Start,
			CheckOut: iv.End,
		}
		if err := tx.CreateReservation(ctx, &res); err != nil {
			return err
		}
		return tx.SetRoomAvailability(ctx, room.ID, false)
	})
	if err != nil {
		return model.Reservation{}, err
	}
	return res, nil
}

// ChangeReservation moves the user's reservation at hotelID to another
// room of the same hotel, keeping the original interval.  The old room
// is released and the new one taken as one logical operation: if the
// new room cannot be taken, the old reservation stays untouched.
func (e *Engine) ChangeReservation(ctx context.Context, userID, hotelID, newRoomID uint64) (model.Reservation, error) {
	var out model.Reservation
	err := e.inTx(ctx, func(tx Tx) error {
		res, err := tx.ReservationByUserAndHotel(ctx, userID, hotelID)
		if err != nil {
			return err
		}
		newRoom, err := tx.RoomForUpdate(ctx, newRoomID)
		if err != nil {
			return err
		}
		if !newRoom.Available {
			return ErrRoomUnavailable
		}
		// The availability flag only says "not occupied right now"; the
		// reservation's own window still has to be clear on the new room.
		iv := Interval{Start: res.CheckIn, End: res.CheckOut}
		conflicts, err := FindConflicts(ctx, tx, RoomScope(newRoom.ID), iv)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return ErrRoomUnavailable
		}
		if err := tx.SetRoomAvailability(ctx, res.RoomID, true); err != nil {
			return err
		}
		if err := tx.ReassignReservation(ctx, res.ID, newRoom.ID); err != nil {
			return err
		}
		if err := tx.SetRoomAvailability(ctx, newRoom.ID, false); err != nil {
			return err
		}
		out = res
		out.RoomID = newRoom.ID
		return nil
	})
	if err != nil {
		return model.Reservation{}, err
	}
	return out, nil
}

// CancelReservation deletes the reservation and releases its room,
// unless check-in is two hours away or closer.  The window is evaluated
// against the injected clock at call time; there is no background sweep.
func (e *Engine) CancelReservation(ctx context.Context, reservationID uint64) error {
	now := e.now().UTC()
	return e.inTx(ctx, func(tx Tx) error {
		res, err := tx.ReservationByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if !res.CheckIn.After(now.Add(cancelBuffer)) {
			return ErrCancellationWindow
		}
		if err := tx.SetRoomAvailability(ctx, res.RoomID, true); err != nil {
			return err
		}
		return tx.DeleteReservation(ctx, res.ID)
	})
}

// CheckOut is the authoritative "room is physically empty" signal.  It
// deletes every reservation attached to the room — stale rows included —
// and forces the availability cache back to true.
func (e *Engine) CheckOut(ctx context.Context, roomID uint64) error {
	return e.inTx(ctx, func(tx Tx) error {
		if _, err := tx.RoomForUpdate(ctx, roomID); err != nil {
			return err
		}
		if err := tx.DeleteReservationsByRoom(ctx, roomID); err != nil {
			return err
		}
		return tx.SetRoomAvailability(ctx, roomID, true)
	})
}

// AvailableRooms returns the hotel's rooms that are free for the whole
// window [start, end).  The availability cache reflects "booked right
// now", not an arbitrary future window, so this always runs the
// interval resolver and never trusts the flag alone.
func (e *Engine) AvailableRooms(ctx context.Context, hotelID uint64, start, end time.Time) ([]model.Room, error) {
	iv, err := NewInterval(start, end)
	if err != nil {
		return nil, err
	}
	var free []model.Room
	err = e.store.InTx(ctx, func(tx Tx) error {
		rooms, err := tx.RoomsByHotel(ctx, hotelID)
		if err != nil {
			return err
		}
		conflicts, err := FindConflicts(ctx, tx, HotelScope(hotelID), iv)
		if err != nil {
			return err
		}
		busy := make(map[uint64]struct{}, len(conflicts))
		for _, c := range conflicts {
			busy[c.RoomID] = struct{}{}
		}
		free = make([]model.Room, 0, len(rooms))
		for _, r := range rooms {
			if _, taken := busy[r.ID]; !taken {
				free = append(free, r)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return free, nil
}
