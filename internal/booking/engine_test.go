package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// memStore is an in-memory Store with transactional semantics: every
// InTx works on a copy and only commits it when fn succeeds.
type memStore struct {
	rooms        map[uint64]model.Room
	reservations map[uint64]model.Reservation
	nextID       uint64

	// conflictsLeft makes the next N transactions fail with
	// ErrStoreConflict before fn runs, to exercise the retry loop.
	conflictsLeft int
	txStarted     int
}

func newMemStore() *memStore {
	return &memStore{
		rooms:        map[uint64]model.Room{},
		reservations: map[uint64]model.Reservation{},
		nextID:       1,
	}
}

func (s *memStore) addRoom(r model.Room) { s.rooms[r.ID] = r }

func (s *memStore) addReservation(r model.Reservation) uint64 {
	r.ID = s.nextID
	s.nextID++
	s.reservations[r.ID] = r
	return r.ID
}

func (s *memStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	s.txStarted++
	if s.conflictsLeft > 0 {
		s.conflictsLeft--
		return ErrStoreConflict
	}
	cp := &memTx{
		rooms:        make(map[uint64]model.Room, len(s.rooms)),
		reservations: make(map[uint64]model.Reservation, len(s.reservations)),
		nextID:       s.nextID,
	}
	for id, r := range s.rooms {
		cp.rooms[id] = r
	}
	for id, r := range s.reservations {
		cp.reservations[id] = r
	}
	if err := fn(cp); err != nil {
		return err
	}
	s.rooms = cp.rooms
	s.reservations = cp.reservations
	s.nextID = cp.nextID
	return nil
}

type memTx struct {
	rooms        map[uint64]model.Room
	reservations map[uint64]model.Reservation
	nextID       uint64
}

func (t *memTx) RoomForUpdate(ctx context.Context, roomID uint64) (model.Room, error) {
	r, ok := t.rooms[roomID]
	if !ok {
		return model.Room{}, ErrRoomNotFound
	}
	return r, nil
}

func (t *memTx) SetRoomAvailability(ctx context.Context, roomID uint64, available bool) error {
	r, ok := t.rooms[roomID]
	if !ok {
		return ErrRoomNotFound
	}
	r.Available = available
	t.rooms[roomID] = r
	return nil
}

func (t *memTx) RoomsByHotel(ctx context.Context, hotelID uint64) ([]model.Room, error) {
	var out []model.Room
	for _, r := range t.rooms {
		if r.HotelID == hotelID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (t *memTx) OverlappingByRoom(ctx context.Context, roomID uint64, iv Interval) ([]model.Reservation, error) {
	var out []model.Reservation
	for _, res := range t.reservations {
		if res.RoomID != roomID {
			continue
		}
		if iv.Overlaps(Interval{Start: res.CheckIn, End: res.CheckOut}) {
			out = append(out, res)
		}
	}
	return out, nil
}

func (t *memTx) OverlappingByHotel(ctx context.Context, hotelID uint64, iv Interval) ([]model.Reservation, error) {
	var out []model.Reservation
	for _, res := range t.reservations {
		room, ok := t.rooms[res.RoomID]
		if !ok || room.HotelID != hotelID {
			continue
		}
		if iv.Overlaps(Interval{Start: res.CheckIn, End: res.CheckOut}) {
			out = append(out, res)
		}
	}
	return out, nil
}

func (t *memTx) CreateReservation(ctx context.Context, res *model.Reservation) error {
	res.ID = t.nextID
	t.nextID++
	t.reservations[res.ID] = *res
	return nil
}

func (t *memTx) ReservationByID(ctx context.Context, id uint64) (model.Reservation, error) {
	res, ok := t.reservations[id]
	if !ok {
		return model.Reservation{}, ErrReservationNotFound
	}
	return res, nil
}

func (t *memTx) ReservationByUserAndHotel(ctx context.Context, userID, hotelID uint64) (model.Reservation, error) {
	for _, res := range t.reservations {
		room, ok := t.rooms[res.RoomID]
		if ok && res.UserID == userID && room.HotelID == hotelID {
			return res, nil
		}
	}
	return model.Reservation{}, ErrReservationNotFound
}

func (t *memTx) ReassignReservation(ctx context.Context, reservationID, newRoomID uint64) error {
	res, ok := t.reservations[reservationID]
	if !ok {
		return ErrReservationNotFound
	}
	res.RoomID = newRoomID
	t.reservations[reservationID] = res
	return nil
}

func (t *memTx) DeleteReservation(ctx context.Context, id uint64) error {
	delete(t.reservations, id)
	return nil
}

func (t *memTx) DeleteReservationsByRoom(ctx context.Context, roomID uint64) error {
	for id, res := range t.reservations {
		if res.RoomID == roomID {
			delete(t.reservations, id)
		}
	}
	return nil
}

var baseTime = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return baseTime }

func day(n int) time.Time { return baseTime.AddDate(0, 0, n) }

func TestBook(t *testing.T) {
	store := newMemStore()
	store.addRoom(model.Room{ID: 1, HotelID: 1, Number: 101, Type: model.RoomSingle, Available: true})
	eng := NewEngine(store, fixedClock)

	res, err := eng.Book(context.Background(), 7, 1, day(1), day(3))
	require.NoError(t, err)
	assert.NotZero(t, res.ID)
	assert.Equal(t, uint64(7), res.UserID)
	assert.Equal(t, uint64(1), res.RoomID)
	assert.False(t, store.rooms[1].Available, "booking flips the availability cache")
}

func TestBookRejectsOverlap(t *testing.T) {
	store := newMemStore()
	store.addRoom(model.Room{ID: 1, HotelID: 1, Available: true})
	store.addReservation(model.Reservation{UserID: 1, RoomID: 1, CheckIn: day(1), CheckOut: day(5)})
	eng := NewEngine(store, fixedClock)

	cases := []struct {
		name    string
		in, out time.Time
	}{
		{"identical", day(1), day(5)},
		{"starts inside", day(2), day(7)},
		{"ends inside", day(0), day(2)},
		{"covers", day(0), day(7)},
		{"contained", day(2), day(4)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := eng.Book(context.Background(), 2, 1, tc.in, tc.out)
			assert.ErrorIs(t, err, ErrRoomUnavailable)
		})
	}
	assert.Len(t, store.reservations, 1, "failed bookings persist nothing")
}

func TestBookAllowsBackToBackStays(t *testing.T) {
	store := newMemStore()
	store.addRoom(model.Room{ID: 1, HotelID: 1, Available: true})
	store.addReservation(model.Reservation{UserID: 1, RoomID: 1, CheckIn: day(1), CheckOut: day(3)})
	eng := NewEngine(store, fixedClock)

	// Check-out day equals the next guest's check-in day: no overlap
	// under the half-open rule.
	_, err := eng.Book(context.Background(), 2, 1, day(3), day(5))
	require.NoError(t, err)

	_, err = eng.Book(context.Background(), 3, 1, day(0), day(1))
	require.NoError(t, err)
}

func TestBookInvalidInterval(t *testing.T) {
	store := newMemStore()
	store.addRoom(model.Room{ID: 1, HotelID: 1, Available: true})
	eng := NewEngine(store, fixedClock)

	_, err := eng.Book(context.Background(), 1, 1, day(3), day(1))
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = eng.Book(context.Background(), 1, 1, day(1), day(1))
	assert.ErrorIs(t, err, ErrInvalidInterval, "zero-length stay")

	assert.Zero(t, store.txStarted, "interval is validated before any transaction")
}

func TestBookRoomNotFound(t *testing.T) {
	eng := NewEngine(newMemStore(), fixedClock)
	_, err := eng.Book(context.Background(), 1, 42, day(1), day(2))
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestCancelReservation(t *testing.T) {
	store := newMemStore()
	store.addRoom(model.Room{ID: 1, HotelID: 1, Available: false})
	id := store.addReservation(model.Reservation{
		UserID: 7, RoomID: 1,
		CheckIn: baseTime.Add(3 * time.Hour), CheckOut: baseTime.Add(27 * time.Hour),
	})
	eng := NewEngine(store, fixedClock)

	require.NoError(t, eng.CancelReservation(context.Background(), id))
	assert.Empty(t, store.reservations)
	assert.True(t, store.rooms[1].Available, "cancelling releases the room")
}

func TestCancelReservationInsideWindow(t *testing.T) {
	store := newMemStore()
	store.addRoom(model.Room{ID: 1, HotelID: 1, Available: false})
	eng := NewEngine(store, fixedClock)

	cases := []struct {
		name    string
		checkIn time.Time
	}{
		{"one hour before check-in", baseTime.Add(1 * time.Hour)},
		{"exactly two hours before", baseTime.Add(2 * time.Hour)},
		{"check-in already passed", baseTime.Add(-1 * time.Hour)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id := store.addReservation(model.Reservation{
				UserID: 7, RoomID: 1,
				CheckIn: tc.checkIn, CheckOut: tc.checkIn.Add(24 * time.Hour),
			})
			err := eng.CancelReservation(context.Background(), id)
			assert.ErrorIs(t, err, ErrCancellationWindow)
			_, kept := store.reservations[id]
			assert.True(t, kept, "refused cancellation keeps the reservation")
		})
	}
	assert.False(t, store.rooms[1].Available)
}

func TestCancelReservationNotFound(t *testing.T) {
	eng := NewEngine(newMemStore(), fixedClock)
	err := eng.CancelReservation(context.Background(), 99)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestChangeReservation(t *testing.T) {
	store := newMemStore()
	store.addRoom(model.Room{ID: 1, HotelID: 5, Available: false})
	store.addRoom(model.Room{ID: 2, HotelID: 5, Available: true})
	id := store.addReservation(model.Reservation{UserID: 7, RoomID: 1, CheckIn: day(1), CheckOut: day(3)})
	eng := NewEngine(store, fixedClock)

	res, err := eng.ChangeReservation(context.Background(), 7, 5, 2)
	require.NoError(t, err)
	assert.Equal(t, id, res.ID)
	assert.Equal(t, uint64(2), res.RoomID)
	assert.Equal(t, day(1), res.CheckIn, "interval is preserved")
	assert.Equal(t, day(3), res.CheckOut)

	assert.True(t, store.rooms[1].Available, "old room released")
	assert.False(t, store.rooms[2].Available, "new room taken")
	assert.Equal(t, uint64(2), store.reservations[id].RoomID)
}

func TestChangeReservationTargetOccupied(t *testing.T) {
	store := newMemStore()
	store.addRoom(model.Room{ID: 1, HotelID: 5, Available: false})
	store.addRoom(model.Room{ID: 2, HotelID: 5, Available: false})
	id := store.addReservation(model.Reservation{UserID: 7, RoomID: 1, CheckIn: day(1), CheckOut: day(3)})
	store.addReservation(model.Reservation{UserID: 8, RoomID: 2, CheckIn: day(1), CheckOut: day(3)})
	eng := NewEngine(store, fixedClock)

	_, err := eng.ChangeReservation(context.Background(), 7, 5, 2)
	assert.ErrorIs(t, err, ErrRoomUnavailable)

	// Nothing moved: the change is atomic.
	assert.Equal(t, uint64(1), store.reservations[id].RoomID)
	assert.False(t, store.rooms[1].Available)
}

func TestChangeReservationNoReservationAtHotel(t *testing.T) {
	store := newMemStore()
	store.addRoom(model.Room{ID: 1, HotelID: 5, Available: true})
	eng := NewEngine(store, fixedClock)

	_, err := eng.ChangeReservation(context.Background(), 7, 5, 1)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestCheckOut(t *testing.T) {
	store := newMemStore()
	store.addRoom(model.Room{ID: 1, HotelID: 1, Available: false})
	store.addRoom(model.Room{ID: 2, HotelID: 1, Available: false})
	store.addReservation(model.Reservation{UserID: 1, RoomID: 1, CheckIn: day(-3), CheckOut: day(0)})
	store.addReservation(model.Reservation{UserID: 2, RoomID: 1, CheckIn: day(4), CheckOut: day(6)})
	keep := store.addReservation(model.Reservation{UserID: 3, RoomID: 2, CheckIn: day(1), CheckOut: day(2)})
	eng := NewEngine(store, fixedClock)

	require.NoError(t, eng.CheckOut(context.Background(), 1))

	// Every reservation on the room goes, future ones included; other
	// rooms are untouched.
	assert.Len(t, store.reservations, 1)
	_, ok := store.reservations[keep]
	assert.True(t, ok)
	assert.True(t, store.rooms[1].Available)
	assert.False(t, store.rooms[2].Available)
}

func TestCheckOutRoomNotFound(t *testing.T) {
	eng := NewEngine(newMemStore(), fixedClock)
	err := eng.CheckOut(context.Background(), 42)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestAvailableRooms(t *testing.T) {
	store := newMemStore()
	store.addRoom(model.Room{ID: 1, HotelID: 5, Available: true})
	store.addRoom(model.Room{ID: 2, HotelID: 5, Available: true})
	store.addRoom(model.Room{ID: 3, HotelID: 6, Available: true})
	store.addReservation(model.Reservation{UserID: 1, RoomID: 1, CheckIn: day(1), CheckOut: day(5)})
	eng := NewEngine(store, fixedClock)

	free, err := eng.AvailableRooms(context.Background(), 5, day(2), day(4))
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, uint64(2), free[0].ID)

	// A window after the stay frees the room again.
	free, err = eng.AvailableRooms(context.Background(), 5, day(5), day(7))
	require.NoError(t, err)
	assert.Len(t, free, 2)
}

func TestAvailableRoomsIgnoresStaleFlag(t *testing.T) {
	store := newMemStore()
	// Flag says occupied, but no reservation overlaps the queried
	// window: the interval resolver wins.
	store.addRoom(model.Room{ID: 1, HotelID: 5, Available: false})
	store.addReservation(model.Reservation{UserID: 1, RoomID: 1, CheckIn: day(-5), CheckOut: day(0)})
	eng := NewEngine(store, fixedClock)

	free, err := eng.AvailableRooms(context.Background(), 5, day(10), day(12))
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, uint64(1), free[0].ID)
}

func TestAvailableRoomsInvalidInterval(t *testing.T) {
	eng := NewEngine(newMemStore(), fixedClock)
	_, err := eng.AvailableRooms(context.Background(), 5, day(3), day(1))
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestConflictRetry(t *testing.T) {
	store := newMemStore()
	store.addRoom(model.Room{ID: 1, HotelID: 1, Available: true})
	store.conflictsLeft = 2
	eng := NewEngine(store, fixedClock)

	_, err := eng.Book(context.Background(), 1, 1, day(1), day(2))
	require.NoError(t, err)
	assert.Equal(t, 3, store.txStarted, "two conflicts, then success")
}

func TestConflictRetryExhausted(t *testing.T) {
	store := newMemStore()
	store.addRoom(model.Room{ID: 1, HotelID: 1, Available: true})
	store.conflictsLeft = 10
	eng := NewEngine(store, fixedClock)

	_, err := eng.Book(context.Background(), 1, 1, day(1), day(2))
	assert.ErrorIs(t, err, ErrStoreConflict)
	assert.Equal(t, conflictAttempts, store.txStarted)
	assert.Empty(t, store.reservations)
}

func TestConflictRetryStopsOnContextCancel(t *testing.T) {
	store := newMemStore()
	store.addRoom(model.Room{ID: 1, HotelID: 1, Available: true})
	store.conflictsLeft = 10
	eng := NewEngine(store, fixedClock)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := eng.Book(ctx, 1, 1, day(1), day(2))
	assert.True(t, errors.Is(err, context.Canceled) || errors.Is(err, ErrStoreConflict))
}
