package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	queue_publisher "github.com/iliyamo/hotel-reservation/internal/service"
)

// BookingService is the slice of the booking engine the reservation
// handler depends on.  *booking.Engine satisfies it; tests substitute a
// fake.
type BookingService interface {
	Book(ctx context.Context, userID, roomID uint64, checkIn, checkOut time.Time) (model.Reservation, error)
	ChangeReservation(ctx context.Context, userID, hotelID, newRoomID uint64) (model.Reservation, error)
	CancelReservation(ctx context.Context, reservationID uint64) error
	CheckOut(ctx context.Context, roomID uint64) error
	AvailableRooms(ctx context.Context, hotelID uint64, start, end time.Time) ([]model.Room, error)
}

// ReservationHandler serves the booking endpoints.  All mutations go
// through the engine; the repositories are used only for reads
// (listings, ownership checks) and for enriching the published event.
type ReservationHandler struct {
	Engine       BookingService
	Reservations *repository.ReservationRepo
	Rooms        *repository.RoomRepo
	Hotels       *repository.HotelRepo

	// Publish sends the booked event; overridable in tests.  Nil
	// disables publishing.
	Publish func(ctx context.Context, ev queue.ReservationBookedEvent) error
}

// NewReservationHandler constructs a ReservationHandler wired to the
// RabbitMQ publisher.
func NewReservationHandler(engine BookingService, res *repository.ReservationRepo, rooms *repository.RoomRepo, hotels *repository.HotelRepo) *ReservationHandler {
	return &ReservationHandler{
		Engine:       engine,
		Reservations: res,
		Rooms:        rooms,
		Hotels:       hotels,
		Publish:      queue_publisher.PublishReservationBooked,
	}
}

type bookReq struct {
	RoomID   uint64    `json:"room_id"`
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

type changeReq struct {
	HotelID   uint64 `json:"hotel_id"`
	NewRoomID uint64 `json:"new_room_id"`
}

// bookingStatus maps engine sentinel errors onto HTTP responses.
func bookingStatus(err error) (int, string) {
	switch {
	case errors.Is(err, booking.ErrInvalidInterval):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, booking.ErrRoomNotFound),
		errors.Is(err, booking.ErrReservationNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, booking.ErrRoomUnavailable),
		errors.Is(err, booking.ErrCancellationWindow):
		return http.StatusConflict, err.Error()
	case errors.Is(err, booking.ErrStoreConflict):
		return http.StatusServiceUnavailable, "please retry"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// Book handles POST /v1/reservations.
func (h *ReservationHandler) Book(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.RoomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id is required"})
	}

	res, err := h.Engine.Book(c.Request().Context(), userID, req.RoomID, req.CheckIn, req.CheckOut)
	if err != nil {
		status, msg := bookingStatus(err)
		return c.JSON(status, echo.Map{"error": msg})
	}
	h.publishBooked(res)
	return c.JSON(http.StatusCreated, res)
}

// Change handles POST /v1/reservations/change: substitute rooms within
// the same hotel, keeping the stay's interval.
func (h *ReservationHandler) Change(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req changeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.HotelID == 0 || req.NewRoomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hotel_id and new_room_id are required"})
	}

	res, err := h.Engine.ChangeReservation(c.Request().Context(), userID, req.HotelID, req.NewRoomID)
	if err != nil {
		status, msg := bookingStatus(err)
		return c.JSON(status, echo.Map{"error": msg})
	}
	return c.JSON(http.StatusOK, res)
}

// Cancel handles DELETE /v1/reservations/:id.  Ownership is verified
// before the engine applies the cancellation-window policy.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	reservationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || reservationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Reservations.GetByIDForUser(ctx, reservationID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.Engine.CancelReservation(ctx, reservationID); err != nil {
		status, msg := bookingStatus(err)
		return c.JSON(status, echo.Map{"error": msg})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "reservation cancelled"})
}

// MyReservations handles GET /v1/me/reservations.
func (h *ReservationHandler) MyReservations(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	list, err := h.Reservations.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, list)
}

// CheckOut handles PUT /v1/rooms/:id/check-out.  Staff only: clears
// every reservation on the room and frees it.
func (h *ReservationHandler) CheckOut(c echo.Context) error {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || roomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	if err := h.Engine.CheckOut(c.Request().Context(), roomID); err != nil {
		status, msg := bookingStatus(err)
		return c.JSON(status, echo.Map{"error": msg})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "room checked out"})
}

// publishBooked emits the reservation.booked event in the background.
// The booking already committed, so broker failures are only logged.
func (h *ReservationHandler) publishBooked(res model.Reservation) {
	if h.Publish == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		ev := queue.ReservationBookedEvent{
			ReservationID: res.ID,
			UserID:        res.UserID,
			RoomID:        res.RoomID,
			CheckIn:       res.CheckIn.Format(time.RFC3339),
			CheckOut:      res.CheckOut.Format(time.RFC3339),
			BookedAt:      time.Now().UTC().Format(time.RFC3339),
		}
		if room, err := h.Rooms.GetByID(ctx, res.RoomID); err == nil {
			ev.RoomNumber = room.Number
			ev.Price = room.Price
			ev.HotelID = room.HotelID
			if hotel, err := h.Hotels.GetByID(ctx, room.HotelID); err == nil {
				ev.HotelName = hotel.Name
			}
		}
		if err := h.Publish(ctx, ev); err != nil {
			log.Printf("publish reservation.booked failed: %v", err)
		}
	}()
}
