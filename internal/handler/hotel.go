package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/middleware"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/utils"
)

// HotelHandler serves hotel browsing: listings, nearby search with
// ratings, per-window room availability, details and feedback.
type HotelHandler struct {
	Hotels       *repository.HotelRepo
	Feedback     *repository.FeedbackRepo
	Reservations *repository.ReservationRepo
	Engine       BookingService
}

// NewHotelHandler constructs a HotelHandler.
func NewHotelHandler(hotels *repository.HotelRepo, feedback *repository.FeedbackRepo, reservations *repository.ReservationRepo, engine BookingService) *HotelHandler {
	return &HotelHandler{Hotels: hotels, Feedback: feedback, Reservations: reservations, Engine: engine}
}

// GetHotels handles GET /v1/hotels.
func (h *HotelHandler) GetHotels(c echo.Context) error {
	hotels, err := h.Hotels.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, hotels)
}

// hotelWithRating pairs a hotel with its average feedback rating for
// the nearby search response.
type hotelWithRating struct {
	Hotel         model.Hotel `json:"hotel"`
	AverageRating float64     `json:"average_rating"`
}

// GetNearbyHotels handles GET /v1/hotels/nearby?lat=&lon=&radius=.
// Radius is in kilometers.
func (h *HotelHandler) GetNearbyHotels(c echo.Context) error {
	lat, err1 := strconv.ParseFloat(c.QueryParam("lat"), 64)
	lon, err2 := strconv.ParseFloat(c.QueryParam("lon"), 64)
	radius, err3 := strconv.ParseFloat(c.QueryParam("radius"), 64)
	if err1 != nil || err2 != nil || err3 != nil || radius <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "lat, lon and radius are required"})
	}
	ctx := c.Request().Context()
	hotels, err := h.Hotels.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	ratings, err := h.Feedback.AverageRatingByHotel(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	nearby := []hotelWithRating{}
	for _, hotel := range hotels {
		if utils.DistanceKm(lat, lon, hotel.Latitude, hotel.Longitude) <= radius {
			nearby = append(nearby, hotelWithRating{Hotel: hotel, AverageRating: ratings[hotel.ID]})
		}
	}
	return c.JSON(http.StatusOK, nearby)
}

// windowFromQuery parses optional start/end date parameters
// (YYYY-MM-DD).  Start defaults to today; end defaults to the day
// after start.  The end date is inclusive, so the returned window
// extends to midnight after it.
func windowFromQuery(c echo.Context) (time.Time, time.Time, error) {
	const layout = "2006-01-02"
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if s := c.QueryParam("start"); s != "" {
		parsed, err := time.Parse(layout, s)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = parsed
	}
	end := start.AddDate(0, 0, 1)
	if s := c.QueryParam("end"); s != "" {
		parsed, err := time.Parse(layout, s)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = parsed.AddDate(0, 0, 1)
	}
	return start, end, nil
}

// GetAvailableRooms handles GET /v1/hotels/:id/rooms?start=&end=.  It
// always consults the reservation intervals for the window; the room
// availability flag only reflects the present instant.
func (h *HotelHandler) GetAvailableRooms(c echo.Context) error {
	hotelID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || hotelID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	start, end, err := windowFromQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, use YYYY-MM-DD"})
	}
	rooms, err := h.Engine.AvailableRooms(c.Request().Context(), hotelID, start, end)
	if err != nil {
		status, msg := bookingStatus(err)
		return c.JSON(status, echo.Map{"error": msg})
	}
	return c.JSON(http.StatusOK, rooms)
}

// hotelDetails is the response for GET /v1/hotels/:id/details.
type hotelDetails struct {
	Hotel          model.Hotel      `json:"hotel"`
	Rooms          []model.Room     `json:"rooms"`
	Feedback       []model.Feedback `json:"feedback"`
	HasReservation bool             `json:"has_reservation"`
}

// GetHotelDetails handles GET /v1/hotels/:id/details?start=&end=.  It
// combines the rooms free for the window, the hotel's feedback and
// whether the calling user already holds a reservation there.
func (h *HotelHandler) GetHotelDetails(c echo.Context) error {
	hotelID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || hotelID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	start, end, err := windowFromQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, use YYYY-MM-DD"})
	}
	ctx := c.Request().Context()
	hotel, err := h.Hotels.GetByID(ctx, hotelID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	rooms, err := h.Engine.AvailableRooms(ctx, hotelID, start, end)
	if err != nil {
		status, msg := bookingStatus(err)
		return c.JSON(status, echo.Map{"error": msg})
	}
	feedback, err := h.Feedback.ListByHotel(ctx, hotelID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	details := hotelDetails{Hotel: hotel, Rooms: rooms, Feedback: feedback}
	if userID, ok := middleware.UserID(c); ok {
		has, err := h.Reservations.ExistsByUserAndHotel(ctx, userID, hotelID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		details.HasReservation = has
	}
	return c.JSON(http.StatusOK, details)
}

type feedbackReq struct {
	Comment string `json:"comment"`
	Rating  int    `json:"rating"`
}

// SubmitFeedback handles POST /v1/hotels/:id/feedback.
func (h *HotelHandler) SubmitFeedback(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || hotelID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	var req feedbackReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	}
	ctx := c.Request().Context()
	if _, err := h.Hotels.GetByID(ctx, hotelID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	f := model.Feedback{HotelID: hotelID, UserID: userID, Comment: req.Comment, Rating: req.Rating}
	if err := h.Feedback.Create(ctx, &f); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, f)
}
