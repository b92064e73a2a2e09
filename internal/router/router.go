// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hotel-reservation/internal/auth"
	"github.com/iliyamo/hotel-reservation/internal/config"
	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
)

// Handlers groups everything the router needs to register routes.
type Handlers struct {
	Auth        *handler.AuthHandler
	Hotel       *handler.HotelHandler
	Reservation *handler.ReservationHandler
}

// Register sets up all routes.  Public browse endpoints go through the
// Redis response cache; every route shares the rate limiter; booking
// mutations require a valid access token, and check-out additionally
// requires the STAFF role.
func Register(e *echo.Echo, h Handlers, jwtSecret string, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)
	e.Use(limiter)

	// Unauthenticated auth endpoints.
	ag := e.Group("/v1/auth")
	ag.POST("/register", h.Auth.Register)
	ag.POST("/login", h.Auth.Login)

	// Public browse endpoints, cacheable.
	pub := e.Group("/v1", cache)
	pub.GET("/hotels", h.Hotel.GetHotels)
	pub.GET("/hotels/nearby", h.Hotel.GetNearbyHotels)
	pub.GET("/hotels/:id/rooms", h.Hotel.GetAvailableRooms)

	// Authenticated endpoints.
	authed := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	authed.GET("/me", h.Auth.Me)
	authed.GET("/me/reservations", h.Reservation.MyReservations)
	authed.GET("/hotels/:id/details", h.Hotel.GetHotelDetails)
	authed.POST("/hotels/:id/feedback", h.Hotel.SubmitFeedback)
	authed.POST("/reservations", h.Reservation.Book)
	authed.POST("/reservations/change", h.Reservation.Change)
	authed.DELETE("/reservations/:id", h.Reservation.Cancel)

	// Check-out is the authoritative "room is empty" signal; staff only.
	staff := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole(auth.RoleStaff))
	staff.PUT("/rooms/:id/check-out", h.Reservation.CheckOut)
}
