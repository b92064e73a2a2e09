package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/hotel-reservation/internal/auth"
	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/config"
	"github.com/iliyamo/hotel-reservation/internal/database"
	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db, "migrations"); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	hotelRepo := repository.NewHotelRepo(db)
	roomRepo := repository.NewRoomRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	userRepo := repository.NewUserRepo(db)
	feedbackRepo := repository.NewFeedbackRepo(db)

	seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.SeedHotels(seedCtx, hotelRepo, cfg.HotelSeed); err != nil {
		log.Fatalf("seed hotels: %v", err)
	}
	cancel()

	engine := booking.NewEngine(repository.NewBookingStore(db), nil)
	authenticator := auth.New(userRepo, cfg.JWTSecret, cfg.AccessTTLMin, cfg.BcryptCost)

	rdb := config.NewRedisClient()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.Register(e, router.Handlers{
		Auth:        handler.NewAuthHandler(authenticator, userRepo),
		Hotel:       handler.NewHotelHandler(hotelRepo, feedbackRepo, reservationRepo, engine),
		Reservation: handler.NewReservationHandler(engine, reservationRepo, roomRepo, hotelRepo),
	}, cfg.JWTSecret, rdb)

	// The consumer keeps its own reconnect loop; a dead broker must not
	// stop the API from serving.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	log.Printf("listening on :%s (env=%s)", cfg.Port, cfg.Env)
	log.Fatal(e.Start(":" + cfg.Port))
}
