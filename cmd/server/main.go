package main

import (
	"innkeeper/internal/bookings/events"
	bookingshandler "innkeeper/internal/bookings/handler"
	bookingsrepo "innkeeper/internal/bookings/repository"
	bookingsservice "innkeeper/internal/bookings/service"
	bookingsvalidator "innkeeper/internal/bookings/validator"
	roomshandler "innkeeper/internal/rooms/handler"
	roomsrepo "innkeeper/internal/rooms/repository"
	roomsservice "innkeeper/internal/rooms/service"
	roomsvalidator "innkeeper/internal/rooms/validator"
	"innkeeper/pkg/app"
	"innkeeper/pkg/config"
	"innkeeper/pkg/contracts"
	"innkeeper/pkg/middleware"
	"innkeeper/pkg/sealer"
)

const ServiceName = "innkeeper"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Innkeeper service")

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(initHandlers(cfg)...)
	serverApp.Run()
}

func initHandlers(cfg *config.Config) []contracts.Handler {
	authenticator := middleware.NewAuthenticator(cfg.JWTSecret, cfg.Log)

	confirmationSealer, err := sealer.New(cfg.ConfirmationKey)
	if err != nil {
		cfg.Log.Fatal("Invalid confirmation key", "error", err)
	}

	roomRepo := roomsrepo.NewMongoRoomRepository(cfg)
	bookingRepo := bookingsrepo.NewMongoBookingRepository(cfg)
	lockRepo := bookingsrepo.NewMongoRoomLockRepository(cfg)

	roomService := roomsservice.NewRoomService(
		roomRepo,
		bookingRepo,
		roomsvalidator.NewRoomValidator(cfg.Log),
		cfg,
	)
	bookingService := bookingsservice.NewBookingService(
		bookingRepo,
		lockRepo,
		roomRepo,
		bookingsvalidator.NewBookingValidator(cfg.Log),
		events.NewPublisher(cfg, cfg.Log),
		confirmationSealer,
		cfg,
	)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	return []contracts.Handler{
		roomshandler.NewRoomHandler(roomService, authenticator, cfg.Log),
		bookingshandler.NewBookingHandler(bookingService, authenticator, cfg.Log),
	}
}
