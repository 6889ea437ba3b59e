package main

import (
	"context"

	availabilityhandler "solodesk/internal/availability/handler"
	availabilityrepo "solodesk/internal/availability/repository"
	availabilityservice "solodesk/internal/availability/service"
	availabilityvalidator "solodesk/internal/availability/validator"
	bookinghandler "solodesk/internal/booking/handler"
	bookingrepo "solodesk/internal/booking/repository"
	bookingservice "solodesk/internal/booking/service"
	linkhandler "solodesk/internal/bookinglink/handler"
	linkrepo "solodesk/internal/bookinglink/repository"
	linkservice "solodesk/internal/bookinglink/service"
	healthhandler "solodesk/internal/health/handler"
	profilehandler "solodesk/internal/profile/handler"
	profilerepo "solodesk/internal/profile/repository"
	profileservice "solodesk/internal/profile/service"
	"solodesk/pkg/app"
	"solodesk/pkg/config"
	"solodesk/pkg/guard"
	"solodesk/pkg/identity"
	"solodesk/pkg/kafka"
	"solodesk/pkg/store"
)

const ServiceName = "solodesk"

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting SoloDesk service")
	cfg.SetMongo()

	st := store.NewMongoStore(
		cfg.Client.Mongo.Database(cfg.MongoDatabaseName),
		cfg.RequestTimeout,
		cfg.RequestTimeout,
	)

	serverApp := app.NewApplication(cfg)
	serverApp.OnShutdown(func() {
		cfg.Client.Close(context.Background(), cfg.Log)
	})

	// Repositories.
	settingsRepo := availabilityrepo.NewSettingsRepository(st)
	slotRepo := availabilityrepo.NewSlotRepository(st, availabilityrepo.BatchConfig{
		PageSize:   cfg.SlotPageSize,
		OpPause:    cfg.MutationPause,
		BatchPause: cfg.MutationBatchPause,
		BatchSize:  cfg.MutationBatchSize,
		Retry: store.RetryPolicy{
			MaxAttempts: cfg.RetryMaxAttempts,
			BaseDelay:   cfg.RetryBaseDelay,
			Multiplier:  cfg.RetryMultiplier,
		},
	}, cfg.Log)
	profileRepo := profilerepo.NewProfileRepository(st)
	linkRepo := linkrepo.NewLinkRepository(st)
	bookingRepo := bookingrepo.NewBookingRepository(st)

	// Services.
	availabilitySvc := availabilityservice.NewAvailabilityService(
		settingsRepo,
		slotRepo,
		availabilityvalidator.NewAvailabilityValidator(cfg.Log),
		guard.New(),
		cfg,
	)
	profileSvc := profileservice.NewProfileService(profileRepo, cfg.Log)
	linkSvc := linkservice.NewLinkService(linkRepo, profileSvc, cfg.Log)
	bookingSvc := bookingservice.NewBookingService(bookingRepo, initPublisher(cfg, serverApp), cfg.Log)

	// Handlers.
	health := healthhandler.NewHealthHandler(cfg.Client.Mongo, cfg.Log)
	public := bookinghandler.NewPublicHandler(linkSvc, profileSvc, availabilitySvc, bookingSvc, cfg.Log)

	serverApp.SetHandlers(health, public, identity.NewHeaderAuthenticator(),
		availabilityhandler.NewAvailabilityHandler(availabilitySvc, cfg.Log),
		profilehandler.NewProfileHandler(profileSvc, cfg.Log),
		linkhandler.NewLinkHandler(linkSvc, cfg.Log),
		bookinghandler.NewBookingHandler(bookingSvc, cfg.Log),
	)
	serverApp.Run()
}

// initPublisher returns a Kafka producer when brokers are configured, nil
// otherwise. A nil publisher disables booking events.
func initPublisher(cfg *config.Config, serverApp *app.Application) bookingservice.EventPublisher {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("Kafka disabled, booking events will not be published")
		return nil
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaBookingsTopic, ServiceName)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize Kafka producer", "error", err)
	}
	serverApp.OnShutdown(func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	})
	cfg.Log.Info("Kafka producer initialized", "topic", cfg.KafkaBookingsTopic)
	return producer
}
