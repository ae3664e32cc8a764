package main

import (
	"medassist/internal/assistant/core"
	"medassist/internal/assistant/grounding"
	conversationhandler "medassist/internal/assistant/handler"
	"medassist/internal/assistant/session"
	"medassist/internal/assistant/tools"
	availabilityhandler "medassist/internal/availability/handler"
	availabilityservice "medassist/internal/availability/service"
	"medassist/internal/bookings/events"
	bookinghandler "medassist/internal/bookings/handler"
	bookingsrepository "medassist/internal/bookings/repository"
	bookingservice "medassist/internal/bookings/service"
	bookingvalidator "medassist/internal/bookings/validator"
	departmentsrepository "medassist/internal/departments/repository"
	healthhandler "medassist/internal/health/handler"
	"medassist/pkg/app"
	"medassist/pkg/config"
	"medassist/pkg/kafka"
	kafka_middleware "medassist/pkg/kafka/middleware"
)

const ServiceName = "assistant"

type services struct {
	availability availabilityservice.AvailabilityService
	bookings     bookingservice.BookingService
	manager      *session.Manager
}

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting assistant service")

	serverApp := app.NewApplication(cfg)
	publisher := initPublisher(cfg, serverApp)
	svc := initServices(cfg, publisher)

	serverApp.SetApp(
		healthhandler.NewHealthHandler(cfg.Client, cfg.Log),
		conversationhandler.NewConversationHandler(svc.manager, cfg.Log),
		availabilityhandler.NewAvailabilityHandler(svc.availability, cfg.Now, cfg.Log),
		bookinghandler.NewBookingHandler(svc.bookings, cfg.Log),
	)
	serverApp.OnShutdown(cfg.GracefulShutdown)
	serverApp.Run()
}

// initPublisher returns a Kafka-backed publisher when KAFKA_ENABLED is set and
// a no-op one otherwise. The producer is closed on shutdown.
func initPublisher(cfg *config.Config, serverApp *app.Application) events.Publisher {
	if !cfg.Kafka.Enabled {
		cfg.Log.Info("Kafka disabled, booking events are not published")
		return events.NewNoopPublisher()
	}

	producer, err := kafka.NewProducer(cfg.Kafka, cfg.BookingEventsTopic, cfg.BookingEventsDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	serverApp.OnShutdown(func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	})

	cfg.Log.Info("Kafka producer initialized", "topic", cfg.BookingEventsTopic)
	return events.NewKafkaPublisher(producer, ServiceName)
}

func initServices(cfg *config.Config, publisher events.Publisher) services {
	departmentRepo := departmentsrepository.NewMongoDepartmentRepository(cfg)
	bookingRepo := bookingsrepository.NewMongoBookingRepository(cfg)
	lockRepo := bookingsrepository.NewBookingLockRepository(cfg)

	availability := availabilityservice.NewAvailabilityService(departmentRepo, bookingRepo, cfg)
	bookings := bookingservice.NewBookingService(
		bookingRepo,
		lockRepo,
		departmentRepo,
		bookingvalidator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)

	confirm, err := tools.NewConfirmAppointment(bookings, cfg.Now, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize confirm_appointment tool", "error", err)
	}
	engine := core.NewEngine(core.NewLimiter(cfg.MaxConcurrentToolCalls), cfg.Log, confirm)

	manager := session.NewManager(
		initSessionStore(cfg),
		grounding.NewBuilder(availability),
		engine,
		cfg.SessionTTL,
		cfg.Now,
		cfg.Log,
	)

	cfg.Log.Info("Assistant services initialized",
		"database", cfg.MongoDatabaseName,
		"tools", len(engine.Definitions()),
		"session_ttl", cfg.SessionTTL.String(),
	)

	return services{
		availability: availability,
		bookings:     bookings,
		manager:      manager,
	}
}

func initSessionStore(cfg *config.Config) session.Store {
	if cfg.Client.Redis != nil {
		return session.NewRedisStore(cfg.Client.Redis)
	}
	return session.NewMemoryStore()
}

