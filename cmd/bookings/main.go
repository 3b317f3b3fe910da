package main

import (
	"context"

	availabilityhandler "hotelops/internal/availability/handler"
	availabilityservice "hotelops/internal/availability/service"
	"hotelops/internal/bookings/handler"
	bookingsrepo "hotelops/internal/bookings/repository"
	"hotelops/internal/bookings/service"
	"hotelops/internal/bookings/validator"
	"hotelops/internal/events"
	"hotelops/internal/health"
	inventoryhandler "hotelops/internal/inventory/handler"
	inventoryrepo "hotelops/internal/inventory/repository"
	inventoryservice "hotelops/internal/inventory/service"
	roomsrepo "hotelops/internal/rooms/repository"
	"hotelops/internal/store/memory"
	"hotelops/pkg/app"
	"hotelops/pkg/config"
	mongotx "hotelops/pkg/db/mongo"
	"hotelops/pkg/kafka"
	kafkamw "hotelops/pkg/kafka/middleware"
)

const ServiceName = "bookings"

// backend is the set of repositories and the transaction manager for one
// storage engine.
type backend struct {
	name        string
	bookings    bookingsrepo.BookingRepository
	rooms       roomsrepo.RoomRepository
	items       inventoryrepo.ItemRepository
	assignments inventoryrepo.AssignmentRepository
	warehouse   inventoryrepo.WarehouseRepository
	ledger      inventoryrepo.LedgerRepository
	alerts      inventoryrepo.AlertRepository
	txManager   mongotx.TransactionManager
	pinger      health.Pinger
}

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting Bookings service")
	store := initBackend(cfg)
	emitter := initEmitter(cfg)

	serverApp := buildApplication(cfg, store, emitter)
	if closer, ok := emitter.(*events.KafkaEmitter); ok {
		serverApp.OnShutdown(closer)
	}
	serverApp.Run()
}

func initBackend(cfg *config.Config) *backend {
	if !cfg.UsesMongo() {
		store := memory.NewStore()
		if cfg.SeedFixtures {
			if err := store.Load(context.Background(), memory.DemoFixtures()); err != nil {
				cfg.Log.Fatal("Failed to load demo fixtures", "error", err)
			}
		}
		cfg.Log.Info("Using in-memory store", "seeded", cfg.SeedFixtures)
		return memoryBackend(store)
	}

	cfg.SetMongo()
	cfg.Log.Info("Using MongoDB store", "database", cfg.MongoDatabaseName)
	return &backend{
		name:        config.StoreBackendMongo,
		bookings:    bookingsrepo.NewMongoBookingRepository(cfg),
		rooms:       roomsrepo.NewMongoRoomRepository(cfg),
		items:       inventoryrepo.NewMongoItemRepository(cfg),
		assignments: inventoryrepo.NewMongoAssignmentRepository(cfg),
		warehouse:   inventoryrepo.NewMongoWarehouseRepository(cfg),
		ledger:      inventoryrepo.NewMongoLedgerRepository(cfg),
		alerts:      inventoryrepo.NewMongoAlertRepository(cfg),
		txManager:   mongotx.NewTransactionManager(cfg.Client.Mongo),
		pinger:      health.NewMongoPinger(cfg.Client.Mongo),
	}
}

func memoryBackend(store *memory.Store) *backend {
	return &backend{
		name:        config.StoreBackendMemory,
		bookings:    store.Bookings(),
		rooms:       store.Rooms(),
		items:       store.Items(),
		assignments: store.Assignments(),
		warehouse:   store.Warehouse(),
		ledger:      store.Ledger(),
		alerts:      store.Alerts(),
		txManager:   store,
	}
}

func initEmitter(cfg *config.Config) events.Emitter {
	if cfg.Kafka == nil || !cfg.Kafka.Enabled {
		cfg.Log.Info("Kafka disabled, domain events are not published")
		return events.NewNopEmitter()
	}

	metrics := kafkamw.NewMetrics()
	newProducer := func(topic string) *kafka.Producer {
		producer, err := kafka.NewProducer(cfg.Kafka, cfg.Log, topic, cfg.Kafka.DLQTopic(topic))
		if err != nil {
			cfg.Log.Fatal("Failed to create Kafka producer", "topic", topic, "error", err)
		}
		if cfg.Kafka.EnableMiddleware {
			producer.Use(kafkamw.LoggingProducerMiddleware(cfg.Log))
			producer.Use(metrics.ProducerMiddleware())
		}
		return producer
	}

	emitter := events.NewKafkaEmitter(
		newProducer(cfg.Kafka.BookingEventsTopic),
		newProducer(cfg.Kafka.InventoryAlertsTopic),
		ServiceName,
		cfg.Log,
	)
	cfg.Log.Info("Kafka event publishing enabled",
		"booking_topic", cfg.Kafka.BookingEventsTopic,
		"alerts_topic", cfg.Kafka.InventoryAlertsTopic,
	)
	return emitter
}

func buildApplication(cfg *config.Config, store *backend, emitter events.Emitter) *app.Application {
	engine := inventoryservice.NewDeductionEngine(store.assignments, store.warehouse, store.items, store.ledger, cfg.Log)
	alerts := inventoryservice.NewAlertRecorder(store.alerts, emitter, cfg.Log)

	bookingService := service.NewBookingService(
		store.bookings,
		store.rooms,
		engine,
		alerts,
		emitter,
		store.txManager,
		validator.NewBookingValidator(cfg.Log),
		cfg,
	)
	availabilityService := availabilityservice.NewAvailabilityService(store.bookings, store.rooms, cfg)
	inventoryService := inventoryservice.NewInventoryService(store.rooms, engine, alerts, store.txManager, cfg.Log)
	cfg.Log.Info("Services initialized", "backend", store.name)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		health.NewHealthHandler(store.name, store.pinger, cfg.Log),
		handler.NewBookingHandler(bookingService, cfg.Log),
		availabilityhandler.NewAvailabilityHandler(availabilityService, cfg.Log),
		inventoryhandler.NewInventoryHandler(inventoryService, cfg.Log),
	)
	return serverApp
}
