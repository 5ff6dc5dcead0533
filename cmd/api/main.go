package main

import (
	"context"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/dropmart/dropmart-golang/internal/config"
	"github.com/dropmart/dropmart-golang/internal/database"
	"github.com/dropmart/dropmart-golang/internal/handlers"
	"github.com/dropmart/dropmart-golang/internal/outbox"
	"github.com/dropmart/dropmart-golang/internal/queue"
	"github.com/dropmart/dropmart-golang/internal/routes"
	"github.com/dropmart/dropmart-golang/internal/shipping"
	"github.com/dropmart/dropmart-golang/internal/worker"
)

func main() {
	// --- Environment & configuration ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// --- Database ---
	db, err := database.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// --- Task queue (RabbitMQ) ---
	producer, err := queue.NewProducer(cfg.AMQPURL)
	if err != nil {
		log.Fatalf("Failed to connect producer to RabbitMQ: %v", err)
	}
	defer producer.Close()

	consumer, err := queue.NewConsumer(cfg.AMQPURL, 10)
	if err != nil {
		log.Fatalf("Failed to connect consumer to RabbitMQ: %v", err)
	}
	defer consumer.Close()

	// --- Background workers ---
	// The outbox relay publishes place-shipment tasks committed alongside
	// orders; the shipment worker consumes them and talks to the carrier.
	// Order creation itself never waits on the carrier API.
	taskRepo := outbox.NewRepo(sqlx.NewDb(db, "mysql"))
	relay := outbox.NewRelay(taskRepo, producer, cfg.ShipmentQueueName)
	go relay.Run(context.Background(), 5*time.Second, 50)

	carrier := shipping.NewGateway(cfg.ParcelXBaseURL, cfg.ParcelXAccessToken)
	shipmentWorker := worker.NewShipmentWorker(db, consumer, taskRepo, carrier, cfg.ShipmentQueueName)
	go func() {
		if err := shipmentWorker.Start(); err != nil {
			log.Printf("Shipment worker stopped: %v", err)
		}
	}()

	// --- HTTP server ---
	app := handlers.NewHandlers(db, cfg)
	router := routes.SetupRouter(app)

	log.Printf("Starting DropMart fulfillment API on port %s...", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
