package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/remi/shift-exchange/pkg/handlers"
	wshandlers "github.com/remi/shift-exchange/pkg/handlers/websockets"
	dydbstore "github.com/remi/shift-exchange/pkg/storage/dynamodb"
	"github.com/remi/shift-exchange/pkg/websockets"
)

// Config holds the environment configuration for the HTTP server.
type Config struct {
	OffersTable       string `envconfig:"DYNAMODB_OFFERS_TABLE_NAME" required:"true"`
	AssignmentsTable  string `envconfig:"DYNAMODB_ASSIGNMENTS_TABLE_NAME" required:"true"`
	HistoryTable      string `envconfig:"DYNAMODB_HISTORY_TABLE_NAME" required:"true"`
	ConnectionsTable  string `envconfig:"DYNAMODB_CONNECTIONS_TABLE_NAME" required:"true"`
	WebSocketEndpoint string `envconfig:"WEBSOCKET_API_ENDPOINT"`
	HTTPPort          string `envconfig:"HTTP_PORT" default:"8080"`
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("failed to process configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// AWS Session
	awsCfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := dynamodb.NewFromConfig(awsCfg)
	store := dydbstore.New(dbClient, cfg.OffersTable, cfg.AssignmentsTable, cfg.HistoryTable, cfg.ConnectionsTable)

	// The publisher pushes marketplace updates through API Gateway when an
	// endpoint is configured; local runs fall back to a no-op.
	var publisher websockets.Publisher = &websockets.NoOpPublisher{}
	if cfg.WebSocketEndpoint != "" {
		publisher, err = websockets.NewPublisher(store, store, cfg.WebSocketEndpoint)
		if err != nil {
			log.Fatalf("failed to create websocket publisher: %v", err)
		}
	}

	wsHandler := wshandlers.NewHandler(store)
	router := handlers.NewRouter(store, publisher, wsHandler, logger)

	logger.Info("starting server", "port", cfg.HTTPPort)

	if err := http.ListenAndServe(":"+cfg.HTTPPort, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
