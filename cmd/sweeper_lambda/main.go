package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
	"github.com/remi/shift-exchange/pkg/models"
	"github.com/remi/shift-exchange/pkg/storage"
	dydbstore "github.com/remi/shift-exchange/pkg/storage/dynamodb"
)

var store storage.Storage

func init() {
	// Load environment variables from .env file (useful for local testing).
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := dynamodb.NewFromConfig(cfg)
	offersTable := os.Getenv("DYNAMODB_OFFERS_TABLE_NAME")
	assignmentsTable := os.Getenv("DYNAMODB_ASSIGNMENTS_TABLE_NAME")
	historyTable := os.Getenv("DYNAMODB_HISTORY_TABLE_NAME")
	connectionsTable := os.Getenv("DYNAMODB_CONNECTIONS_TABLE_NAME")

	if offersTable == "" || assignmentsTable == "" || historyTable == "" {
		log.Fatal("One or more DynamoDB table name environment variables are not set")
	}

	store = dydbstore.New(dbClient, offersTable, assignmentsTable, historyTable, connectionsTable)
}

// HandleRequest processes SQS messages and cancels the expired offers.
func HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) error {
	for _, message := range sqsEvent.Records {
		log.Printf("Processing message %s", message.MessageId)

		var offer models.Offer
		if err := json.Unmarshal([]byte(message.Body), &offer); err != nil {
			log.Printf("ERROR: failed to unmarshal offer from SQS message %s: %v", message.MessageId, err)
			// Returning an error will cause SQS to retry the message, which is appropriate here.
			return err
		}

		log.Printf("Attempting to expire offer %s", offer.Id)

		if err := store.ExpireOffer(ctx, offer.Id); err != nil {
			log.Printf("ERROR: failed to expire offer %s: %v", offer.Id, err)
			return err
		}

		log.Printf("Successfully expired offer %s", offer.Id)
	}

	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
