package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"
	"github.com/remi/shift-exchange/pkg/scheduler"
	"github.com/remi/shift-exchange/pkg/storage"
	dydbstore "github.com/remi/shift-exchange/pkg/storage/dynamodb"
)

var store storage.Storage
var sqsScheduler scheduler.Scheduler

func init() {
	// Load environment variables for local testing.
	godotenv.Load()

	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := dynamodb.NewFromConfig(cfg)
	sqsClient := sqs.NewFromConfig(cfg)

	sqsQueueURL := os.Getenv("SQS_QUEUE_URL")
	if sqsQueueURL == "" {
		log.Fatal("SQS_QUEUE_URL environment variable not set")
	}
	sqsScheduler = scheduler.NewSQSScheduler(sqsClient, sqsQueueURL)

	offersTable := os.Getenv("DYNAMODB_OFFERS_TABLE_NAME")
	assignmentsTable := os.Getenv("DYNAMODB_ASSIGNMENTS_TABLE_NAME")
	historyTable := os.Getenv("DYNAMODB_HISTORY_TABLE_NAME")
	connectionsTable := os.Getenv("DYNAMODB_CONNECTIONS_TABLE_NAME")

	store = dydbstore.New(dbClient, offersTable, assignmentsTable, historyTable, connectionsTable)
}

// HandleRequest is triggered by an EventBridge Schedule. It finds pending
// offers whose slot date has passed and enqueues them for the sweeper.
func HandleRequest(ctx context.Context) error {
	log.Println("Starting expiry sweep for stale offers...")

	expiredOffers, err := store.ListExpiredPendingOffers(ctx, time.Now())
	if err != nil {
		log.Printf("ERROR: failed to list expired offers: %v", err)
		return err
	}

	if len(expiredOffers) == 0 {
		log.Println("No expired offers found.")
		return nil
	}

	log.Printf("Found %d expired offers. Enqueuing them...", len(expiredOffers))

	for _, offer := range expiredOffers {
		if err := sqsScheduler.ScheduleSweep(ctx, &offer); err != nil {
			log.Printf("ERROR: failed to enqueue offer %s: %v", offer.Id, err)
			// Continue to the next offer, don't let one failure stop the whole batch.
			continue
		}
		log.Printf("Successfully enqueued offer %s", offer.Id)
	}

	log.Println("Expiry sweep finished.")
	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
