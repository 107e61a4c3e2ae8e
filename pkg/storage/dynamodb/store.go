package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/remi/shift-exchange/pkg/storage"
)

// DynamoDBAPI captures the subset of the DynamoDB client the store uses.
// Declared here so tests can substitute a mock for the real client.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Store implements the Storage interface using AWS DynamoDB.
// Every multi-document operation performs all of its reads first and then
// commits a single TransactWriteItems call whose condition expressions
// re-assert what was read; a concurrent writer makes the commit fail as a
// unit, never partially.
type Store struct {
	Client               DynamoDBAPI
	OffersTableName      string
	AssignmentsTableName string
	HistoryTableName     string
	ConnectionsTableName string
}

// New creates a new Store.
func New(client DynamoDBAPI, offersTable, assignmentsTable, historyTable, connectionsTable string) *Store {
	return &Store{
		Client:               client,
		OffersTableName:      offersTable,
		AssignmentsTableName: assignmentsTable,
		HistoryTableName:     historyTable,
		ConnectionsTableName: connectionsTable,
	}
}

// Make sure we conform to the interfaces
var _ storage.Storage = (*Store)(nil)
var _ storage.WebSocketManager = (*Store)(nil)
