package dynamodb

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/remi/shift-exchange/pkg/models"
)

// Shared fixtures for the store tests.

const testTenant = "amc"

var (
	testSlot  = models.Slot{Date: "2025-10-18", Period: models.MORNING}
	testShift = models.ShiftDescriptor{ShiftType: "G", TimeSlot: "08:00 - 14:00"}
)

func testStore(client DynamoDBAPI) *Store {
	return New(client, "offers", "assignments", "history", "connections")
}

func offerFixture(id, userID string, status models.OfferStatus, version int64, interested ...string) *models.Offer {
	return &models.Offer{
		Id:              id,
		Tenant:          testTenant,
		UserId:          userID,
		Slot:            testSlot,
		Shift:           testShift,
		InterestedUsers: interested,
		Status:          status,
		Version:         version,
	}
}

func offerQueryOutput(offers ...*models.Offer) *dynamodb.QueryOutput {
	out := &dynamodb.QueryOutput{}
	for _, offer := range offers {
		av, _ := attributevalue.MarshalMap(newOfferItem(offer))
		out.Items = append(out.Items, av)
	}
	return out
}

func offerGetOutput(offer *models.Offer) *dynamodb.GetItemOutput {
	av, _ := attributevalue.MarshalMap(newOfferItem(offer))
	return &dynamodb.GetItemOutput{Item: av}
}

func assignmentOutput(userID string, shift models.ShiftDescriptor, version int64) *dynamodb.GetItemOutput {
	a := &models.Assignment{Tenant: testTenant, UserId: userID, Slot: testSlot, Shift: shift, Version: version}
	av, _ := attributevalue.MarshalMap(newAssignmentItem(a))
	return &dynamodb.GetItemOutput{Item: av}
}

func claimOutput(userID, offerID string) *dynamodb.GetItemOutput {
	av, _ := attributevalue.MarshalMap(claimItem{
		SlotKey: slotPartitionKey(testTenant, testSlot),
		SK:      claimSortKey(userID),
		OfferId: offerID,
	})
	return &dynamodb.GetItemOutput{Item: av}
}

func historyGetOutput(record *models.HistoryRecord) *dynamodb.GetItemOutput {
	av, _ := attributevalue.MarshalMap(newHistoryItem(record))
	return &dynamodb.GetItemOutput{Item: av}
}

// canceledAt builds the transaction failure DynamoDB reports when the
// conditional check of one transact item fails.
func canceledAt(failedIndex, total int) *types.TransactionCanceledException {
	reasons := make([]types.CancellationReason, total)
	for i := range reasons {
		reasons[i] = types.CancellationReason{Code: aws.String("None")}
	}
	reasons[failedIndex] = types.CancellationReason{Code: aws.String("ConditionalCheckFailed")}
	return &types.TransactionCanceledException{CancellationReasons: reasons}
}
