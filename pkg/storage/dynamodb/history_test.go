package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/remi/shift-exchange/pkg/models"
	"github.com/remi/shift-exchange/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func historyFixture(id, tenant string, exchangedAt time.Time) *models.HistoryRecord {
	return &models.HistoryRecord{
		Id:             id,
		Tenant:         tenant,
		OriginalUserId: "user1",
		NewUserId:      "user2",
		Slot:           testSlot,
		Shift:          testShift,
		Status:         models.COMPLETED,
		Version:        1,
		ExchangedAt:    exchangedAt,
	}
}

func TestGetHistoryRecord(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := testStore(mockClient)

		record := historyFixture("offer-1", testTenant, time.Now())
		mockClient.On("GetItem", mock.Anything, mock.Anything).Once().Return(historyGetOutput(record), nil)

		result, err := store.GetHistoryRecord(context.Background(), "offer-1")

		assert.NoError(t, err)
		assert.Equal(t, "offer-1", result.Id)
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := testStore(mockClient)

		mockClient.On("GetItem", mock.Anything, mock.Anything).Once().Return(&dynamodb.GetItemOutput{}, nil)

		_, err := store.GetHistoryRecord(context.Background(), "offer-1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
		mockClient.AssertExpectations(t)
	})
}

func TestListHistory(t *testing.T) {
	t.Run("Via Feed Index", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := testStore(mockClient)

		record := historyFixture("offer-1", testTenant, time.Now())
		av, _ := attributevalue.MarshalMap(newHistoryItem(record))
		mockClient.On("Query", mock.Anything, mock.Anything).Once().Return(&dynamodb.QueryOutput{
			Items: []map[string]types.AttributeValue{av},
		}, nil)

		records, err := store.ListHistory(context.Background(), testTenant, 10)

		assert.NoError(t, err)
		assert.Len(t, records, 1)
		assert.Equal(t, "offer-1", records[0].Id)
		mockClient.AssertExpectations(t)
	})

	t.Run("Falls Back To Scan Without Index", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := testStore(mockClient)

		mockClient.On("Query", mock.Anything, mock.Anything).Once().Return(nil, errors.New("index not found"))

		now := time.Now()
		older := historyFixture("offer-1", testTenant, now.Add(-2*time.Hour))
		newest := historyFixture("offer-2", testTenant, now)
		foreign := historyFixture("offer-3", "other", now.Add(-time.Hour))
		middle := historyFixture("offer-4", testTenant, now.Add(-time.Hour))

		out := &dynamodb.ScanOutput{}
		for _, record := range []*models.HistoryRecord{older, newest, foreign, middle} {
			av, _ := attributevalue.MarshalMap(newHistoryItem(record))
			out.Items = append(out.Items, av)
		}
		mockClient.On("Scan", mock.Anything, mock.Anything).Once().Return(out, nil)

		records, err := store.ListHistory(context.Background(), testTenant, 2)

		assert.NoError(t, err)
		// Tenant-filtered, newest first, truncated to the limit.
		assert.Len(t, records, 2)
		assert.Equal(t, "offer-2", records[0].Id)
		assert.Equal(t, "offer-4", records[1].Id)
		mockClient.AssertExpectations(t)
	})
}
