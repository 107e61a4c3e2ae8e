package dynamodb

import (
	"context"
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

func TestListExpiredPendingOffers(t *testing.T) {
	mockClient := new(mocks.DynamoDBAPI)
	store := testStore(mockClient)

	expired := offerFixture("offer-1", "user1", models.PENDING, 1)
	expired.Slot = models.Slot{Date: "2025-09-01", Period: models.MORNING}
	av, _ := attributevalue.MarshalMap(newOfferItem(expired))

	mockClient.On("Scan", mock.Anything, mock.Anything).Once().Return(&dynamodb.ScanOutput{
		Items: []map[string]types.AttributeValue{av},
	}, nil)

	offers, err := store.ListExpiredPendingOffers(context.Background(), time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC))

	assert.NoError(t, err)
	assert.Len(t, offers, 1)
	assert.Equal(t, "offer-1", offers[0].Id)
	mockClient.AssertExpectations(t)
}

func TestExpireOffer(t *testing.T) {
	t.Run("Sweeps Pending Offer", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := testStore(mockClient)

		offer := offerFixture("offer-1", "user1", models.PENDING, 1)
		mockClient.On("Query", mock.Anything, mock.Anything).Once().Return(offerQueryOutput(offer), nil)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Once().Return(offerGetOutput(offer), nil)
		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Once().Return(&dynamodb.UpdateItemOutput{}, nil)

		err := store.ExpireOffer(context.Background(), "offer-1")

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Already Left Pending", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := testStore(mockClient)

		offer := offerFixture("offer-1", "user1", models.VALIDATED, 2)
		mockClient.On("Query", mock.Anything, mock.Anything).Once().Return(offerQueryOutput(offer), nil)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Once().Return(offerGetOutput(offer), nil)

		err := store.ExpireOffer(context.Background(), "offer-1")

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Lost Sweep Race", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := testStore(mockClient)

		offer := offerFixture("offer-1", "user1", models.PENDING, 1)
		mockClient.On("Query", mock.Anything, mock.Anything).Once().Return(offerQueryOutput(offer), nil)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Once().Return(offerGetOutput(offer), nil)
		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Once().Return(nil, &types.ConditionalCheckFailedException{})

		// Someone matched or cancelled the offer first; the sweep is a no-op.
		err := store.ExpireOffer(context.Background(), "offer-1")

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})
}
