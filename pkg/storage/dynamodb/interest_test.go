package dynamodb

import (
	"context"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/remi/shift-exchange/pkg/models"
	"github.com/remi/shift-exchange/pkg/storage"
	"github.com/remi/shift-exchange/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestExpressInterest(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := testStore(mockClient)

		offer := offerFixture("offer-1", "user1", models.PENDING, 1)
		mockClient.On("Query", mock.Anything, mock.Anything).Once().Return(offerQueryOutput(offer), nil)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Once().Return(offerGetOutput(offer), nil)

		// No completed exchange already books user2 at the slot.
		mockClient.On("Query", mock.Anything, mock.Anything).Once().Return(&dynamodb.QueryOutput{}, nil)

		mockClient.On("UpdateItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
			return strings.HasPrefix(*in.UpdateExpression, "ADD interested_users")
		})).Once().Return(&dynamodb.UpdateItemOutput{}, nil)

		err := store.ExpressInterest(context.Background(), "offer-1", "user2")

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Offer Sidelined", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := testStore(mockClient)

		offer := offerFixture("offer-1", "user1", models.UNAVAILABLE, 2)
		mockClient.On("Query", mock.Anything, mock.Anything).Once().Return(offerQueryOutput(offer), nil)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Once().Return(offerGetOutput(offer), nil)

		err := store.ExpressInterest(context.Background(), "offer-1", "user2")

		assert.ErrorIs(t, err, storage.ErrExchangeUnavailable)
		mockClient.AssertExpectations(t)
	})

	t.Run("User Already Booked Through Another Exchange", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := testStore(mockClient)

		offer := offerFixture("offer-1", "user1", models.PENDING, 1)
		mockClient.On("Query", mock.Anything, mock.Anything).Once().Return(offerQueryOutput(offer), nil)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Once().Return(offerGetOutput(offer), nil)

		booked := &models.HistoryRecord{Id: "offer-9", Tenant: testTenant, NewUserId: "user2", Slot: testSlot, Status: models.COMPLETED}
		bookedAV, _ := attributevalue.MarshalMap(newHistoryItem(booked))
		mockClient.On("Query", mock.Anything, mock.Anything).Once().Return(&dynamodb.QueryOutput{
			Items: []map[string]types.AttributeValue{bookedAV},
		}, nil)

		err := store.ExpressInterest(context.Background(), "offer-1", "user2")

		assert.ErrorIs(t, err, storage.ErrUserHasGuard)
		mockClient.AssertExpectations(t)
	})

	t.Run("Offer Matched Between Read And Write", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := testStore(mockClient)

		pending := offerFixture("offer-1", "user1", models.PENDING, 1)
		mockClient.On("Query", mock.Anything, mock.Anything).Once().Return(offerQueryOutput(pending), nil)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Once().Return(offerGetOutput(pending), nil)
		mockClient.On("Query", mock.Anything, mock.Anything).Once().Return(&dynamodb.QueryOutput{}, nil)

		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Once().Return(nil, &types.ConditionalCheckFailedException{})

		// The re-read shows why the write was rejected.
		sidelined := offerFixture("offer-1", "user1", models.UNAVAILABLE, 2)
		mockClient.On("Query", mock.Anything, mock.Anything).Once().Return(offerQueryOutput(sidelined), nil)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Once().Return(offerGetOutput(sidelined), nil)

		err := store.ExpressInterest(context.Background(), "offer-1", "user2")

		assert.ErrorIs(t, err, storage.ErrExchangeUnavailable)
		mockClient.AssertExpectations(t)
	})
}

func TestWithdrawInterest(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := testStore(mockClient)

		offer := offerFixture("offer-1", "user1", models.PENDING, 2, "user2")
		mockClient.On("Query", mock.Anything, mock.Anything).Once().Return(offerQueryOutput(offer), nil)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Once().Return(offerGetOutput(offer), nil)

		mockClient.On("UpdateItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
			return strings.HasPrefix(*in.UpdateExpression, "DELETE interested_users")
		})).Once().Return(&dynamodb.UpdateItemOutput{}, nil)

		err := store.WithdrawInterest(context.Background(), "offer-1", "user2")

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Offer Not Pending", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := testStore(mockClient)

		offer := offerFixture("offer-1", "user1", models.VALIDATED, 3, "user2")
		mockClient.On("Query", mock.Anything, mock.Anything).Once().Return(offerQueryOutput(offer), nil)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Once().Return(offerGetOutput(offer), nil)

		err := store.WithdrawInterest(context.Background(), "offer-1", "user2")

		assert.ErrorIs(t, err, storage.ErrInvalidExchange)
		mockClient.AssertExpectations(t)
	})
}
