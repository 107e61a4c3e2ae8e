package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/remi/shift-exchange/pkg/models"
	"github.com/remi/shift-exchange/pkg/storage"
)

// ExpressInterest adds a user to an offer's interested set. The set is stored
// as a DynamoDB string set, so the toggle is a single ADD update and is
// naturally idempotent.
func (s *Store) ExpressInterest(ctx context.Context, offerID, userID string) error {
	offer, err := s.getOfferItemByID(ctx, offerID)
	if err != nil {
		return err
	}
	if err := requirePending(&offer.Offer); err != nil {
		return err
	}

	// A user who already received this slot through another completed
	// exchange cannot bid again: two simultaneous trades must not
	// double-book the same person.
	booked, err := s.hasCompletedExchangeAt(ctx, offer.Tenant, userID, offer.Slot, offerID)
	if err != nil {
		return err
	}
	if booked {
		return storage.ErrUserHasGuard
	}

	return s.toggleInterest(ctx, offer, userID, "ADD")
}

// WithdrawInterest removes a user from an offer's interested set.
func (s *Store) WithdrawInterest(ctx context.Context, offerID, userID string) error {
	offer, err := s.getOfferItemByID(ctx, offerID)
	if err != nil {
		return err
	}
	if err := requirePending(&offer.Offer); err != nil {
		return err
	}

	return s.toggleInterest(ctx, offer, userID, "DELETE")
}

// requirePending distinguishes "lost to a concurrent match" from every other
// wrong-status case, so the caller can tell the user why the offer is gone.
func requirePending(offer *models.Offer) error {
	switch offer.Status {
	case models.PENDING:
		return nil
	case models.UNAVAILABLE:
		return storage.ErrExchangeUnavailable
	default:
		return storage.ErrInvalidExchange
	}
}

func (s *Store) toggleInterest(ctx context.Context, offer *offerItem, userID, verb string) error {
	key, err := attributevalue.MarshalMap(map[string]string{
		"slot_key": offer.SlotKey,
		"sk":       offer.SK,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal offer key: %w", err)
	}
	nowAV, err := attributevalue.Marshal(time.Now())
	if err != nil {
		return fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	_, err = s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.OffersTableName),
		Key:       key,
		UpdateExpression: aws.String(
			verb + " interested_users :user SET last_modified = :now, version = version + :inc"),
		ConditionExpression: aws.String("#status = :pending"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":user":    &types.AttributeValueMemberSS{Value: []string{userID}},
			":now":     nowAV,
			":pending": &types.AttributeValueMemberS{Value: string(models.PENDING)},
			":inc":     &types.AttributeValueMemberN{Value: "1"},
		},
	})
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			// The offer left PENDING between our read and the write.
			// Re-read so the caller gets the reason, not just a failure.
			fresh, freshErr := s.getOfferItemByID(ctx, offer.Id)
			if freshErr != nil {
				return freshErr
			}
			return requirePending(&fresh.Offer)
		}
		return fmt.Errorf("failed to update interested users: %w", err)
	}

	return nil
}

// hasCompletedExchangeAt reports whether a completed history record other
// than excludeID already places the user at the slot.
func (s *Store) hasCompletedExchangeAt(ctx context.Context, tenant, userID string, slot models.Slot, excludeID string) (bool, error) {
	result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.HistoryTableName),
		IndexName:              aws.String(historyUserSlotIndex),
		KeyConditionExpression: aws.String("gsi2pk = :pk AND gsi2sk = :sk"),
		FilterExpression:       aws.String("#status = :completed"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":        &types.AttributeValueMemberS{Value: userPartitionKey(tenant, userID)},
			":sk":        &types.AttributeValueMemberS{Value: slot.Key()},
			":completed": &types.AttributeValueMemberS{Value: string(models.COMPLETED)},
		},
	})
	if err != nil {
		return false, fmt.Errorf("failed to query history for user slot: %w", err)
	}

	var records []models.HistoryRecord
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &records); err != nil {
		return false, fmt.Errorf("failed to unmarshal history records: %w", err)
	}
	for _, rec := range records {
		if rec.Id != excludeID {
			return true, nil
		}
	}
	return false, nil
}
