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

// CancelOffer toggles an offer between PENDING and CANCELLED, so the UI's
// single cancel/restore button maps onto one operation. UNAVAILABLE and
// VALIDATED offers are reached only through the match and revert flows and
// cannot be toggled here.
func (s *Store) CancelOffer(ctx context.Context, offerID string) (*models.Offer, error) {
	offer, err := s.getOfferItemByID(ctx, offerID)
	if err != nil {
		return nil, err
	}

	var next models.OfferStatus
	switch offer.Status {
	case models.PENDING:
		next = models.CANCELLED
	case models.CANCELLED:
		next = models.PENDING
	case models.UNAVAILABLE:
		return nil, storage.ErrExchangeUnavailable
	default:
		return nil, storage.ErrInvalidExchange
	}

	now := time.Now()
	key, err := attributevalue.MarshalMap(map[string]string{
		"slot_key": offer.SlotKey,
		"sk":       offer.SK,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal offer key: %w", err)
	}
	nowAV, err := attributevalue.Marshal(now)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	_, err = s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.OffersTableName),
		Key:                 key,
		UpdateExpression:    aws.String("SET #status = :next, last_modified = :now, version = version + :inc"),
		ConditionExpression: aws.String("#status = :seen AND version = :version"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":next":    &types.AttributeValueMemberS{Value: string(next)},
			":seen":    &types.AttributeValueMemberS{Value: string(offer.Status)},
			":version": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", offer.Version)},
			":now":     nowAV,
			":inc":     &types.AttributeValueMemberN{Value: "1"},
		},
	})
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			// Concurrent writer won; the offer is no longer what we read.
			return nil, storage.ErrExchangeUnavailable
		}
		return nil, fmt.Errorf("failed to toggle offer status: %w", err)
	}

	updated := offer.Offer
	updated.Status = next
	updated.Version++
	updated.LastModified = now
	return &updated, nil
}
