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
)

// ListExpiredPendingOffers retrieves pending offers whose slot date is
// strictly before the given day, across all tenants. The sweep runs rarely,
// so a paged scan is acceptable here.
func (s *Store) ListExpiredPendingOffers(ctx context.Context, asOf time.Time) ([]models.Offer, error) {
	cutoff := asOf.Format(dateLayout)

	var offers []models.Offer
	var startKey map[string]types.AttributeValue

	for {
		result, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
			TableName:        aws.String(s.OffersTableName),
			FilterExpression: aws.String("begins_with(sk, :prefix) AND #status = :pending AND #date < :cutoff"),
			ExpressionAttributeNames: map[string]string{
				"#status": "status",
				"#date":   "date",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":prefix":  &types.AttributeValueMemberS{Value: offerSortPrefix},
				":pending": &types.AttributeValueMemberS{Value: string(models.PENDING)},
				":cutoff":  &types.AttributeValueMemberS{Value: cutoff},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan for expired offers: %w", err)
		}

		var items []offerItem
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal expired offers: %w", err)
		}
		for _, item := range items {
			offers = append(offers, item.Offer)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	return offers, nil
}

// ExpireOffer sweeps one pending offer to CANCELLED. An offer that already
// left PENDING is treated as swept; the sweep is safe to repeat.
func (s *Store) ExpireOffer(ctx context.Context, offerID string) error {
	offer, err := s.getOfferItemByID(ctx, offerID)
	if err != nil {
		return err
	}
	if offer.Status != models.PENDING {
		return nil
	}

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
		TableName:           aws.String(s.OffersTableName),
		Key:                 key,
		UpdateExpression:    aws.String("SET #status = :cancelled, last_modified = :now, version = version + :inc"),
		ConditionExpression: aws.String("#status = :pending"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cancelled": &types.AttributeValueMemberS{Value: string(models.CANCELLED)},
			":pending":   &types.AttributeValueMemberS{Value: string(models.PENDING)},
			":now":       nowAV,
			":inc":       &types.AttributeValueMemberN{Value: "1"},
		},
	})
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil
		}
		return fmt.Errorf("failed to expire offer: %w", err)
	}

	return nil
}
