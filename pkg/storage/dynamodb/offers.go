package dynamodb

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/remi/shift-exchange/pkg/models"
)

const dateLayout = "2006-01-02"

// getOfferItemByID resolves an offer id to its full stored item. The id index
// locates the table keys; the follow-up GetItem is strongly consistent so
// every engine operation starts from fresh state.
func (s *Store) getOfferItemByID(ctx context.Context, offerID string) (*offerItem, error) {
	result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.OffersTableName),
		IndexName:              aws.String(offerIDIndex),
		KeyConditionExpression: aws.String("id = :id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id": &types.AttributeValueMemberS{Value: offerID},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query offer by id: %w", err)
	}
	if len(result.Items) == 0 {
		return nil, fmt.Errorf("offer with ID %s not found", offerID)
	}

	var located offerItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &located); err != nil {
		return nil, fmt.Errorf("failed to unmarshal offer: %w", err)
	}

	key, err := attributevalue.MarshalMap(map[string]string{
		"slot_key": located.SlotKey,
		"sk":       located.SK,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal offer key: %w", err)
	}

	fresh, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.OffersTableName),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get offer from DynamoDB: %w", err)
	}
	if fresh.Item == nil {
		return nil, fmt.Errorf("offer with ID %s not found", offerID)
	}

	var item offerItem
	if err := attributevalue.UnmarshalMap(fresh.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal offer: %w", err)
	}
	return &item, nil
}

// GetOffer retrieves an offer by its ID.
func (s *Store) GetOffer(ctx context.Context, offerID string) (*models.Offer, error) {
	item, err := s.getOfferItemByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	offer := item.Offer
	return &offer, nil
}

// queryOffersBySlot reads every offer document in a slot partition with a
// strongly consistent Query on the base table.
func (s *Store) queryOffersBySlot(ctx context.Context, tenant string, slot models.Slot) ([]offerItem, error) {
	result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.OffersTableName),
		KeyConditionExpression: aws.String("slot_key = :pk AND begins_with(sk, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: slotPartitionKey(tenant, slot)},
			":prefix": &types.AttributeValueMemberS{Value: offerSortPrefix},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query offers for slot: %w", err)
	}

	var items []offerItem
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal offers for slot: %w", err)
	}
	return items, nil
}

// getClaim reads the per-user listing marker for a slot, nil when absent.
func (s *Store) getClaim(ctx context.Context, tenant, userID string, slot models.Slot) (*claimItem, error) {
	key, err := attributevalue.MarshalMap(map[string]string{
		"slot_key": slotPartitionKey(tenant, slot),
		"sk":       claimSortKey(userID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal claim key: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.OffersTableName),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get claim from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, nil
	}

	var claim claimItem
	if err := attributevalue.UnmarshalMap(result.Item, &claim); err != nil {
		return nil, fmt.Errorf("failed to unmarshal claim: %w", err)
	}
	return &claim, nil
}

// ListActiveOffers retrieves the pending offers of a tenant from the given day
// forward, ordered by slot date. It prefers the active-feed index and falls
// back to a full scan with in-memory filtering and sorting when the index is
// not available; callers see identical results either way.
func (s *Store) ListActiveOffers(ctx context.Context, tenant string, from time.Time) ([]models.Offer, error) {
	fromDate := from.Format(dateLayout)

	result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.OffersTableName),
		IndexName:              aws.String(activeFeedIndex),
		KeyConditionExpression: aws.String("gsi1pk = :pk AND #date >= :from"),
		FilterExpression:       aws.String("#status = :pending"),
		ExpressionAttributeNames: map[string]string{
			"#date":   "date",
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":      &types.AttributeValueMemberS{Value: offerFeedPartition(tenant)},
			":from":    &types.AttributeValueMemberS{Value: fromDate},
			":pending": &types.AttributeValueMemberS{Value: string(models.PENDING)},
		},
	})
	if err != nil {
		slog.Log(ctx, slog.LevelDebug, "active-feed index query failed, falling back to scan", "error", err)
		return s.scanActiveOffers(ctx, tenant, fromDate)
	}

	var items []offerItem
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal active offers: %w", err)
	}

	offers := make([]models.Offer, 0, len(items))
	for _, item := range items {
		offers = append(offers, item.Offer)
	}
	sortOffersBySlot(offers)
	return offers, nil
}

// scanActiveOffers is the index-less fallback: an unordered full read of the
// offers table, filtered and sorted in memory.
func (s *Store) scanActiveOffers(ctx context.Context, tenant, fromDate string) ([]models.Offer, error) {
	var offers []models.Offer
	var startKey map[string]types.AttributeValue

	for {
		result, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
			TableName:        aws.String(s.OffersTableName),
			FilterExpression: aws.String("begins_with(sk, :prefix)"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":prefix": &types.AttributeValueMemberS{Value: offerSortPrefix},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan offers: %w", err)
		}

		var items []offerItem
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scanned offers: %w", err)
		}
		for _, item := range items {
			if item.Tenant != tenant || item.Status != models.PENDING {
				continue
			}
			if item.Slot.Date < fromDate {
				continue
			}
			offers = append(offers, item.Offer)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	sortOffersBySlot(offers)
	return offers, nil
}

var periodRank = map[models.Period]int{
	models.MORNING:   0,
	models.AFTERNOON: 1,
	models.EVENING:   2,
}

func sortOffersBySlot(offers []models.Offer) {
	sort.SliceStable(offers, func(i, j int) bool {
		if offers[i].Slot.Date != offers[j].Slot.Date {
			return offers[i].Slot.Date < offers[j].Slot.Date
		}
		if offers[i].Slot.Period != offers[j].Slot.Period {
			return periodRank[offers[i].Slot.Period] < periodRank[offers[j].Slot.Period]
		}
		return strings.Compare(offers[i].Id, offers[j].Id) < 0
	})
}
