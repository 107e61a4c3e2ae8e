package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/remi/shift-exchange/pkg/models"
	"github.com/remi/shift-exchange/pkg/storage"
)

// CreateOffer lists a shift for exchange. The offering user must currently
// hold the claimed shift in the assignment map. A cancelled or still-pending
// listing for the same user and slot is reactivated in place; a listing in
// any other state rejects the call.
func (s *Store) CreateOffer(ctx context.Context, offer *models.Offer) (*models.Offer, error) {
	// 1. The roster must back the offer's claim before anything is written.
	assignment, err := s.getAssignment(ctx, offer.Tenant, offer.UserId, offer.Slot)
	if err != nil {
		return nil, fmt.Errorf("failed to get offering user's assignment: %w", err)
	}
	if assignment == nil || !assignment.Shift.Matches(offer.Shift) {
		return nil, storage.ErrGuardNotFound
	}

	// 2. Look for an existing listing by this user for this slot.
	claim, err := s.getClaim(ctx, offer.Tenant, offer.UserId, offer.Slot)
	if err != nil {
		return nil, err
	}
	if claim != nil {
		existing, err := s.getOfferItemByID(ctx, claim.OfferId)
		if err != nil {
			return nil, fmt.Errorf("failed to load existing offer for slot: %w", err)
		}
		return s.reactivateOffer(ctx, existing, offer.Comment)
	}

	// 3. No prior listing: create a fresh offer document plus the claim
	// marker whose conditional put guards against a concurrent duplicate.
	now := time.Now()
	offer.Id = uuid.New().String()
	offer.Status = models.PENDING
	offer.InterestedUsers = nil
	offer.Version = 1
	offer.CreatedAt = now
	offer.LastModified = now

	slog.Log(ctx, slog.LevelDebug, "creating offer", "offer", offer)

	offerAV, err := attributevalue.MarshalMap(newOfferItem(offer))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal offer: %w", err)
	}
	claimAV, err := attributevalue.MarshalMap(claimItem{
		SlotKey: slotPartitionKey(offer.Tenant, offer.Slot),
		SK:      claimSortKey(offer.UserId),
		OfferId: offer.Id,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal claim: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Claim the (user, slot) listing.
				Put: &types.Put{
					TableName:           aws.String(s.OffersTableName),
					Item:                claimAV,
					ConditionExpression: aws.String("attribute_not_exists(sk)"),
				},
			},
			{
				// Operation 2: Create the offer document.
				Put: &types.Put{
					TableName:           aws.String(s.OffersTableName),
					Item:                offerAV,
					ConditionExpression: aws.String("attribute_not_exists(sk)"),
				},
			},
		},
	}

	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		return nil, translateCanceled(err, []error{storage.ErrGuardAlreadyExchanged, storage.ErrGuardAlreadyExchanged})
	}

	return offer, nil
}

// reactivateOffer flips an existing listing back to PENDING with an updated
// comment instead of duplicating it.
func (s *Store) reactivateOffer(ctx context.Context, existing *offerItem, comment string) (*models.Offer, error) {
	switch existing.Status {
	case models.PENDING, models.CANCELLED:
	default:
		return nil, storage.ErrInvalidExchange
	}

	now := time.Now()
	key, err := attributevalue.MarshalMap(map[string]string{
		"slot_key": existing.SlotKey,
		"sk":       existing.SK,
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
		UpdateExpression:    aws.String("SET #status = :pending, #comment = :comment, last_modified = :now, version = version + :inc"),
		ConditionExpression: aws.String("#status = :seen AND version = :version"),
		ExpressionAttributeNames: map[string]string{
			"#status":  "status",
			"#comment": "comment",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pending": &types.AttributeValueMemberS{Value: string(models.PENDING)},
			":comment": &types.AttributeValueMemberS{Value: comment},
			":now":     nowAV,
			":seen":    &types.AttributeValueMemberS{Value: string(existing.Status)},
			":version": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", existing.Version)},
			":inc":     &types.AttributeValueMemberN{Value: "1"},
		},
	})
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, storage.ErrGuardAlreadyExchanged
		}
		return nil, fmt.Errorf("failed to reactivate offer: %w", err)
	}

	updated := existing.Offer
	updated.Status = models.PENDING
	updated.Comment = comment
	updated.Version++
	updated.LastModified = now
	return &updated, nil
}
