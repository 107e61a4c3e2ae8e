package dynamodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/remi/shift-exchange/pkg/models"
	"github.com/remi/shift-exchange/pkg/storage"
)

// ValidateMatch commits a match between the offering user and one interested
// user. All reads happen up front; the commit is a single TransactWriteItems
// whose condition expressions re-assert everything that was read, so two
// concurrent matches on the same slot cannot both succeed — the loser's
// conditional checks fail and the whole commit aborts with no partial state.
func (s *Store) ValidateMatch(ctx context.Context, offerID, interestedUserID, validatedBy string) (*models.HistoryRecord, error) {
	// 1. Reads.
	offer, err := s.getOfferItemByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if err := requirePending(&offer.Offer); err != nil {
		return nil, err
	}
	if !offer.IsInterested(interestedUserID) {
		return nil, storage.ErrInvalidExchange
	}

	// Every other pending offer for this slot loses once this match commits:
	// a shift can only be given away once, and the sidelining happens in the
	// same commit as the win.
	slotOffers, err := s.queryOffersBySlot(ctx, offer.Tenant, offer.Slot)
	if err != nil {
		return nil, err
	}
	var siblings []offerItem
	for _, item := range slotOffers {
		if item.Id != offer.Id && item.Status == models.PENDING {
			siblings = append(siblings, item)
		}
	}

	offererAssignment, err := s.getAssignment(ctx, offer.Tenant, offer.UserId, offer.Slot)
	if err != nil {
		return nil, fmt.Errorf("failed to get offering user's assignment: %w", err)
	}
	if offererAssignment == nil || !offererAssignment.Shift.Matches(offer.Shift) {
		return nil, storage.ErrGuardNotFound
	}

	// Existence only: holding any shift at the slot makes this a permutation,
	// holding none makes it a simple transfer. There is no third option.
	interestedAssignment, err := s.getAssignment(ctx, offer.Tenant, interestedUserID, offer.Slot)
	if err != nil {
		return nil, fmt.Errorf("failed to get interested user's assignment: %w", err)
	}
	isPermutation := interestedAssignment != nil

	// 2. Build the commit.
	now := time.Now()
	nowAV, err := attributevalue.Marshal(now)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	record := &models.HistoryRecord{
		Id:              offer.Id,
		Tenant:          offer.Tenant,
		OriginalUserId:  offer.UserId,
		NewUserId:       interestedUserID,
		Slot:            offer.Slot,
		Shift:           offererAssignment.Shift,
		IsPermutation:   isPermutation,
		Status:          models.COMPLETED,
		Comment:         offer.Comment,
		InterestedUsers: offer.InterestedUsers,
		ValidatedBy:     validatedBy,
		Version:         1,
		ExchangedAt:     now,
	}
	if isPermutation {
		shift := interestedAssignment.Shift
		record.NewUserShift = &shift
	}
	recordAV, err := attributevalue.MarshalMap(newHistoryItem(record))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal history record: %w", err)
	}

	items := make([]types.TransactWriteItem, 0, len(siblings)+4)
	kinds := make([]error, 0, len(siblings)+4)

	// Operation 1: the winning offer becomes VALIDATED.
	offerKey, err := attributevalue.MarshalMap(map[string]string{
		"slot_key": offer.SlotKey,
		"sk":       offer.SK,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal offer key: %w", err)
	}
	items = append(items, types.TransactWriteItem{
		Update: &types.Update{
			TableName:           aws.String(s.OffersTableName),
			Key:                 offerKey,
			UpdateExpression:    aws.String("SET #status = :validated, last_modified = :now, version = version + :inc"),
			ConditionExpression: aws.String("#status = :pending AND version = :version"),
			ExpressionAttributeNames: map[string]string{
				"#status": "status",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":validated": &types.AttributeValueMemberS{Value: string(models.VALIDATED)},
				":pending":   &types.AttributeValueMemberS{Value: string(models.PENDING)},
				":version":   &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", offer.Version)},
				":now":       nowAV,
				":inc":       &types.AttributeValueMemberN{Value: "1"},
			},
		},
	})
	kinds = append(kinds, storage.ErrExchangeUnavailable)

	// Operation 2..n: sideline every competing pending offer for the slot.
	for _, sibling := range siblings {
		siblingKey, err := attributevalue.MarshalMap(map[string]string{
			"slot_key": sibling.SlotKey,
			"sk":       sibling.SK,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal sibling offer key: %w", err)
		}
		items = append(items, types.TransactWriteItem{
			Update: &types.Update{
				TableName:           aws.String(s.OffersTableName),
				Key:                 siblingKey,
				UpdateExpression:    aws.String("SET #status = :unavailable, last_modified = :now, version = version + :inc"),
				ConditionExpression: aws.String("#status = :pending AND version = :version"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":unavailable": &types.AttributeValueMemberS{Value: string(models.UNAVAILABLE)},
					":pending":     &types.AttributeValueMemberS{Value: string(models.PENDING)},
					":version":     &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", sibling.Version)},
					":now":         nowAV,
					":inc":         &types.AttributeValueMemberN{Value: "1"},
				},
			},
		})
		kinds = append(kinds, storage.ErrExchangeUnavailable)
	}

	// Operation n+1: the offering user's assignment entry.
	offererKey, err := attributevalue.MarshalMap(map[string]string{
		"user_key": userPartitionKey(offer.Tenant, offer.UserId),
		"slot_key": offer.Slot.Key(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal assignment key: %w", err)
	}
	if isPermutation {
		shiftAV, err := attributevalue.Marshal(interestedAssignment.Shift)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal swapped shift: %w", err)
		}
		items = append(items, types.TransactWriteItem{
			Update: &types.Update{
				TableName:           aws.String(s.AssignmentsTableName),
				Key:                 offererKey,
				UpdateExpression:    aws.String("SET shift = :shift, updated_at = :now, version = version + :inc"),
				ConditionExpression: aws.String("version = :version"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":shift":   shiftAV,
					":now":     nowAV,
					":version": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", offererAssignment.Version)},
					":inc":     &types.AttributeValueMemberN{Value: "1"},
				},
			},
		})
	} else {
		items = append(items, types.TransactWriteItem{
			Delete: &types.Delete{
				TableName:           aws.String(s.AssignmentsTableName),
				Key:                 offererKey,
				ConditionExpression: aws.String("version = :version"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":version": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", offererAssignment.Version)},
				},
			},
		})
	}
	kinds = append(kinds, storage.ErrGuardNotFound)

	// Operation n+2: the interested user's assignment entry.
	interestedKey, err := attributevalue.MarshalMap(map[string]string{
		"user_key": userPartitionKey(offer.Tenant, interestedUserID),
		"slot_key": offer.Slot.Key(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal assignment key: %w", err)
	}
	if isPermutation {
		shiftAV, err := attributevalue.Marshal(offererAssignment.Shift)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal swapped shift: %w", err)
		}
		items = append(items, types.TransactWriteItem{
			Update: &types.Update{
				TableName:           aws.String(s.AssignmentsTableName),
				Key:                 interestedKey,
				UpdateExpression:    aws.String("SET shift = :shift, updated_at = :now, version = version + :inc"),
				ConditionExpression: aws.String("version = :version"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":shift":   shiftAV,
					":now":     nowAV,
					":version": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", interestedAssignment.Version)},
					":inc":     &types.AttributeValueMemberN{Value: "1"},
				},
			},
		})
		kinds = append(kinds, storage.ErrGuardNotFound)
	} else {
		received := models.Assignment{
			Tenant:    offer.Tenant,
			UserId:    interestedUserID,
			Slot:      offer.Slot,
			Shift:     offererAssignment.Shift,
			Version:   1,
			UpdatedAt: now,
		}
		receivedAV, err := attributevalue.MarshalMap(newAssignmentItem(&received))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal received assignment: %w", err)
		}
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName: aws.String(s.AssignmentsTableName),
				Item:      receivedAV,
				// The entry appearing concurrently means another exchange
				// just booked this user at the slot.
				ConditionExpression: aws.String("attribute_not_exists(slot_key)"),
			},
		})
		kinds = append(kinds, storage.ErrUserHasGuard)
	}

	// Final operation: the completed history record.
	items = append(items, types.TransactWriteItem{
		Put: &types.Put{
			TableName:           aws.String(s.HistoryTableName),
			Item:                recordAV,
			ConditionExpression: aws.String("attribute_not_exists(id)"),
		},
	})
	kinds = append(kinds, storage.ErrInvalidExchange)

	slog.Log(ctx, slog.LevelDebug, "committing match",
		"offer_id", offer.Id, "interested_user", interestedUserID, "permutation", isPermutation)

	// 3. Commit.
	if _, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items}); err != nil {
		return nil, translateCanceled(err, kinds)
	}

	return record, nil
}
