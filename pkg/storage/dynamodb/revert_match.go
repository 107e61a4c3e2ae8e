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
	"github.com/google/uuid"
	"github.com/remi/shift-exchange/pkg/models"
	"github.com/remi/shift-exchange/pkg/storage"
)

// RevertMatch undoes a completed match: assignments return to their pre-match
// values, the slot is re-listed under the original user as a fresh pending
// offer carrying the recorded comment and interested set, offers sidelined by
// the match are reactivated, and the history record becomes REVERTED. The
// original validated offer is left as it is; the marketplace state is
// restored through the new listing, not by resurrecting the old one.
func (s *Store) RevertMatch(ctx context.Context, historyID string) (*models.Offer, error) {
	// 1. Reads.
	record, err := s.getHistoryItem(ctx, historyID)
	if err != nil {
		return nil, err
	}
	if record == nil || record.Status != models.COMPLETED {
		// Reverting an already-reverted record is meaningless, so it is an
		// error rather than a no-op.
		return nil, storage.ErrInvalidExchange
	}

	originalAssignment, err := s.getAssignment(ctx, record.Tenant, record.OriginalUserId, record.Slot)
	if err != nil {
		return nil, fmt.Errorf("failed to get original user's assignment: %w", err)
	}
	newUserAssignment, err := s.getAssignment(ctx, record.Tenant, record.NewUserId, record.Slot)
	if err != nil {
		return nil, fmt.Errorf("failed to get new user's assignment: %w", err)
	}

	slotOffers, err := s.queryOffersBySlot(ctx, record.Tenant, record.Slot)
	if err != nil {
		return nil, err
	}
	var sidelined []offerItem
	for _, item := range slotOffers {
		if item.Status == models.UNAVAILABLE {
			sidelined = append(sidelined, item)
		}
	}

	claim, err := s.getClaim(ctx, record.Tenant, record.OriginalUserId, record.Slot)
	if err != nil {
		return nil, err
	}

	// 2. Build the commit.
	now := time.Now()
	nowAV, err := attributevalue.Marshal(now)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	relisted := &models.Offer{
		Id:              uuid.New().String(),
		Tenant:          record.Tenant,
		UserId:          record.OriginalUserId,
		Slot:            record.Slot,
		Shift:           record.Shift,
		Comment:         record.Comment,
		InterestedUsers: record.InterestedUsers,
		Status:          models.PENDING,
		Version:         1,
		CreatedAt:       now,
		LastModified:    now,
	}
	relistedAV, err := attributevalue.MarshalMap(newOfferItem(relisted))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal re-listed offer: %w", err)
	}
	// Interest toggles run ADD/DELETE against a string set, so the snapshot
	// must be stored as one.
	if len(relisted.InterestedUsers) > 0 {
		relistedAV["interested_users"] = &types.AttributeValueMemberSS{Value: relisted.InterestedUsers}
	}

	items := make([]types.TransactWriteItem, 0, len(sidelined)+6)
	kinds := make([]error, 0, len(sidelined)+6)

	// Operation 1: the history record flips to REVERTED, exactly once.
	historyKey, err := attributevalue.MarshalMap(map[string]string{"id": record.Id})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal history key: %w", err)
	}
	items = append(items, types.TransactWriteItem{
		Update: &types.Update{
			TableName:           aws.String(s.HistoryTableName),
			Key:                 historyKey,
			UpdateExpression:    aws.String("SET #status = :reverted, version = version + :inc"),
			ConditionExpression: aws.String("#status = :completed AND version = :version"),
			ExpressionAttributeNames: map[string]string{
				"#status": "status",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":reverted":  &types.AttributeValueMemberS{Value: string(models.REVERTED)},
				":completed": &types.AttributeValueMemberS{Value: string(models.COMPLETED)},
				":version":   &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", record.Version)},
				":inc":       &types.AttributeValueMemberN{Value: "1"},
			},
		},
	})
	kinds = append(kinds, storage.ErrInvalidExchange)

	// Operation 2: restore the original user's shift at the slot.
	restoreItems, restoreKinds, err := s.restoreAssignmentOps(
		record.Tenant, record.OriginalUserId, record.Slot, &record.Shift, originalAssignment, nowAV, now)
	if err != nil {
		return nil, err
	}
	items = append(items, restoreItems...)
	kinds = append(kinds, restoreKinds...)

	// Operation 3: the other side — restore their pre-match shift if the
	// record shows one existed (permutation), otherwise clear the entry the
	// transfer created.
	otherItems, otherKinds, err := s.restoreAssignmentOps(
		record.Tenant, record.NewUserId, record.Slot, record.NewUserShift, newUserAssignment, nowAV, now)
	if err != nil {
		return nil, err
	}
	items = append(items, otherItems...)
	kinds = append(kinds, otherKinds...)

	// Operation 4: re-list the slot as a fresh pending offer.
	items = append(items, types.TransactWriteItem{
		Put: &types.Put{
			TableName:           aws.String(s.OffersTableName),
			Item:                relistedAV,
			ConditionExpression: aws.String("attribute_not_exists(sk)"),
		},
	})
	kinds = append(kinds, storage.ErrGuardAlreadyExchanged)

	// Operation 5: repoint (or recreate) the user's listing claim at the new
	// offer document.
	if claim != nil {
		claimKey, err := attributevalue.MarshalMap(map[string]string{
			"slot_key": claim.SlotKey,
			"sk":       claim.SK,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal claim key: %w", err)
		}
		items = append(items, types.TransactWriteItem{
			Update: &types.Update{
				TableName:           aws.String(s.OffersTableName),
				Key:                 claimKey,
				UpdateExpression:    aws.String("SET offer_id = :id"),
				ConditionExpression: aws.String("offer_id = :seen"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":id":   &types.AttributeValueMemberS{Value: relisted.Id},
					":seen": &types.AttributeValueMemberS{Value: claim.OfferId},
				},
			},
		})
		kinds = append(kinds, storage.ErrGuardAlreadyExchanged)
	} else {
		claimAV, err := attributevalue.MarshalMap(claimItem{
			SlotKey: slotPartitionKey(record.Tenant, record.Slot),
			SK:      claimSortKey(record.OriginalUserId),
			OfferId: relisted.Id,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal claim: %w", err)
		}
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName:           aws.String(s.OffersTableName),
				Item:                claimAV,
				ConditionExpression: aws.String("attribute_not_exists(sk)"),
			},
		})
		kinds = append(kinds, storage.ErrGuardAlreadyExchanged)
	}

	// Operation 6..n: undo the sidelining of competing offers, restoring the
	// competitive visibility the reverted match removed.
	for _, sibling := range sidelined {
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
				UpdateExpression:    aws.String("SET #status = :pending, last_modified = :now, version = version + :inc"),
				ConditionExpression: aws.String("#status = :unavailable AND version = :version"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":pending":     &types.AttributeValueMemberS{Value: string(models.PENDING)},
					":unavailable": &types.AttributeValueMemberS{Value: string(models.UNAVAILABLE)},
					":version":     &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", sibling.Version)},
					":now":         nowAV,
					":inc":         &types.AttributeValueMemberN{Value: "1"},
				},
			},
		})
		kinds = append(kinds, nil)
	}

	slog.Log(ctx, slog.LevelDebug, "reverting match",
		"history_id", record.Id, "relisted_offer_id", relisted.Id, "reactivated", len(sidelined))

	// 3. Commit.
	if _, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items}); err != nil {
		return nil, translateCanceled(err, kinds)
	}

	return relisted, nil
}

// restoreAssignmentOps produces the transact items that set a user's
// assignment entry at the slot to the wanted descriptor (nil clears it),
// conditioned on the entry's current state.
func (s *Store) restoreAssignmentOps(tenant, userID string, slot models.Slot, wanted *models.ShiftDescriptor, current *models.Assignment, nowAV types.AttributeValue, now time.Time) ([]types.TransactWriteItem, []error, error) {
	key, err := attributevalue.MarshalMap(map[string]string{
		"user_key": userPartitionKey(tenant, userID),
		"slot_key": slot.Key(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal assignment key: %w", err)
	}

	switch {
	case wanted == nil && current == nil:
		// Entry already absent; nothing to write.
		return nil, nil, nil

	case wanted == nil:
		return []types.TransactWriteItem{{
				Delete: &types.Delete{
					TableName:           aws.String(s.AssignmentsTableName),
					Key:                 key,
					ConditionExpression: aws.String("version = :version"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":version": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", current.Version)},
					},
				},
			}}, []error{storage.ErrGuardNotFound}, nil

	case current == nil:
		restored := models.Assignment{
			Tenant:    tenant,
			UserId:    userID,
			Slot:      slot,
			Shift:     *wanted,
			Version:   1,
			UpdatedAt: now,
		}
		restoredAV, err := attributevalue.MarshalMap(newAssignmentItem(&restored))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal restored assignment: %w", err)
		}
		return []types.TransactWriteItem{{
				Put: &types.Put{
					TableName:           aws.String(s.AssignmentsTableName),
					Item:                restoredAV,
					ConditionExpression: aws.String("attribute_not_exists(slot_key)"),
				},
			}}, []error{storage.ErrGuardNotFound}, nil

	default:
		shiftAV, err := attributevalue.Marshal(*wanted)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal restored shift: %w", err)
		}
		return []types.TransactWriteItem{{
				Update: &types.Update{
					TableName:           aws.String(s.AssignmentsTableName),
					Key:                 key,
					UpdateExpression:    aws.String("SET shift = :shift, updated_at = :now, version = version + :inc"),
					ConditionExpression: aws.String("version = :version"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":shift":   shiftAV,
						":now":     nowAV,
						":version": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", current.Version)},
						":inc":     &types.AttributeValueMemberN{Value: "1"},
					},
				},
			}}, []error{storage.ErrGuardNotFound}, nil
	}
}
