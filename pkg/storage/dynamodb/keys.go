package dynamodb

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/remi/shift-exchange/pkg/models"
)

const (
	// Offers table: one partition per tenant+slot so that "all offers for this
	// slot" is a strongly consistent Query on the base table.
	offerSortPrefix = "OFFER#"
	claimSortPrefix = "USER#"

	offerIDIndex    = "id-index"
	activeFeedIndex = "gsi1pk-date-index"

	historyFeedIndex     = "gsi1pk-exchanged_at-index"
	historyUserSlotIndex = "gsi2pk-gsi2sk-index"
)

func slotPartitionKey(tenant string, slot models.Slot) string {
	return tenant + "#" + slot.Key()
}

func offerSortKey(offerID string) string {
	return offerSortPrefix + offerID
}

func claimSortKey(userID string) string {
	return claimSortPrefix + userID
}

func userPartitionKey(tenant, userID string) string {
	return tenant + "#" + userID
}

func offerFeedPartition(tenant string) string {
	return "OFFERS#" + tenant
}

func historyFeedPartition(tenant string) string {
	return "HISTORY#" + tenant
}

// offerItem is the stored form of an offer, carrying the table keys and index
// attributes alongside the domain fields.
type offerItem struct {
	models.Offer
	SlotKey string `dynamodbav:"slot_key"`
	SK      string `dynamodbav:"sk"`
	GSI1PK  string `dynamodbav:"gsi1pk"`
	Date    string `dynamodbav:"date"`
}

func newOfferItem(offer *models.Offer) offerItem {
	return offerItem{
		Offer:   *offer,
		SlotKey: slotPartitionKey(offer.Tenant, offer.Slot),
		SK:      offerSortKey(offer.Id),
		GSI1PK:  offerFeedPartition(offer.Tenant),
		Date:    offer.Slot.Date,
	}
}

// claimItem is the per-user listing marker inside a slot partition. Its
// conditional Put is what makes "at most one active listing per user and
// slot" hold across concurrent creates.
type claimItem struct {
	SlotKey string `dynamodbav:"slot_key"`
	SK      string `dynamodbav:"sk"`
	OfferId string `dynamodbav:"offer_id"`
}

// historyItem is the stored form of a history record with its index attributes.
type historyItem struct {
	models.HistoryRecord
	GSI1PK string `dynamodbav:"gsi1pk"`
	GSI2PK string `dynamodbav:"gsi2pk"`
	GSI2SK string `dynamodbav:"gsi2sk"`
}

func newHistoryItem(rec *models.HistoryRecord) historyItem {
	return historyItem{
		HistoryRecord: *rec,
		GSI1PK:        historyFeedPartition(rec.Tenant),
		GSI2PK:        userPartitionKey(rec.Tenant, rec.NewUserId),
		GSI2SK:        rec.Slot.Key(),
	}
}

// assignmentItem is the stored form of an assignment map entry.
type assignmentItem struct {
	models.Assignment
	UserKey string `dynamodbav:"user_key"`
	SlotKey string `dynamodbav:"slot_key"`
}

func newAssignmentItem(a *models.Assignment) assignmentItem {
	return assignmentItem{
		Assignment: *a,
		UserKey:    userPartitionKey(a.Tenant, a.UserId),
		SlotKey:    a.Slot.Key(),
	}
}

// translateCanceled maps a TransactWriteItems failure onto the typed error of
// the first transact item whose conditional check failed. kinds runs parallel
// to the TransactItems slice; a nil entry falls through to the wrapped error.
func translateCanceled(err error, kinds []error) error {
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		for i, reason := range tce.CancellationReasons {
			if reason.Code == nil || *reason.Code != "ConditionalCheckFailed" {
				continue
			}
			if i < len(kinds) && kinds[i] != nil {
				return kinds[i]
			}
		}
	}
	return fmt.Errorf("failed to execute transaction: %w", err)
}
