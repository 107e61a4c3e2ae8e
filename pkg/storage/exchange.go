package storage

import (
	"context"

	"github.com/remi/shift-exchange/pkg/models"
)

// ExchangeStore defines the privileged interface for committing and reverting
// matches. Both operations are atomic writes across the three collections
// (Offers, Assignments, History): every read completes before any write is
// issued, and a failed precondition aborts the whole commit with no partial
// state observable.
type ExchangeStore interface {
	// ValidateMatch commits a match between the offering user and one member
	// of the offer's interested set. Every other pending offer for the same
	// slot is marked unavailable in the same commit, the assignment entries
	// are swapped (permutation) or transferred (the interested user holds no
	// shift at the slot), and a completed history record is written.
	// validatedBy optionally records who confirmed the match.
	ValidateMatch(ctx context.Context, offerID, interestedUserID, validatedBy string) (*models.HistoryRecord, error)

	// RevertMatch undoes a completed match: both assignment entries return to
	// their pre-match values, the slot is re-listed as a fresh pending offer
	// under the original user (carrying the recorded comment and interested
	// set), offers sidelined by the match are reactivated, and the history
	// record becomes REVERTED. The re-listed offer is returned.
	RevertMatch(ctx context.Context, historyID string) (*models.Offer, error)
}
