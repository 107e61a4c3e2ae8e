package storage

import (
	"context"
	"time"

	"github.com/remi/shift-exchange/pkg/models"
)

// OfferReader defines the interface for reading exchange offers.
type OfferReader interface {
	// GetOffer retrieves an offer by its ID.
	GetOffer(ctx context.Context, offerID string) (*models.Offer, error)

	// ListActiveOffers retrieves the pending offers of a tenant whose slot date
	// is on or after the given day, ordered by slot date ascending.
	ListActiveOffers(ctx context.Context, tenant string, from time.Time) ([]models.Offer, error)
}

// OfferManager defines the interface for creating and managing offers before
// a match commits.
type OfferManager interface {
	// CreateOffer lists a shift for exchange. A cancelled or pending listing
	// for the same user and slot is reactivated in place rather than
	// duplicated; the returned offer reflects the stored state.
	CreateOffer(ctx context.Context, offer *models.Offer) (*models.Offer, error)

	// ExpressInterest adds the user to an offer's interested set.
	// It is idempotent: expressing interest twice is a no-op.
	ExpressInterest(ctx context.Context, offerID, userID string) error

	// WithdrawInterest removes the user from an offer's interested set.
	WithdrawInterest(ctx context.Context, offerID, userID string) error

	// CancelOffer toggles an offer between PENDING and CANCELLED, returning
	// the offer in its new state. Other statuses are an error: they are
	// reached only through the match and revert flows.
	CancelOffer(ctx context.Context, offerID string) (*models.Offer, error)
}

// OfferStore combines the reader and manager interfaces.
type OfferStore interface {
	OfferReader
	OfferManager
}
