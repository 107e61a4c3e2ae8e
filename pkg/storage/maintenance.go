package storage

import (
	"context"
	"time"

	"github.com/remi/shift-exchange/pkg/models"
)

// MaintenanceStore defines the interface used by the expiry sweep: pending
// offers whose slot date has passed are swept to CANCELLED so they stop
// appearing in the marketplace feed.
type MaintenanceStore interface {
	// ListExpiredPendingOffers retrieves pending offers whose slot date is
	// strictly before the given day.
	ListExpiredPendingOffers(ctx context.Context, asOf time.Time) ([]models.Offer, error)

	// ExpireOffer sweeps one pending offer to CANCELLED. Offers that already
	// left PENDING are treated as swept; repeating the sweep is safe.
	ExpireOffer(ctx context.Context, offerID string) error
}
