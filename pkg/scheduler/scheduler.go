package scheduler

import (
	"context"

	"github.com/remi/shift-exchange/pkg/models"
)

// Scheduler defines the interface for a component that hands an expired offer
// to the asynchronous sweep.
type Scheduler interface {
	// ScheduleSweep enqueues an offer so the sweeper can cancel it.
	ScheduleSweep(ctx context.Context, offer *models.Offer) error
}
