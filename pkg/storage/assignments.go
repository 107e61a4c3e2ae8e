package storage

import (
	"context"

	"github.com/remi/shift-exchange/pkg/models"
)

// AssignmentStore defines the interface the scheduling subsystem uses against
// the assignment map. While exchanges are active the engine is the only writer
// of entries involved in a match, so that history records accurately describe
// provenance; the scheduling component writes through this interface only for
// slots with no open exchange activity.
type AssignmentStore interface {
	// ReadAssignment retrieves the shift a user currently holds at a slot.
	// A nil assignment with a nil error means the entry is absent.
	ReadAssignment(ctx context.Context, tenant, userID string, slot models.Slot) (*models.Assignment, error)

	// WriteAssignment replaces the entry for the assignment's user and slot.
	WriteAssignment(ctx context.Context, assignment *models.Assignment) error

	// ClearAssignment removes the entry for a user and slot.
	ClearAssignment(ctx context.Context, tenant, userID string, slot models.Slot) error
}
