package storage

import (
	"context"

	"github.com/remi/shift-exchange/pkg/models"
)

// HistoryReader defines the interface for reading the history ledger.
type HistoryReader interface {
	// GetHistoryRecord retrieves a history record by the originating offer id.
	GetHistoryRecord(ctx context.Context, historyID string) (*models.HistoryRecord, error)

	// ListHistory retrieves the most recent completed matches of a tenant,
	// ordered by match time descending.
	ListHistory(ctx context.Context, tenant string, limit int32) ([]models.HistoryRecord, error)
}
