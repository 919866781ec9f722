package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/medilink/hms-api/internal/domain/entity"
)

// AgingSnapshotRepository defines the interface for aging snapshot data
// operations. Snapshots are immutable; there is no update or delete.
type AgingSnapshotRepository interface {
	CreateBatch(ctx context.Context, snapshots []entity.AgingSnapshot) error
	ListByRun(ctx context.Context, runID uuid.UUID) ([]entity.AgingSnapshot, error)

	// RecentRunIDs returns the run ids of the most recent n reporting runs,
	// newest first.
	RecentRunIDs(ctx context.Context, n int) ([]uuid.UUID, error)
	ListRecent(ctx context.Context, runs int) ([]entity.AgingSnapshot, error)
}
