package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/medilink/hms-api/internal/domain/entity"
)

// SyncConfigRepository defines the interface for external sync configuration
// data operations. The config is a single row per installation, read fresh at
// the start of every run.
type SyncConfigRepository interface {
	Get(ctx context.Context) (*entity.ExternalSyncConfig, error)
	Save(ctx context.Context, config *entity.ExternalSyncConfig) error
}

// SyncRunRepository defines the interface for sync run history operations
type SyncRunRepository interface {
	Create(ctx context.Context, run *entity.ExternalSyncRun) error
	Update(ctx context.Context, run *entity.ExternalSyncRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ExternalSyncRun, error)

	// GetRunning returns the open running run for a config, if any. It is the
	// persisted half of the single-flight guard.
	GetRunning(ctx context.Context, configID uuid.UUID) (*entity.ExternalSyncRun, error)
	List(ctx context.Context, limit int) ([]entity.ExternalSyncRun, error)
}
