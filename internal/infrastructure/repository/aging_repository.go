package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/medilink/hms-api/internal/domain/entity"
	domainRepo "github.com/medilink/hms-api/internal/domain/repository"
	"gorm.io/gorm"
)

type agingSnapshotRepository struct {
	db *gorm.DB
}

// NewAgingSnapshotRepository creates a new aging snapshot repository
func NewAgingSnapshotRepository(db *gorm.DB) domainRepo.AgingSnapshotRepository {
	return &agingSnapshotRepository{db: db}
}

func (r *agingSnapshotRepository) CreateBatch(ctx context.Context, snapshots []entity.AgingSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	return dbFrom(ctx, r.db).Create(&snapshots).Error
}

func (r *agingSnapshotRepository) ListByRun(ctx context.Context, runID uuid.UUID) ([]entity.AgingSnapshot, error) {
	var snapshots []entity.AgingSnapshot
	err := dbFrom(ctx, r.db).
		Preload("Patient").
		Where("run_id = ?", runID).
		Order("created_at ASC").
		Find(&snapshots).Error
	return snapshots, err
}

func (r *agingSnapshotRepository) RecentRunIDs(ctx context.Context, n int) ([]uuid.UUID, error) {
	if n < 1 {
		n = 1
	}
	var runIDs []uuid.UUID
	err := dbFrom(ctx, r.db).Model(&entity.AgingSnapshot{}).
		Distinct("run_id").
		Order("run_id DESC").
		Limit(n).
		Pluck("run_id", &runIDs).Error
	return runIDs, err
}

func (r *agingSnapshotRepository) ListRecent(ctx context.Context, runs int) ([]entity.AgingSnapshot, error) {
	runIDs, err := r.RecentRunIDs(ctx, runs)
	if err != nil {
		return nil, err
	}
	if len(runIDs) == 0 {
		return nil, nil
	}

	var snapshots []entity.AgingSnapshot
	err = dbFrom(ctx, r.db).
		Preload("Patient").
		Where("run_id IN ?", runIDs).
		Order("snapshot_date DESC, created_at ASC").
		Find(&snapshots).Error
	return snapshots, err
}
