package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/medilink/hms-api/internal/domain/entity"
	"github.com/medilink/hms-api/internal/domain/enum"
	domainRepo "github.com/medilink/hms-api/internal/domain/repository"
	"gorm.io/gorm"
)

type syncConfigRepository struct {
	db *gorm.DB
}

// NewSyncConfigRepository creates a new sync config repository
func NewSyncConfigRepository(db *gorm.DB) domainRepo.SyncConfigRepository {
	return &syncConfigRepository{db: db}
}

func (r *syncConfigRepository) Get(ctx context.Context) (*entity.ExternalSyncConfig, error) {
	var config entity.ExternalSyncConfig
	err := dbFrom(ctx, r.db).Order("created_at ASC").First(&config).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &config, err
}

func (r *syncConfigRepository) Save(ctx context.Context, config *entity.ExternalSyncConfig) error {
	return dbFrom(ctx, r.db).Save(config).Error
}

type syncRunRepository struct {
	db *gorm.DB
}

// NewSyncRunRepository creates a new sync run repository
func NewSyncRunRepository(db *gorm.DB) domainRepo.SyncRunRepository {
	return &syncRunRepository{db: db}
}

func (r *syncRunRepository) Create(ctx context.Context, run *entity.ExternalSyncRun) error {
	return dbFrom(ctx, r.db).Create(run).Error
}

func (r *syncRunRepository) Update(ctx context.Context, run *entity.ExternalSyncRun) error {
	return dbFrom(ctx, r.db).Save(run).Error
}

func (r *syncRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ExternalSyncRun, error) {
	var run entity.ExternalSyncRun
	err := dbFrom(ctx, r.db).First(&run, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &run, err
}

func (r *syncRunRepository) GetRunning(ctx context.Context, configID uuid.UUID) (*entity.ExternalSyncRun, error) {
	var run entity.ExternalSyncRun
	err := dbFrom(ctx, r.db).
		Where("config_id = ? AND status = ?", configID, enum.SyncRunStatusRunning).
		Order("start_time DESC").
		First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &run, err
}

func (r *syncRunRepository) List(ctx context.Context, limit int) ([]entity.ExternalSyncRun, error) {
	if limit < 1 {
		limit = 20
	}
	var runs []entity.ExternalSyncRun
	err := dbFrom(ctx, r.db).
		Order("start_time DESC").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}
