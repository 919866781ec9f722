// Package sync moves ledger data between the hospital system and the
// external bookkeeping package: imports of its chart and vouchers, exports of
// locally originated ones, on a schedule or on demand. At most one run
// executes at a time; concurrent requests are rejected, never queued.
package sync

import (
	"context"
	"fmt"
	"log"
	gosync "sync"
	"time"

	"github.com/google/uuid"
	"github.com/medilink/hms-api/internal/application/service"
	"github.com/medilink/hms-api/internal/domain/entity"
	"github.com/medilink/hms-api/internal/domain/enum"
	"github.com/medilink/hms-api/internal/domain/repository"
	"github.com/medilink/hms-api/internal/sync/tally"
	"github.com/medilink/hms-api/pkg/apperror"
)

// Run trigger labels recorded on the audit row.
const (
	TriggerManual    = "manual"
	TriggerScheduled = "scheduled"
	TriggerPush      = "push"
)

// staleRunTimeout is how long a running row may sit open before a new run
// treats it as a crash leftover rather than a live run.
const staleRunTimeout = 30 * time.Minute

// Transport exchanges envelopes with the external system
type Transport interface {
	Exchange(ctx context.Context, req *tally.Envelope) (*tally.Envelope, error)
}

// TransportFactory builds a transport from the current config, so host/port
// edits take effect on the next run without restarting.
type TransportFactory func(cfg *entity.ExternalSyncConfig) Transport

// Engine coordinates sync runs. The in-process mutex and the persisted
// running row together enforce single-flight: the mutex within this process,
// the row across restarts and replicas.
type Engine struct {
	configRepo repository.SyncConfigRepository
	runRepo    repository.SyncRunRepository
	importer   *Importer
	exporter   *Exporter
	transport  TransportFactory
	cache      service.ChartCache
	logger     *log.Logger

	mu gosync.Mutex
}

// NewEngine creates a new sync engine
func NewEngine(
	configRepo repository.SyncConfigRepository,
	runRepo repository.SyncRunRepository,
	importer *Importer,
	exporter *Exporter,
	transport TransportFactory,
	cache service.ChartCache,
	logger *log.Logger,
) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		configRepo: configRepo,
		runRepo:    runRepo,
		importer:   importer,
		exporter:   exporter,
		transport:  transport,
		cache:      cache,
		logger:     logger,
	}
}

// PerformSync executes one sync run in the given direction. It returns the
// closed audit row; a run with record failures still returns as success, only
// transport or parse failures fail the run itself.
func (e *Engine) PerformSync(ctx context.Context, direction enum.SyncDirection, trigger string) (*entity.ExternalSyncRun, error) {
	if !e.mu.TryLock() {
		return nil, apperror.ErrAlreadySyncing
	}
	defer e.mu.Unlock()

	// Config is read fresh on every run; edits apply to the next run.
	cfg, err := e.configRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, apperror.NewNotFoundError("Sync configuration")
	}
	if !cfg.SyncEnabled && trigger != TriggerManual {
		return nil, apperror.NewConflictError("Sync is disabled")
	}

	if err := e.checkNotRunning(ctx, cfg.ID); err != nil {
		return nil, err
	}

	run := &entity.ExternalSyncRun{
		ConfigID:  cfg.ID,
		Direction: direction,
		Status:    enum.SyncRunStatusRunning,
		Trigger:   trigger,
		StartTime: time.Now(),
	}
	if err := e.runRepo.Create(ctx, run); err != nil {
		return nil, err
	}

	e.logger.Printf("sync run %s started (direction=%s trigger=%s)", run.ID, direction, trigger)

	processed, recordErrs, runErr := e.execute(ctx, cfg, direction)

	now := time.Now()
	run.EndTime = &now
	run.RecordsProcessed = processed
	run.RecordsFailed = len(recordErrs)
	run.SetErrors(recordErrs)

	if runErr != nil {
		run.Status = enum.SyncRunStatusFailed
		run.Message = runErr.Error()
		e.logger.Printf("sync run %s failed: %v", run.ID, runErr)
	} else {
		run.Status = enum.SyncRunStatusSuccess
		e.logger.Printf("sync run %s finished: %d processed, %d failed", run.ID, processed, len(recordErrs))
	}

	if err := e.runRepo.Update(ctx, run); err != nil {
		return nil, err
	}
	if runErr != nil {
		return run, runErr
	}
	return run, nil
}

// checkNotRunning enforces the persisted half of single-flight. A running row
// older than the stale timeout is closed as failed instead of blocking
// forever after a crash.
func (e *Engine) checkNotRunning(ctx context.Context, configID uuid.UUID) error {
	running, err := e.runRepo.GetRunning(ctx, configID)
	if err != nil {
		return err
	}
	if running == nil {
		return nil
	}
	if time.Since(running.StartTime) < staleRunTimeout {
		return apperror.ErrAlreadySyncing
	}

	now := time.Now()
	running.Status = enum.SyncRunStatusFailed
	running.EndTime = &now
	running.Message = "closed as stale by a later run"
	return e.runRepo.Update(ctx, running)
}

func (e *Engine) execute(ctx context.Context, cfg *entity.ExternalSyncConfig, direction enum.SyncDirection) (int, []entity.SyncRunError, error) {
	transport := e.transport(cfg)
	processed := 0
	var recordErrs []entity.SyncRunError

	if direction == enum.SyncDirectionImport || direction == enum.SyncDirectionBidirectional {
		n, errs, err := e.runImport(ctx, cfg, transport)
		processed += n
		recordErrs = append(recordErrs, errs...)
		if err != nil {
			return processed, recordErrs, err
		}
		if e.cache != nil {
			e.cache.Invalidate()
		}
	}

	if direction == enum.SyncDirectionExport || direction == enum.SyncDirectionBidirectional {
		n, err := e.runExport(ctx, cfg, transport)
		processed += n
		if err != nil {
			return processed, recordErrs, err
		}
	}

	return processed, recordErrs, nil
}

// runImport pulls ledgers first, then vouchers, so voucher entries always
// find their accounts.
func (e *Engine) runImport(ctx context.Context, cfg *entity.ExternalSyncConfig, transport Transport) (int, []entity.SyncRunError, error) {
	ledgerResp, err := transport.Exchange(ctx, tally.NewRequest(tally.RequestExportLedgers, cfg.CompanyName))
	if err != nil {
		return 0, nil, err
	}
	processed, recordErrs := e.importer.ImportLedgers(ctx, ledgerResp.Body.Ledgers, cfg)

	voucherResp, err := transport.Exchange(ctx, tally.NewRequest(tally.RequestExportVouchers, cfg.CompanyName))
	if err != nil {
		return processed, recordErrs, err
	}
	n, errs := e.importer.ImportVouchers(ctx, voucherResp.Body.Vouchers, cfg)

	return processed + n, append(recordErrs, errs...), nil
}

func (e *Engine) runExport(ctx context.Context, cfg *entity.ExternalSyncConfig, transport Transport) (int, error) {
	env, records, err := e.exporter.BuildEnvelope(ctx, cfg)
	if err != nil {
		return 0, fmt.Errorf("building export: %w", err)
	}
	if records == 0 {
		return 0, nil
	}
	if _, err := transport.Exchange(ctx, env); err != nil {
		return 0, err
	}
	return records, nil
}

// GetRun returns one sync run audit row
func (e *Engine) GetRun(ctx context.Context, id uuid.UUID) (*entity.ExternalSyncRun, error) {
	run, err := e.runRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, apperror.NewNotFoundError("Sync run")
	}
	return run, nil
}

// ListRuns returns the most recent sync runs, newest first
func (e *Engine) ListRuns(ctx context.Context, limit int) ([]entity.ExternalSyncRun, error) {
	return e.runRepo.List(ctx, limit)
}
