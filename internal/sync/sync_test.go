package sync

import (
	"context"
	"errors"
	"io"
	"log"
	gosync "sync"
	"testing"
	"time"

	"github.com/medilink/hms-api/internal/application/service"
	"github.com/medilink/hms-api/internal/domain/entity"
	"github.com/medilink/hms-api/internal/domain/enum"
	domainRepo "github.com/medilink/hms-api/internal/domain/repository"
	infra "github.com/medilink/hms-api/internal/infrastructure/repository"
	"github.com/medilink/hms-api/internal/sync/tally"
	"github.com/medilink/hms-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeTransport answers ledger and voucher pulls from scripted documents and
// captures the envelope of a push.
type fakeTransport struct {
	ledgers  []tally.LedgerDocument
	vouchers []tally.VoucherDocument
	err      error

	exported *tally.Envelope
	calls    int
}

func (f *fakeTransport) Exchange(ctx context.Context, req *tally.Envelope) (*tally.Envelope, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	switch req.Header.Request {
	case tally.RequestExportLedgers:
		return &tally.Envelope{Body: tally.Body{Ledgers: f.ledgers}}, nil
	case tally.RequestExportVouchers:
		return &tally.Envelope{Body: tally.Body{Vouchers: f.vouchers}}, nil
	default:
		f.exported = req
		return &tally.Envelope{}, nil
	}
}

// fakeCache counts invalidations. The push listener calls it from its own
// goroutine, so the counter is mutex-guarded.
type fakeCache struct {
	mu            gosync.Mutex
	invalidations int
}

func (c *fakeCache) Accounts(ctx context.Context) ([]entity.Account, error) { return nil, nil }

func (c *fakeCache) Invalidate() {
	c.mu.Lock()
	c.invalidations++
	c.mu.Unlock()
}

func (c *fakeCache) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidations
}

type syncStack struct {
	db *gorm.DB

	engine   *Engine
	importer *Importer
	exporter *Exporter

	accounts *service.AccountService
	vouchers *service.VoucherService

	configRepo domainRepo.SyncConfigRepository
	runRepo    domainRepo.SyncRunRepository

	transport *fakeTransport
	cache     *fakeCache
	cfg       *entity.ExternalSyncConfig
}

func newSyncStack(t *testing.T) *syncStack {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&entity.Patient{},
		&entity.Account{},
		&entity.PatientLedger{},
		&entity.Voucher{},
		&entity.VoucherEntry{},
		&entity.VoucherSequence{},
		&entity.ExternalSyncConfig{},
		&entity.ExternalSyncRun{},
	))

	accountRepo := infra.NewAccountRepository(db)
	patientRepo := infra.NewPatientRepository(db)
	ledgerRepo := infra.NewPatientLedgerRepository(db)
	voucherRepo := infra.NewVoucherRepository(db)
	configRepo := infra.NewSyncConfigRepository(db)
	runRepo := infra.NewSyncRunRepository(db)
	txManager := infra.NewTxManager(db)

	ledgers := service.NewPatientLedgerService(ledgerRepo, patientRepo, accountRepo, voucherRepo, txManager)
	vouchers := service.NewVoucherService(voucherRepo, accountRepo, patientRepo, ledgers, txManager)
	accounts := service.NewAccountService(accountRepo, nil)

	importer := NewImporter(accounts, vouchers, accountRepo, voucherRepo)
	exporter := NewExporter(accountRepo, voucherRepo)

	transport := &fakeTransport{}
	cache := &fakeCache{}

	engine := NewEngine(
		configRepo, runRepo, importer, exporter,
		func(cfg *entity.ExternalSyncConfig) Transport { return transport },
		cache,
		log.New(io.Discard, "", 0),
	)

	cfg := &entity.ExternalSyncConfig{
		Host:        "localhost",
		Port:        9000,
		CompanyName: "City Hospital",
		SyncEnabled: true,
	}
	require.NoError(t, configRepo.Save(context.Background(), cfg))

	return &syncStack{
		db:         db,
		engine:     engine,
		importer:   importer,
		exporter:   exporter,
		accounts:   accounts,
		vouchers:   vouchers,
		configRepo: configRepo,
		runRepo:    runRepo,
		transport:  transport,
		cache:      cache,
		cfg:        cfg,
	}
}

func ledgerDoc(key, name, parent, opening string) tally.LedgerDocument {
	return tally.LedgerDocument{ExternalKey: key, Name: name, Parent: parent, OpeningBalance: opening}
}

func TestPerformSyncImport(t *testing.T) {
	stack := newSyncStack(t)
	ctx := context.Background()

	stack.transport.ledgers = []tally.LedgerDocument{
		ledgerDoc("guid-cash", "Cash in Hand", "Asset", "1000.00"),
		ledgerDoc("guid-income", "Consultation Income", "Income", ""),
	}
	stack.transport.vouchers = []tally.VoucherDocument{
		{
			ExternalKey: "guid-v1",
			Type:        "Receipt",
			Date:        "20260815",
			Narration:   "Consultation fee",
			Entries: []tally.EntryDocument{
				{LedgerName: "Cash in Hand", Amount: "-500.00"},
				{LedgerName: "Consultation Income", Amount: "500.00"},
			},
		},
	}

	run, err := stack.engine.PerformSync(ctx, enum.SyncDirectionImport, TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, enum.SyncRunStatusSuccess, run.Status)
	assert.Equal(t, 3, run.RecordsProcessed)
	assert.Equal(t, 0, run.RecordsFailed)
	assert.NotNil(t, run.EndTime)
	assert.Equal(t, TriggerManual, run.Trigger)

	account, err := stack.accounts.GetAccountByCode(ctx, fallbackCode("guid-cash"))
	require.NoError(t, err)
	assert.Equal(t, "Cash in Hand", account.Name)
	assert.Equal(t, int64(100000), account.OpeningBalance)

	voucher, err := stack.vouchers.ListVouchers(ctx, nil)
	require.NoError(t, err)
	require.Len(t, voucher.Items, 1)
	assert.Equal(t, "guid-v1", voucher.Items[0].ExternalKey)
	assert.Equal(t, enum.VoucherStatusPosted, voucher.Items[0].Status)

	t.Run("import invalidates the chart cache", func(t *testing.T) {
		assert.Greater(t, stack.cache.count(), 0)
	})

	t.Run("re-running the import is idempotent", func(t *testing.T) {
		again, err := stack.engine.PerformSync(ctx, enum.SyncDirectionImport, TriggerManual)
		require.NoError(t, err)
		assert.Equal(t, enum.SyncRunStatusSuccess, again.Status)

		vouchers, err := stack.vouchers.ListVouchers(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, vouchers.Items, 1)
	})
}

func TestPerformSyncRecordErrors(t *testing.T) {
	stack := newSyncStack(t)
	ctx := context.Background()

	stack.transport.ledgers = []tally.LedgerDocument{
		ledgerDoc("", "No Key Ledger", "Asset", ""),
		ledgerDoc("guid-ok", "Bank Account", "Asset", "250.00"),
	}

	run, err := stack.engine.PerformSync(ctx, enum.SyncDirectionImport, TriggerManual)
	require.NoError(t, err)

	// Record failures never fail the run.
	assert.Equal(t, enum.SyncRunStatusSuccess, run.Status)
	assert.Equal(t, 1, run.RecordsProcessed)
	assert.Equal(t, 1, run.RecordsFailed)

	errs := run.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "MISSING_KEY", errs[0].ErrorCode)
	assert.Equal(t, "No Key Ledger", errs[0].Identifier)
}

func TestPerformSyncTransportFailure(t *testing.T) {
	stack := newSyncStack(t)
	ctx := context.Background()

	stack.transport.err = errors.New("connection refused")

	run, err := stack.engine.PerformSync(ctx, enum.SyncDirectionImport, TriggerManual)
	require.Error(t, err)
	require.NotNil(t, run)
	assert.Equal(t, enum.SyncRunStatusFailed, run.Status)
	assert.Contains(t, run.Message, "connection refused")
	assert.NotNil(t, run.EndTime)

	t.Run("a failed run does not block the next one", func(t *testing.T) {
		stack.transport.err = nil
		again, err := stack.engine.PerformSync(ctx, enum.SyncDirectionImport, TriggerManual)
		require.NoError(t, err)
		assert.Equal(t, enum.SyncRunStatusSuccess, again.Status)
	})
}

func TestPerformSyncDisabled(t *testing.T) {
	stack := newSyncStack(t)
	ctx := context.Background()

	stack.cfg.SyncEnabled = false
	require.NoError(t, stack.configRepo.Save(ctx, stack.cfg))

	_, err := stack.engine.PerformSync(ctx, enum.SyncDirectionImport, TriggerScheduled)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")

	// A manual trigger overrides the disable switch.
	run, err := stack.engine.PerformSync(ctx, enum.SyncDirectionImport, TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, enum.SyncRunStatusSuccess, run.Status)
}

func TestPerformSyncSingleFlight(t *testing.T) {
	stack := newSyncStack(t)
	ctx := context.Background()

	t.Run("a live running row blocks a new run", func(t *testing.T) {
		live := &entity.ExternalSyncRun{
			ConfigID:  stack.cfg.ID,
			Status:    enum.SyncRunStatusRunning,
			Trigger:   TriggerScheduled,
			StartTime: time.Now().Add(-time.Minute),
		}
		require.NoError(t, stack.runRepo.Create(ctx, live))

		_, err := stack.engine.PerformSync(ctx, enum.SyncDirectionImport, TriggerManual)
		assert.ErrorIs(t, err, apperror.ErrAlreadySyncing)

		// Unblock for the next subtest.
		now := time.Now()
		live.Status = enum.SyncRunStatusFailed
		live.EndTime = &now
		require.NoError(t, stack.runRepo.Update(ctx, live))
	})

	t.Run("a stale running row is closed, not honoured", func(t *testing.T) {
		stale := &entity.ExternalSyncRun{
			ConfigID:  stack.cfg.ID,
			Status:    enum.SyncRunStatusRunning,
			Trigger:   TriggerScheduled,
			StartTime: time.Now().Add(-time.Hour),
		}
		require.NoError(t, stack.runRepo.Create(ctx, stale))

		run, err := stack.engine.PerformSync(ctx, enum.SyncDirectionImport, TriggerManual)
		require.NoError(t, err)
		assert.Equal(t, enum.SyncRunStatusSuccess, run.Status)

		closed, err := stack.runRepo.GetByID(ctx, stale.ID)
		require.NoError(t, err)
		assert.Equal(t, enum.SyncRunStatusFailed, closed.Status)
		assert.Contains(t, closed.Message, "stale")
	})
}

func TestPerformSyncExport(t *testing.T) {
	stack := newSyncStack(t)
	ctx := context.Background()

	cash, err := stack.accounts.CreateAccount(ctx, &service.CreateAccountInput{
		Code: "1000", Name: "Cash in Hand", Type: enum.AccountTypeAsset,
	})
	require.NoError(t, err)
	income, err := stack.accounts.CreateAccount(ctx, &service.CreateAccountInput{
		Code: "4000", Name: "Consultation Income", Type: enum.AccountTypeIncome,
	})
	require.NoError(t, err)

	_, err = stack.vouchers.CreateVoucher(ctx, &service.CreateVoucherInput{
		Type: enum.VoucherTypeReceipt,
		Entries: []service.VoucherEntryInput{
			{AccountID: &cash.ID, DebitAmount: 50000},
			{AccountID: &income.ID, CreditAmount: 50000},
		},
	})
	require.NoError(t, err)

	run, err := stack.engine.PerformSync(ctx, enum.SyncDirectionExport, TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, enum.SyncRunStatusSuccess, run.Status)
	assert.Equal(t, 3, run.RecordsProcessed)

	require.NotNil(t, stack.transport.exported)
	assert.Equal(t, tally.RequestImportData, stack.transport.exported.Header.Request)
	assert.Equal(t, "City Hospital", stack.transport.exported.Header.Company)
	assert.Len(t, stack.transport.exported.Body.Ledgers, 2)
	assert.Len(t, stack.transport.exported.Body.Vouchers, 1)
}

func TestRunHistory(t *testing.T) {
	stack := newSyncStack(t)
	ctx := context.Background()

	first, err := stack.engine.PerformSync(ctx, enum.SyncDirectionImport, TriggerManual)
	require.NoError(t, err)
	_, err = stack.engine.PerformSync(ctx, enum.SyncDirectionImport, TriggerScheduled)
	require.NoError(t, err)

	runs, err := stack.engine.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	got, err := stack.engine.GetRun(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, TriggerManual, got.Trigger)
}
