package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/medilink/hms-api/internal/domain/entity"
	"github.com/medilink/hms-api/internal/domain/enum"
	infra "github.com/medilink/hms-api/internal/infrastructure/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testStack wires the full service layer over an in-memory database, the same
// way cmd/api does over postgres.
type testStack struct {
	db *gorm.DB

	Accounts *AccountService
	Patients *PatientService
	Ledgers  *PatientLedgerService
	Vouchers *VoucherService
	Aging    *AgingService
	Payments *PaymentService
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// One connection keeps every session on the same in-memory database.
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
		&entity.OutstandingInvoice{},
		&entity.PaymentTransaction{},
		&entity.PaymentAllocation{},
		&entity.AgingSnapshot{},
	))

	return db
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	db := setupTestDB(t)

	accountRepo := infra.NewAccountRepository(db)
	patientRepo := infra.NewPatientRepository(db)
	ledgerRepo := infra.NewPatientLedgerRepository(db)
	voucherRepo := infra.NewVoucherRepository(db)
	invoiceRepo := infra.NewInvoiceRepository(db)
	paymentRepo := infra.NewPaymentRepository(db)
	allocationRepo := infra.NewAllocationRepository(db)
	agingRepo := infra.NewAgingSnapshotRepository(db)
	txManager := infra.NewTxManager(db)

	ledgers := NewPatientLedgerService(ledgerRepo, patientRepo, accountRepo, voucherRepo, txManager)
	vouchers := NewVoucherService(voucherRepo, accountRepo, patientRepo, ledgers, txManager)
	payments := NewPaymentService(
		paymentRepo, allocationRepo, invoiceRepo, patientRepo, accountRepo,
		vouchers, ledgers, txManager,
		SettlementAccounts{CashCode: "1000", BankCode: "1010", ReceivableCode: "1100"},
	)

	return &testStack{
		db:       db,
		Accounts: NewAccountService(accountRepo, nil),
		Patients: NewPatientService(patientRepo),
		Ledgers:  ledgers,
		Vouchers: vouchers,
		Aging:    NewAgingService(invoiceRepo, patientRepo, agingRepo, txManager),
		Payments: payments,
	}
}

var patientSeq int

func (s *testStack) seedPatient(t *testing.T) *entity.Patient {
	t.Helper()
	patientSeq++
	patient, err := s.Patients.CreatePatient(context.Background(), &CreatePatientInput{
		MRN:       fmt.Sprintf("MRN-%04d", patientSeq),
		FirstName: "Asha",
		LastName:  "Verma",
	})
	require.NoError(t, err)
	return patient
}

func (s *testStack) seedAccount(t *testing.T, code, name string, accountType enum.AccountType) *entity.Account {
	t.Helper()
	account, err := s.Accounts.CreateAccount(context.Background(), &CreateAccountInput{
		Code: code,
		Name: name,
		Type: accountType,
	})
	require.NoError(t, err)
	return account
}

// seedSettlementAccounts creates the chart accounts payment allocation posts
// against, mirroring the database seed.
func (s *testStack) seedSettlementAccounts(t *testing.T) {
	t.Helper()
	s.seedAccount(t, "1000", "Cash in Hand", enum.AccountTypeAsset)
	s.seedAccount(t, "1010", "Bank Account", enum.AccountTypeAsset)
	s.seedAccount(t, "1100", "Patient Receivables", enum.AccountTypeAsset)
}
