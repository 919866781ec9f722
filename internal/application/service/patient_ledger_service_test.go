package service

import (
	"context"
	"testing"

	"github.com/medilink/hms-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePatientLedger(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	patient := stack.seedPatient(t)
	receivable := stack.seedAccount(t, "1100", "Patient Receivables", enum.AccountTypeAsset)

	ledger, err := stack.Ledgers.CreatePatientLedger(ctx, &CreatePatientLedgerInput{
		PatientID:          patient.ID,
		AccountID:          receivable.ID,
		OpeningBalance:     25000,
		OpeningBalanceSide: enum.BalanceSideDebit,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(25000), ledger.CurrentBalance)
	assert.Equal(t, enum.BalanceSideDebit, ledger.CurrentBalanceSide)

	t.Run("second ledger for the same pair conflicts", func(t *testing.T) {
		_, err := stack.Ledgers.CreatePatientLedger(ctx, &CreatePatientLedgerInput{
			PatientID: patient.ID,
			AccountID: receivable.ID,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("unknown patient is rejected", func(t *testing.T) {
		other := stack.seedPatient(t)
		_, err := stack.Ledgers.CreatePatientLedger(ctx, &CreatePatientLedgerInput{
			PatientID: other.ID,
			AccountID: patient.ID, // not an account id
		})
		require.Error(t, err)
	})
}

func TestFindOrCreateLedger(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	patient := stack.seedPatient(t)
	receivable := stack.seedAccount(t, "1100", "Patient Receivables", enum.AccountTypeAsset)

	first, err := stack.Ledgers.FindOrCreate(ctx, patient.ID, receivable.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), first.CurrentBalance)

	again, err := stack.Ledgers.FindOrCreate(ctx, patient.ID, receivable.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	ledgers, err := stack.Ledgers.ListLedgers(ctx, &patient.ID)
	require.NoError(t, err)
	assert.Len(t, ledgers, 1)
}

func TestLedgerMovesWithPostedVouchers(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	patient := stack.seedPatient(t)
	receivable := stack.seedAccount(t, "1100", "Patient Receivables", enum.AccountTypeAsset)
	income := stack.seedAccount(t, "4000", "Consultation Income", enum.AccountTypeIncome)
	cash := stack.seedAccount(t, "1000", "Cash in Hand", enum.AccountTypeAsset)

	ledger, err := stack.Ledgers.FindOrCreate(ctx, patient.ID, receivable.ID)
	require.NoError(t, err)

	// Bill the patient 800.00: the receivable ledger goes 80000 debit.
	_, err = stack.Vouchers.CreateVoucher(ctx, &CreateVoucherInput{
		Type:      enum.VoucherTypeJournal,
		PatientID: &patient.ID,
		Entries: []VoucherEntryInput{
			{PatientLedgerID: &ledger.ID, DebitAmount: 80000},
			{AccountID: &income.ID, CreditAmount: 80000},
		},
	})
	require.NoError(t, err)

	ledger, err = stack.Ledgers.GetLedger(ctx, ledger.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(80000), ledger.CurrentBalance)
	assert.Equal(t, enum.BalanceSideDebit, ledger.CurrentBalanceSide)

	// Receive 300.00 cash against it.
	_, err = stack.Vouchers.CreateVoucher(ctx, &CreateVoucherInput{
		Type:      enum.VoucherTypeReceipt,
		PatientID: &patient.ID,
		Entries: []VoucherEntryInput{
			{AccountID: &cash.ID, DebitAmount: 30000},
			{PatientLedgerID: &ledger.ID, CreditAmount: 30000},
		},
	})
	require.NoError(t, err)

	ledger, err = stack.Ledgers.GetLedger(ctx, ledger.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), ledger.CurrentBalance)
	assert.Equal(t, enum.BalanceSideDebit, ledger.CurrentBalanceSide)

	// A draft voucher does not move the balance until posted.
	draft, err := stack.Vouchers.CreateVoucher(ctx, &CreateVoucherInput{
		Type:      enum.VoucherTypeReceipt,
		PatientID: &patient.ID,
		Draft:     true,
		Entries: []VoucherEntryInput{
			{AccountID: &cash.ID, DebitAmount: 50000},
			{PatientLedgerID: &ledger.ID, CreditAmount: 50000},
		},
	})
	require.NoError(t, err)

	ledger, err = stack.Ledgers.GetLedger(ctx, ledger.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), ledger.CurrentBalance)

	_, err = stack.Vouchers.PostVoucher(ctx, draft.ID)
	require.NoError(t, err)

	ledger, err = stack.Ledgers.GetLedger(ctx, ledger.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), ledger.CurrentBalance)
	assert.Equal(t, enum.BalanceSideDebit, ledger.CurrentBalanceSide)
}

func TestRebuildLedger(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	patient := stack.seedPatient(t)
	receivable := stack.seedAccount(t, "1100", "Patient Receivables", enum.AccountTypeAsset)
	income := stack.seedAccount(t, "4000", "Consultation Income", enum.AccountTypeIncome)

	ledger, err := stack.Ledgers.CreatePatientLedger(ctx, &CreatePatientLedgerInput{
		PatientID:          patient.ID,
		AccountID:          receivable.ID,
		OpeningBalance:     10000,
		OpeningBalanceSide: enum.BalanceSideDebit,
	})
	require.NoError(t, err)

	_, err = stack.Vouchers.CreateVoucher(ctx, &CreateVoucherInput{
		Type:      enum.VoucherTypeJournal,
		PatientID: &patient.ID,
		Entries: []VoucherEntryInput{
			{PatientLedgerID: &ledger.ID, DebitAmount: 40000},
			{AccountID: &income.ID, CreditAmount: 40000},
		},
	})
	require.NoError(t, err)

	t.Run("consistent ledger reports no drift", func(t *testing.T) {
		result, err := stack.Ledgers.Rebuild(ctx, ledger.ID)
		require.NoError(t, err)
		assert.False(t, result.Drifted)
		assert.Equal(t, int64(50000), result.Ledger.CurrentBalance)
	})

	t.Run("corrupted balance is repaired", func(t *testing.T) {
		// Break the cached balance behind the service's back.
		require.NoError(t, stack.db.Model(ledger).Update("current_balance", int64(999)).Error)

		result, err := stack.Ledgers.Rebuild(ctx, ledger.ID)
		require.NoError(t, err)
		assert.True(t, result.Drifted)
		assert.Equal(t, int64(999), result.PreviousAmount)
		assert.Equal(t, int64(50000), result.Ledger.CurrentBalance)
		assert.Equal(t, enum.BalanceSideDebit, result.Ledger.CurrentBalanceSide)

		reloaded, err := stack.Ledgers.GetLedger(ctx, ledger.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(50000), reloaded.CurrentBalance)
	})
}
