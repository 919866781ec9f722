package service

import (
	"context"
	"testing"
	"time"

	"github.com/medilink/hms-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Walks one patient from billing through aging to full settlement.
func TestBillingSettlementFlow(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()
	stack.seedSettlementAccounts(t)

	income := stack.seedAccount(t, "4000", "Consultation Income", enum.AccountTypeIncome)
	receivable, err := stack.Accounts.GetAccountByCode(ctx, "1100")
	require.NoError(t, err)

	patient := stack.seedPatient(t)
	ledger, err := stack.Ledgers.FindOrCreate(ctx, patient.ID, receivable.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), ledger.CurrentBalance)

	// Bill 500.00: debit the patient's receivable ledger, credit income.
	_, err = stack.Vouchers.CreateVoucher(ctx, &CreateVoucherInput{
		Type:      enum.VoucherTypeSales,
		PatientID: &patient.ID,
		Narration: "Consultation",
		Entries: []VoucherEntryInput{
			{PatientLedgerID: &ledger.ID, DebitAmount: 50000},
			{AccountID: &income.ID, CreditAmount: 50000},
		},
	})
	require.NoError(t, err)

	ledger, err = stack.Ledgers.GetLedger(ctx, ledger.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), ledger.CurrentBalance)
	assert.Equal(t, enum.BalanceSideDebit, ledger.CurrentBalanceSide)

	// The bill is 40 days past due: it ages into the 31-60 bucket.
	asOf := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	invoice, err := stack.Aging.RecordInvoice(ctx, &RecordInvoiceInput{
		PatientID:     patient.ID,
		InvoiceNo:     "INV-FLOW-1",
		InvoiceDate:   asOf.AddDate(0, 0, -55),
		DueDate:       asOf.AddDate(0, 0, -40),
		InvoiceAmount: 50000,
	})
	require.NoError(t, err)

	snapshots, err := stack.Aging.TakeSnapshot(ctx, asOf)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, int64(50000), snapshots[0].Bucket31To60)
	assert.Equal(t, int64(50000), snapshots[0].TotalOutstanding)

	// Settle in full with a cash payment.
	payment, err := stack.Payments.RecordPayment(ctx, &RecordPaymentInput{
		PatientID: patient.ID,
		Mode:      enum.PaymentModeCash,
		Amount:    50000,
	})
	require.NoError(t, err)

	_, err = stack.Payments.Allocate(ctx, payment.ID, invoice.ID, 50000)
	require.NoError(t, err)

	settled, err := stack.Aging.GetInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), settled.OutstandingAmount)

	// The receipt voucher credited the ledger back to zero.
	ledger, err = stack.Ledgers.GetLedger(ctx, ledger.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), ledger.CurrentBalance)

	// Nothing left outstanding: the next snapshot run has no rows.
	next, err := stack.Aging.TakeSnapshot(ctx, asOf.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, next)

	result, err := stack.Ledgers.Rebuild(ctx, ledger.ID)
	require.NoError(t, err)
	assert.False(t, result.Drifted)
}
