package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/medilink/hms-api/internal/domain/entity"
	"github.com/medilink/hms-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordInvoice(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()
	patient := stack.seedPatient(t)

	invoiceDate := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	dueDate := invoiceDate.AddDate(0, 0, 15)

	t.Run("records a bill as fully outstanding", func(t *testing.T) {
		invoice, err := stack.Aging.RecordInvoice(ctx, &RecordInvoiceInput{
			PatientID:     patient.ID,
			InvoiceNo:     "INV-2026-001",
			InvoiceDate:   invoiceDate,
			DueDate:       dueDate,
			InvoiceAmount: 120000,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(120000), invoice.InvoiceAmount)
		assert.Equal(t, int64(120000), invoice.OutstandingAmount)
	})

	t.Run("requires an invoice number", func(t *testing.T) {
		_, err := stack.Aging.RecordInvoice(ctx, &RecordInvoiceInput{
			PatientID:     patient.ID,
			InvoiceNo:     "   ",
			InvoiceDate:   invoiceDate,
			DueDate:       dueDate,
			InvoiceAmount: 100,
		})
		require.Error(t, err)
	})

	t.Run("rejects a non-positive amount", func(t *testing.T) {
		_, err := stack.Aging.RecordInvoice(ctx, &RecordInvoiceInput{
			PatientID:     patient.ID,
			InvoiceNo:     "INV-2026-002",
			InvoiceDate:   invoiceDate,
			DueDate:       dueDate,
			InvoiceAmount: 0,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be positive")
	})

	t.Run("rejects a due date before the invoice date", func(t *testing.T) {
		_, err := stack.Aging.RecordInvoice(ctx, &RecordInvoiceInput{
			PatientID:     patient.ID,
			InvoiceNo:     "INV-2026-003",
			InvoiceDate:   invoiceDate,
			DueDate:       invoiceDate.AddDate(0, 0, -1),
			InvoiceAmount: 100,
		})
		require.Error(t, err)
	})

	t.Run("rejects an unknown patient", func(t *testing.T) {
		_, err := stack.Aging.RecordInvoice(ctx, &RecordInvoiceInput{
			PatientID:     uuid.New(),
			InvoiceNo:     "INV-2026-004",
			InvoiceDate:   invoiceDate,
			DueDate:       dueDate,
			InvoiceAmount: 100,
		})
		require.Error(t, err)
	})
}

func TestListAged(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()
	patient := stack.seedPatient(t)

	asOf := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	record := func(t *testing.T, no string, daysPastDue int, amount int64) {
		due := asOf.AddDate(0, 0, -daysPastDue)
		_, err := stack.Aging.RecordInvoice(ctx, &RecordInvoiceInput{
			PatientID:     patient.ID,
			InvoiceNo:     no,
			InvoiceDate:   due.AddDate(0, 0, -15),
			DueDate:       due,
			InvoiceAmount: amount,
		})
		require.NoError(t, err)
	}

	record(t, "INV-A", 10, 10000)  // 0-30
	record(t, "INV-B", 45, 20000)  // 31-60
	record(t, "INV-C", 400, 30000) // 365+

	aged, err := stack.Aging.ListAged(ctx, &patient.ID, asOf)
	require.NoError(t, err)
	require.Len(t, aged, 3)

	buckets := make(map[string]enum.AgingBucket)
	for _, a := range aged {
		buckets[a.Invoice.InvoiceNo] = a.Bucket
	}
	assert.Equal(t, enum.AgingBucket0To30, buckets["INV-A"])
	assert.Equal(t, enum.AgingBucket31To60, buckets["INV-B"])
	assert.Equal(t, enum.AgingBucket365Plus, buckets["INV-C"])
}

func TestTakeSnapshot(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	alice := stack.seedPatient(t)
	bob := stack.seedPatient(t)

	asOf := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	record := func(t *testing.T, patientID uuid.UUID, no string, daysPastDue int, amount int64) *entity.OutstandingInvoice {
		due := asOf.AddDate(0, 0, -daysPastDue)
		invoice, err := stack.Aging.RecordInvoice(ctx, &RecordInvoiceInput{
			PatientID:     patientID,
			InvoiceNo:     no,
			InvoiceDate:   due.AddDate(0, 0, -15),
			DueDate:       due,
			InvoiceAmount: amount,
		})
		require.NoError(t, err)
		return invoice
	}

	record(t, alice.ID, "INV-AL-1", 10, 10000)
	record(t, alice.ID, "INV-AL-2", 20, 5000)
	record(t, alice.ID, "INV-AL-3", 75, 20000)
	record(t, bob.ID, "INV-BOB-1", 100, 40000)

	// A settled invoice must not appear in the rollup.
	settled := record(t, bob.ID, "INV-BOB-2", 5, 7000)
	require.NoError(t, stack.db.Model(settled).Update("outstanding_amount", int64(0)).Error)

	snapshots, err := stack.Aging.TakeSnapshot(ctx, asOf)
	require.NoError(t, err)
	require.Len(t, snapshots, 2)

	byPatient := make(map[uuid.UUID]entity.AgingSnapshot)
	for _, s := range snapshots {
		byPatient[s.PatientID] = s
	}

	aliceRow := byPatient[alice.ID]
	assert.Equal(t, int64(15000), aliceRow.Bucket0To30)
	assert.Equal(t, int64(20000), aliceRow.Bucket61To90)
	assert.Equal(t, int64(0), aliceRow.Bucket31To60)
	assert.Equal(t, int64(35000), aliceRow.TotalOutstanding)

	bobRow := byPatient[bob.ID]
	assert.Equal(t, int64(40000), bobRow.Bucket91To180)
	assert.Equal(t, int64(40000), bobRow.TotalOutstanding)

	t.Run("run is retrievable as written", func(t *testing.T) {
		rows, err := stack.Aging.ListSnapshotRun(ctx, snapshots[0].RunID)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, snapshots[0].RunID, rows[1].RunID)
	})

	t.Run("a later run gets its own id", func(t *testing.T) {
		second, err := stack.Aging.TakeSnapshot(ctx, asOf.AddDate(0, 0, 1))
		require.NoError(t, err)
		require.NotEmpty(t, second)
		assert.NotEqual(t, snapshots[0].RunID, second[0].RunID)

		// The earlier run is untouched.
		rows, err := stack.Aging.ListSnapshotRun(ctx, snapshots[0].RunID)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})
}
