package sync

import (
	"context"
	"testing"

	"github.com/medilink/hms-api/internal/domain/enum"
	"github.com/medilink/hms-api/internal/sync/tally"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportLedgers(t *testing.T) {
	stack := newSyncStack(t)
	ctx := context.Background()

	t.Run("maps external groups to account types", func(t *testing.T) {
		docs := []tally.LedgerDocument{
			ledgerDoc("g-asset", "Cash in Hand", "Current Assets", ""),
			ledgerDoc("g-liab", "Sundry Creditors", "Current Liabilities", ""),
			ledgerDoc("g-income", "Sales Accounts", "Sales Accounts", ""),
			ledgerDoc("g-expense", "Purchase Accounts", "Purchase Accounts", ""),
			ledgerDoc("g-equity", "Capital Account", "Capital Account", ""),
		}

		processed, errs := stack.importer.ImportLedgers(ctx, docs, stack.cfg)
		assert.Equal(t, 5, processed)
		assert.Empty(t, errs)

		wantTypes := map[string]enum.AccountType{
			"Cash in Hand":      enum.AccountTypeAsset,
			"Sundry Creditors":  enum.AccountTypeLiability,
			"Sales Accounts":    enum.AccountTypeIncome,
			"Purchase Accounts": enum.AccountTypeExpense,
			"Capital Account":   enum.AccountTypeEquity,
		}
		for name, want := range wantTypes {
			found := false
			accounts, err := stack.accounts.ListAccounts(ctx, nil)
			require.NoError(t, err)
			for _, a := range accounts.Items {
				if a.Name == name {
					assert.Equal(t, want, a.Type, name)
					found = true
				}
			}
			assert.True(t, found, name)
		}
	})

	t.Run("mapping rules override keyword matching", func(t *testing.T) {
		cfg := *stack.cfg
		cfg.MappingRules = `{"duties & taxes": "liabilities"}`

		processed, errs := stack.importer.ImportLedgers(ctx, []tally.LedgerDocument{
			ledgerDoc("g-duties", "GST Payable", "Duties & Taxes", ""),
		}, &cfg)
		assert.Equal(t, 1, processed)
		assert.Empty(t, errs)

		account, err := stack.accounts.GetAccountByCode(ctx, fallbackCode("g-duties"))
		require.NoError(t, err)
		assert.Equal(t, enum.AccountTypeLiability, account.Type)
	})

	t.Run("negative opening balance flips the side", func(t *testing.T) {
		processed, errs := stack.importer.ImportLedgers(ctx, []tally.LedgerDocument{
			ledgerDoc("g-overdraft", "Bank Overdraft", "Bank Accounts", "-1500.00"),
		}, stack.cfg)
		assert.Equal(t, 1, processed)
		assert.Empty(t, errs)

		account, err := stack.accounts.GetAccountByCode(ctx, fallbackCode("g-overdraft"))
		require.NoError(t, err)
		assert.Equal(t, int64(150000), account.OpeningBalance)
		assert.Equal(t, enum.BalanceSideCredit, account.OpeningBalanceSide)
	})

	t.Run("records without a key are collected, not fatal", func(t *testing.T) {
		processed, errs := stack.importer.ImportLedgers(ctx, []tally.LedgerDocument{
			ledgerDoc("", "Orphan Ledger", "Asset", ""),
			ledgerDoc("g-good", "Good Ledger", "Asset", ""),
		}, stack.cfg)
		assert.Equal(t, 1, processed)
		require.Len(t, errs, 1)
		assert.Equal(t, "MISSING_KEY", errs[0].ErrorCode)
		assert.Equal(t, 0, errs[0].RecordIndex)
	})

	t.Run("unparseable opening balance is a parse error", func(t *testing.T) {
		processed, errs := stack.importer.ImportLedgers(ctx, []tally.LedgerDocument{
			ledgerDoc("g-bad", "Bad Balance", "Asset", "1,500.00"),
		}, stack.cfg)
		assert.Equal(t, 0, processed)
		require.Len(t, errs, 1)
		assert.Equal(t, "PARSE", errs[0].ErrorCode)
	})

	t.Run("wire codes win over derived ones", func(t *testing.T) {
		doc := ledgerDoc("g-coded", "Pharmacy Income", "Income", "")
		doc.Code = "4010"

		processed, errs := stack.importer.ImportLedgers(ctx, []tally.LedgerDocument{doc}, stack.cfg)
		assert.Equal(t, 1, processed)
		assert.Empty(t, errs)

		account, err := stack.accounts.GetAccountByCode(ctx, "4010")
		require.NoError(t, err)
		assert.Equal(t, "g-coded", account.ExternalKey)
	})
}

func TestImportVouchers(t *testing.T) {
	stack := newSyncStack(t)
	ctx := context.Background()

	_, errs := stack.importer.ImportLedgers(ctx, []tally.LedgerDocument{
		ledgerDoc("g-cash", "Cash in Hand", "Asset", ""),
		ledgerDoc("g-income", "Consultation Income", "Income", ""),
	}, stack.cfg)
	require.Empty(t, errs)

	doc := tally.VoucherDocument{
		ExternalKey: "g-v1",
		Type:        "Receipt",
		Date:        "20260815",
		Narration:   "Consultation fee",
		Entries: []tally.EntryDocument{
			{LedgerName: "Cash in Hand", Amount: "-500.00"},
			{LedgerName: "Consultation Income", Amount: "500.00"},
		},
	}

	t.Run("creates a posted voucher from the wire document", func(t *testing.T) {
		processed, errs := stack.importer.ImportVouchers(ctx, []tally.VoucherDocument{doc}, stack.cfg)
		assert.Equal(t, 1, processed)
		assert.Empty(t, errs)

		result, err := stack.vouchers.ListVouchers(ctx, nil)
		require.NoError(t, err)
		require.Len(t, result.Items, 1)

		voucher := result.Items[0]
		assert.Equal(t, "g-v1", voucher.ExternalKey)
		assert.Equal(t, enum.VoucherTypeReceipt, voucher.Type)
		assert.Equal(t, enum.VoucherStatusPosted, voucher.Status)
		assert.Equal(t, int64(50000), voucher.TotalAmount)
	})

	t.Run("re-importing the same key creates nothing", func(t *testing.T) {
		processed, errs := stack.importer.ImportVouchers(ctx, []tally.VoucherDocument{doc}, stack.cfg)
		assert.Equal(t, 1, processed)
		assert.Empty(t, errs)

		result, err := stack.vouchers.ListVouchers(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, result.Items, 1)
	})

	t.Run("unknown ledger name rejects the record", func(t *testing.T) {
		bad := doc
		bad.ExternalKey = "g-v2"
		bad.Entries = []tally.EntryDocument{
			{LedgerName: "No Such Ledger", Amount: "-100.00"},
			{LedgerName: "Consultation Income", Amount: "100.00"},
		}

		processed, errs := stack.importer.ImportVouchers(ctx, []tally.VoucherDocument{bad}, stack.cfg)
		assert.Equal(t, 0, processed)
		require.Len(t, errs, 1)
		assert.Equal(t, "UNKNOWN_LEDGER", errs[0].ErrorCode)
		assert.Contains(t, errs[0].Message, "No Such Ledger")
	})

	t.Run("bad date rejects the record", func(t *testing.T) {
		bad := doc
		bad.ExternalKey = "g-v3"
		bad.Date = "15/08/2026"

		processed, errs := stack.importer.ImportVouchers(ctx, []tally.VoucherDocument{bad}, stack.cfg)
		assert.Equal(t, 0, processed)
		require.Len(t, errs, 1)
		assert.Equal(t, "PARSE", errs[0].ErrorCode)
	})

	t.Run("missing key rejects the record", func(t *testing.T) {
		bad := doc
		bad.ExternalKey = ""

		processed, errs := stack.importer.ImportVouchers(ctx, []tally.VoucherDocument{bad}, stack.cfg)
		assert.Equal(t, 0, processed)
		require.Len(t, errs, 1)
		assert.Equal(t, "MISSING_KEY", errs[0].ErrorCode)
	})

	t.Run("unbalanced wire voucher is rejected, not created", func(t *testing.T) {
		bad := doc
		bad.ExternalKey = "g-v4"
		bad.Entries = []tally.EntryDocument{
			{LedgerName: "Cash in Hand", Amount: "-500.00"},
			{LedgerName: "Consultation Income", Amount: "400.00"},
		}

		processed, errs := stack.importer.ImportVouchers(ctx, []tally.VoucherDocument{bad}, stack.cfg)
		assert.Equal(t, 0, processed)
		require.Len(t, errs, 1)
		assert.Equal(t, "REJECTED", errs[0].ErrorCode)
	})
}

func TestFallbackCode(t *testing.T) {
	a := fallbackCode("guid-1")
	b := fallbackCode("guid-2")

	assert.Regexp(t, `^EXT-[0-9A-F]{8}$`, a)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, fallbackCode("guid-1"))
}

func TestMapVoucherType(t *testing.T) {
	assert.Equal(t, enum.VoucherTypePayment, mapVoucherType("Payment"))
	assert.Equal(t, enum.VoucherTypeReceipt, mapVoucherType(" receipt "))
	assert.Equal(t, enum.VoucherTypeSales, mapVoucherType("Sales"))
	assert.Equal(t, enum.VoucherTypeContra, mapVoucherType("Contra"))
	assert.Equal(t, enum.VoucherTypeJournal, mapVoucherType("Memorandum"))
}
