package tally

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	t.Run("parses decimal rupees to paise", func(t *testing.T) {
		v, err := ParseAmount("1500.50")
		require.NoError(t, err)
		assert.Equal(t, int64(150050), v)
	})

	t.Run("keeps the sign", func(t *testing.T) {
		v, err := ParseAmount("-250.00")
		require.NoError(t, err)
		assert.Equal(t, int64(-25000), v)
	})

	t.Run("empty string is zero", func(t *testing.T) {
		v, err := ParseAmount("")
		require.NoError(t, err)
		assert.Equal(t, int64(0), v)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := ParseAmount("12,50")
		assert.Error(t, err)
	})
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1500.50", FormatAmount(150050))
	assert.Equal(t, "-250.00", FormatAmount(-25000))
	assert.Equal(t, "0.00", FormatAmount(0))
}

func TestEntryDocumentDebitCredit(t *testing.T) {
	t.Run("negative amount is a debit", func(t *testing.T) {
		e := EntryDocument{Amount: "-500.00"}
		debit, credit, err := e.DebitCredit()
		require.NoError(t, err)
		assert.Equal(t, int64(50000), debit)
		assert.Equal(t, int64(0), credit)
	})

	t.Run("positive amount is a credit", func(t *testing.T) {
		e := EntryDocument{Amount: "500.00"}
		debit, credit, err := e.DebitCredit()
		require.NoError(t, err)
		assert.Equal(t, int64(0), debit)
		assert.Equal(t, int64(50000), credit)
	})
}

func TestEnvelopeRoundTrip(t *testing.T) {
	env := NewRequest(RequestImportData, "City Hospital")
	env.Body.Ledgers = []LedgerDocument{
		{ExternalKey: "guid-1", Name: "Cash in Hand", Code: "1000", Parent: "Asset", OpeningBalance: "1000.00"},
	}
	env.Body.Vouchers = []VoucherDocument{
		{
			ExternalKey: "guid-v1",
			Number:      "RCT-000001",
			Type:        "Receipt",
			Date:        "20260815",
			Narration:   "Consultation fee",
			Entries: []EntryDocument{
				{LedgerName: "Cash in Hand", Amount: "-500.00"},
				{LedgerName: "Consultation Income", Amount: "500.00"},
			},
		},
	}

	data, err := Marshal(env)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<TALLYREQUEST>Import Data</TALLYREQUEST>")
	assert.Contains(t, string(data), "<COMPANY>City Hospital</COMPANY>")

	parsed, err := Unmarshal(data)
	require.NoError(t, err)
	require.Len(t, parsed.Body.Ledgers, 1)
	require.Len(t, parsed.Body.Vouchers, 1)
	assert.Equal(t, "guid-1", parsed.Body.Ledgers[0].ExternalKey)
	assert.Equal(t, "RCT-000001", parsed.Body.Vouchers[0].Number)
	require.Len(t, parsed.Body.Vouchers[0].Entries, 2)
	assert.Equal(t, "-500.00", parsed.Body.Vouchers[0].Entries[0].Amount)
}

func TestLedgerDocumentExtras(t *testing.T) {
	// Elements the schema does not know must survive parsing and stay
	// addressable by name for mapping rules.
	doc := []byte(`<ENVELOPE>
  <HEADER><TALLYREQUEST>Export Ledgers</TALLYREQUEST></HEADER>
  <BODY>
    <LEDGER>
      <GUID>guid-9</GUID>
      <NAME>Pharmacy Income</NAME>
      <PARENT>Income</PARENT>
      <GSTNUMBER> 27AAAAA0000A1Z5 </GSTNUMBER>
      <BRANCH>Main</BRANCH>
    </LEDGER>
  </BODY>
</ENVELOPE>`)

	env, err := Unmarshal(doc)
	require.NoError(t, err)
	require.Len(t, env.Body.Ledgers, 1)

	ledger := env.Body.Ledgers[0]
	assert.Equal(t, "guid-9", ledger.ExternalKey)
	assert.Equal(t, "27AAAAA0000A1Z5", ledger.Extra("gstnumber"))
	assert.Equal(t, "Main", ledger.Extra("BRANCH"))
	assert.Equal(t, "", ledger.Extra("missing"))
}
