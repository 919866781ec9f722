package money

import (
	"testing"

	"github.com/medilink/hms-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRupees(t *testing.T) {
	t.Run("converts whole rupees", func(t *testing.T) {
		d, err := decimal.NewFromString("500.00")
		require.NoError(t, err)
		assert.Equal(t, int64(50000), FromRupees(d))
	})

	t.Run("rounds half-up to the nearest paisa", func(t *testing.T) {
		d, err := decimal.NewFromString("0.005")
		require.NoError(t, err)
		assert.Equal(t, int64(1), FromRupees(d))

		d, err = decimal.NewFromString("0.004")
		require.NoError(t, err)
		assert.Equal(t, int64(0), FromRupees(d))
	})

	t.Run("round-trips through ToRupees", func(t *testing.T) {
		assert.Equal(t, "123.45", ToRupees(12345).StringFixed(2))
	})
}

func TestFormatRupees(t *testing.T) {
	assert.Equal(t, "500.00", FormatRupees(50000))
	assert.Equal(t, "0.01", FormatRupees(1))
	assert.Equal(t, "-12.50", FormatRupees(-1250))
}

func TestCombineAndSplit(t *testing.T) {
	t.Run("debit side keeps the sign positive", func(t *testing.T) {
		b := Combine(5000, enum.BalanceSideDebit)
		amount, side := b.Split()
		assert.Equal(t, int64(5000), amount)
		assert.Equal(t, enum.BalanceSideDebit, side)
	})

	t.Run("credit side flips the sign", func(t *testing.T) {
		b := Combine(5000, enum.BalanceSideCredit)
		assert.Equal(t, Balance(-5000), b)

		amount, side := b.Split()
		assert.Equal(t, int64(5000), amount)
		assert.Equal(t, enum.BalanceSideCredit, side)
	})

	t.Run("zero reports as debit-side zero", func(t *testing.T) {
		amount, side := Balance(0).Split()
		assert.Equal(t, int64(0), amount)
		assert.Equal(t, enum.BalanceSideDebit, side)
	})
}

func TestBalanceApply(t *testing.T) {
	b := Combine(10000, enum.BalanceSideDebit)

	// Debits increase, credits decrease.
	b = b.Apply(5000, 0)
	assert.Equal(t, Balance(15000), b)

	b = b.Apply(0, 20000)
	amount, side := b.Split()
	assert.Equal(t, int64(5000), amount)
	assert.Equal(t, enum.BalanceSideCredit, side)

	// Crossing back over zero lands on the debit side again.
	b = b.Apply(5000, 0)
	amount, side = b.Split()
	assert.Equal(t, int64(0), amount)
	assert.Equal(t, enum.BalanceSideDebit, side)
}

func TestBalanceString(t *testing.T) {
	assert.Equal(t, "150.00 Debit", Combine(15000, enum.BalanceSideDebit).String())
	assert.Equal(t, "150.00 Credit", Combine(15000, enum.BalanceSideCredit).String())
}
