package money

import (
	"fmt"

	"github.com/medilink/hms-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// All amounts in the ledger are stored as int64 paise (the smallest currency
// unit). Decimal rupees exist only at the I/O boundary: request payloads and
// external documents are converted on the way in, projected back on the way out.

// FromRupees converts a decimal rupee amount to paise, rounding half-up to
// the nearest paisa.
func FromRupees(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// ToRupees converts paise back to a decimal rupee amount.
func ToRupees(paise int64) decimal.Decimal {
	return decimal.NewFromInt(paise).Div(decimal.NewFromInt(100))
}

// FormatRupees renders paise as a plain rupee string, e.g. 50000 -> "500.00".
func FormatRupees(paise int64) string {
	return ToRupees(paise).StringFixed(2)
}

// Balance is a running ledger balance in signed paise: positive means the
// balance sits on the debit side, negative on the credit side. Keeping the
// sign inside a single integer removes the two-column arithmetic that the
// debit/credit presentation otherwise forces on every update.
type Balance int64

// Combine builds a signed balance from an (amount, side) pair.
func Combine(amountPaise int64, side enum.BalanceSide) Balance {
	if side == enum.BalanceSideCredit {
		return Balance(-amountPaise)
	}
	return Balance(amountPaise)
}

// Split projects the signed balance back into an (amount, side) pair for
// storage and display. A zero balance reports as debit-side zero.
func (b Balance) Split() (int64, enum.BalanceSide) {
	if b < 0 {
		return int64(-b), enum.BalanceSideCredit
	}
	return int64(b), enum.BalanceSideDebit
}

// Apply adds a debit and a credit movement to the balance. Debits increase
// the signed value, credits decrease it.
func (b Balance) Apply(debitPaise, creditPaise int64) Balance {
	return b + Balance(debitPaise) - Balance(creditPaise)
}

func (b Balance) String() string {
	amount, side := b.Split()
	return fmt.Sprintf("%s %s", FormatRupees(amount), side)
}
