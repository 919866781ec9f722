package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentMode is how a patient settled a payment
type PaymentMode int

const (
	PaymentModeCash         PaymentMode = 0
	PaymentModeCard         PaymentMode = 1
	PaymentModeUPI          PaymentMode = 2
	PaymentModeCheque       PaymentMode = 3
	PaymentModeBankTransfer PaymentMode = 4
)

func (m PaymentMode) String() string {
	return [...]string{"Cash", "Card", "UPI", "Cheque", "BankTransfer"}[m]
}

// RequiresClearance reports whether a payment in this mode starts Pending
// until manually cleared.
func (m PaymentMode) RequiresClearance() bool {
	return m == PaymentModeCheque
}

func (m PaymentMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *PaymentMode) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*m = PaymentMode(i)
		return nil
	}
	switch str {
	case "Cash":
		*m = PaymentModeCash
	case "Card":
		*m = PaymentModeCard
	case "UPI":
		*m = PaymentModeUPI
	case "Cheque":
		*m = PaymentModeCheque
	case "BankTransfer":
		*m = PaymentModeBankTransfer
	}
	return nil
}

func (m PaymentMode) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *PaymentMode) Scan(value interface{}) error {
	if value == nil {
		*m = PaymentModeCash
		return nil
	}
	switch v := value.(type) {
	case int64:
		*m = PaymentMode(v)
	case int:
		*m = PaymentMode(v)
	}
	return nil
}

// PaymentStatus is the clearing state of a payment transaction
type PaymentStatus int

const (
	PaymentStatusCleared PaymentStatus = 0
	PaymentStatusPending PaymentStatus = 1
	PaymentStatusBounced PaymentStatus = 2
)

func (s PaymentStatus) String() string {
	return [...]string{"Cleared", "Pending", "Bounced"}[s]
}

func (s PaymentStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PaymentStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = PaymentStatus(i)
		return nil
	}
	switch str {
	case "Cleared":
		*s = PaymentStatusCleared
	case "Pending":
		*s = PaymentStatusPending
	case "Bounced":
		*s = PaymentStatusBounced
	}
	return nil
}

func (s PaymentStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PaymentStatus) Scan(value interface{}) error {
	if value == nil {
		*s = PaymentStatusCleared
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = PaymentStatus(v)
	case int:
		*s = PaymentStatus(v)
	}
	return nil
}
