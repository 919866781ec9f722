package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// BalanceSide is the debit/credit column a balance or opening balance sits on
type BalanceSide int

const (
	BalanceSideDebit  BalanceSide = 0
	BalanceSideCredit BalanceSide = 1
)

func (s BalanceSide) String() string {
	return [...]string{"Debit", "Credit"}[s]
}

// Opposite returns the other side.
func (s BalanceSide) Opposite() BalanceSide {
	if s == BalanceSideDebit {
		return BalanceSideCredit
	}
	return BalanceSideDebit
}

func (s BalanceSide) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *BalanceSide) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = BalanceSide(i)
		return nil
	}
	switch str {
	case "Debit":
		*s = BalanceSideDebit
	case "Credit":
		*s = BalanceSideCredit
	}
	return nil
}

func (s BalanceSide) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *BalanceSide) Scan(value interface{}) error {
	if value == nil {
		*s = BalanceSideDebit
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = BalanceSide(v)
	case int:
		*s = BalanceSide(v)
	}
	return nil
}
