package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// VoucherType determines the numbering prefix and the screen a voucher
// originated from
type VoucherType int

const (
	VoucherTypeJournal VoucherType = 0
	VoucherTypePayment VoucherType = 1
	VoucherTypeReceipt VoucherType = 2
	VoucherTypeSales   VoucherType = 3
	VoucherTypeContra  VoucherType = 4
)

func (t VoucherType) String() string {
	return [...]string{"Journal", "Payment", "Receipt", "Sales", "Contra"}[t]
}

// Prefix returns the voucher-number prefix for this type, e.g. "JRN" for
// journal vouchers.
func (t VoucherType) Prefix() string {
	return [...]string{"JRN", "PAY", "RCT", "SAL", "CTR"}[t]
}

func (t VoucherType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *VoucherType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = VoucherType(i)
		return nil
	}
	switch str {
	case "Journal":
		*t = VoucherTypeJournal
	case "Payment":
		*t = VoucherTypePayment
	case "Receipt":
		*t = VoucherTypeReceipt
	case "Sales":
		*t = VoucherTypeSales
	case "Contra":
		*t = VoucherTypeContra
	}
	return nil
}

func (t VoucherType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *VoucherType) Scan(value interface{}) error {
	if value == nil {
		*t = VoucherTypeJournal
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = VoucherType(v)
	case int:
		*t = VoucherType(v)
	}
	return nil
}

// VoucherStatus is the lifecycle state of a voucher. Posted is terminal;
// Cancelled is reachable only from Pending.
type VoucherStatus int

const (
	VoucherStatusPending   VoucherStatus = 0
	VoucherStatusPosted    VoucherStatus = 1
	VoucherStatusCancelled VoucherStatus = 2
)

func (s VoucherStatus) String() string {
	return [...]string{"Pending", "Posted", "Cancelled"}[s]
}

func (s VoucherStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *VoucherStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = VoucherStatus(i)
		return nil
	}
	switch str {
	case "Pending":
		*s = VoucherStatusPending
	case "Posted":
		*s = VoucherStatusPosted
	case "Cancelled":
		*s = VoucherStatusCancelled
	}
	return nil
}

func (s VoucherStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *VoucherStatus) Scan(value interface{}) error {
	if value == nil {
		*s = VoucherStatusPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = VoucherStatus(v)
	case int:
		*s = VoucherStatus(v)
	}
	return nil
}
