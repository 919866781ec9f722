package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// AgingBucket classifies how overdue an outstanding invoice is, in days past
// its due date. Boundary values (exactly 30, 60, 90, 180, 365 days) fall in
// the lower bucket; not-yet-due invoices report in 0-30.
type AgingBucket int

const (
	AgingBucket0To30    AgingBucket = 0
	AgingBucket31To60   AgingBucket = 1
	AgingBucket61To90   AgingBucket = 2
	AgingBucket91To180  AgingBucket = 3
	AgingBucket181To365 AgingBucket = 4
	AgingBucket365Plus  AgingBucket = 5
)

// BucketForDays maps days past due to its aging bucket.
func BucketForDays(daysPastDue int) AgingBucket {
	switch {
	case daysPastDue <= 30:
		return AgingBucket0To30
	case daysPastDue <= 60:
		return AgingBucket31To60
	case daysPastDue <= 90:
		return AgingBucket61To90
	case daysPastDue <= 180:
		return AgingBucket91To180
	case daysPastDue <= 365:
		return AgingBucket181To365
	default:
		return AgingBucket365Plus
	}
}

func (b AgingBucket) String() string {
	return [...]string{"0-30", "31-60", "61-90", "91-180", "181-365", "365+"}[b]
}

func (b AgingBucket) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

func (b *AgingBucket) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*b = AgingBucket(i)
		return nil
	}
	switch str {
	case "0-30":
		*b = AgingBucket0To30
	case "31-60":
		*b = AgingBucket31To60
	case "61-90":
		*b = AgingBucket61To90
	case "91-180":
		*b = AgingBucket91To180
	case "181-365":
		*b = AgingBucket181To365
	case "365+":
		*b = AgingBucket365Plus
	}
	return nil
}

func (b AgingBucket) Value() (driver.Value, error) {
	return int64(b), nil
}

func (b *AgingBucket) Scan(value interface{}) error {
	if value == nil {
		*b = AgingBucket0To30
		return nil
	}
	switch v := value.(type) {
	case int64:
		*b = AgingBucket(v)
	case int:
		*b = AgingBucket(v)
	}
	return nil
}
