package enum

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// SyncFrequency controls how often the external sync engine runs on its own
type SyncFrequency int

const (
	SyncFrequencyManual   SyncFrequency = 0
	SyncFrequencyHourly   SyncFrequency = 1
	SyncFrequencyDaily    SyncFrequency = 2
	SyncFrequencyRealTime SyncFrequency = 3
)

func (f SyncFrequency) String() string {
	return [...]string{"manual", "hourly", "daily", "real-time"}[f]
}

// Interval returns the scheduling interval for this frequency, or zero when
// the engine only runs on demand.
func (f SyncFrequency) Interval() time.Duration {
	switch f {
	case SyncFrequencyHourly:
		return time.Hour
	case SyncFrequencyDaily:
		return 24 * time.Hour
	case SyncFrequencyRealTime:
		return 30 * time.Second
	default:
		return 0
	}
}

func (f SyncFrequency) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

func (f *SyncFrequency) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*f = SyncFrequency(i)
		return nil
	}
	switch str {
	case "manual":
		*f = SyncFrequencyManual
	case "hourly":
		*f = SyncFrequencyHourly
	case "daily":
		*f = SyncFrequencyDaily
	case "real-time":
		*f = SyncFrequencyRealTime
	}
	return nil
}

func (f SyncFrequency) Value() (driver.Value, error) {
	return int64(f), nil
}

func (f *SyncFrequency) Scan(value interface{}) error {
	if value == nil {
		*f = SyncFrequencyManual
		return nil
	}
	switch v := value.(type) {
	case int64:
		*f = SyncFrequency(v)
	case int:
		*f = SyncFrequency(v)
	}
	return nil
}

// SyncDirection selects which half of a sync run executes
type SyncDirection int

const (
	SyncDirectionImport        SyncDirection = 0
	SyncDirectionExport        SyncDirection = 1
	SyncDirectionBidirectional SyncDirection = 2
)

func (d SyncDirection) String() string {
	return [...]string{"import", "export", "bidirectional"}[d]
}

func (d SyncDirection) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *SyncDirection) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*d = SyncDirection(i)
		return nil
	}
	switch str {
	case "import":
		*d = SyncDirectionImport
	case "export":
		*d = SyncDirectionExport
	case "bidirectional":
		*d = SyncDirectionBidirectional
	}
	return nil
}

func (d SyncDirection) Value() (driver.Value, error) {
	return int64(d), nil
}

func (d *SyncDirection) Scan(value interface{}) error {
	if value == nil {
		*d = SyncDirectionImport
		return nil
	}
	switch v := value.(type) {
	case int64:
		*d = SyncDirection(v)
	case int:
		*d = SyncDirection(v)
	}
	return nil
}

// SyncRunStatus is the lifecycle state of a sync run. The most recent
// running row doubles as the single-flight token.
type SyncRunStatus int

const (
	SyncRunStatusRunning SyncRunStatus = 0
	SyncRunStatusSuccess SyncRunStatus = 1
	SyncRunStatusFailed  SyncRunStatus = 2
)

func (s SyncRunStatus) String() string {
	return [...]string{"running", "success", "failed"}[s]
}

func (s SyncRunStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SyncRunStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = SyncRunStatus(i)
		return nil
	}
	switch str {
	case "running":
		*s = SyncRunStatusRunning
	case "success":
		*s = SyncRunStatusSuccess
	case "failed":
		*s = SyncRunStatusFailed
	}
	return nil
}

func (s SyncRunStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *SyncRunStatus) Scan(value interface{}) error {
	if value == nil {
		*s = SyncRunStatusRunning
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = SyncRunStatus(v)
	case int:
		*s = SyncRunStatus(v)
	}
	return nil
}
