package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/medilink/hms-api/internal/domain/enum"
	"gorm.io/gorm"
)

// ExternalSyncConfig holds the connection and behaviour settings for the
// external bookkeeping system. There is one row per installation, but it is
// a normal entity read fresh at the start of every run — never process-global
// state — so edits take effect on the next run and tests can swap it freely.
type ExternalSyncConfig struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	Host           string             `gorm:"size:200;not null" json:"host"`
	Port           int                `gorm:"not null" json:"port"`
	CompanyName    string             `gorm:"size:200" json:"company_name"`
	SyncEnabled    bool               `gorm:"default:false" json:"sync_enabled"`
	SyncFrequency  enum.SyncFrequency `gorm:"default:0" json:"sync_frequency"`
	UpdateExisting bool               `gorm:"default:false" json:"update_existing"`
	// MappingRules maps external field names to internal attributes, stored
	// as a JSON object of external -> internal names.
	MappingRules string    `gorm:"type:text" json:"mapping_rules,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new sync config
func (c *ExternalSyncConfig) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ExternalSyncConfig model
func (ExternalSyncConfig) TableName() string {
	return "external_sync_configs"
}

// FieldMapping decodes the configured mapping rules. A missing or malformed
// value yields an empty map, which leaves field names unmapped.
func (c *ExternalSyncConfig) FieldMapping() map[string]string {
	m := map[string]string{}
	if c.MappingRules != "" {
		_ = json.Unmarshal([]byte(c.MappingRules), &m)
	}
	return m
}

// SyncRunError describes one record that failed during import. Failures are
// collected on the run and never abort it.
type SyncRunError struct {
	RecordIndex int    `json:"record_index"`
	Identifier  string `json:"identifier"`
	ErrorCode   string `json:"error_code"`
	Message     string `json:"message"`
}

// ExternalSyncRun is the audit record of one sync attempt. A row is created
// at the start of every attempt and closed at the end; the most recent
// running row is the single-flight mutual-exclusion token.
type ExternalSyncRun struct {
	ID               uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	ConfigID         uuid.UUID          `gorm:"type:uuid;not null;index" json:"config_id"`
	Direction        enum.SyncDirection `gorm:"default:0" json:"direction"`
	Status           enum.SyncRunStatus `gorm:"default:0;index" json:"status"`
	Trigger          string             `gorm:"size:20" json:"trigger"` // manual | scheduled | push
	StartTime        time.Time          `gorm:"not null" json:"start_time"`
	EndTime          *time.Time         `json:"end_time,omitempty"`
	RecordsProcessed int                `gorm:"default:0" json:"records_processed"`
	RecordsFailed    int                `gorm:"default:0" json:"records_failed"`
	// ErrorList is the JSON-encoded []SyncRunError for the run.
	ErrorList string    `gorm:"type:text" json:"-"`
	Message   string    `gorm:"size:500" json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new sync run
func (r *ExternalSyncRun) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ExternalSyncRun model
func (ExternalSyncRun) TableName() string {
	return "external_sync_runs"
}

// Errors decodes the collected per-record failures.
func (r *ExternalSyncRun) Errors() []SyncRunError {
	var errs []SyncRunError
	if r.ErrorList != "" {
		_ = json.Unmarshal([]byte(r.ErrorList), &errs)
	}
	return errs
}

// SetErrors encodes the per-record failures onto the run.
func (r *ExternalSyncRun) SetErrors(errs []SyncRunError) {
	if len(errs) == 0 {
		r.ErrorList = ""
		return
	}
	data, _ := json.Marshal(errs)
	r.ErrorList = string(data)
}
