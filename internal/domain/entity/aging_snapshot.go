package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AgingSnapshot is an immutable point-in-time rollup of one patient's
// outstanding invoices into the six aging buckets. A reporting run creates a
// fresh set of rows under one RunID; history is never mutated.
type AgingSnapshot struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RunID         uuid.UUID `gorm:"type:uuid;not null;index" json:"run_id"`
	PatientID     uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	SnapshotDate  time.Time `gorm:"type:date;not null;index" json:"snapshot_date"`
	Bucket0To30   int64     `gorm:"default:0" json:"bucket_0_30"`    // paise
	Bucket31To60  int64     `gorm:"default:0" json:"bucket_31_60"`   // paise
	Bucket61To90  int64     `gorm:"default:0" json:"bucket_61_90"`   // paise
	Bucket91To180 int64     `gorm:"default:0" json:"bucket_91_180"`  // paise
	Bucket181To365 int64    `gorm:"default:0" json:"bucket_181_365"` // paise
	Bucket365Plus int64     `gorm:"default:0" json:"bucket_365_plus"` // paise
	TotalOutstanding int64  `gorm:"default:0" json:"total_outstanding"` // paise
	CreatedAt     time.Time `json:"created_at"`

	// Relationships
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

// BeforeCreate generates a UUID before creating a new aging snapshot
func (s *AgingSnapshot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the AgingSnapshot model
func (AgingSnapshot) TableName() string {
	return "aging_snapshots"
}
