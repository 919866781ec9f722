package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/medilink/hms-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Voucher is an atomic, balanced financial transaction: two or more entries
// whose debit and credit totals are equal. A voucher owns its entries
// exclusively; entries never outlive or move to another voucher. Posted
// vouchers are never deleted — mistakes are corrected by a contra-voucher.
type Voucher struct {
	ID        uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	Number    string             `gorm:"size:30;unique;not null" json:"number"`
	Date      time.Time          `gorm:"type:date;not null" json:"date"`
	Type      enum.VoucherType   `gorm:"default:0;index" json:"type"`
	Status    enum.VoucherStatus `gorm:"default:0;index" json:"status"`
	Narration string             `gorm:"size:500" json:"narration"`
	PatientID *uuid.UUID         `gorm:"type:uuid;index" json:"patient_id,omitempty"`
	BillRef   string             `gorm:"size:100" json:"bill_ref,omitempty"`
	// TotalAmount is the sum of the larger side across the entries, in paise.
	// With the double-entry invariant enforced both sides are equal, so it is
	// simply the debit total.
	TotalAmount int64     `gorm:"not null" json:"total_amount"`
	ExternalKey string    `gorm:"size:100;index" json:"external_key,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Patient *Patient       `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Entries []VoucherEntry `gorm:"foreignKey:VoucherID" json:"entries,omitempty"`
}

// BeforeCreate generates a UUID before creating a new voucher
func (v *Voucher) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Voucher model
func (Voucher) TableName() string {
	return "vouchers"
}

// VoucherEntry is one leg of a voucher. Exactly one of DebitAmount and
// CreditAmount is non-zero, and exactly one of AccountID and PatientLedgerID
// is set (both kinds may appear within one voucher).
type VoucherEntry struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	VoucherID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"voucher_id"`
	AccountID       *uuid.UUID `gorm:"type:uuid;index" json:"account_id,omitempty"`
	PatientLedgerID *uuid.UUID `gorm:"type:uuid;index" json:"patient_ledger_id,omitempty"`
	DebitAmount     int64      `gorm:"default:0" json:"debit_amount"`  // paise
	CreditAmount    int64      `gorm:"default:0" json:"credit_amount"` // paise
	Narration       string     `gorm:"size:500" json:"narration,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`

	// Relationships
	Voucher       Voucher        `gorm:"foreignKey:VoucherID" json:"-"`
	Account       *Account       `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	PatientLedger *PatientLedger `gorm:"foreignKey:PatientLedgerID" json:"patient_ledger,omitempty"`
}

// BeforeCreate generates a UUID before creating a new voucher entry
func (e *VoucherEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the VoucherEntry model
func (VoucherEntry) TableName() string {
	return "voucher_entries"
}

// VoucherSequence holds the next sequence number per voucher type. The row is
// bumped inside the voucher-creation transaction so numbers stay monotonic.
type VoucherSequence struct {
	Type       enum.VoucherType `gorm:"primaryKey" json:"type"`
	NextNumber int64            `gorm:"not null;default:1" json:"next_number"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// TableName returns the table name for the VoucherSequence model
func (VoucherSequence) TableName() string {
	return "voucher_sequences"
}
