package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/medilink/hms-api/internal/domain/enum"
	"github.com/medilink/hms-api/pkg/money"
	"gorm.io/gorm"
)

// PatientLedger is the running balance for one (patient, account) pair. Rows
// are created lazily on the first financial event and mutated only by the
// voucher posting routine. The stored balance is a materialized cache of the
// posted entry history and can always be rebuilt by replaying it.
type PatientLedger struct {
	ID                 uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	PatientID          uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_patient_account" json:"patient_id"`
	AccountID          uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_patient_account" json:"account_id"`
	OpeningBalance     int64            `gorm:"default:0" json:"opening_balance"` // paise
	OpeningBalanceSide enum.BalanceSide `gorm:"default:0" json:"opening_balance_side"`
	CurrentBalance     int64            `gorm:"default:0" json:"current_balance"` // paise
	CurrentBalanceSide enum.BalanceSide `gorm:"default:0" json:"current_balance_side"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`

	// Relationships
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Account Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}

// BeforeCreate generates a UUID before creating a new patient ledger
func (l *PatientLedger) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PatientLedger model
func (PatientLedger) TableName() string {
	return "patient_ledgers"
}

// Balance returns the current balance in signed form.
func (l *PatientLedger) Balance() money.Balance {
	return money.Combine(l.CurrentBalance, l.CurrentBalanceSide)
}

// SetBalance projects a signed balance back onto the stored columns.
func (l *PatientLedger) SetBalance(b money.Balance) {
	l.CurrentBalance, l.CurrentBalanceSide = b.Split()
}
