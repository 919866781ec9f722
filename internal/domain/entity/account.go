package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/medilink/hms-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Account is one row of the chart of accounts. Accounts are never physically
// deleted — historical vouchers reference them — only deactivated. An account
// carries no running balance column; balances are computed on demand from
// posted voucher entries.
type Account struct {
	ID                 uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Code               string           `gorm:"size:20;unique;not null" json:"code"`
	Name               string           `gorm:"size:150;not null" json:"name"`
	Type               enum.AccountType `gorm:"default:0" json:"type"`
	OpeningBalance     int64            `gorm:"default:0" json:"opening_balance"` // paise
	OpeningBalanceSide enum.BalanceSide `gorm:"default:0" json:"opening_balance_side"`
	Active             bool             `gorm:"default:true" json:"active"`
	// ExternalKey is the external system's stable identifier, attached once a
	// record has been matched during sync. It is what makes re-imports
	// idempotent.
	ExternalKey string    `gorm:"size:100;index" json:"external_key,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new account
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Account model
func (Account) TableName() string {
	return "accounts"
}
