package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/medilink/hms-api/internal/domain/enum"
	"gorm.io/gorm"
)

// PaymentTransaction records money received from a patient. Cash and
// electronic modes clear immediately; cheques stay Pending until cleared or
// bounced at the bank.
type PaymentTransaction struct {
	ID           uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	PatientID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"patient_id"`
	PaymentDate  time.Time          `gorm:"type:date;not null" json:"payment_date"`
	Mode         enum.PaymentMode   `gorm:"default:0" json:"mode"`
	Status       enum.PaymentStatus `gorm:"default:0;index" json:"status"`
	Amount       int64              `gorm:"not null" json:"amount"` // paise
	BankName     string             `gorm:"size:100" json:"bank_name,omitempty"`
	ChequeNumber string             `gorm:"size:50" json:"cheque_number,omitempty"`
	ChequeDate   *time.Time         `gorm:"type:date" json:"cheque_date,omitempty"`
	Reference    string             `gorm:"size:100" json:"reference,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`

	// Relationships
	Patient     Patient             `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Allocations []PaymentAllocation `gorm:"foreignKey:PaymentID" json:"allocations,omitempty"`
}

// BeforeCreate generates a UUID before creating a new payment transaction
func (p *PaymentTransaction) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PaymentTransaction model
func (PaymentTransaction) TableName() string {
	return "payment_transactions"
}

// PaymentAllocation applies part of a payment against one outstanding
// invoice. A payment may fan out over several invoices and an invoice may be
// settled by several payments. Each allocation is backed by a posted voucher
// so the double-entry invariant holds for settlements too.
type PaymentAllocation struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	PaymentID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"payment_id"`
	InvoiceID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"invoice_id"`
	VoucherID       *uuid.UUID `gorm:"type:uuid" json:"voucher_id,omitempty"`
	AllocatedAmount int64      `gorm:"not null" json:"allocated_amount"` // paise
	CreatedAt       time.Time  `json:"created_at"`

	// Relationships
	Payment PaymentTransaction `gorm:"foreignKey:PaymentID" json:"-"`
	Invoice OutstandingInvoice `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`
	Voucher *Voucher           `gorm:"foreignKey:VoucherID" json:"voucher,omitempty"`
}

// BeforeCreate generates a UUID before creating a new payment allocation
func (a *PaymentAllocation) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PaymentAllocation model
func (PaymentAllocation) TableName() string {
	return "payment_allocations"
}
