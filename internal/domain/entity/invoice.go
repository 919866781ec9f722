package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OutstandingInvoice tracks what a patient still owes on one bill.
// OutstandingAmount is invoice amount minus the sum of allocations; once it
// reaches zero the invoice drops out of aging runs but stays for history.
// The aging bucket is derived at read/snapshot time, never stored.
type OutstandingInvoice struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	PatientID         uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	InvoiceNo         string    `gorm:"size:50;unique;not null" json:"invoice_no"`
	InvoiceDate       time.Time `gorm:"type:date;not null" json:"invoice_date"`
	DueDate           time.Time `gorm:"type:date;not null" json:"due_date"`
	InvoiceAmount     int64     `gorm:"not null" json:"invoice_amount"`                 // paise
	OutstandingAmount int64     `gorm:"not null;default:0" json:"outstanding_amount"` // paise
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	// Relationships
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *OutstandingInvoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OutstandingInvoice model
func (OutstandingInvoice) TableName() string {
	return "outstanding_invoices"
}
