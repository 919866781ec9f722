package request

import (
	"github.com/google/uuid"
	"github.com/medilink/hms-api/internal/domain/enum"
)

// Monetary amounts in request payloads are decimal rupee strings ("500.00");
// they are converted to paise at the boundary and stay integral inside.

// CreateAccountRequest represents a create-account request
type CreateAccountRequest struct {
	Code               string           `json:"code" binding:"required,max=20"`
	Name               string           `json:"name" binding:"required,max=150"`
	Type               enum.AccountType `json:"type"`
	OpeningBalance     string           `json:"opening_balance"`
	OpeningBalanceSide enum.BalanceSide `json:"opening_balance_side"`
	ExternalKey        string           `json:"external_key" binding:"max=100"`
}

// UpdateAccountRequest represents an update-account request
type UpdateAccountRequest struct {
	Name *string           `json:"name" binding:"omitempty,max=150"`
	Type *enum.AccountType `json:"type"`
}

// CreatePatientRequest represents a patient registration request
type CreatePatientRequest struct {
	MRN       string `json:"mrn" binding:"required,max=50"`
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"max=100"`
	Phone     string `json:"phone" binding:"max=20"`
}

// UpdatePatientRequest represents a patient update request
type UpdatePatientRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=100"`
	LastName  *string `json:"last_name" binding:"omitempty,max=100"`
	Phone     *string `json:"phone" binding:"omitempty,max=20"`
	Active    *bool   `json:"active"`
}

// CreatePatientLedgerRequest represents an explicit ledger creation request
type CreatePatientLedgerRequest struct {
	PatientID          uuid.UUID        `json:"patient_id" binding:"required"`
	AccountID          uuid.UUID        `json:"account_id" binding:"required"`
	OpeningBalance     string           `json:"opening_balance"`
	OpeningBalanceSide enum.BalanceSide `json:"opening_balance_side"`
}

// VoucherEntryRequest is one leg of a voucher creation request
type VoucherEntryRequest struct {
	AccountID       *uuid.UUID `json:"account_id"`
	PatientLedgerID *uuid.UUID `json:"patient_ledger_id"`
	Debit           string     `json:"debit"`
	Credit          string     `json:"credit"`
	Narration       string     `json:"narration" binding:"max=500"`
}

// CreateVoucherRequest represents a voucher creation request
type CreateVoucherRequest struct {
	Type      enum.VoucherType      `json:"type"`
	Date      string                `json:"date"` // YYYY-MM-DD, defaults to today
	Narration string                `json:"narration" binding:"max=500"`
	PatientID *uuid.UUID            `json:"patient_id"`
	BillRef   string                `json:"bill_ref" binding:"max=100"`
	Draft     bool                  `json:"draft"`
	Entries   []VoucherEntryRequest `json:"entries" binding:"required,dive"`
}

// ReverseVoucherRequest represents a voucher reversal request
type ReverseVoucherRequest struct {
	Narration string `json:"narration" binding:"max=500"`
}

// RecordInvoiceRequest represents an outstanding invoice registration request
type RecordInvoiceRequest struct {
	PatientID   uuid.UUID `json:"patient_id" binding:"required"`
	InvoiceNo   string    `json:"invoice_no" binding:"required,max=50"`
	InvoiceDate string    `json:"invoice_date" binding:"required"`
	DueDate     string    `json:"due_date" binding:"required"`
	Amount      string    `json:"amount" binding:"required"`
}

// RecordPaymentRequest represents a payment registration request
type RecordPaymentRequest struct {
	PatientID    uuid.UUID        `json:"patient_id" binding:"required"`
	PaymentDate  string           `json:"payment_date"`
	Mode         enum.PaymentMode `json:"mode"`
	Amount       string           `json:"amount" binding:"required"`
	BankName     string           `json:"bank_name" binding:"max=100"`
	ChequeNumber string           `json:"cheque_number" binding:"max=50"`
	ChequeDate   string           `json:"cheque_date"`
	Reference    string           `json:"reference" binding:"max=100"`
}

// AllocatePaymentRequest represents a payment allocation request
type AllocatePaymentRequest struct {
	InvoiceID uuid.UUID `json:"invoice_id" binding:"required"`
	Amount    string    `json:"amount" binding:"required"`
}

// UpdateSyncConfigRequest represents a sync configuration update request
type UpdateSyncConfigRequest struct {
	Host           *string             `json:"host" binding:"omitempty,max=200"`
	Port           *int                `json:"port" binding:"omitempty,min=1,max=65535"`
	CompanyName    *string             `json:"company_name" binding:"omitempty,max=200"`
	SyncEnabled    *bool               `json:"sync_enabled"`
	SyncFrequency  *enum.SyncFrequency `json:"sync_frequency"`
	UpdateExisting *bool               `json:"update_existing"`
	MappingRules   *string             `json:"mapping_rules"`
}

// TriggerSyncRequest represents a manual sync trigger request
type TriggerSyncRequest struct {
	Direction enum.SyncDirection `json:"direction"`
}

// TakeSnapshotRequest represents an aging snapshot request
type TakeSnapshotRequest struct {
	AsOf string `json:"as_of"` // YYYY-MM-DD, defaults to today
}
