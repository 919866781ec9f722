// Package tally speaks the XML envelope dialect of the external bookkeeping
// system. Documents are schema-light: well-known elements are typed, anything
// unrecognised is preserved verbatim so mapping rules can pick it up.
package tally

import (
	"encoding/xml"
	"strings"

	"github.com/shopspring/decimal"
)

// RequestKind selects what a request envelope asks the external system for.
const (
	RequestExportLedgers  = "Export Ledgers"
	RequestExportVouchers = "Export Vouchers"
	RequestImportData     = "Import Data"
)

// Envelope is the outermost element of every exchange with the external
// system, both directions.
type Envelope struct {
	XMLName xml.Name `xml:"ENVELOPE"`
	Header  Header   `xml:"HEADER"`
	Body    Body     `xml:"BODY"`
}

// Header names the operation the envelope carries
type Header struct {
	Request string `xml:"TALLYREQUEST"`
	Company string `xml:"COMPANY,omitempty"`
}

// Body carries the document payload
type Body struct {
	Ledgers  []LedgerDocument  `xml:"LEDGER,omitempty"`
	Vouchers []VoucherDocument `xml:"VOUCHER,omitempty"`
}

// ExtraField is an element the schema does not know. It round-trips
// unparsed; configured mapping rules may bind it to a local attribute.
type ExtraField struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// LedgerDocument is one chart-of-accounts record on the wire
type LedgerDocument struct {
	ExternalKey    string       `xml:"GUID"`
	Name           string       `xml:"NAME"`
	Code           string       `xml:"CODE,omitempty"`
	Parent         string       `xml:"PARENT,omitempty"`
	OpeningBalance string       `xml:"OPENINGBALANCE,omitempty"`
	Extras         []ExtraField `xml:",any"`
}

// Extra returns the value of an unrecognised element by its local name,
// case-insensitively.
func (d *LedgerDocument) Extra(name string) string {
	for _, f := range d.Extras {
		if strings.EqualFold(f.XMLName.Local, name) {
			return strings.TrimSpace(f.Value)
		}
	}
	return ""
}

// VoucherDocument is one voucher record on the wire
type VoucherDocument struct {
	ExternalKey string          `xml:"GUID"`
	Number      string          `xml:"VOUCHERNUMBER,omitempty"`
	Type        string          `xml:"VOUCHERTYPENAME,omitempty"`
	Date        string          `xml:"DATE"`
	Narration   string          `xml:"NARRATION,omitempty"`
	Entries     []EntryDocument `xml:"ALLLEDGERENTRIES.LIST"`
	Extras      []ExtraField    `xml:",any"`
}

// EntryDocument is one leg of a voucher on the wire. Following the external
// system's convention the amount is signed: negative is a debit, positive a
// credit.
type EntryDocument struct {
	LedgerName string `xml:"LEDGERNAME"`
	Amount     string `xml:"AMOUNT"`
}

// DebitCredit splits the signed wire amount into debit and credit paise.
func (e *EntryDocument) DebitCredit() (debit, credit int64, err error) {
	d, err := decimal.NewFromString(strings.TrimSpace(e.Amount))
	if err != nil {
		return 0, 0, err
	}
	paise := d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if paise < 0 {
		return -paise, 0, nil
	}
	return 0, paise, nil
}

// ParseAmount converts a wire amount in rupees to paise. The wire carries
// plain decimal strings; an empty string is zero.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

// FormatAmount renders paise as a wire decimal string in rupees.
func FormatAmount(paise int64) string {
	return decimal.NewFromInt(paise).Div(decimal.NewFromInt(100)).StringFixed(2)
}

// NewRequest builds a request envelope asking the external system for data.
func NewRequest(kind, company string) *Envelope {
	return &Envelope{
		Header: Header{Request: kind, Company: company},
	}
}

// Marshal renders an envelope as an XML document with header.
func Marshal(env *Envelope) ([]byte, error) {
	data, err := xml.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), data...), nil
}

// Unmarshal parses an XML document into an envelope.
func Unmarshal(data []byte) (*Envelope, error) {
	var env Envelope
	if err := xml.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return &env, nil
}
