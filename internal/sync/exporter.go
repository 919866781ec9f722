package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/medilink/hms-api/internal/domain/entity"
	"github.com/medilink/hms-api/internal/domain/enum"
	"github.com/medilink/hms-api/internal/domain/repository"
	"github.com/medilink/hms-api/internal/sync/tally"
	"github.com/medilink/hms-api/pkg/apperror"
	"github.com/medilink/hms-api/pkg/pagination"
)

// Export document kinds for on-demand downloads.
const (
	ExportAll      = "all"
	ExportLedgers  = "ledgers"
	ExportVouchers = "vouchers"
)

// Exporter renders local ledger state as external-system documents. Building
// the envelope is a pure transform of what is already persisted; nothing is
// mutated locally on export.
type Exporter struct {
	accountRepo repository.AccountRepository
	voucherRepo repository.VoucherRepository
}

// NewExporter creates a new exporter
func NewExporter(accountRepo repository.AccountRepository, voucherRepo repository.VoucherRepository) *Exporter {
	return &Exporter{
		accountRepo: accountRepo,
		voucherRepo: voucherRepo,
	}
}

// BuildEnvelope assembles the export envelope: the full active chart of
// accounts plus every posted voucher that originated locally (no external
// key yet). The external system dedupes by voucher number on its side.
func (ex *Exporter) BuildEnvelope(ctx context.Context, cfg *entity.ExternalSyncConfig) (*tally.Envelope, int, error) {
	env := tally.NewRequest(tally.RequestImportData, cfg.CompanyName)
	records := 0

	accounts, err := ex.accountRepo.ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	for _, a := range accounts {
		if !a.Active {
			continue
		}
		opening := a.OpeningBalance
		if a.OpeningBalanceSide != a.Type.NormalSide() {
			opening = -opening
		}
		env.Body.Ledgers = append(env.Body.Ledgers, tally.LedgerDocument{
			ExternalKey:    a.ExternalKey,
			Name:           a.Name,
			Code:           a.Code,
			Parent:         a.Type.String(),
			OpeningBalance: tally.FormatAmount(opening),
		})
		records++
	}

	vouchers, err := ex.localVouchers(ctx)
	if err != nil {
		return nil, 0, err
	}
	for _, v := range vouchers {
		env.Body.Vouchers = append(env.Body.Vouchers, ex.voucherDocument(&v))
		records++
	}

	return env, records, nil
}

// BuildExport assembles a downloadable export document of the given kind:
// the full envelope, the chart of accounts only, or local vouchers only.
func (ex *Exporter) BuildExport(ctx context.Context, cfg *entity.ExternalSyncConfig, kind string) (*tally.Envelope, int, error) {
	env, _, err := ex.BuildEnvelope(ctx, cfg)
	if err != nil {
		return nil, 0, err
	}

	switch kind {
	case ExportAll:
	case ExportLedgers:
		env.Body.Vouchers = nil
	case ExportVouchers:
		env.Body.Ledgers = nil
	default:
		return nil, 0, apperror.NewBadRequestError(fmt.Sprintf("Unknown export type %q", kind))
	}

	return env, len(env.Body.Ledgers) + len(env.Body.Vouchers), nil
}

// localVouchers pages through posted vouchers and keeps the locally
// originated ones.
func (ex *Exporter) localVouchers(ctx context.Context) ([]entity.Voucher, error) {
	status := enum.VoucherStatusPosted
	var local []entity.Voucher

	params := &repository.VoucherFilterParams{
		Status:     &status,
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 100},
	}
	for {
		vouchers, _, err := ex.voucherRepo.List(ctx, params)
		if err != nil {
			return nil, err
		}
		for _, v := range vouchers {
			if v.ExternalKey == "" {
				local = append(local, v)
			}
		}
		if len(vouchers) < params.Pagination.PerPage {
			return local, nil
		}
		params.Pagination.Page++
	}
}

func (ex *Exporter) voucherDocument(v *entity.Voucher) tally.VoucherDocument {
	doc := tally.VoucherDocument{
		Number:    v.Number,
		Type:      v.Type.String(),
		Date:      v.Date.Format("20060102"),
		Narration: v.Narration,
	}
	for _, e := range v.Entries {
		name := ""
		if e.Account != nil {
			name = e.Account.Name
		} else if e.PatientLedger != nil && e.PatientLedger.Patient.MRN != "" {
			name = "Patient " + e.PatientLedger.Patient.MRN
		}
		amount := e.CreditAmount - e.DebitAmount
		doc.Entries = append(doc.Entries, tally.EntryDocument{
			LedgerName: name,
			Amount:     tally.FormatAmount(amount),
		})
	}
	return doc
}

// ExportFilename names a downloadable export document after its kind and the
// time it was built.
func ExportFilename(kind string, at time.Time) string {
	return "hms-export-" + kind + "-" + at.Format("20060102-150405") + ".xml"
}
