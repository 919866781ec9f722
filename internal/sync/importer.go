package sync

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/medilink/hms-api/internal/application/service"
	"github.com/medilink/hms-api/internal/domain/entity"
	"github.com/medilink/hms-api/internal/domain/enum"
	"github.com/medilink/hms-api/internal/domain/repository"
	"github.com/medilink/hms-api/internal/sync/tally"
)

// Record error codes collected on a sync run.
const (
	errCodeParse         = "PARSE"
	errCodeMissingKey    = "MISSING_KEY"
	errCodeUnknownLedger = "UNKNOWN_LEDGER"
	errCodeRejected      = "REJECTED"
)

// Importer turns external documents into local accounts and vouchers. Every
// record failure is collected, never fatal: a half-good document imports its
// good half.
type Importer struct {
	accountService *service.AccountService
	voucherService *service.VoucherService
	accountRepo    repository.AccountRepository
	voucherRepo    repository.VoucherRepository
}

// NewImporter creates a new importer
func NewImporter(
	accountService *service.AccountService,
	voucherService *service.VoucherService,
	accountRepo repository.AccountRepository,
	voucherRepo repository.VoucherRepository,
) *Importer {
	return &Importer{
		accountService: accountService,
		voucherService: voucherService,
		accountRepo:    accountRepo,
		voucherRepo:    voucherRepo,
	}
}

// ImportLedgers upserts external chart-of-accounts records. Matching is by
// external key first, then code; re-importing the same document is a no-op.
func (im *Importer) ImportLedgers(ctx context.Context, docs []tally.LedgerDocument, cfg *entity.ExternalSyncConfig) (int, []entity.SyncRunError) {
	var errs []entity.SyncRunError
	processed := 0
	mapping := cfg.FieldMapping()

	for i, doc := range docs {
		if strings.TrimSpace(doc.ExternalKey) == "" {
			errs = append(errs, entity.SyncRunError{
				RecordIndex: i,
				Identifier:  doc.Name,
				ErrorCode:   errCodeMissingKey,
				Message:     "ledger record has no external key",
			})
			continue
		}

		opening, err := tally.ParseAmount(doc.OpeningBalance)
		if err != nil {
			errs = append(errs, entity.SyncRunError{
				RecordIndex: i,
				Identifier:  doc.ExternalKey,
				ErrorCode:   errCodeParse,
				Message:     fmt.Sprintf("bad opening balance %q: %v", doc.OpeningBalance, err),
			})
			continue
		}

		accountType := mapAccountType(doc.Parent, mapping)
		side := accountType.NormalSide()
		if opening < 0 {
			opening = -opening
			side = side.Opposite()
		}

		code := strings.TrimSpace(doc.Code)
		if code == "" {
			code = fallbackCode(doc.ExternalKey)
		}

		_, _, err = im.accountService.UpsertExternal(ctx, &service.UpsertExternalInput{
			ExternalKey:        doc.ExternalKey,
			Code:               code,
			Name:               doc.Name,
			Type:               accountType,
			OpeningBalance:     opening,
			OpeningBalanceSide: side,
			UpdateExisting:     cfg.UpdateExisting,
		})
		if err != nil {
			errs = append(errs, entity.SyncRunError{
				RecordIndex: i,
				Identifier:  doc.ExternalKey,
				ErrorCode:   errCodeRejected,
				Message:     err.Error(),
			})
			continue
		}
		processed++
	}

	return processed, errs
}

// ImportVouchers creates local vouchers for external voucher records. A
// record whose external key already exists locally is skipped silently, which
// is what makes re-imports idempotent.
func (im *Importer) ImportVouchers(ctx context.Context, docs []tally.VoucherDocument, cfg *entity.ExternalSyncConfig) (int, []entity.SyncRunError) {
	var errs []entity.SyncRunError
	processed := 0

	byName, err := im.accountsByName(ctx)
	if err != nil {
		errs = append(errs, entity.SyncRunError{
			ErrorCode: errCodeRejected,
			Message:   fmt.Sprintf("loading chart of accounts: %v", err),
		})
		return 0, errs
	}

	for i, doc := range docs {
		if strings.TrimSpace(doc.ExternalKey) == "" {
			errs = append(errs, entity.SyncRunError{
				RecordIndex: i,
				Identifier:  doc.Number,
				ErrorCode:   errCodeMissingKey,
				Message:     "voucher record has no external key",
			})
			continue
		}

		existing, err := im.voucherRepo.GetByExternalKey(ctx, doc.ExternalKey)
		if err != nil {
			errs = append(errs, entity.SyncRunError{
				RecordIndex: i,
				Identifier:  doc.ExternalKey,
				ErrorCode:   errCodeRejected,
				Message:     err.Error(),
			})
			continue
		}
		if existing != nil {
			processed++
			continue
		}

		input, recErr := im.buildVoucherInput(doc, byName)
		if recErr != nil {
			recErr.RecordIndex = i
			errs = append(errs, *recErr)
			continue
		}

		if _, err := im.voucherService.CreateVoucher(ctx, input); err != nil {
			errs = append(errs, entity.SyncRunError{
				RecordIndex: i,
				Identifier:  doc.ExternalKey,
				ErrorCode:   errCodeRejected,
				Message:     err.Error(),
			})
			continue
		}
		processed++
	}

	return processed, errs
}

func (im *Importer) buildVoucherInput(doc tally.VoucherDocument, byName map[string]*entity.Account) (*service.CreateVoucherInput, *entity.SyncRunError) {
	date, err := parseWireDate(doc.Date)
	if err != nil {
		return nil, &entity.SyncRunError{
			Identifier: doc.ExternalKey,
			ErrorCode:  errCodeParse,
			Message:    fmt.Sprintf("bad date %q: %v", doc.Date, err),
		}
	}

	input := &service.CreateVoucherInput{
		Type:        mapVoucherType(doc.Type),
		Date:        date,
		Narration:   doc.Narration,
		ExternalKey: doc.ExternalKey,
	}

	for _, e := range doc.Entries {
		account, ok := byName[strings.ToLower(strings.TrimSpace(e.LedgerName))]
		if !ok {
			return nil, &entity.SyncRunError{
				Identifier: doc.ExternalKey,
				ErrorCode:  errCodeUnknownLedger,
				Message:    fmt.Sprintf("entry references unknown ledger %q", e.LedgerName),
			}
		}

		debit, credit, err := e.DebitCredit()
		if err != nil {
			return nil, &entity.SyncRunError{
				Identifier: doc.ExternalKey,
				ErrorCode:  errCodeParse,
				Message:    fmt.Sprintf("bad amount %q: %v", e.Amount, err),
			}
		}

		id := account.ID
		input.Entries = append(input.Entries, service.VoucherEntryInput{
			AccountID:    &id,
			DebitAmount:  debit,
			CreditAmount: credit,
		})
	}

	return input, nil
}

func (im *Importer) accountsByName(ctx context.Context) (map[string]*entity.Account, error) {
	accounts, err := im.accountRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*entity.Account, len(accounts))
	for i := range accounts {
		byName[strings.ToLower(accounts[i].Name)] = &accounts[i]
	}
	return byName, nil
}

// fallbackCode derives a stable account code from the external key, so the
// same record always lands on the same code across runs.
func fallbackCode(externalKey string) string {
	h := fnv.New32a()
	h.Write([]byte(externalKey))
	return fmt.Sprintf("EXT-%08X", h.Sum32())
}

// mapAccountType resolves an external group name to an account type, applying
// configured mapping rules before falling back to keyword matching.
func mapAccountType(parent string, mapping map[string]string) enum.AccountType {
	name := strings.ToLower(strings.TrimSpace(parent))
	if mapped, ok := mapping[name]; ok {
		name = strings.ToLower(mapped)
	}
	switch {
	case strings.Contains(name, "liabilit"):
		return enum.AccountTypeLiability
	case strings.Contains(name, "equity"), strings.Contains(name, "capital"):
		return enum.AccountTypeEquity
	case strings.Contains(name, "income"), strings.Contains(name, "revenue"), strings.Contains(name, "sales"):
		return enum.AccountTypeIncome
	case strings.Contains(name, "expense"), strings.Contains(name, "purchase"):
		return enum.AccountTypeExpense
	default:
		return enum.AccountTypeAsset
	}
}

func mapVoucherType(name string) enum.VoucherType {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "payment":
		return enum.VoucherTypePayment
	case "receipt":
		return enum.VoucherTypeReceipt
	case "sales":
		return enum.VoucherTypeSales
	case "contra":
		return enum.VoucherTypeContra
	default:
		return enum.VoucherTypeJournal
	}
}

// parseWireDate accepts the external system's compact date alongside ISO.
func parseWireDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"20060102", "2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date format")
}
