package repository

import "context"

// TxManager runs a function inside a single database transaction. Repository
// calls made with the context passed to fn join that transaction, so a
// voucher, its entries, the sequence bump and the ledger updates commit or
// roll back together.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
