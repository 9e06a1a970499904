package model

import "context"

// TxManager runs fn inside a single storage transaction. Store calls made
// with the context passed to fn join that transaction; the whole unit commits
// on nil and rolls back on error or cancellation.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
