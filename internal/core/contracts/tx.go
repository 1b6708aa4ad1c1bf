package contracts

import "context"

// TxRunner executes fn atomically against the durable store.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
