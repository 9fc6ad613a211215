package ports

import "context"

// TxManager runs fn inside one unit of work. Returning an error from fn
// rolls the unit back where the backing store supports it.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
