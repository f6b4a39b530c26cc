package repositories

import (
	"context"
)

// TransactionManager runs a unit of work inside one database transaction.
//
// Repositories called with the ctx passed to fn take part in the transaction.
// A WithinTx nested in another runs as a savepoint: its failure rolls back
// only its own writes and leaves the outer transaction usable.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
