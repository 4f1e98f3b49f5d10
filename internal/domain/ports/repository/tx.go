package repository

import "context"

// Tx is an opaque transaction handle. Repositories accept it so a use case
// can group several calls into one storage transaction without leaking the
// storage engine's types; the concrete value is infra-defined (pgx.Tx for
// Postgres). Repositories must gracefully accept NoTX for the
// non-transactional path.
type Tx interface{}

var NoTX Tx

// TransactionManager executes fn inside a storage transaction, passing the
// engine's handle through the Tx argument. fn returning an error rolls back.
type TransactionManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
