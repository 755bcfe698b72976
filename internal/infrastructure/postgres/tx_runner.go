package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/gestinvlab-api/internal/application/inventory"
	"github.com/jhoicas/gestinvlab-api/internal/domain/repository"
	"github.com/jhoicas/gestinvlab-api/pkg/config"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL READ COMMITTED con
// lock_timeout y statement_timeout locales a la transacción.
type TxRunner struct {
	pool             *pgxpool.Pool
	lockTimeout      time.Duration
	statementTimeout time.Duration
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, cfg config.TxConfig) *TxRunner {
	return &TxRunner{pool: pool, lockTimeout: cfg.LockTimeout, statementTimeout: cfg.StatementTimeout}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Los errores de fn se devuelven tal cual; los de begin/commit se clasifican.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	batchRepo repository.BatchRepository,
	itemRepo repository.ItemRepository,
) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return classify("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := setLocalTimeout(ctx, tx, "lock_timeout", r.lockTimeout); err != nil {
		return err
	}
	if err := setLocalTimeout(ctx, tx, "statement_timeout", r.statementTimeout); err != nil {
		return err
	}

	if err := fn(NewMovementRepository(tx), NewBatchRepository(tx), NewItemRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return classify("commit transaction", err)
	}
	return nil
}

// setLocalTimeout equivale a SET LOCAL: el valor se descarta al terminar la transacción.
func setLocalTimeout(ctx context.Context, tx pgx.Tx, name string, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	_, err := tx.Exec(ctx, "SELECT set_config($1, $2, true)", name, fmt.Sprintf("%dms", d.Milliseconds()))
	return classify("set "+name, err)
}
