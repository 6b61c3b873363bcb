package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

const (
	retryBaseDelay = 20 * time.Millisecond
	retryMaxDelay  = time.Second
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Ante serialization failure, deadlock o colisión de número de documento repite la unidad completa.
type TxRunner struct {
	pool    *pgxpool.Pool
	opts    pgx.TxOptions
	retries uint64
}

// NewTxRunner construye el runner. isolation: "read committed", "repeatable read" o "serializable".
func NewTxRunner(pool *pgxpool.Pool, isolation string, retries int) *TxRunner {
	if retries < 0 {
		retries = 0
	}
	return &TxRunner{
		pool:    pool,
		opts:    pgx.TxOptions{IsoLevel: isoLevel(isolation)},
		retries: uint64(retries),
	}
}

func isoLevel(s string) pgx.TxIsoLevel {
	switch strings.ToLower(s) {
	case "serializable":
		return pgx.Serializable
	case "repeatable read":
		return pgx.RepeatableRead
	default:
		return pgx.ReadCommitted
	}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	txRepo repository.TransactionRepository,
) error) error {
	backoff := retry.NewExponential(retryBaseDelay)
	backoff = retry.WithJitterPercent(20, backoff)
	backoff = retry.WithCappedDuration(retryMaxDelay, backoff)
	backoff = retry.WithMaxRetries(r.retries, backoff)
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := r.runOnce(ctx, fn)
		if err != nil && isRetryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	txRepo repository.TransactionRepository,
) error) error {
	tx, err := r.pool.BeginTx(ctx, r.opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewItemRepository(tx), NewTransactionRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
