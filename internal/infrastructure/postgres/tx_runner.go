package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/caixa-pdv/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// maxTxAttempts intentos ante fallos de serialización antes de rendirse.
const maxTxAttempts = 3

// TxRunner ejecuta callbacks dentro de una transacción SERIALIZABLE.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Si Postgres aborta por serialización o deadlock, fn se repite desde cero.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.TxRepos) error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = r.runOnce(ctx, fn)
		if err == nil || !isRetryable(err) || ctx.Err() != nil {
			return err
		}
	}
	return err
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(tx repository.TxRepos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return mapError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return mapError("commit transaction", fmt.Errorf("commit: %w", err))
	}
	return nil
}

// NewRepos construye todos los repositorios sobre el mismo Querier (pool o tx).
func NewRepos(q Querier) repository.TxRepos {
	return repository.TxRepos{
		Products:       NewProductRepository(q),
		Stock:          NewStockRepository(q),
		StockMovements: NewStockMovementRepository(q),
		Sales:          NewSaleRepository(q),
		CashSessions:   NewCashSessionRepository(q),
		CashMovements:  NewCashMovementRepository(q),
	}
}
