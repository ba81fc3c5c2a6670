package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caixa-pdv/internal/domain"
	"github.com/jhoicas/caixa-pdv/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo mantiene products.stock_on_hand (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// GetForUpdate obtiene el stock y bloquea la fila del producto (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, productID string) (decimal.Decimal, error) {
	var qty decimal.Decimal
	err := r.q.QueryRow(ctx, `SELECT stock_on_hand FROM products WHERE id = $1 FOR UPDATE`, productID).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
		}
		return decimal.Zero, mapError("get stock for update", err)
	}
	return qty, nil
}

// ApplyDelta suma delta en una única sentencia; el UPDATE bloquea la fila hasta el fin de la tx.
func (r *StockRepo) ApplyDelta(ctx context.Context, productID string, delta decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE products SET stock_on_hand = stock_on_hand + $2, updated_at = now()
		WHERE id = $1
		RETURNING stock_on_hand`
	var after decimal.Decimal
	if err := r.q.QueryRow(ctx, query, productID, delta).Scan(&after); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
		}
		return decimal.Zero, mapError("apply stock delta", err)
	}
	return after, nil
}

// Set sobreescribe el stock materializado.
func (r *StockRepo) Set(ctx context.Context, productID string, qty decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE products SET stock_on_hand = $2, updated_at = now() WHERE id = $1`, productID, qty)
	if err != nil {
		return mapError("set stock", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	return nil
}
