package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// StockRepository actualiza el stock materializado (products.stock_on_hand).
// Usado dentro de transacciones, siempre junto al movimiento que lo justifica.
type StockRepository interface {
	// GetForUpdate lee el stock actual bloqueando la fila (SELECT FOR UPDATE).
	// Devuelve domain.ErrNotFound si el producto no existe.
	GetForUpdate(ctx context.Context, productID string) (decimal.Decimal, error)
	// ApplyDelta suma delta al stock y devuelve el valor resultante.
	// Devuelve domain.ErrNotFound si el producto no existe.
	ApplyDelta(ctx context.Context, productID string, delta decimal.Decimal) (decimal.Decimal, error)
	// Set sobreescribe el stock (reparación desde el ledger).
	Set(ctx context.Context, productID string, qty decimal.Decimal) error
}
