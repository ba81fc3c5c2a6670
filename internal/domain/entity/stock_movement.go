package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	StockMovementSaleOut    = "sale_out"   // salida por venta
	StockMovementRestockIn  = "restock_in" // entrada por reposición
	StockMovementAdjustment = "adjustment" // ajuste (positivo o negativo)
	StockMovementInitial    = "initial"    // carga inicial
)

// Tipos de referencia de un movimiento (qué documento lo originó).
const (
	ReferenceTypeSale      = "sale"
	ReferenceTypeManual    = "manual"
	ReferenceTypeReconcile = "reconcile"
)

// StockMovement asiento append-only del ledger de inventario.
// Quantity es siempre positiva; Delta lleva el signo aplicado a stock_on_hand.
type StockMovement struct {
	ID            string
	ProductID     string
	Type          string
	Quantity      decimal.Decimal
	Delta         decimal.Decimal
	Reason        string
	ReferenceType string
	ReferenceID   string
	Timestamp     time.Time
	CreatedBy     string
}

// StockDrift diferencia entre el stock materializado y el reconstruido desde el ledger.
type StockDrift struct {
	ProductID  string
	Cached     decimal.Decimal
	FromLedger decimal.Decimal
	Difference decimal.Decimal // Cached - FromLedger
}
