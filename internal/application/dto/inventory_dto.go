package dto

import (
	"github.com/shopspring/decimal"
)

// RegisterStockMovementRequest reposición o ajuste de stock fuera de una venta.
// Type: restock_in | adjustment | initial. Negative sólo aplica a adjustment.
type RegisterStockMovementRequest struct {
	ProductID string          `json:"productId" validate:"required,max=64"`
	Type      string          `json:"type" validate:"required,oneof=restock_in adjustment initial"`
	Quantity  decimal.Decimal `json:"quantity"`
	Negative  bool            `json:"negative,omitempty"`
	Reason    string          `json:"reason,omitempty" validate:"max=255"`
	CreatedBy string          `json:"createdBy,omitempty" validate:"max=64"`
}

// StockMovementResponse asiento del ledger de inventario.
type StockMovementResponse struct {
	ID            string           `json:"id"`
	ProductID     string           `json:"productId"`
	Type          string           `json:"type"`
	Quantity      decimal.Decimal  `json:"quantity"`
	Delta         decimal.Decimal  `json:"delta"`
	StockAfter    *decimal.Decimal `json:"stockAfter,omitempty"`
	Reason        string           `json:"reason,omitempty"`
	ReferenceType string           `json:"referenceType,omitempty"`
	ReferenceID   string           `json:"referenceId,omitempty"`
	Timestamp     int64            `json:"timestamp"`
}

// StockDriftResponse diferencia entre stock materializado y ledger.
type StockDriftResponse struct {
	ProductID  string          `json:"productId"`
	Cached     decimal.Decimal `json:"cached"`
	FromLedger decimal.Decimal `json:"fromLedger"`
	Difference decimal.Decimal `json:"difference"`
}

// ReconcileResponse resultado de la reconciliación de stock.
type ReconcileResponse struct {
	Repaired bool                 `json:"repaired"`
	Drifts   []StockDriftResponse `json:"drifts"`
}
