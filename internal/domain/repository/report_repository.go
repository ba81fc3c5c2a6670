package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caixa-pdv/pkg/money"
)

// SoldProductLine una fila por línea de venta (auditoría).
type SoldProductLine struct {
	SaleID      string
	ProductID   string
	ProductName string // snapshot al momento de la venta
	Quantity    decimal.Decimal
	TotalValue  money.Cents
	SaleDate    time.Time
}

// SoldProductSummary agregado por producto y nombre snapshot.
type SoldProductSummary struct {
	ProductID     string
	ProductName   string
	TotalQuantity decimal.Decimal
	TotalValue    money.Cents
}

// ProductMixRow fila del mix de productos.
// Frequency es la cantidad de ventas distintas que contienen el producto (no unidades).
type ProductMixRow struct {
	ProductID     string
	ProductName   string
	Unit          string
	Frequency     int
	TotalQuantity decimal.Decimal
	TotalValue    money.Cents
	CostPrice     money.Cents
	SalePrice     money.Cents
}

// ReportRepository consultas de solo lectura sobre los ledgers. Nunca participa en
// transacciones de escritura.
type ReportRepository interface {
	// SoldProductsDetailed devuelve las líneas vendidas, más recientes primero. limit <= 0 = sin límite.
	SoldProductsDetailed(ctx context.Context, limit int) ([]SoldProductLine, error)

	// SoldProductsSummary agrupa por producto y nombre snapshot, ordenado por cantidad descendente.
	// from/to nil = sin límite en ese extremo.
	SoldProductsSummary(ctx context.Context, from, to *time.Time) ([]SoldProductSummary, error)

	// ProductMix devuelve frecuencia (ventas distintas) y volumen por producto en el rango.
	ProductMix(ctx context.Context, from, to time.Time) ([]ProductMixRow, error)
}
