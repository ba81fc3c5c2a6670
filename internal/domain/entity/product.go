package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caixa-pdv/pkg/money"
)

// Product producto del catálogo. StockOnHand es un caché materializado de la suma de
// movimientos; se actualiza en la misma transacción que el movimiento.
type Product struct {
	ID           string
	Name         string
	InternalCode string
	EAN          string
	Unit         string
	SalePrice    money.Cents
	CostPrice    money.Cents
	StockOnHand  decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
