package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caixa-pdv/pkg/money"
)

// Estados de venta. Hoy sólo existe "completed"; una venta nunca se actualiza en sitio.
const (
	SaleStatusCompleted = "completed"
)

// SnapshotSentinel reemplaza código interno/EAN vacíos (servicios sin SKU físico).
const SnapshotSentinel = "-"

// Sale cabecera de una venta finalizada. Inmutable una vez escrita.
// Invariante al escribir: Total == Subtotal - DiscountTotal.
type Sale struct {
	ID            string
	ClientSaleID  string // clave de idempotencia opcional enviada por el PDV
	OperatorID    string
	CashSessionID string
	ClientID      string
	Subtotal      money.Cents
	DiscountTotal money.Cents
	Total         money.Cents
	Status        string
	Timestamp     time.Time
	CreatedAt     time.Time
	Items         []SaleItem
	Payments      []Payment
}

// SaleItem línea de la venta con los datos del producto congelados al momento de vender.
// Invariante: LineTotal == FinalUnitPrice * Quantity (redondeado al centavo).
type SaleItem struct {
	ID                    string
	SaleID                string
	ProductID             string
	ProductNameSnapshot   string
	InternalCodeSnapshot  string
	EANSnapshot           string
	UnitSnapshot          string
	Quantity              decimal.Decimal
	UnitPrice             money.Cents
	AutoDiscountApplied   money.Cents
	ManualDiscountApplied money.Cents
	FinalUnitPrice        money.Cents
	LineTotal             money.Cents
}
