package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caixa-pdv/pkg/money"
)

// FinalizeSaleRequest carrito ya calculado por el PDV. Los importes son centavos.
// El servidor no recalcula descuentos: registra lo recibido (con verificación opcional).
type FinalizeSaleRequest struct {
	ClientSaleID  string            `json:"clientSaleId,omitempty" validate:"omitempty,max=64"`
	OperatorID    string            `json:"operatorId" validate:"required,max=64"`
	CashSessionID string            `json:"cashSessionId" validate:"required,max=64"`
	ClientID      string            `json:"clientId,omitempty" validate:"omitempty,max=64"`
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	Payments      []PaymentRequest  `json:"payments" validate:"required,min=1,dive"`
	Subtotal      money.Cents       `json:"subtotal" validate:"min=0"`
	DiscountTotal money.Cents       `json:"discountTotal" validate:"min=0"`
	Total         money.Cents       `json:"total" validate:"min=0"`
}

// SaleItemRequest línea del carrito con los datos de producto a congelar.
type SaleItemRequest struct {
	ProductID             string          `json:"productId" validate:"required,max=64"`
	ProductName           string          `json:"productName" validate:"max=255"`
	ProductInternalCode   string          `json:"productInternalCode" validate:"max=64"`
	ProductEAN            string          `json:"productEan" validate:"max=64"`
	Unit                  string          `json:"unit" validate:"max=16"`
	Quantity              decimal.Decimal `json:"quantity"`
	UnitPrice             money.Cents     `json:"unitPrice" validate:"min=0"`
	AutoDiscountApplied   money.Cents     `json:"autoDiscountApplied" validate:"min=0"`
	ManualDiscountApplied money.Cents     `json:"manualDiscountApplied" validate:"min=0"`
	FinalUnitPrice        money.Cents     `json:"finalUnitPrice" validate:"min=0"`
	LineTotal             money.Cents     `json:"lineTotal" validate:"min=0"`
}

// PaymentRequest pago del carrito. Metadata se persiste tal cual.
type PaymentRequest struct {
	Method   string          `json:"method" validate:"required,lowercase,max=20"`
	Amount   *money.Cents    `json:"amount" validate:"required,min=0"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// FinalizeSaleResponse respuesta de POST /api/sales.
type FinalizeSaleResponse struct {
	SaleID    string `json:"saleId"`
	Duplicate bool   `json:"duplicate"`
}

// SaleResponse venta con líneas y pagos.
type SaleResponse struct {
	ID            string                `json:"id"`
	ClientSaleID  string                `json:"clientSaleId,omitempty"`
	Timestamp     int64                 `json:"timestamp"`
	OperatorID    string                `json:"operatorId"`
	CashSessionID string                `json:"cashSessionId"`
	ClientID      string                `json:"clientId,omitempty"`
	Subtotal      money.Cents           `json:"subtotal"`
	DiscountTotal money.Cents           `json:"discountTotal"`
	Total         money.Cents           `json:"total"`
	Status        string                `json:"status"`
	Items         []SaleItemResponse    `json:"items"`
	Payments      []SalePaymentResponse `json:"payments"`
}

// SaleItemResponse línea registrada (snapshot).
type SaleItemResponse struct {
	ID                    string          `json:"id"`
	ProductID             string          `json:"productId"`
	ProductName           string          `json:"productName"`
	ProductInternalCode   string          `json:"productInternalCode"`
	ProductEAN            string          `json:"productEan"`
	Unit                  string          `json:"unit"`
	Quantity              decimal.Decimal `json:"quantity"`
	UnitPrice             money.Cents     `json:"unitPrice"`
	AutoDiscountApplied   money.Cents     `json:"autoDiscountApplied"`
	ManualDiscountApplied money.Cents     `json:"manualDiscountApplied"`
	FinalUnitPrice        money.Cents     `json:"finalUnitPrice"`
	LineTotal             money.Cents     `json:"lineTotal"`
}

// SalePaymentResponse pago registrado.
type SalePaymentResponse struct {
	ID        string          `json:"id"`
	Method    string          `json:"method"`
	Amount    money.Cents     `json:"amount"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt int64           `json:"createdAt"`
}
