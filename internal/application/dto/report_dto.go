package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caixa-pdv/pkg/money"
)

// SoldProductLineDTO línea vendida (auditoría).
type SoldProductLineDTO struct {
	SaleID      string          `json:"saleId"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    decimal.Decimal `json:"quantity"`
	TotalValue  money.Cents     `json:"totalValue"`
	SaleDate    int64           `json:"saleDate"`
}

// SoldProductLines listado detallado. Truncated indica que había más de Limit líneas;
// por HTTP se informa con las cabeceras X-Result-Limit y X-Truncated.
type SoldProductLines struct {
	Items     []SoldProductLineDTO `json:"items"`
	Limit     int                  `json:"limit"`
	Truncated bool                 `json:"truncated"`
}

// SoldProductSummaryDTO agregado por producto.
type SoldProductSummaryDTO struct {
	ProductID     string          `json:"productId"`
	ProductName   string          `json:"productName"`
	TotalQuantity decimal.Decimal `json:"totalQuantity"`
	TotalValue    money.Cents     `json:"totalValue"`
}

// ProductMixItemDTO producto clasificado en el mix.
type ProductMixItemDTO struct {
	ProductID     string          `json:"productId"`
	ProductName   string          `json:"productName"`
	Unit          string          `json:"unit"`
	Frequency     int             `json:"frequency"`
	TotalQuantity decimal.Decimal `json:"totalQuantity"`
	TotalValue    money.Cents     `json:"totalValue"`
	CostPrice     money.Cents     `json:"costPrice"`
	SalePrice     money.Cents     `json:"salePrice"`
	Quadrant      string          `json:"quadrant"`
}

// ProductMixResponse mix de productos con los umbrales usados para clasificar.
type ProductMixResponse struct {
	From             int64               `json:"from"`
	To               int64               `json:"to"`
	AverageFrequency decimal.Decimal     `json:"averageFrequency"`
	AverageQuantity  decimal.Decimal     `json:"averageQuantity"`
	Items            []ProductMixItemDTO `json:"items"`
}
