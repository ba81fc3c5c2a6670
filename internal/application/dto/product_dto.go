package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caixa-pdv/pkg/money"
)

// CreateProductRequest alta de producto. El stock inicial se registra aparte como movimiento "initial".
type CreateProductRequest struct {
	ID           string      `json:"id,omitempty" validate:"omitempty,max=64"`
	Name         string      `json:"name" validate:"required,max=255"`
	InternalCode string      `json:"internalCode,omitempty" validate:"max=64"`
	EAN          string      `json:"ean,omitempty" validate:"max=64"`
	Unit         string      `json:"unit,omitempty" validate:"max=16"`
	SalePrice    money.Cents `json:"salePrice" validate:"min=0"`
	CostPrice    money.Cents `json:"costPrice" validate:"min=0"`
}

// RenameProductRequest cambio de nombre vigente.
type RenameProductRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// UpdateProductPriceRequest cambio de precio de venta vigente.
type UpdateProductPriceRequest struct {
	SalePrice money.Cents `json:"salePrice" validate:"min=0"`
}

// ProductResponse producto del catálogo con su stock materializado.
type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	InternalCode string          `json:"internalCode,omitempty"`
	EAN          string          `json:"ean,omitempty"`
	Unit         string          `json:"unit"`
	SalePrice    money.Cents     `json:"salePrice"`
	CostPrice    money.Cents     `json:"costPrice"`
	StockOnHand  decimal.Decimal `json:"stockOnHand"`
}
