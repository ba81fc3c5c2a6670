package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caixa-pdv/internal/application/dto"
	"github.com/jhoicas/caixa-pdv/internal/domain"
	"github.com/jhoicas/caixa-pdv/internal/domain/entity"
)

// Create da de alta un producto con stock cero.
func (p *Provider) Create(ctx context.Context, in dto.CreateProductRequest) (*entity.Product, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "requerido")
	}
	product := &entity.Product{
		ID:           strings.TrimSpace(in.ID),
		Name:         name,
		InternalCode: strings.TrimSpace(in.InternalCode),
		EAN:          strings.TrimSpace(in.EAN),
		Unit:         firstNonBlank(in.Unit, DefaultUnit),
		SalePrice:    in.SalePrice,
		CostPrice:    in.CostPrice,
		StockOnHand:  decimal.Zero,
	}
	if err := p.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Get devuelve el producto o domain.ErrNotFound.
func (p *Provider) Get(ctx context.Context, productID string) (*entity.Product, error) {
	product, err := p.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	return product, nil
}

// List devuelve el catálogo completo.
func (p *Provider) List(ctx context.Context) ([]*entity.Product, error) {
	return p.products.List(ctx)
}
