// Package catalog resuelve los datos de producto que una venta congela en sus líneas.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/caixa-pdv/internal/domain"
	"github.com/jhoicas/caixa-pdv/internal/domain/entity"
	"github.com/jhoicas/caixa-pdv/internal/domain/repository"
	"github.com/jhoicas/caixa-pdv/pkg/money"
)

// DefaultUnit unidad usada cuando ni el carrito ni el catálogo informan una.
const DefaultUnit = "UN"

// ProductSnapshot datos vigentes de un producto en el catálogo.
type ProductSnapshot struct {
	ProductID    string
	Name         string
	InternalCode string
	EAN          string
	Unit         string
	SalePrice    money.Cents
	CostPrice    money.Cents
}

// ItemSnapshot lo que efectivamente se guarda en la línea de venta.
type ItemSnapshot struct {
	Name         string
	InternalCode string
	EAN          string
	Unit         string
}

// Provider lee el catálogo. Trabaja sobre cualquier ProductRepository, incluido el de una
// transacción en curso.
type Provider struct {
	products repository.ProductRepository
}

// NewProvider construye el proveedor.
func NewProvider(products repository.ProductRepository) *Provider {
	return &Provider{products: products}
}

// Snapshot devuelve los datos actuales del producto o domain.ErrNotFound.
func (p *Provider) Snapshot(ctx context.Context, productID string) (ProductSnapshot, error) {
	product, err := p.products.GetByID(ctx, productID)
	if err != nil {
		return ProductSnapshot{}, err
	}
	if product == nil {
		return ProductSnapshot{}, fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	return ProductSnapshot{
		ProductID:    product.ID,
		Name:         product.Name,
		InternalCode: product.InternalCode,
		EAN:          product.EAN,
		Unit:         product.Unit,
		SalePrice:    product.SalePrice,
		CostPrice:    product.CostPrice,
	}, nil
}

// Resolve completa los campos vacíos del carrito con el catálogo.
// Lo enviado por el PDV tiene prioridad. Código y EAN vacíos quedan como "-", la unidad vacía
// como "UN". Un nombre vacío sin nombre en catálogo es un error de validación.
// El catálogo sólo se consulta si falta algún campo.
func (p *Provider) Resolve(ctx context.Context, productID string, given ItemSnapshot) (ItemSnapshot, error) {
	out := ItemSnapshot{
		Name:         strings.TrimSpace(given.Name),
		InternalCode: strings.TrimSpace(given.InternalCode),
		EAN:          strings.TrimSpace(given.EAN),
		Unit:         strings.TrimSpace(given.Unit),
	}
	if out.Name == "" || out.InternalCode == "" || out.EAN == "" || out.Unit == "" {
		product, err := p.products.GetByID(ctx, productID)
		if err != nil {
			return ItemSnapshot{}, err
		}
		if product != nil {
			out.Name = firstNonBlank(out.Name, product.Name)
			out.InternalCode = firstNonBlank(out.InternalCode, product.InternalCode)
			out.EAN = firstNonBlank(out.EAN, product.EAN)
			out.Unit = firstNonBlank(out.Unit, product.Unit)
		}
	}
	if out.Name == "" {
		return ItemSnapshot{}, domain.NewValidationError("productName", "requerido: producto "+productID+" sin nombre en catálogo")
	}
	out.InternalCode = firstNonBlank(out.InternalCode, entity.SnapshotSentinel)
	out.EAN = firstNonBlank(out.EAN, entity.SnapshotSentinel)
	out.Unit = firstNonBlank(out.Unit, DefaultUnit)
	return out, nil
}

// Rename cambia el nombre vigente del producto. Las ventas ya registradas no se ven afectadas.
func (p *Provider) Rename(ctx context.Context, productID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.NewValidationError("name", "requerido")
	}
	product, err := p.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	product.Name = name
	return p.products.Update(ctx, product)
}

// UpdatePrice cambia el precio de venta vigente.
func (p *Provider) UpdatePrice(ctx context.Context, productID string, price money.Cents) error {
	if price < 0 {
		return domain.NewValidationError("salePrice", "no puede ser negativo")
	}
	product, err := p.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	product.SalePrice = price
	return p.products.Update(ctx, product)
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
