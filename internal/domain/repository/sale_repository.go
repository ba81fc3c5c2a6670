package repository

import (
	"context"

	"github.com/jhoicas/caixa-pdv/internal/domain/entity"
)

// SaleRepository puerto de persistencia de ventas, líneas y pagos.
// Las ventas son inmutables: no hay Update ni Delete.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateItem(ctx context.Context, item *entity.SaleItem) error
	CreatePayment(ctx context.Context, payment *entity.Payment) error
	// GetByID devuelve la venta con Items y Payments, o (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// GetByClientSaleID busca por clave de idempotencia; (nil, nil) si no existe.
	GetByClientSaleID(ctx context.Context, clientSaleID string) (*entity.Sale, error)
}
