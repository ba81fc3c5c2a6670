package repository

import (
	"context"

	"github.com/jhoicas/caixa-pdv/internal/domain/entity"
)

// StockMovementRepository puerto del ledger de inventario (append-only: no hay Update ni Delete).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockMovement, error)
	ListByReference(ctx context.Context, referenceType, referenceID string) ([]*entity.StockMovement, error)
	ListAll(ctx context.Context) ([]*entity.StockMovement, error)
}
