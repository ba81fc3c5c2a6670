package repository

import (
	"context"

	"github.com/jhoicas/caixa-pdv/internal/domain/entity"
)

// CashMovementRepository puerto del ledger de caja (append-only).
type CashMovementRepository interface {
	Create(ctx context.Context, movement *entity.CashMovement) error
	// ListBySession devuelve los movimientos ordenados por timestamp ascendente.
	ListBySession(ctx context.Context, sessionID string) ([]*entity.CashMovement, error)
}
