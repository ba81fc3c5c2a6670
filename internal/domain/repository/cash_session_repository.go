package repository

import (
	"context"

	"github.com/jhoicas/caixa-pdv/internal/domain/entity"
)

// CashSessionRepository puerto de persistencia de sesiones de caja.
// Los Get devuelven (nil, nil) si no hay fila.
type CashSessionRepository interface {
	// Create inserta una sesión abierta. Devuelve domain.ErrConflict si ya existe otra abierta.
	Create(ctx context.Context, session *entity.CashSession) error
	GetByID(ctx context.Context, id string) (*entity.CashSession, error)
	// GetForUpdate lee la sesión bloqueando la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.CashSession, error)
	// GetOpen devuelve la sesión abierta más reciente.
	GetOpen(ctx context.Context) (*entity.CashSession, error)
	// Close persiste los datos de cierre (is_open=false, closed_at, conteo, diferencia).
	Close(ctx context.Context, session *entity.CashSession) error
}
