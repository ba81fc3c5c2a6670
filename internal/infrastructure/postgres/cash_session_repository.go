package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/caixa-pdv/internal/domain"
	"github.com/jhoicas/caixa-pdv/internal/domain/entity"
	"github.com/jhoicas/caixa-pdv/internal/domain/repository"
)

var _ repository.CashSessionRepository = (*CashSessionRepo)(nil)

const cashSessionColumns = `id, operator_id, opened_at, closed_at, initial_balance, is_open,
	physical_count_at_close, expected_balance_at_close, difference_at_close, created_at, updated_at`

// CashSessionRepo sesiones de caja (usable con pool o tx).
type CashSessionRepo struct {
	q Querier
}

// NewCashSessionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashSessionRepository(q Querier) *CashSessionRepo {
	return &CashSessionRepo{q: q}
}

// Create inserta una sesión abierta. El índice único parcial sobre is_open convierte una
// segunda apertura concurrente en domain.ErrConflict.
func (r *CashSessionRepo) Create(ctx context.Context, s *entity.CashSession) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	now := time.Now()
	if s.OpenedAt.IsZero() {
		s.OpenedAt = now
	}
	s.IsOpen = true
	s.CreatedAt = now
	s.UpdatedAt = now
	_, err := r.q.Exec(ctx, `
		INSERT INTO cash_sessions (id, operator_id, opened_at, initial_balance, is_open, created_at, updated_at)
		VALUES ($1, $2, $3, $4, TRUE, $5, $6)`,
		s.ID, s.OperatorID, s.OpenedAt, s.InitialBalance, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return mapError("insert cash session", err)
	}
	return nil
}

// GetByID (nil, nil) si no existe.
func (r *CashSessionRepo) GetByID(ctx context.Context, id string) (*entity.CashSession, error) {
	return r.getOne(ctx, `SELECT `+cashSessionColumns+` FROM cash_sessions WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila: serializa ventas, movimientos y cierre de la misma sesión.
func (r *CashSessionRepo) GetForUpdate(ctx context.Context, id string) (*entity.CashSession, error) {
	return r.getOne(ctx, `SELECT `+cashSessionColumns+` FROM cash_sessions WHERE id = $1 FOR UPDATE`, id)
}

// GetOpen la sesión abierta más reciente, o (nil, nil).
func (r *CashSessionRepo) GetOpen(ctx context.Context) (*entity.CashSession, error) {
	return r.getOne(ctx, `SELECT `+cashSessionColumns+` FROM cash_sessions
		WHERE is_open ORDER BY opened_at DESC LIMIT 1`)
}

// Close persiste el cierre. Sólo afecta a sesiones todavía abiertas.
func (r *CashSessionRepo) Close(ctx context.Context, s *entity.CashSession) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE cash_sessions
		SET is_open = FALSE, closed_at = $2, physical_count_at_close = $3,
			expected_balance_at_close = $4, difference_at_close = $5, updated_at = now()
		WHERE id = $1 AND is_open`,
		s.ID, s.ClosedAt, s.PhysicalCountAtClose, s.ExpectedBalanceAtClose, s.DifferenceAtClose,
	)
	if err != nil {
		return mapError("close cash session", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sesión %s: %w", s.ID, domain.ErrAlreadyClosed)
	}
	return nil
}

func (r *CashSessionRepo) getOne(ctx context.Context, query string, args ...any) (*entity.CashSession, error) {
	var s entity.CashSession
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&s.ID, &s.OperatorID, &s.OpenedAt, &s.ClosedAt, &s.InitialBalance, &s.IsOpen,
		&s.PhysicalCountAtClose, &s.ExpectedBalanceAtClose, &s.DifferenceAtClose, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get cash session", err)
	}
	return &s, nil
}
