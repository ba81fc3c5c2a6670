package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/caixa-pdv/internal/domain/entity"
	"github.com/jhoicas/caixa-pdv/internal/domain/repository"
)

var _ repository.CashMovementRepository = (*CashMovementRepo)(nil)

// CashMovementRepo ledger de caja append-only (usable con pool o tx).
type CashMovementRepo struct {
	q Querier
}

// NewCashMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashMovementRepository(q Querier) *CashMovementRepo {
	return &CashMovementRepo{q: q}
}

// Create persiste un movimiento de caja.
func (r *CashMovementRepo) Create(ctx context.Context, m *entity.CashMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	now := time.Now()
	if m.Timestamp.IsZero() {
		m.Timestamp = now
	}
	m.CreatedAt = now
	var metadata any
	if len(m.Metadata) > 0 {
		metadata = string(m.Metadata)
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO cash_movements (id, cash_session_id, type, direction, amount, description,
			reference_type, reference_id, metadata, occurred_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::json, $10, $11)`,
		m.ID, m.CashSessionID, m.Type, m.Direction, m.Amount, m.Description,
		m.ReferenceType, m.ReferenceID, metadata, m.Timestamp, m.CreatedAt,
	)
	if err != nil {
		return mapError("create cash movement", err)
	}
	return nil
}

// ListBySession movimientos de la sesión por timestamp ascendente (seq desempata).
func (r *CashMovementRepo) ListBySession(ctx context.Context, sessionID string) ([]*entity.CashMovement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, cash_session_id, type, direction, amount, description, reference_type,
			reference_id, metadata, occurred_at, created_at
		FROM cash_movements WHERE cash_session_id = $1
		ORDER BY occurred_at, seq`, sessionID)
	if err != nil {
		return nil, mapError("list cash movements", err)
	}
	defer rows.Close()
	list := make([]*entity.CashMovement, 0)
	for rows.Next() {
		var m entity.CashMovement
		var metadata []byte
		if err := rows.Scan(&m.ID, &m.CashSessionID, &m.Type, &m.Direction, &m.Amount, &m.Description,
			&m.ReferenceType, &m.ReferenceID, &metadata, &m.Timestamp, &m.CreatedAt); err != nil {
			return nil, mapError("scan cash movement", err)
		}
		m.Metadata = metadata
		list = append(list, &m)
	}
	return list, rows.Err()
}
