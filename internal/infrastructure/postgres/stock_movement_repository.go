package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/caixa-pdv/internal/domain/entity"
	"github.com/jhoicas/caixa-pdv/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const stockMovementColumns = `id, product_id, type, quantity, delta, reason, reference_type, reference_id, occurred_at, created_by`

// StockMovementRepo ledger de inventario append-only (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento de stock.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	query := `INSERT INTO stock_movements (` + stockMovementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.Type, m.Quantity, m.Delta, m.Reason,
		m.ReferenceType, m.ReferenceID, m.Timestamp, m.CreatedBy,
	)
	if err != nil {
		return mapError("create stock movement", err)
	}
	return nil
}

// ListByProduct movimientos de un producto en orden cronológico.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockMovement, error) {
	return r.list(ctx, "list stock movements by product",
		`SELECT `+stockMovementColumns+` FROM stock_movements WHERE product_id = $1 ORDER BY occurred_at, seq`, productID)
}

// ListByReference movimientos originados por un documento (venta, ajuste manual).
func (r *StockMovementRepo) ListByReference(ctx context.Context, referenceType, referenceID string) ([]*entity.StockMovement, error) {
	return r.list(ctx, "list stock movements by reference",
		`SELECT `+stockMovementColumns+` FROM stock_movements
		 WHERE reference_type = $1 AND reference_id = $2 ORDER BY occurred_at, seq`, referenceType, referenceID)
}

// ListAll el ledger completo, para reconstruir el stock.
func (r *StockMovementRepo) ListAll(ctx context.Context) ([]*entity.StockMovement, error) {
	return r.list(ctx, "list stock movements",
		`SELECT `+stockMovementColumns+` FROM stock_movements ORDER BY occurred_at, seq`)
}

func (r *StockMovementRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.Delta, &m.Reason,
			&m.ReferenceType, &m.ReferenceID, &m.Timestamp, &m.CreatedBy); err != nil {
			return nil, mapError("scan stock movement", err)
		}
		list = append(list, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return list, nil
}
