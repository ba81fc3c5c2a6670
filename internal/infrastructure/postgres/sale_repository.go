package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/caixa-pdv/internal/domain/entity"
	"github.com/jhoicas/caixa-pdv/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, client_sale_id, operator_id, cash_session_id, client_id, subtotal, discount_total, total, status, occurred_at, created_at`

// SaleRepo ventas, líneas y pagos (usable con pool o tx). Sin Update ni Delete.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta la cabecera. Un client_sale_id repetido devuelve domain.ErrConflict.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	query := `INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		s.ID, nullString(s.ClientSaleID), s.OperatorID, s.CashSessionID, nullString(s.ClientID),
		s.Subtotal, s.DiscountTotal, s.Total, s.Status, s.Timestamp, s.CreatedAt,
	)
	if err != nil {
		return mapError("insert sale", err)
	}
	return nil
}

// CreateItem inserta una línea con su snapshot.
func (r *SaleRepo) CreateItem(ctx context.Context, it *entity.SaleItem) error {
	if it.ID == "" {
		it.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sale_items (id, sale_id, product_id, product_name_snapshot, internal_code_snapshot,
			ean_snapshot, unit_snapshot, quantity, unit_price, auto_discount_applied,
			manual_discount_applied, final_unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.SaleID, it.ProductID, it.ProductNameSnapshot, it.InternalCodeSnapshot,
		it.EANSnapshot, it.UnitSnapshot, it.Quantity, it.UnitPrice, it.AutoDiscountApplied,
		it.ManualDiscountApplied, it.FinalUnitPrice, it.LineTotal,
	)
	if err != nil {
		return mapError("insert sale item", err)
	}
	return nil
}

// CreatePayment inserta un pago; metadata se guarda como JSONB tal cual llegó.
func (r *SaleRepo) CreatePayment(ctx context.Context, p *entity.Payment) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	var metadata any
	if len(p.Metadata) > 0 {
		metadata = string(p.Metadata)
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO payments (id, sale_id, method, amount, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5::json, $6)`,
		p.ID, p.SaleID, p.Method, p.Amount, metadata, p.CreatedAt,
	)
	if err != nil {
		return mapError("insert payment", err)
	}
	return nil
}

// GetByID venta con líneas y pagos. (nil, nil) si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

// GetByClientSaleID busca por clave de idempotencia. (nil, nil) si no existe.
func (r *SaleRepo) GetByClientSaleID(ctx context.Context, clientSaleID string) (*entity.Sale, error) {
	if clientSaleID == "" {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE client_sale_id = $1`, clientSaleID)
}

func (r *SaleRepo) getOne(ctx context.Context, query string, arg string) (*entity.Sale, error) {
	var s entity.Sale
	var clientSaleID, clientID *string
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&s.ID, &clientSaleID, &s.OperatorID, &s.CashSessionID, &clientID,
		&s.Subtotal, &s.DiscountTotal, &s.Total, &s.Status, &s.Timestamp, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get sale", err)
	}
	s.ClientSaleID = fromNullString(clientSaleID)
	s.ClientID = fromNullString(clientID)

	if s.Items, err = r.items(ctx, s.ID); err != nil {
		return nil, err
	}
	if s.Payments, err = r.payments(ctx, s.ID); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SaleRepo) items(ctx context.Context, saleID string) ([]entity.SaleItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, product_name_snapshot, internal_code_snapshot, ean_snapshot,
			unit_snapshot, quantity, unit_price, auto_discount_applied, manual_discount_applied,
			final_unit_price, line_total
		FROM sale_items WHERE sale_id = $1 ORDER BY seq`, saleID)
	if err != nil {
		return nil, mapError("list sale items", err)
	}
	defer rows.Close()
	var list []entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.ProductNameSnapshot,
			&it.InternalCodeSnapshot, &it.EANSnapshot, &it.UnitSnapshot, &it.Quantity, &it.UnitPrice,
			&it.AutoDiscountApplied, &it.ManualDiscountApplied, &it.FinalUnitPrice, &it.LineTotal); err != nil {
			return nil, mapError("scan sale item", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

func (r *SaleRepo) payments(ctx context.Context, saleID string) ([]entity.Payment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, method, amount, metadata, created_at
		FROM payments WHERE sale_id = $1 ORDER BY seq`, saleID)
	if err != nil {
		return nil, mapError("list payments", err)
	}
	defer rows.Close()
	var list []entity.Payment
	for rows.Next() {
		var p entity.Payment
		var metadata []byte
		if err := rows.Scan(&p.ID, &p.SaleID, &p.Method, &p.Amount, &metadata, &p.CreatedAt); err != nil {
			return nil, mapError("scan payment", err)
		}
		p.Metadata = metadata
		list = append(list, p)
	}
	return list, rows.Err()
}
