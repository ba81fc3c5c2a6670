package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/caixa-pdv/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura sobre ventas y líneas. Nunca abre transacciones de escritura.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes (normalmente sobre el pool).
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// SoldProductsDetailed una fila por línea vendida, más recientes primero.
func (r *ReportRepo) SoldProductsDetailed(ctx context.Context, limit int) ([]repository.SoldProductLine, error) {
	query := `
	SELECT si.sale_id, si.product_id, si.product_name_snapshot, si.quantity, si.line_total, s.occurred_at
	FROM sale_items si
	JOIN sales s ON s.id = si.sale_id
	ORDER BY s.occurred_at DESC, si.seq`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reports.SoldProductsDetailed: %w", err)
	}
	defer rows.Close()

	results := make([]repository.SoldProductLine, 0)
	for rows.Next() {
		var row repository.SoldProductLine
		if err := rows.Scan(&row.SaleID, &row.ProductID, &row.ProductName, &row.Quantity,
			&row.TotalValue, &row.SaleDate); err != nil {
			return nil, fmt.Errorf("reports.SoldProductsDetailed scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// SoldProductsSummary agrupa por producto y nombre snapshot: un renombrado abre otra fila.
func (r *ReportRepo) SoldProductsSummary(ctx context.Context, from, to *time.Time) ([]repository.SoldProductSummary, error) {
	query := `
	SELECT
	    si.product_id,
	    si.product_name_snapshot,
	    SUM(si.quantity)   AS total_quantity,
	    SUM(si.line_total) AS total_value
	FROM sale_items si
	JOIN sales s ON s.id = si.sale_id
	WHERE 1 = 1`
	args := []any{}
	pos := 1
	if from != nil {
		query += fmt.Sprintf(" AND s.occurred_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND s.occurred_at <= $%d", pos)
		args = append(args, *to)
	}
	query += `
	GROUP BY si.product_id, si.product_name_snapshot
	ORDER BY total_quantity DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reports.SoldProductsSummary: %w", err)
	}
	defer rows.Close()

	results := make([]repository.SoldProductSummary, 0)
	for rows.Next() {
		var row repository.SoldProductSummary
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.TotalQuantity, &row.TotalValue); err != nil {
			return nil, fmt.Errorf("reports.SoldProductsSummary scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// ProductMix frecuencia = ventas distintas que contienen el producto (COUNT DISTINCT), no unidades.
// Nombre, unidad y precios salen del catálogo actual; si el producto ya no existe, del snapshot.
func (r *ReportRepo) ProductMix(ctx context.Context, from, to time.Time) ([]repository.ProductMixRow, error) {
	const query = `
	SELECT
	    si.product_id,
	    COALESCE(MAX(p.name), MAX(si.product_name_snapshot)) AS product_name,
	    COALESCE(MAX(p.unit), MAX(si.unit_snapshot))         AS unit,
	    COUNT(DISTINCT si.sale_id)                           AS frequency,
	    SUM(si.quantity)                                     AS total_quantity,
	    SUM(si.line_total)                                   AS total_value,
	    COALESCE(MAX(p.cost_price), 0)                       AS cost_price,
	    COALESCE(MAX(p.sale_price), 0)                       AS sale_price
	FROM sale_items si
	JOIN sales         s ON s.id = si.sale_id
	LEFT JOIN products p ON p.id = si.product_id
	WHERE s.occurred_at BETWEEN $1 AND $2
	GROUP BY si.product_id
	ORDER BY frequency DESC, total_quantity DESC, si.product_id`

	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("reports.ProductMix: %w", err)
	}
	defer rows.Close()

	results := make([]repository.ProductMixRow, 0)
	for rows.Next() {
		var row repository.ProductMixRow
		if err := rows.Scan(
			&row.ProductID,
			&row.ProductName,
			&row.Unit,
			&row.Frequency,
			&row.TotalQuantity,
			&row.TotalValue,
			&row.CostPrice,
			&row.SalePrice,
		); err != nil {
			return nil, fmt.Errorf("reports.ProductMix scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
