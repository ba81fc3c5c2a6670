package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caixa-pdv/internal/domain/repository"
)

var _ repository.ReportRepository = (*reportRepo)(nil)

type reportRepo struct{ v *view }

func (r *reportRepo) SoldProductsDetailed(_ context.Context, limit int) ([]repository.SoldProductLine, error) {
	st := r.v.lock()
	defer r.v.unlock()
	lines := make([]repository.SoldProductLine, 0, len(st.items))
	for _, it := range st.items {
		sale := st.sales[it.SaleID]
		lines = append(lines, repository.SoldProductLine{
			SaleID:      it.SaleID,
			ProductID:   it.ProductID,
			ProductName: it.ProductNameSnapshot,
			Quantity:    it.Quantity,
			TotalValue:  it.LineTotal,
			SaleDate:    sale.Timestamp,
		})
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].SaleDate.After(lines[j].SaleDate) })
	if limit > 0 && len(lines) > limit {
		lines = lines[:limit]
	}
	return lines, nil
}

func (r *reportRepo) SoldProductsSummary(_ context.Context, from, to *time.Time) ([]repository.SoldProductSummary, error) {
	st := r.v.lock()
	defer r.v.unlock()
	type key struct{ id, name string }
	acc := make(map[key]*repository.SoldProductSummary)
	var order []key
	for _, it := range st.items {
		sale := st.sales[it.SaleID]
		if from != nil && sale.Timestamp.Before(*from) {
			continue
		}
		if to != nil && sale.Timestamp.After(*to) {
			continue
		}
		k := key{it.ProductID, it.ProductNameSnapshot}
		row, ok := acc[k]
		if !ok {
			row = &repository.SoldProductSummary{ProductID: k.id, ProductName: k.name, TotalQuantity: decimal.Zero}
			acc[k] = row
			order = append(order, k)
		}
		row.TotalQuantity = row.TotalQuantity.Add(it.Quantity)
		row.TotalValue += it.LineTotal
	}
	out := make([]repository.SoldProductSummary, 0, len(order))
	for _, k := range order {
		out = append(out, *acc[k])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalQuantity.GreaterThan(out[j].TotalQuantity) })
	return out, nil
}

func (r *reportRepo) ProductMix(_ context.Context, from, to time.Time) ([]repository.ProductMixRow, error) {
	st := r.v.lock()
	defer r.v.unlock()
	acc := make(map[string]*repository.ProductMixRow)
	salesPerProduct := make(map[string]map[string]struct{})
	var order []string
	for _, it := range st.items {
		sale := st.sales[it.SaleID]
		if sale.Timestamp.Before(from) || sale.Timestamp.After(to) {
			continue
		}
		row, ok := acc[it.ProductID]
		if !ok {
			row = &repository.ProductMixRow{
				ProductID:     it.ProductID,
				ProductName:   it.ProductNameSnapshot,
				Unit:          it.UnitSnapshot,
				TotalQuantity: decimal.Zero,
			}
			if p, ok := st.products[it.ProductID]; ok {
				row.ProductName = p.Name
				row.Unit = p.Unit
				row.CostPrice = p.CostPrice
				row.SalePrice = p.SalePrice
			}
			acc[it.ProductID] = row
			salesPerProduct[it.ProductID] = make(map[string]struct{})
			order = append(order, it.ProductID)
		}
		salesPerProduct[it.ProductID][it.SaleID] = struct{}{}
		row.TotalQuantity = row.TotalQuantity.Add(it.Quantity)
		row.TotalValue += it.LineTotal
	}
	out := make([]repository.ProductMixRow, 0, len(order))
	for _, id := range order {
		row := acc[id]
		row.Frequency = len(salesPerProduct[id])
		out = append(out, *row)
	}
	// Mismo orden que la consulta SQL: frecuencia, cantidad y producto.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Frequency != out[j].Frequency {
			return out[i].Frequency > out[j].Frequency
		}
		if c := out[i].TotalQuantity.Cmp(out[j].TotalQuantity); c != 0 {
			return c > 0
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out, nil
}
