package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caixa-pdv/internal/domain/entity"
)

// QuantityScale decimales que guarda el ledger de stock (NUMERIC(18,4)).
const QuantityScale = 4

// ValidQuantityScale indica si q no tiene más de QuantityScale decimales significativos.
func ValidQuantityScale(q decimal.Decimal) bool {
	return q.Equal(q.Truncate(QuantityScale))
}

// DeltaFor devuelve el delta que un movimiento aplica al stock.
// sale_out siempre resta; restock_in e initial suman; adjustment usa el signo indicado por el caller.
func DeltaFor(movementType string, quantity decimal.Decimal, negative bool) decimal.Decimal {
	switch movementType {
	case entity.StockMovementSaleOut:
		return quantity.Abs().Neg()
	case entity.StockMovementRestockIn, entity.StockMovementInitial:
		return quantity.Abs()
	default:
		if negative {
			return quantity.Abs().Neg()
		}
		return quantity.Abs()
	}
}

// ReplayStock reconstruye el stock por producto sumando los deltas del ledger.
func ReplayStock(movements []entity.StockMovement) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, m := range movements {
		out[m.ProductID] = out[m.ProductID].Add(m.Delta)
	}
	return out
}

// DetectDrift compara el stock materializado contra el ledger. Productos sin movimientos
// se comparan contra cero. El resultado se ordena por ProductID.
func DetectDrift(products []entity.Product, fromLedger map[string]decimal.Decimal) []entity.StockDrift {
	var drifts []entity.StockDrift
	for _, p := range products {
		expected := fromLedger[p.ID]
		if p.StockOnHand.Equal(expected) {
			continue
		}
		drifts = append(drifts, entity.StockDrift{
			ProductID:  p.ID,
			Cached:     p.StockOnHand,
			FromLedger: expected,
			Difference: p.StockOnHand.Sub(expected),
		})
	}
	sort.Slice(drifts, func(i, j int) bool { return drifts[i].ProductID < drifts[j].ProductID })
	return drifts
}
