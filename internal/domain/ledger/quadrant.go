package ledger

import (
	"github.com/shopspring/decimal"
)

// Cuadrantes del mix de productos (frecuencia × volumen).
const (
	QuadrantStar     = "star"     // muchas ventas y mucho volumen
	QuadrantFrequent = "frequent" // muchas ventas, poco volumen por venta
	QuadrantBulk     = "bulk"     // pocas ventas de mucho volumen
	QuadrantSlow     = "slow"     // pocas ventas y poco volumen
)

// MixPoint posición de un producto en el mix. Frequency es el número de ventas distintas.
type MixPoint struct {
	Frequency int
	Quantity  decimal.Decimal
}

// Thresholds cortes de cada eje: el promedio del conjunto clasificado.
type Thresholds struct {
	Frequency decimal.Decimal
	Quantity  decimal.Decimal
}

// MixThresholds calcula el promedio de frecuencia y de cantidad. Sin puntos devuelve cero.
func MixThresholds(points []MixPoint) Thresholds {
	if len(points) == 0 {
		return Thresholds{Frequency: decimal.Zero, Quantity: decimal.Zero}
	}
	freq, qty := decimal.Zero, decimal.Zero
	for _, p := range points {
		freq = freq.Add(decimal.NewFromInt(int64(p.Frequency)))
		qty = qty.Add(p.Quantity)
	}
	n := decimal.NewFromInt(int64(len(points)))
	return Thresholds{
		Frequency: freq.DivRound(n, 4),
		Quantity:  qty.DivRound(n, 4),
	}
}

// Classify ubica un punto. Un valor igual al promedio cuenta como alto.
func Classify(p MixPoint, t Thresholds) string {
	highFreq := decimal.NewFromInt(int64(p.Frequency)).GreaterThanOrEqual(t.Frequency)
	highQty := p.Quantity.GreaterThanOrEqual(t.Quantity)
	switch {
	case highFreq && highQty:
		return QuadrantStar
	case highFreq:
		return QuadrantFrequent
	case highQty:
		return QuadrantBulk
	default:
		return QuadrantSlow
	}
}
