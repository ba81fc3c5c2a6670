// Package money maneja importes en unidades mínimas de moneda (centavos).
// Ningún importe se transporta como float dentro del sistema; los valores decimales
// se convierten en la frontera con FromDecimal.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Cents es un importe entero en centavos.
type Cents int64

var hundred = decimal.NewFromInt(100)

// FromDecimal convierte un valor en unidades de moneda a centavos: round(v * 100).
// El redondeo es "half away from zero" (igual que decimal.Round).
func FromDecimal(v decimal.Decimal) Cents {
	return Cents(v.Mul(hundred).Round(0).IntPart())
}

// FromFloat convierte un float recibido en la frontera (JSON legado) a centavos.
// Pasa por decimal para no arrastrar errores de representación binaria.
func FromFloat(v float64) Cents {
	return FromDecimal(decimal.NewFromFloat(v))
}

// FromString parsea "12.34" o "12" a centavos.
func FromString(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("money: importe inválido %q: %w", s, err)
	}
	return FromDecimal(d), nil
}

// MulQuantity devuelve unit * qty redondeado al centavo. qty admite fracciones (kg, litros).
func MulQuantity(unit Cents, qty decimal.Decimal) Cents {
	return Cents(decimal.NewFromInt(int64(unit)).Mul(qty).Round(0).IntPart())
}

// Sum suma importes.
func Sum(values ...Cents) Cents {
	var total Cents
	for _, v := range values {
		total += v
	}
	return total
}

// Decimal devuelve el importe en unidades de moneda (1234 -> 12.34).
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// Ptr devuelve un puntero a c. Lo usan los campos opcionales de los DTO.
func Ptr(c Cents) *Cents { return &c }

// Int64 devuelve el valor crudo.
func (c Cents) Int64() int64 { return int64(c) }

// String formatea el importe con dos decimales y punto como separador.
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}
