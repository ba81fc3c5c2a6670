package entity

import (
	"encoding/json"
	"time"

	"github.com/jhoicas/caixa-pdv/pkg/money"
)

// Tipos de movimiento de caja.
const (
	CashMovementSaleInflow = "sale_inflow"
	CashMovementSuprimento = "suprimento" // aporte manual de efectivo
	CashMovementSangria    = "sangria"    // retiro manual de efectivo
)

// Dirección del movimiento. Amount siempre es positivo; Direction lleva el signo.
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// CashMovement asiento append-only ligado a una sesión de caja.
type CashMovement struct {
	ID            string
	CashSessionID string
	Type          string
	Direction     string
	Amount        money.Cents
	Description   string
	ReferenceType string
	ReferenceID   string
	Metadata      json.RawMessage
	Timestamp     time.Time
	CreatedAt     time.Time
}

// Signed devuelve el importe con signo según la dirección.
func (m CashMovement) Signed() money.Cents {
	if m.Direction == DirectionOut {
		return -m.Amount
	}
	return m.Amount
}
