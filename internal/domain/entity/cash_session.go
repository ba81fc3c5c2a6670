package entity

import (
	"time"

	"github.com/jhoicas/caixa-pdv/pkg/money"
)

// CashSessionState estado explícito de la sesión de caja.
type CashSessionState string

const (
	CashSessionOpen   CashSessionState = "OPEN"
	CashSessionClosed CashSessionState = "CLOSED"
)

// CashSession turno de un operador en la caja. OPEN -> CLOSED; cerrada es historial inmutable.
// Como máximo una sesión OPEN en todo el sistema.
type CashSession struct {
	ID                     string
	OperatorID             string
	OpenedAt               time.Time
	ClosedAt               *time.Time
	InitialBalance         money.Cents
	IsOpen                 bool
	PhysicalCountAtClose   *money.Cents
	ExpectedBalanceAtClose *money.Cents
	DifferenceAtClose      *money.Cents
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// State deriva el estado desde IsOpen.
func (s *CashSession) State() CashSessionState {
	if s.IsOpen {
		return CashSessionOpen
	}
	return CashSessionClosed
}
