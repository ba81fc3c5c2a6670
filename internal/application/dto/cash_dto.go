package dto

import (
	"github.com/jhoicas/caixa-pdv/pkg/money"
)

// OpenCashSessionRequest apertura de turno.
type OpenCashSessionRequest struct {
	OperatorID     string      `json:"operatorId" validate:"required,max=64"`
	InitialBalance money.Cents `json:"initialBalance" validate:"min=0"`
}

// CloseCashSessionRequest cierre de turno con el conteo físico del cajón.
// PhysicalCount es puntero para distinguir "no enviado" de un cajón vacío.
type CloseCashSessionRequest struct {
	PhysicalCount *money.Cents `json:"physicalCount" validate:"required,min=0"`
}

// ManualCashMovementRequest suprimento o sangria. CashSessionID vacío = sesión abierta actual.
type ManualCashMovementRequest struct {
	CashSessionID string      `json:"cashSessionId,omitempty" validate:"omitempty,max=64"`
	Amount        money.Cents `json:"amount" validate:"gt=0"`
	Description   string      `json:"description,omitempty" validate:"max=255"`
	Category      string      `json:"category,omitempty" validate:"max=64"`
	OperatorID    string      `json:"operatorId,omitempty" validate:"max=64"`
}

// CashSessionResponse sesión de caja.
type CashSessionResponse struct {
	ID                     string       `json:"id"`
	OperatorID             string       `json:"operatorId"`
	State                  string       `json:"state"`
	IsOpen                 bool         `json:"isOpen"`
	OpenedAt               int64        `json:"openedAt"`
	ClosedAt               *int64       `json:"closedAt,omitempty"`
	InitialBalance         money.Cents  `json:"initialBalance"`
	PhysicalCountAtClose   *money.Cents `json:"physicalCountAtClose,omitempty"`
	ExpectedBalanceAtClose *money.Cents `json:"expectedBalanceAtClose,omitempty"`
	DifferenceAtClose      *money.Cents `json:"differenceAtClose,omitempty"`
}

// CloseCashSessionResponse resultado del cierre. Difference = conteo físico - esperado.
type CloseCashSessionResponse struct {
	Expected   money.Cents         `json:"expected"`
	Difference money.Cents         `json:"difference"`
	Session    CashSessionResponse `json:"session"`
}

// CashMovementResponse asiento del ledger de caja.
type CashMovementResponse struct {
	ID            string      `json:"id"`
	CashSessionID string      `json:"cashSessionId"`
	Type          string      `json:"type"`
	Direction     string      `json:"direction"`
	Amount        money.Cents `json:"amount"`
	Description   string      `json:"description,omitempty"`
	ReferenceType string      `json:"referenceType,omitempty"`
	ReferenceID   string      `json:"referenceId,omitempty"`
	Metadata      any         `json:"metadata,omitempty"`
	Timestamp     int64       `json:"timestamp"`
}

// CashSessionSummaryResponse saldo corriente de una sesión.
type CashSessionSummaryResponse struct {
	Session        CashSessionResponse    `json:"session"`
	TotalIn        money.Cents            `json:"totalIn"`
	TotalOut       money.Cents            `json:"totalOut"`
	RunningBalance money.Cents            `json:"runningBalance"`
	TotalsByType   map[string]money.Cents `json:"totalsByType"`
	MovementsCount int                    `json:"movementsCount"`
}
