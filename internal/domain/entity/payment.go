package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/caixa-pdv/pkg/money"
)

// Métodos de pago conocidos. El conjunto es extensible: cualquier token en minúsculas es aceptado
// por la validación, pero sólo "cash" participa en la clasificación de entradas de caja.
const (
	PaymentMethodCash   = "cash"
	PaymentMethodCard   = "card"
	PaymentMethodCredit = "credit"
	PaymentMethodDebit  = "debit"
	PaymentMethodPix    = "pix"
)

// Payment pago de una venta. Metadata se guarda tal cual llegó (JSON).
type Payment struct {
	ID        string
	SaleID    string
	Method    string
	Amount    money.Cents
	Metadata  json.RawMessage
	CreatedAt time.Time
}

// CashTender detalle de efectivo entregado por el cliente (puede superar lo adeudado).
type CashTender struct {
	ReceivedCents money.Cents `json:"cashReceivedCents"`
	ChangeCents   money.Cents `json:"changeCents,omitempty"`
}

// cashTenderWire acepta las variantes de nombre que envían los distintos PDVs.
type cashTenderWire struct {
	CashReceivedCents *int64 `json:"cashReceivedCents"`
	ReceivedCents     *int64 `json:"receivedCents"`
	Received          *int64 `json:"received"`
	ChangeCents       *int64 `json:"changeCents"`
	Change            *int64 `json:"change"`
}

// CashTender decodifica la metadata de un pago en efectivo.
// Devuelve ok=false si el pago no es en efectivo, no trae metadata o la metadata no informa
// el monto recibido.
func (p Payment) CashTender() (CashTender, bool, error) {
	if p.Method != PaymentMethodCash || len(p.Metadata) == 0 || string(p.Metadata) == "null" {
		return CashTender{}, false, nil
	}
	var w cashTenderWire
	if err := json.Unmarshal(p.Metadata, &w); err != nil {
		return CashTender{}, false, fmt.Errorf("metadata de pago en efectivo: %w", err)
	}
	var received *int64
	switch {
	case w.CashReceivedCents != nil:
		received = w.CashReceivedCents
	case w.ReceivedCents != nil:
		received = w.ReceivedCents
	case w.Received != nil:
		received = w.Received
	}
	if received == nil {
		return CashTender{}, false, nil
	}
	t := CashTender{ReceivedCents: money.Cents(*received)}
	switch {
	case w.ChangeCents != nil:
		t.ChangeCents = money.Cents(*w.ChangeCents)
	case w.Change != nil:
		t.ChangeCents = money.Cents(*w.Change)
	}
	return t, true, nil
}
