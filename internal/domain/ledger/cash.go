// Package ledger contiene las reglas puras de los libros de caja e inventario
// (servicios de dominio sin acceso a persistencia).
package ledger

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jhoicas/caixa-pdv/internal/domain/entity"
	"github.com/jhoicas/caixa-pdv/pkg/money"
)

// CashInflow entrada de caja a registrar como consecuencia de una venta.
type CashInflow struct {
	Amount      money.Cents
	Description string
	Metadata    json.RawMessage
}

type tenderMetadata struct {
	PaymentID         string      `json:"paymentId,omitempty"`
	Method            string      `json:"method"`
	PaymentCents      money.Cents `json:"paymentCents"`
	CashReceivedCents money.Cents `json:"cashReceivedCents"`
	ChangeCents       money.Cents `json:"changeCents,omitempty"`
}

type fallbackMetadata struct {
	Fallback bool     `json:"fallback"`
	Methods  []string `json:"methods"`
}

// ClassifyCashInflows decide qué entradas de caja genera una venta.
//
// Cada pago en efectivo con detalle de entrega (CashTender) produce una entrada por el monto
// recibido, no por el monto del pago. Si ningún pago trae ese detalle se registra una única
// entrada de respaldo por el total de la venta. Nunca se disparan ambos caminos en la misma venta.
// Un total <= 0 sin pagos con detalle no genera entradas.
func ClassifyCashInflows(payments []entity.Payment, total money.Cents) ([]CashInflow, error) {
	var inflows []CashInflow
	for _, p := range payments {
		tender, ok, err := p.CashTender()
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if tender.ReceivedCents <= 0 {
			return nil, fmt.Errorf("pago %s: monto recibido debe ser positivo", p.ID)
		}
		meta, err := json.Marshal(tenderMetadata{
			PaymentID:         p.ID,
			Method:            p.Method,
			PaymentCents:      p.Amount,
			CashReceivedCents: tender.ReceivedCents,
			ChangeCents:       tender.ChangeCents,
		})
		if err != nil {
			return nil, err
		}
		inflows = append(inflows, CashInflow{
			Amount:      tender.ReceivedCents,
			Description: "Venta - efectivo recibido",
			Metadata:    meta,
		})
	}
	if len(inflows) > 0 {
		return inflows, nil
	}
	if total <= 0 {
		return nil, nil
	}
	meta, err := json.Marshal(fallbackMetadata{Fallback: true, Methods: paymentMethods(payments)})
	if err != nil {
		return nil, err
	}
	return []CashInflow{{
		Amount:      total,
		Description: "Venta",
		Metadata:    meta,
	}}, nil
}

func paymentMethods(payments []entity.Payment) []string {
	seen := make(map[string]struct{}, len(payments))
	methods := make([]string, 0, len(payments))
	for _, p := range payments {
		if _, ok := seen[p.Method]; ok {
			continue
		}
		seen[p.Method] = struct{}{}
		methods = append(methods, p.Method)
	}
	sort.Strings(methods)
	return methods
}

// Totals agregados de los movimientos de una sesión.
type Totals struct {
	In     money.Cents
	Out    money.Cents
	ByType map[string]money.Cents
}

// SumMovements suma entradas y salidas. ByType acumula el importe con signo por tipo.
func SumMovements(movements []entity.CashMovement) Totals {
	t := Totals{ByType: make(map[string]money.Cents)}
	for _, m := range movements {
		switch m.Direction {
		case entity.DirectionIn:
			t.In += m.Amount
		case entity.DirectionOut:
			t.Out += m.Amount
		}
		t.ByType[m.Type] += m.Signed()
	}
	return t
}

// ExpectedBalance saldo esperado: inicial + Σentradas - Σsalidas.
func ExpectedBalance(initial money.Cents, movements []entity.CashMovement) money.Cents {
	t := SumMovements(movements)
	return initial + t.In - t.Out
}
