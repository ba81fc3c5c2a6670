package dto

import (
	"encoding/json"

	"github.com/jhoicas/caixa-pdv/internal/domain/entity"
)

// NewCashSessionResponse convierte una sesión de caja a su forma de frontera.
func NewCashSessionResponse(s *entity.CashSession) CashSessionResponse {
	return CashSessionResponse{
		ID:                     s.ID,
		OperatorID:             s.OperatorID,
		State:                  string(s.State()),
		IsOpen:                 s.IsOpen,
		OpenedAt:               EpochMillis(s.OpenedAt),
		ClosedAt:               EpochMillisPtr(s.ClosedAt),
		InitialBalance:         s.InitialBalance,
		PhysicalCountAtClose:   s.PhysicalCountAtClose,
		ExpectedBalanceAtClose: s.ExpectedBalanceAtClose,
		DifferenceAtClose:      s.DifferenceAtClose,
	}
}

// NewCashMovementResponse convierte un movimiento de caja.
func NewCashMovementResponse(m *entity.CashMovement) CashMovementResponse {
	out := CashMovementResponse{
		ID:            m.ID,
		CashSessionID: m.CashSessionID,
		Type:          m.Type,
		Direction:     m.Direction,
		Amount:        m.Amount,
		Description:   m.Description,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		Timestamp:     EpochMillis(m.Timestamp),
	}
	if len(m.Metadata) > 0 {
		out.Metadata = json.RawMessage(m.Metadata)
	}
	return out
}

// NewCashMovementsResponse convierte una lista de movimientos.
func NewCashMovementsResponse(list []*entity.CashMovement) []CashMovementResponse {
	out := make([]CashMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, NewCashMovementResponse(m))
	}
	return out
}

// NewSaleResponse convierte una venta con sus líneas y pagos.
func NewSaleResponse(s *entity.Sale) SaleResponse {
	out := SaleResponse{
		ID:            s.ID,
		ClientSaleID:  s.ClientSaleID,
		Timestamp:     EpochMillis(s.Timestamp),
		OperatorID:    s.OperatorID,
		CashSessionID: s.CashSessionID,
		ClientID:      s.ClientID,
		Subtotal:      s.Subtotal,
		DiscountTotal: s.DiscountTotal,
		Total:         s.Total,
		Status:        s.Status,
		Items:         make([]SaleItemResponse, 0, len(s.Items)),
		Payments:      make([]SalePaymentResponse, 0, len(s.Payments)),
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, SaleItemResponse{
			ID:                    it.ID,
			ProductID:             it.ProductID,
			ProductName:           it.ProductNameSnapshot,
			ProductInternalCode:   it.InternalCodeSnapshot,
			ProductEAN:            it.EANSnapshot,
			Unit:                  it.UnitSnapshot,
			Quantity:              it.Quantity,
			UnitPrice:             it.UnitPrice,
			AutoDiscountApplied:   it.AutoDiscountApplied,
			ManualDiscountApplied: it.ManualDiscountApplied,
			FinalUnitPrice:        it.FinalUnitPrice,
			LineTotal:             it.LineTotal,
		})
	}
	for _, p := range s.Payments {
		out.Payments = append(out.Payments, SalePaymentResponse{
			ID:        p.ID,
			Method:    p.Method,
			Amount:    p.Amount,
			Metadata:  p.Metadata,
			CreatedAt: EpochMillis(p.CreatedAt),
		})
	}
	return out
}

// NewStockMovementResponse convierte un movimiento de stock.
func NewStockMovementResponse(m *entity.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		Delta:         m.Delta,
		Reason:        m.Reason,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		Timestamp:     EpochMillis(m.Timestamp),
	}
}

// NewReconcileResponse convierte el resultado de una reconciliación de stock.
func NewReconcileResponse(drifts []entity.StockDrift, repaired bool) ReconcileResponse {
	out := ReconcileResponse{Repaired: repaired, Drifts: make([]StockDriftResponse, 0, len(drifts))}
	for _, d := range drifts {
		out.Drifts = append(out.Drifts, StockDriftResponse{
			ProductID:  d.ProductID,
			Cached:     d.Cached,
			FromLedger: d.FromLedger,
			Difference: d.Difference,
		})
	}
	return out
}

// NewProductResponse convierte un producto del catálogo.
func NewProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		InternalCode: p.InternalCode,
		EAN:          p.EAN,
		Unit:         p.Unit,
		SalePrice:    p.SalePrice,
		CostPrice:    p.CostPrice,
		StockOnHand:  p.StockOnHand,
	}
}
