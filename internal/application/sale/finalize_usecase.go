// Package sale contiene la transacción de finalización de venta.
package sale

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caixa-pdv/internal/application/cash"
	"github.com/jhoicas/caixa-pdv/internal/application/catalog"
	"github.com/jhoicas/caixa-pdv/internal/application/dto"
	"github.com/jhoicas/caixa-pdv/internal/domain"
	"github.com/jhoicas/caixa-pdv/internal/domain/entity"
	"github.com/jhoicas/caixa-pdv/internal/domain/ledger"
	"github.com/jhoicas/caixa-pdv/internal/domain/repository"
	"github.com/jhoicas/caixa-pdv/pkg/logger"
	"github.com/jhoicas/caixa-pdv/pkg/money"
)

// Policy opciones de validación de la finalización (ver LEDGER_* en config).
type Policy struct {
	AllowNegativeStock  bool // false: una venta que deja stock negativo se rechaza con ErrConflict
	EnforcePaymentTotal bool // true: Σ pagos debe ser igual al total
	VerifyLineTotals    bool // true: lineTotal debe ser finalUnitPrice * quantity
}

// DefaultPolicy sin guardia de stock negativo, sin exigir Σ pagos, verificando líneas.
func DefaultPolicy() Policy {
	return Policy{AllowNegativeStock: true, VerifyLineTotals: true}
}

// FinalizeResult resultado de FinalizeSale. Duplicate indica que el clientSaleId ya existía
// y no se escribió nada.
type FinalizeResult struct {
	SaleID    string
	Duplicate bool
}

// FinalizeSaleUseCase registra una venta completa en una única transacción:
// cabecera, líneas con snapshot, salida de stock por línea, pagos y entradas de caja.
// Si cualquier paso falla no queda ningún efecto.
type FinalizeSaleUseCase struct {
	txRunner  repository.TxRunner
	sales     repository.SaleRepository
	movements *cash.MovementUseCase
	policy    Policy
	log       *logger.Logger
}

// NewFinalizeSaleUseCase construye el caso de uso. sales se usa para lecturas fuera de transacción.
func NewFinalizeSaleUseCase(
	txRunner repository.TxRunner,
	sales repository.SaleRepository,
	movements *cash.MovementUseCase,
	policy Policy,
	log *logger.Logger,
) *FinalizeSaleUseCase {
	return &FinalizeSaleUseCase{
		txRunner:  txRunner,
		sales:     sales,
		movements: movements,
		policy:    policy,
		log:       log,
	}
}

// FinalizeSale valida el carrito y lo registra. Devuelve el id de la venta.
func (uc *FinalizeSaleUseCase) FinalizeSale(ctx context.Context, in dto.FinalizeSaleRequest) (*FinalizeResult, error) {
	if err := uc.validate(in); err != nil {
		return nil, err
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:            uuid.New().String(),
		ClientSaleID:  in.ClientSaleID,
		OperatorID:    in.OperatorID,
		CashSessionID: in.CashSessionID,
		ClientID:      in.ClientID,
		Subtotal:      in.Subtotal,
		DiscountTotal: in.DiscountTotal,
		Total:         in.Total,
		Status:        entity.SaleStatusCompleted,
		Timestamp:     now,
		CreatedAt:     now,
	}
	result := &FinalizeResult{SaleID: sale.ID}
	var inflows []*entity.CashMovement

	err := uc.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		// El runner puede repetir fn tras un aborto por serialización.
		inflows = inflows[:0]
		if in.ClientSaleID != "" {
			existing, err := tx.Sales.GetByClientSaleID(ctx, in.ClientSaleID)
			if err != nil {
				return err
			}
			if existing != nil {
				result.SaleID = existing.ID
				result.Duplicate = true
				return nil
			}
		}

		session, err := tx.CashSessions.GetForUpdate(ctx, in.CashSessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return fmt.Errorf("sesión %s: %w", in.CashSessionID, domain.ErrNotFound)
		}
		if !session.IsOpen {
			return fmt.Errorf("sesión %s cerrada: %w", in.CashSessionID, domain.ErrNoOpenSession)
		}

		// 1) Cabecera antes que las filas hijas.
		if err := tx.Sales.Create(ctx, sale); err != nil {
			return err
		}

		// 2) Líneas: snapshot, línea, stock y movimiento adyacentes.
		snapshots := catalog.NewProvider(tx.Products)
		for i, it := range in.Items {
			if err := uc.recordItem(ctx, tx, snapshots, sale, i, it); err != nil {
				return err
			}
		}

		// 3) Pagos con metadata tal cual.
		payments := make([]entity.Payment, 0, len(in.Payments))
		for _, p := range in.Payments {
			payment := &entity.Payment{
				SaleID:    sale.ID,
				Method:    p.Method,
				Amount:    *p.Amount,
				Metadata:  p.Metadata,
				CreatedAt: now,
			}
			if err := tx.Sales.CreatePayment(ctx, payment); err != nil {
				return err
			}
			payments = append(payments, *payment)
		}

		// 4) Entradas de caja.
		classified, err := ledger.ClassifyCashInflows(payments, sale.Total)
		if err != nil {
			return &domain.ValidationError{Fields: map[string]string{"payments": err.Error()}}
		}
		for _, inflow := range classified {
			m, err := uc.movements.AddSaleInflow(ctx, tx, session.ID, sale.ID, inflow, now)
			if err != nil {
				return err
			}
			inflows = append(inflows, m)
		}
		return nil
	})
	if err != nil {
		if in.ClientSaleID != "" && errors.Is(err, domain.ErrConflict) {
			// Otra petición con el mismo clientSaleId ganó la carrera.
			if existing, getErr := uc.sales.GetByClientSaleID(ctx, in.ClientSaleID); getErr == nil && existing != nil {
				return &FinalizeResult{SaleID: existing.ID, Duplicate: true}, nil
			}
		}
		uc.log.Error().Err(err).
			Str("cash_session_id", in.CashSessionID).
			Str("client_sale_id", in.ClientSaleID).
			Msg("finalización de venta revertida")
		return nil, err
	}

	if result.Duplicate {
		uc.log.Info().
			Str("sale_id", result.SaleID).
			Str("client_sale_id", in.ClientSaleID).
			Msg("venta duplicada: se devuelve la original")
		return result, nil
	}
	var cashIn money.Cents
	for _, m := range inflows {
		cashIn += m.Amount
	}
	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("cash_session_id", sale.CashSessionID).
		Int64("total", sale.Total.Int64()).
		Int("items", len(in.Items)).
		Int("payments", len(in.Payments)).
		Int64("cash_in", cashIn.Int64()).
		Msg("venta finalizada")
	return result, nil
}

func (uc *FinalizeSaleUseCase) recordItem(
	ctx context.Context,
	tx repository.TxRepos,
	snapshots *catalog.Provider,
	sale *entity.Sale,
	index int,
	in dto.SaleItemRequest,
) error {
	snap, err := snapshots.Resolve(ctx, in.ProductID, catalog.ItemSnapshot{
		Name:         in.ProductName,
		InternalCode: in.ProductInternalCode,
		EAN:          in.ProductEAN,
		Unit:         in.Unit,
	})
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return domain.NewValidationError(fmt.Sprintf("items[%d].productName", index), "requerido")
		}
		return err
	}
	item := &entity.SaleItem{
		SaleID:                sale.ID,
		ProductID:             in.ProductID,
		ProductNameSnapshot:   snap.Name,
		InternalCodeSnapshot:  snap.InternalCode,
		EANSnapshot:           snap.EAN,
		UnitSnapshot:          snap.Unit,
		Quantity:              in.Quantity,
		UnitPrice:             in.UnitPrice,
		AutoDiscountApplied:   in.AutoDiscountApplied,
		ManualDiscountApplied: in.ManualDiscountApplied,
		FinalUnitPrice:        in.FinalUnitPrice,
		LineTotal:             in.LineTotal,
	}
	if err := tx.Sales.CreateItem(ctx, item); err != nil {
		return err
	}

	delta := ledger.DeltaFor(entity.StockMovementSaleOut, in.Quantity, true)
	after, err := tx.Stock.ApplyDelta(ctx, in.ProductID, delta)
	if err != nil {
		return err
	}
	if !uc.policy.AllowNegativeStock && after.IsNegative() {
		return fmt.Errorf("producto %s queda en %s: %w", in.ProductID, after.String(),
			errors.Join(domain.ErrConflict, domain.ErrInsufficientStock))
	}
	return tx.StockMovements.Create(ctx, &entity.StockMovement{
		ProductID:     in.ProductID,
		Type:          entity.StockMovementSaleOut,
		Quantity:      in.Quantity,
		Delta:         delta,
		Reason:        "venta",
		ReferenceType: entity.ReferenceTypeSale,
		ReferenceID:   sale.ID,
		Timestamp:     sale.Timestamp,
		CreatedBy:     sale.OperatorID,
	})
}

// validate reglas previas a la transacción. Nada se escribe si falla.
func (uc *FinalizeSaleUseCase) validate(in dto.FinalizeSaleRequest) error {
	if err := dto.Validate(in); err != nil {
		return err
	}
	fields := make(map[string]string)
	for i, it := range in.Items {
		if !it.Quantity.GreaterThan(decimal.Zero) {
			fields[fmt.Sprintf("items[%d].quantity", i)] = "debe ser mayor que cero"
			continue
		}
		if !ledger.ValidQuantityScale(it.Quantity) {
			fields[fmt.Sprintf("items[%d].quantity", i)] = fmt.Sprintf("máximo %d decimales", ledger.QuantityScale)
			continue
		}
		if uc.policy.VerifyLineTotals {
			if want := money.MulQuantity(it.FinalUnitPrice, it.Quantity); want != it.LineTotal {
				fields[fmt.Sprintf("items[%d].lineTotal", i)] = fmt.Sprintf("esperado %d", want.Int64())
			}
		}
	}
	if in.Total != in.Subtotal-in.DiscountTotal {
		fields["total"] = "debe ser subtotal - discountTotal"
	}
	payments := make([]entity.Payment, 0, len(in.Payments))
	for _, p := range in.Payments {
		payments = append(payments, entity.Payment{Method: p.Method, Amount: *p.Amount, Metadata: p.Metadata})
	}
	if _, err := ledger.ClassifyCashInflows(payments, in.Total); err != nil {
		fields["payments"] = err.Error()
	}
	if uc.policy.EnforcePaymentTotal {
		var paid money.Cents
		for _, p := range in.Payments {
			paid += *p.Amount
		}
		if paid != in.Total {
			fields["payments"] = fmt.Sprintf("suma %d distinta del total %d", paid.Int64(), in.Total.Int64())
		}
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
