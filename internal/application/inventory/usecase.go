package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caixa-pdv/internal/domain"
	"github.com/jhoicas/caixa-pdv/internal/domain/entity"
	"github.com/jhoicas/caixa-pdv/internal/domain/ledger"
	"github.com/jhoicas/caixa-pdv/internal/domain/repository"
	"github.com/jhoicas/caixa-pdv/pkg/logger"
)

const (
	reconcileLockKey = "lock:stock-reconcile"
	reconcileLockTTL = 2 * time.Minute
)

// RegisterMovementUseCase registra movimientos de stock fuera de una venta
// (reposición, ajuste, carga inicial). El stock materializado y el movimiento se escriben
// en la misma transacción, con la fila del producto bloqueada (SELECT FOR UPDATE).
type RegisterMovementUseCase struct {
	txRunner repository.TxRunner
	repos    repository.TxRepos
	locker   Locker
	log      *logger.Logger
}

// NewRegisterMovementUseCase construye el caso de uso. locker nil = NoopLocker.
func NewRegisterMovementUseCase(
	txRunner repository.TxRunner,
	repos repository.TxRepos,
	locker Locker,
	log *logger.Logger,
) *RegisterMovementUseCase {
	if locker == nil {
		locker = NoopLocker{}
	}
	return &RegisterMovementUseCase{
		txRunner: txRunner,
		repos:    repos,
		locker:   locker,
		log:      log,
	}
}

// MovementInputDTO entrada para registrar un movimiento de stock.
// Quantity es siempre positiva; Negative indica un ajuste a la baja.
type MovementInputDTO struct {
	UserID    string
	ProductID string
	Type      string
	Quantity  decimal.Decimal
	Negative  bool
	Reason    string
}

// MovementResult movimiento registrado y stock resultante.
type MovementResult struct {
	Movement   *entity.StockMovement
	StockAfter decimal.Decimal
}

// RegisterMovement valida la entrada, bloquea el producto, aplica el delta y guarda el movimiento.
// Las salidas por venta no pasan por aquí: las registra la finalización de venta.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInputDTO) (*MovementResult, error) {
	switch input.Type {
	case entity.StockMovementRestockIn, entity.StockMovementInitial:
		if input.Negative {
			return nil, domain.NewValidationError("negative", "sólo aplica a adjustment")
		}
	case entity.StockMovementAdjustment:
	default:
		return nil, domain.NewValidationError("type", "debe ser restock_in, adjustment o initial")
	}
	if input.ProductID == "" {
		return nil, domain.NewValidationError("productId", "requerido")
	}
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	if !ledger.ValidQuantityScale(input.Quantity) {
		return nil, domain.NewValidationError("quantity", fmt.Sprintf("máximo %d decimales", ledger.QuantityScale))
	}

	now := time.Now()
	delta := ledger.DeltaFor(input.Type, input.Quantity, input.Negative)
	movement := &entity.StockMovement{
		ProductID:     input.ProductID,
		Type:          input.Type,
		Quantity:      input.Quantity.Abs(),
		Delta:         delta,
		Reason:        input.Reason,
		ReferenceType: entity.ReferenceTypeManual,
		Timestamp:     now,
		CreatedBy:     input.UserID,
	}
	var after decimal.Decimal

	// Inicia transacción; Commit si todo ok, Rollback si algo falla (TxRunner.Run lo hace)
	err := uc.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		// Bloquea la fila del producto para evitar condiciones de carrera
		if _, err := tx.Stock.GetForUpdate(ctx, input.ProductID); err != nil {
			return err
		}
		var err error
		after, err = tx.Stock.ApplyDelta(ctx, input.ProductID, delta)
		if err != nil {
			return err
		}
		return tx.StockMovements.Create(ctx, movement)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("product_id", input.ProductID).
		Str("type", input.Type).
		Str("delta", delta.String()).
		Str("stock_after", after.String()).
		Msg("movimiento de stock registrado")
	return &MovementResult{Movement: movement, StockAfter: after}, nil
}

// ListMovements devuelve el libro de un producto por timestamp ascendente.
func (uc *RegisterMovementUseCase) ListMovements(ctx context.Context, productID string) ([]*entity.StockMovement, error) {
	product, err := uc.repos.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	return uc.repos.StockMovements.ListByProduct(ctx, productID)
}

// Reconcile recalcula el stock de cada producto desde el libro de movimientos y lo compara con
// el stock materializado. Con repair=true reescribe el caché en una transacción; el libro manda.
// La reparación toma un candado distribuido para no competir con otra instancia.
func (uc *RegisterMovementUseCase) Reconcile(ctx context.Context, repair bool) ([]entity.StockDrift, error) {
	if !repair {
		return uc.detect(ctx, uc.repos)
	}

	release, err := uc.locker.Lock(ctx, reconcileLockKey, reconcileLockTTL)
	if err != nil {
		if errors.Is(err, ErrLockNotObtained) {
			return nil, fmt.Errorf("reconciliación en curso: %w", domain.ErrConflict)
		}
		return nil, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			uc.log.Warn().Err(err).Msg("liberar candado de reconciliación")
		}
	}()

	var drifts []entity.StockDrift
	err = uc.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		var err error
		drifts, err = uc.detect(ctx, tx)
		if err != nil {
			return err
		}
		for _, d := range drifts {
			if err := tx.Stock.Set(ctx, d.ProductID, d.FromLedger); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, d := range drifts {
		uc.log.Warn().
			Str("product_id", d.ProductID).
			Str("cached", d.Cached.String()).
			Str("from_ledger", d.FromLedger.String()).
			Msg("stock reparado desde el libro")
	}
	return drifts, nil
}

func (uc *RegisterMovementUseCase) detect(ctx context.Context, repos repository.TxRepos) ([]entity.StockDrift, error) {
	products, err := repos.Products.List(ctx)
	if err != nil {
		return nil, err
	}
	movements, err := repos.StockMovements.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]entity.Product, 0, len(products))
	for _, p := range products {
		list = append(list, *p)
	}
	all := make([]entity.StockMovement, 0, len(movements))
	for _, m := range movements {
		all = append(all, *m)
	}
	drifts := ledger.DetectDrift(list, ledger.ReplayStock(all))
	if len(drifts) > 0 {
		uc.log.Warn().Int("products", len(drifts)).Msg("diferencias de stock detectadas")
	}
	return drifts, nil
}
