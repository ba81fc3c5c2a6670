package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caixa-pdv/internal/application/dto"
	"github.com/jhoicas/caixa-pdv/internal/application/inventory"
	"github.com/jhoicas/caixa-pdv/internal/domain"
	"github.com/jhoicas/caixa-pdv/internal/domain/entity"
	"github.com/jhoicas/caixa-pdv/internal/infrastructure/memory"
	"github.com/jhoicas/caixa-pdv/pkg/logger"
)

func newUseCase(t *testing.T, locker inventory.Locker) (*inventory.RegisterMovementUseCase, *memory.Store) {
	t.Helper()
	store := memory.New()
	p := entity.Product{ID: "A", Name: "Arroz 5kg", Unit: "PC"}
	require.NoError(t, store.Repos().Products.Create(context.Background(), &p))
	return inventory.NewRegisterMovementUseCase(store, store.Repos(), locker, logger.Nop()), store
}

func qty(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// RegisterMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_ReposicionYAjuste(t *testing.T) {
	uc, store := newUseCase(t, nil)
	ctx := context.Background()

	res, err := uc.RegisterMovement(ctx, inventory.MovementInputDTO{ProductID: "A", Type: entity.StockMovementInitial, Quantity: qty("10"), UserID: "op1"})
	require.NoError(t, err)
	assert.True(t, res.StockAfter.Equal(qty("10")))

	res, err = uc.RegisterMovement(ctx, inventory.MovementInputDTO{ProductID: "A", Type: entity.StockMovementRestockIn, Quantity: qty("2.5")})
	require.NoError(t, err)
	assert.True(t, res.StockAfter.Equal(qty("12.5")))

	res, err = uc.RegisterMovement(ctx, inventory.MovementInputDTO{ProductID: "A", Type: entity.StockMovementAdjustment, Quantity: qty("0.5"), Negative: true, Reason: "avaria"})
	require.NoError(t, err)
	assert.True(t, res.StockAfter.Equal(qty("12")))
	assert.True(t, res.Movement.Delta.Equal(qty("-0.5")))

	list, err := uc.ListMovements(ctx, "A")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, entity.StockMovementInitial, list[0].Type)
	assert.Equal(t, "op1", list[0].CreatedBy)
	assert.Equal(t, 3, store.Counts().StockMovements)
}

func TestRegisterMovement_Validacion(t *testing.T) {
	uc, store := newUseCase(t, nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		input inventory.MovementInputDTO
	}{
		{"tipo venta no permitido", inventory.MovementInputDTO{ProductID: "A", Type: entity.StockMovementSaleOut, Quantity: qty("1")}},
		{"tipo desconocido", inventory.MovementInputDTO{ProductID: "A", Type: "transfer", Quantity: qty("1")}},
		{"cantidad cero", inventory.MovementInputDTO{ProductID: "A", Type: entity.StockMovementRestockIn, Quantity: decimal.Zero}},
		{"cantidad negativa", inventory.MovementInputDTO{ProductID: "A", Type: entity.StockMovementRestockIn, Quantity: qty("-1")}},
		{"reposición negativa", inventory.MovementInputDTO{ProductID: "A", Type: entity.StockMovementRestockIn, Quantity: qty("1"), Negative: true}},
		{"sin producto", inventory.MovementInputDTO{Type: entity.StockMovementRestockIn, Quantity: qty("1")}},
		{"más de cuatro decimales", inventory.MovementInputDTO{ProductID: "A", Type: entity.StockMovementRestockIn, Quantity: qty("0.12345")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.RegisterMovement(ctx, tt.input)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput), "obtenido %v", err)
		})
	}
	assert.Equal(t, 0, store.Counts().StockMovements)
}

func TestRegisterMovement_ProductoInexistente(t *testing.T) {
	uc, store := newUseCase(t, nil)
	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInputDTO{ProductID: "X", Type: entity.StockMovementRestockIn, Quantity: qty("1")})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, 0, store.Counts().StockMovements)
}

func TestRegisterMovementFromRequest(t *testing.T) {
	uc, _ := newUseCase(t, nil)
	res, err := uc.RegisterMovementFromRequest(context.Background(), "op1", dto.RegisterStockMovementRequest{
		ProductID: "A",
		Type:      entity.StockMovementRestockIn,
		Quantity:  qty("3"),
	})
	require.NoError(t, err)
	assert.Equal(t, "op1", res.Movement.CreatedBy)

	_, err = uc.RegisterMovementFromRequest(context.Background(), "op1", dto.RegisterStockMovementRequest{ProductID: "A", Type: "sale_out", Quantity: qty("1")})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

// ──────────────────────────────────────────────────────────────────────────────
// Reconcile
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcile_DetectaYRepara(t *testing.T) {
	uc, store := newUseCase(t, nil)
	ctx := context.Background()
	_, err := uc.RegisterMovement(ctx, inventory.MovementInputDTO{ProductID: "A", Type: entity.StockMovementInitial, Quantity: qty("10")})
	require.NoError(t, err)

	// Corrupción del caché por fuera del libro.
	require.NoError(t, store.Repos().Stock.Set(ctx, "A", qty("7")))
	orphan := entity.Product{ID: "B", Name: "Feijão", StockOnHand: qty("4")}
	require.NoError(t, store.Repos().Products.Create(ctx, &orphan))

	drifts, err := uc.Reconcile(ctx, false)
	require.NoError(t, err)
	require.Len(t, drifts, 2)
	assert.Equal(t, "A", drifts[0].ProductID)
	assert.True(t, drifts[0].FromLedger.Equal(qty("10")))
	assert.True(t, drifts[0].Difference.Equal(qty("-3")))

	p, err := store.Repos().Products.GetByID(ctx, "A")
	require.NoError(t, err)
	assert.True(t, p.StockOnHand.Equal(qty("7")), "sin repair no se modifica nada")

	drifts, err = uc.Reconcile(ctx, true)
	require.NoError(t, err)
	assert.Len(t, drifts, 2)

	drifts, err = uc.Reconcile(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, drifts)
}

type busyLocker struct{}

func (busyLocker) Lock(context.Context, string, time.Duration) (func(context.Context) error, error) {
	return nil, inventory.ErrLockNotObtained
}

func TestReconcile_CandadoOcupado(t *testing.T) {
	uc, _ := newUseCase(t, busyLocker{})
	_, err := uc.Reconcile(context.Background(), true)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	_, err = uc.Reconcile(context.Background(), false)
	assert.NoError(t, err, "la detección no necesita candado")
}
