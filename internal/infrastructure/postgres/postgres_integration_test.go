package postgres_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caixa-pdv/internal/domain"
	"github.com/jhoicas/caixa-pdv/internal/domain/entity"
	"github.com/jhoicas/caixa-pdv/internal/domain/repository"
	"github.com/jhoicas/caixa-pdv/internal/infrastructure/postgres"
	"github.com/jhoicas/caixa-pdv/pkg/config"
)

// Requiere una base descartable: CAIXA_TEST_DATABASE_URL=postgres://...
// Las tablas se vacían al inicio de cada test.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("CAIXA_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("CAIXA_TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url, MaxConns: 5})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.Migrate(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE cash_movements, stock_movements, payments, sale_items, sales, cash_sessions, products`)
	require.NoError(t, err)
	return pool
}

func seedProduct(t *testing.T, repos repository.TxRepos, id string, stock int64) {
	t.Helper()
	require.NoError(t, repos.Products.Create(context.Background(), &entity.Product{
		ID: id, Name: "Produto " + id, Unit: "UN", SalePrice: 100, StockOnHand: decimal.NewFromInt(stock),
	}))
}

func TestCashSession_UnaSolaAbierta(t *testing.T) {
	pool := testPool(t)
	repos := postgres.NewRepos(pool)
	ctx := context.Background()

	require.NoError(t, repos.CashSessions.Create(ctx, &entity.CashSession{OperatorID: "op1", InitialBalance: 1000}))
	err := repos.CashSessions.Create(ctx, &entity.CashSession{OperatorID: "op2", InitialBalance: 0})
	assert.ErrorIs(t, err, domain.ErrConflict)

	open, err := repos.CashSessions.GetOpen(ctx)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, "op1", open.OperatorID)
}

func TestTxRunner_RollbackDejaTodoIntacto(t *testing.T) {
	pool := testPool(t)
	repos := postgres.NewRepos(pool)
	ctx := context.Background()
	seedProduct(t, repos, "A", 10)
	session := &entity.CashSession{OperatorID: "op1"}
	require.NoError(t, repos.CashSessions.Create(ctx, session))

	boom := errors.New("fallo al registrar el pago")
	err := postgres.NewTxRunner(pool).Run(ctx, func(tx repository.TxRepos) error {
		sale := &entity.Sale{OperatorID: "op1", CashSessionID: session.ID, Subtotal: 200, Total: 200,
			Status: entity.SaleStatusCompleted, Timestamp: time.Now()}
		if err := tx.Sales.Create(ctx, sale); err != nil {
			return err
		}
		if _, err := tx.Stock.ApplyDelta(ctx, "A", decimal.NewFromInt(-2)); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, err := repos.Products.GetByID(ctx, "A")
	require.NoError(t, err)
	assert.True(t, p.StockOnHand.Equal(decimal.NewFromInt(10)))
	var sales int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM sales`).Scan(&sales))
	assert.Zero(t, sales)
}

func TestSale_ClientSaleIDDuplicadoEsConflicto(t *testing.T) {
	pool := testPool(t)
	repos := postgres.NewRepos(pool)
	ctx := context.Background()
	session := &entity.CashSession{OperatorID: "op1"}
	require.NoError(t, repos.CashSessions.Create(ctx, session))

	newSale := func() *entity.Sale {
		return &entity.Sale{ClientSaleID: "pdv-1-0001", OperatorID: "op1", CashSessionID: session.ID,
			Subtotal: 100, Total: 100, Status: entity.SaleStatusCompleted, Timestamp: time.Now()}
	}
	first := newSale()
	require.NoError(t, repos.Sales.Create(ctx, first))
	assert.ErrorIs(t, repos.Sales.Create(ctx, newSale()), domain.ErrConflict)

	got, err := repos.Sales.GetByClientSaleID(ctx, "pdv-1-0001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first.ID, got.ID)
}

func TestReportRepo_FrecuenciaCuentaVentasDistintas(t *testing.T) {
	pool := testPool(t)
	repos := postgres.NewRepos(pool)
	ctx := context.Background()
	seedProduct(t, repos, "Z", 50)
	session := &entity.CashSession{OperatorID: "op1"}
	require.NoError(t, repos.CashSessions.Create(ctx, session))

	for _, qty := range []int64{5, 3} {
		q := decimal.NewFromInt(qty)
		sale := &entity.Sale{OperatorID: "op1", CashSessionID: session.ID, Subtotal: 100, Total: 100,
			Status: entity.SaleStatusCompleted, Timestamp: time.Now()}
		require.NoError(t, repos.Sales.Create(ctx, sale))
		require.NoError(t, repos.Sales.CreateItem(ctx, &entity.SaleItem{
			SaleID: sale.ID, ProductID: "Z", ProductNameSnapshot: "Produto Z", InternalCodeSnapshot: "-",
			EANSnapshot: "-", UnitSnapshot: "UN", Quantity: q, UnitPrice: 100, FinalUnitPrice: 100, LineTotal: 100,
		}))
	}

	rows, err := postgres.NewReportRepository(pool).ProductMix(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Frequency)
	assert.True(t, rows[0].TotalQuantity.Equal(decimal.NewFromInt(8)))
}

func TestCashMovement_MetadataSeGuardaTalCual(t *testing.T) {
	pool := testPool(t)
	repos := postgres.NewRepos(pool)
	ctx := context.Background()
	session := &entity.CashSession{OperatorID: "op1"}
	require.NoError(t, repos.CashSessions.Create(ctx, session))
	// Orden de claves, espacios y claves repetidas se conservan.
	raw := `{"z": 1,  "category":"troco", "z": 2}`

	require.NoError(t, repos.CashMovements.Create(ctx, &entity.CashMovement{
		CashSessionID: session.ID, Type: entity.CashMovementSuprimento, Direction: entity.DirectionIn,
		Amount: 500, Metadata: []byte(raw),
	}))
	require.NoError(t, repos.CashMovements.Create(ctx, &entity.CashMovement{
		CashSessionID: session.ID, Type: entity.CashMovementSangria, Direction: entity.DirectionOut, Amount: 200,
	}))

	list, err := repos.CashMovements.ListBySession(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, raw, string(list[0].Metadata))
	assert.Empty(t, list[1].Metadata)
}
