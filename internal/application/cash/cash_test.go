package cash_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caixa-pdv/internal/application/cash"
	"github.com/jhoicas/caixa-pdv/internal/application/dto"
	"github.com/jhoicas/caixa-pdv/internal/domain"
	"github.com/jhoicas/caixa-pdv/internal/domain/entity"
	"github.com/jhoicas/caixa-pdv/internal/domain/ledger"
	"github.com/jhoicas/caixa-pdv/internal/domain/repository"
	"github.com/jhoicas/caixa-pdv/internal/infrastructure/memory"
	"github.com/jhoicas/caixa-pdv/pkg/logger"
	"github.com/jhoicas/caixa-pdv/pkg/money"
)

type fixture struct {
	store     *memory.Store
	sessions  *cash.SessionUseCase
	movements *cash.MovementUseCase
}

func newFixture() *fixture {
	store := memory.New()
	log := logger.Nop()
	return &fixture{
		store:     store,
		sessions:  cash.NewSessionUseCase(store, store.Repos(), log),
		movements: cash.NewMovementUseCase(store, store.Repos(), log),
	}
}

func (f *fixture) open(t *testing.T, initial money.Cents) *entity.CashSession {
	t.Helper()
	s, err := f.sessions.Open(context.Background(), dto.OpenCashSessionRequest{OperatorID: "op1", InitialBalance: initial})
	require.NoError(t, err)
	return s
}

// ──────────────────────────────────────────────────────────────────────────────
// Apertura
// ──────────────────────────────────────────────────────────────────────────────

func TestOpen_CreaSesionAbierta(t *testing.T) {
	f := newFixture()
	s := f.open(t, 10000)

	assert.NotEmpty(t, s.ID)
	assert.True(t, s.IsOpen)
	assert.Equal(t, entity.CashSessionOpen, s.State())
	assert.Equal(t, money.Cents(10000), s.InitialBalance)

	current, err := f.sessions.GetOpen(context.Background())
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, s.ID, current.ID)
}

func TestOpen_SegundaSesionEsConflicto(t *testing.T) {
	f := newFixture()
	f.open(t, 10000)

	_, err := f.sessions.Open(context.Background(), dto.OpenCashSessionRequest{OperatorID: "op2", InitialBalance: 0})
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.Equal(t, 1, f.store.Counts().CashSessions)
}

func TestOpen_Validacion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.sessions.Open(ctx, dto.OpenCashSessionRequest{OperatorID: "", InitialBalance: 100})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "operador requerido")

	_, err = f.sessions.Open(ctx, dto.OpenCashSessionRequest{OperatorID: "op1", InitialBalance: -1})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "saldo inicial negativo")
}

func TestGetOpen_SinSesion(t *testing.T) {
	f := newFixture()
	s, err := f.sessions.GetOpen(context.Background())
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestGet_NoExiste(t *testing.T) {
	f := newFixture()
	_, err := f.sessions.Get(context.Background(), "nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos manuales
// ──────────────────────────────────────────────────────────────────────────────

func TestSuprimentoYSangria_UsanSesionAbierta(t *testing.T) {
	f := newFixture()
	s := f.open(t, 10000)
	ctx := context.Background()

	sup, err := f.movements.AddSuprimento(ctx, dto.ManualCashMovementRequest{Amount: 5000, Description: "troco", Category: "reforço", OperatorID: "op1"})
	require.NoError(t, err)
	assert.Equal(t, s.ID, sup.CashSessionID)
	assert.Equal(t, entity.DirectionIn, sup.Direction)
	assert.Equal(t, entity.CashMovementSuprimento, sup.Type)

	var meta map[string]string
	require.NoError(t, json.Unmarshal(sup.Metadata, &meta))
	assert.Equal(t, "reforço", meta["category"])
	assert.Equal(t, "op1", meta["operatorId"])

	san, err := f.movements.AddSangria(ctx, dto.ManualCashMovementRequest{CashSessionID: s.ID, Amount: 3000})
	require.NoError(t, err)
	assert.Equal(t, entity.DirectionOut, san.Direction)
	assert.Equal(t, entity.CashMovementSangria, san.Type)

	list, err := f.movements.ListMovements(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, sup.ID, list[0].ID)
	assert.Equal(t, san.ID, list[1].ID)
}

func TestMovimientoManual_SinSesionAbierta(t *testing.T) {
	f := newFixture()
	_, err := f.movements.AddSangria(context.Background(), dto.ManualCashMovementRequest{Amount: 100})
	assert.True(t, errors.Is(err, domain.ErrNoOpenSession))
}

func TestMovimientoManual_SesionCerrada(t *testing.T) {
	f := newFixture()
	s := f.open(t, 0)
	ctx := context.Background()
	_, err := f.sessions.Close(ctx, s.ID, dto.CloseCashSessionRequest{PhysicalCount: money.Ptr(0)})
	require.NoError(t, err)

	_, err = f.movements.AddSuprimento(ctx, dto.ManualCashMovementRequest{CashSessionID: s.ID, Amount: 100})
	assert.True(t, errors.Is(err, domain.ErrNoOpenSession))
	assert.Equal(t, 0, f.store.Counts().CashMovements)
}

func TestMovimientoManual_SesionInexistente(t *testing.T) {
	f := newFixture()
	f.open(t, 0)
	_, err := f.movements.AddSuprimento(context.Background(), dto.ManualCashMovementRequest{CashSessionID: "nope", Amount: 100})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestMovimientoManual_MontoNoPositivo(t *testing.T) {
	f := newFixture()
	f.open(t, 0)
	for _, amount := range []money.Cents{0, -10} {
		_, err := f.movements.AddSuprimento(context.Background(), dto.ManualCashMovementRequest{Amount: amount})
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "monto %d", amount)
	}
}

func TestAddSaleInflow_DentroDeTransaccion(t *testing.T) {
	f := newFixture()
	s := f.open(t, 0)
	ctx := context.Background()

	err := f.store.Run(ctx, func(tx repository.TxRepos) error {
		m, err := f.movements.AddSaleInflow(ctx, tx, s.ID, "sale-1", ledger.CashInflow{Amount: 2000, Description: "Venta"}, s.OpenedAt)
		require.NoError(t, err)
		assert.Equal(t, entity.CashMovementSaleInflow, m.Type)
		assert.Equal(t, entity.DirectionIn, m.Direction)
		assert.Equal(t, "sale-1", m.ReferenceID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.store.Counts().CashMovements)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cierre
// ──────────────────────────────────────────────────────────────────────────────

func TestClose_CalculaEsperadoYDiferencia(t *testing.T) {
	f := newFixture()
	s := f.open(t, 10000)
	ctx := context.Background()

	_, err := f.movements.AddSuprimento(ctx, dto.ManualCashMovementRequest{Amount: 5000})
	require.NoError(t, err)
	_, err = f.movements.AddSangria(ctx, dto.ManualCashMovementRequest{Amount: 3000})
	require.NoError(t, err)
	require.NoError(t, f.store.Run(ctx, func(tx repository.TxRepos) error {
		_, err := f.movements.AddSaleInflow(ctx, tx, s.ID, "sale-1", ledger.CashInflow{Amount: 2000}, s.OpenedAt)
		return err
	}))

	res, err := f.sessions.Close(ctx, s.ID, dto.CloseCashSessionRequest{PhysicalCount: money.Ptr(13900)})
	require.NoError(t, err)
	assert.Equal(t, money.Cents(14000), res.Expected)
	assert.Equal(t, money.Cents(-100), res.Difference, "faltante de un real")
	assert.False(t, res.Session.IsOpen)
	require.NotNil(t, res.Session.ClosedAt)

	stored, err := f.sessions.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CashSessionClosed, stored.State())
	require.NotNil(t, stored.DifferenceAtClose)
	assert.Equal(t, money.Cents(-100), *stored.DifferenceAtClose)
	assert.Equal(t, money.Cents(13900), *stored.PhysicalCountAtClose)
	assert.Equal(t, money.Cents(14000), *stored.ExpectedBalanceAtClose)
}

func TestClose_DosVecesFallaYNoAlteraDiferencia(t *testing.T) {
	f := newFixture()
	s := f.open(t, 1000)
	ctx := context.Background()

	_, err := f.sessions.Close(ctx, s.ID, dto.CloseCashSessionRequest{PhysicalCount: money.Ptr(1000)})
	require.NoError(t, err)

	_, err = f.sessions.Close(ctx, s.ID, dto.CloseCashSessionRequest{PhysicalCount: money.Ptr(5000)})
	assert.True(t, errors.Is(err, domain.ErrAlreadyClosed))

	stored, err := f.sessions.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, money.Cents(0), *stored.DifferenceAtClose)
}

func TestClose_SinConteoFisicoNoCierra(t *testing.T) {
	f := newFixture()
	s := f.open(t, 10000)
	ctx := context.Background()

	_, err := f.sessions.Close(ctx, s.ID, dto.CloseCashSessionRequest{})
	require.Error(t, err)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "physicalCount")

	stored, err := f.sessions.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsOpen, "la sesión sigue abierta")
	assert.Nil(t, stored.PhysicalCountAtClose)

	res, err := f.sessions.Close(ctx, s.ID, dto.CloseCashSessionRequest{PhysicalCount: money.Ptr(10000)})
	require.NoError(t, err)
	assert.Equal(t, money.Cents(0), res.Difference)
}

func TestClose_NoExiste(t *testing.T) {
	f := newFixture()
	_, err := f.sessions.Close(context.Background(), "nope", dto.CloseCashSessionRequest{PhysicalCount: money.Ptr(0)})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestClose_PermiteAbrirNuevaSesion(t *testing.T) {
	f := newFixture()
	s := f.open(t, 0)
	_, err := f.sessions.Close(context.Background(), s.ID, dto.CloseCashSessionRequest{PhysicalCount: money.Ptr(0)})
	require.NoError(t, err)

	next := f.open(t, 500)
	assert.NotEqual(t, s.ID, next.ID)
}

func TestSummary(t *testing.T) {
	f := newFixture()
	s := f.open(t, 10000)
	ctx := context.Background()
	_, err := f.movements.AddSuprimento(ctx, dto.ManualCashMovementRequest{Amount: 700})
	require.NoError(t, err)
	_, err = f.movements.AddSangria(ctx, dto.ManualCashMovementRequest{Amount: 200})
	require.NoError(t, err)

	sum, err := f.sessions.Summary(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, money.Cents(10500), sum.RunningBalance)
	assert.Equal(t, money.Cents(700), sum.Totals.In)
	assert.Equal(t, money.Cents(200), sum.Totals.Out)
	assert.Equal(t, 2, sum.MovementsCount)
}
