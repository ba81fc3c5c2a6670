package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caixa-pdv/internal/application/cash"
	"github.com/jhoicas/caixa-pdv/internal/application/catalog"
	"github.com/jhoicas/caixa-pdv/internal/application/dto"
	"github.com/jhoicas/caixa-pdv/internal/application/inventory"
	"github.com/jhoicas/caixa-pdv/internal/application/reports"
	"github.com/jhoicas/caixa-pdv/internal/application/sale"
	"github.com/jhoicas/caixa-pdv/internal/domain"
	"github.com/jhoicas/caixa-pdv/internal/domain/entity"
	"github.com/jhoicas/caixa-pdv/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/caixa-pdv/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/caixa-pdv/pkg/jwt"
	"github.com/jhoicas/caixa-pdv/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Aplicación completa sobre el almacén en memoria
// ──────────────────────────────────────────────────────────────────────────────

type apiFixture struct {
	app   *fiber.App
	store *memory.Store
	op    string // Authorization de operador
	sup   string // Authorization de supervisor
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	store := memory.New()
	repos := store.Repos()
	log := logger.Nop()

	require.NoError(t, repos.Products.Create(context.Background(), &entity.Product{
		ID: "A", Name: "Pão de queijo", Unit: "UN", SalePrice: 450, CostPrice: 200, StockOnHand: decimal.NewFromInt(10),
	}))

	sessions := cash.NewSessionUseCase(store, repos, log)
	movements := cash.NewMovementUseCase(store, repos, log)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Catalog:          catalog.NewProvider(repos.Products),
		FinalizeSale:     sale.NewFinalizeSaleUseCase(store, repos.Sales, movements, sale.DefaultPolicy(), log),
		CashSessions:     sessions,
		CashMovements:    movements,
		RegisterMovement: inventory.NewRegisterMovementUseCase(store, repos, inventory.NoopLocker{}, log),
		Reports:          reports.NewUseCase(store.Reports(), sessions, movements, nil, 0, nil, log),
		JWTSecret:        testJWTSecret,
		JWTIssuer:        testIssuer,
	})
	return &apiFixture{
		app:   app,
		store: store,
		op:    tokenForRole(t, pkgjwt.RoleOperator),
		sup:   tokenForRole(t, pkgjwt.RoleSupervisor),
	}
}

func (f *apiFixture) do(t *testing.T, method, path, auth string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func (f *apiFixture) openSession(t *testing.T, initial int64) dto.CashSessionResponse {
	t.Helper()
	resp, body := f.do(t, http.MethodPost, "/api/cash/sessions", f.op, map[string]any{"initialBalance": initial})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var s dto.CashSessionResponse
	require.NoError(t, json.Unmarshal(body, &s))
	return s
}

func saleBody(sessionID, clientSaleID string) map[string]any {
	return map[string]any{
		"clientSaleId":  clientSaleID,
		"cashSessionId": sessionID,
		"subtotal":      900,
		"discountTotal": 0,
		"total":         900,
		"items": []map[string]any{{
			"productId":      "A",
			"quantity":       "2",
			"unitPrice":      450,
			"finalUnitPrice": 450,
			"lineTotal":      900,
		}},
		"payments": []map[string]any{{
			"method":   "cash",
			"amount":   900,
			"metadata": map[string]any{"cashReceivedCents": 1000, "changeCents": 100},
		}},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestSales_FinalizarYConsultar(t *testing.T) {
	f := newAPI(t)
	session := f.openSession(t, 10000)

	resp, body := f.do(t, http.MethodPost, "/api/sales", f.op, saleBody(session.ID, "pdv-1-0001"))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var created dto.FinalizeSaleResponse
	require.NoError(t, json.Unmarshal(body, &created))
	assert.NotEmpty(t, created.SaleID)
	assert.False(t, created.Duplicate)

	resp, body = f.do(t, http.MethodGet, "/api/sales/"+created.SaleID, f.op, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got dto.SaleResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, testOperatorID, got.OperatorID, "el operador sale del token")
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Pão de queijo", got.Items[0].ProductName)
	assert.EqualValues(t, 900, got.Total)
}

func TestSales_ReintentoConMismoClientSaleIDDevuelve200(t *testing.T) {
	f := newAPI(t)
	session := f.openSession(t, 0)

	resp, body := f.do(t, http.MethodPost, "/api/sales", f.op, saleBody(session.ID, "pdv-1-0002"))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var first dto.FinalizeSaleResponse
	require.NoError(t, json.Unmarshal(body, &first))

	resp, body = f.do(t, http.MethodPost, "/api/sales", f.op, saleBody(session.ID, "pdv-1-0002"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var second dto.FinalizeSaleResponse
	require.NoError(t, json.Unmarshal(body, &second))
	assert.Equal(t, first.SaleID, second.SaleID)
	assert.True(t, second.Duplicate)
	assert.Equal(t, 1, f.store.Counts().Sales)
}

func TestSales_ValidacionDevuelveCampos(t *testing.T) {
	f := newAPI(t)
	session := f.openSession(t, 0)
	body := saleBody(session.ID, "")
	body["total"] = 800

	resp, raw := f.do(t, http.MethodPost, "/api/sales", f.op, body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errResp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &errResp))
	assert.Equal(t, "VALIDATION_ERROR", errResp.Code)
	assert.Contains(t, errResp.Fields, "total")
	assert.Zero(t, f.store.Counts().Sales)
}

func TestSales_PagoSinMontoDevuelve400(t *testing.T) {
	f := newAPI(t)
	session := f.openSession(t, 0)
	body := saleBody(session.ID, "")
	body["payments"] = []map[string]any{{"method": "pix"}}

	resp, raw := f.do(t, http.MethodPost, "/api/sales", f.op, body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errResp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &errResp))
	assert.Contains(t, errResp.Fields, "payments[0].amount")
	assert.Zero(t, f.store.Counts().Sales)
	assert.Zero(t, f.store.Counts().CashMovements)
}

func TestSales_SesionCerradaDevuelve409(t *testing.T) {
	f := newAPI(t)
	session := f.openSession(t, 0)
	resp, _ := f.do(t, http.MethodPost, "/api/cash/sessions/"+session.ID+"/close", f.op, map[string]any{"physicalCount": 0})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw := f.do(t, http.MethodPost, "/api/sales", f.op, saleBody(session.ID, ""))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(raw), "NO_OPEN_SESSION")
}

func TestSales_FallaDeAlmacenamientoDevuelve503(t *testing.T) {
	f := newAPI(t)
	session := f.openSession(t, 0)
	f.store.SetFault("Sales.CreatePayment", domain.StorageError("insert payment", io.ErrUnexpectedEOF))

	resp, raw := f.do(t, http.MethodPost, "/api/sales", f.op, saleBody(session.ID, ""))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, string(raw), "STORAGE_ERROR")
	assert.Zero(t, f.store.Counts().Sales)
}

func TestSales_NoExiste(t *testing.T) {
	f := newAPI(t)
	resp, _ := f.do(t, http.MethodGet, "/api/sales/nada", f.op, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSales_SinToken(t *testing.T) {
	f := newAPI(t)
	resp, _ := f.do(t, http.MethodPost, "/api/sales", "", saleBody("x", ""))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Caja
// ──────────────────────────────────────────────────────────────────────────────

func TestCash_CicloCompleto(t *testing.T) {
	f := newAPI(t)

	resp, _ := f.do(t, http.MethodGet, "/api/cash/sessions/open", f.op, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	session := f.openSession(t, 10000)
	assert.True(t, session.IsOpen)

	resp, raw := f.do(t, http.MethodPost, "/api/cash/sessions", f.op, map[string]any{"initialBalance": 0})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "sólo una sesión abierta")
	assert.Contains(t, string(raw), "CONFLICT")

	resp, _ = f.do(t, http.MethodPost, "/api/sales", f.op, saleBody(session.ID, ""))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPost, "/api/cash/suprimento", f.op, map[string]any{"amount": 500, "description": "troco"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, raw = f.do(t, http.MethodPost, "/api/cash/sangria", f.op, map[string]any{"amount": 3000, "category": "cofre"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sangria dto.CashMovementResponse
	require.NoError(t, json.Unmarshal(raw, &sangria))
	assert.Equal(t, entity.DirectionOut, sangria.Direction)

	resp, raw = f.do(t, http.MethodGet, "/api/cash/sessions/"+session.ID+"/summary", f.op, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary dto.CashSessionSummaryResponse
	require.NoError(t, json.Unmarshal(raw, &summary))
	assert.EqualValues(t, 10000+1000+500-3000, summary.RunningBalance)
	assert.Equal(t, 3, summary.MovementsCount)

	resp, raw = f.do(t, http.MethodGet, "/api/cash/sessions/"+session.ID+"/movements", f.op, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var movements []dto.CashMovementResponse
	require.NoError(t, json.Unmarshal(raw, &movements))
	assert.Len(t, movements, 3)

	resp, raw = f.do(t, http.MethodPost, "/api/cash/sessions/"+session.ID+"/close", f.op, map[string]any{"physicalCount": 8400})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var closed dto.CloseCashSessionResponse
	require.NoError(t, json.Unmarshal(raw, &closed))
	assert.EqualValues(t, 8500, closed.Expected)
	assert.EqualValues(t, -100, closed.Difference)
	assert.False(t, closed.Session.IsOpen)

	resp, raw = f.do(t, http.MethodPost, "/api/cash/sessions/"+session.ID+"/close", f.op, map[string]any{"physicalCount": 8500})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(raw), "ALREADY_CLOSED")
}

func TestCash_SangriaSinSesionAbierta(t *testing.T) {
	f := newAPI(t)
	resp, raw := f.do(t, http.MethodPost, "/api/cash/sangria", f.op, map[string]any{"amount": 100})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(raw), "NO_OPEN_SESSION")
}

func TestCash_MontoInvalido(t *testing.T) {
	f := newAPI(t)
	f.openSession(t, 0)
	resp, raw := f.do(t, http.MethodPost, "/api/cash/suprimento", f.op, map[string]any{"amount": 0})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "amount")
}

func TestCash_CierreSinConteoDevuelve400YNoCierra(t *testing.T) {
	f := newAPI(t)
	session := f.openSession(t, 10000)

	resp, raw := f.do(t, http.MethodPost, "/api/cash/sessions/"+session.ID+"/close", f.op, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errResp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &errResp))
	assert.Equal(t, "VALIDATION_ERROR", errResp.Code)
	assert.Contains(t, errResp.Fields, "physicalCount")

	resp, raw = f.do(t, http.MethodGet, "/api/cash/sessions/open", f.op, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var open dto.CashSessionResponse
	require.NoError(t, json.Unmarshal(raw, &open))
	assert.Equal(t, session.ID, open.ID)

	resp, raw = f.do(t, http.MethodPost, "/api/cash/sessions/"+session.ID+"/close", f.op, map[string]any{"physicalCount": 10000})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var closed dto.CloseCashSessionResponse
	require.NoError(t, json.Unmarshal(raw, &closed))
	assert.EqualValues(t, 0, closed.Difference)
}

func TestCash_ReportePDFSinRendererDevuelve503(t *testing.T) {
	f := newAPI(t)
	session := f.openSession(t, 0)
	resp, raw := f.do(t, http.MethodGet, "/api/cash/sessions/"+session.ID+"/report.pdf", f.op, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, string(raw), "REPORT_UNAVAILABLE")
}

// ──────────────────────────────────────────────────────────────────────────────
// Inventario y catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestInventory_ReposicionYLedger(t *testing.T) {
	f := newAPI(t)
	resp, raw := f.do(t, http.MethodPost, "/api/inventory/movements", f.op, map[string]any{
		"productId": "A", "type": "restock_in", "quantity": "5", "reason": "compra",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var m dto.StockMovementResponse
	require.NoError(t, json.Unmarshal(raw, &m))
	require.NotNil(t, m.StockAfter)
	assert.True(t, m.StockAfter.Equal(decimal.NewFromInt(15)))

	resp, raw = f.do(t, http.MethodGet, "/api/inventory/products/A/movements", f.op, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []dto.StockMovementResponse
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Len(t, list, 1)
}

func TestInventory_ReconciliarRequiereSupervisorParaReparar(t *testing.T) {
	f := newAPI(t)

	// El stock sembrado sin movimiento inicial aparece como diferencia.
	resp, raw := f.do(t, http.MethodPost, "/api/inventory/reconcile", f.op, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var check dto.ReconcileResponse
	require.NoError(t, json.Unmarshal(raw, &check))
	assert.False(t, check.Repaired)
	require.Len(t, check.Drifts, 1)

	resp, _ = f.do(t, http.MethodPost, "/api/inventory/reconcile?repair=true", f.op, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw = f.do(t, http.MethodPost, "/api/inventory/reconcile?repair=true", f.sup, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var repaired dto.ReconcileResponse
	require.NoError(t, json.Unmarshal(raw, &repaired))
	assert.True(t, repaired.Repaired)

	resp, raw = f.do(t, http.MethodPost, "/api/inventory/reconcile", f.op, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &check))
	assert.Empty(t, check.Drifts)
}

func TestProducts_AltaYCambiosSoloSupervisor(t *testing.T) {
	f := newAPI(t)
	body := map[string]any{"id": "B", "name": "Café coado", "salePrice": 950}

	resp, _ := f.do(t, http.MethodPost, "/api/products", f.op, body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw := f.do(t, http.MethodPost, "/api/products", f.sup, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	resp, raw = f.do(t, http.MethodPut, "/api/products/B/name", f.sup, map[string]any{"name": "Café passado"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var p dto.ProductResponse
	require.NoError(t, json.Unmarshal(raw, &p))
	assert.Equal(t, "Café passado", p.Name)

	resp, raw = f.do(t, http.MethodPut, "/api/products/B/price", f.sup, map[string]any{"salePrice": 990})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	require.NoError(t, json.Unmarshal(raw, &p))
	assert.EqualValues(t, 990, p.SalePrice)

	resp, _ = f.do(t, http.MethodGet, "/api/products/nada", f.op, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, raw = f.do(t, http.MethodGet, "/api/products", f.op, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var all []dto.ProductResponse
	require.NoError(t, json.Unmarshal(raw, &all))
	assert.Len(t, all, 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reportes
// ──────────────────────────────────────────────────────────────────────────────

func TestReports_MixYResumen(t *testing.T) {
	f := newAPI(t)
	session := f.openSession(t, 0)
	resp, _ := f.do(t, http.MethodPost, "/api/sales", f.op, saleBody(session.ID, ""))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw := f.do(t, http.MethodGet, "/api/reports/product-mix", f.op, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var mix dto.ProductMixResponse
	require.NoError(t, json.Unmarshal(raw, &mix))
	require.Len(t, mix.Items, 1)
	assert.Equal(t, 1, mix.Items[0].Frequency)

	resp, raw = f.do(t, http.MethodGet, "/api/reports/sold-products/summary", f.op, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary []dto.SoldProductSummaryDTO
	require.NoError(t, json.Unmarshal(raw, &summary))
	require.Len(t, summary, 1)
	assert.EqualValues(t, 900, summary[0].TotalValue)

	resp, raw = f.do(t, http.MethodGet, "/api/reports/sold-products?limit=10", f.op, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var lines []dto.SoldProductLineDTO
	require.NoError(t, json.Unmarshal(raw, &lines))
	assert.Len(t, lines, 1)
	assert.Equal(t, "10", resp.Header.Get("X-Result-Limit"))
	assert.Equal(t, "false", resp.Header.Get("X-Truncated"))
}

func TestReports_ParametroInvalido(t *testing.T) {
	f := newAPI(t)
	resp, raw := f.do(t, http.MethodGet, "/api/reports/sold-products/summary?from=ayer", f.op, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "from")

	resp, _ = f.do(t, http.MethodGet, "/api/reports/product-mix?from=2000&to=1000", f.op, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
