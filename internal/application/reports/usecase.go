// Package reports contiene los agregados de solo lectura sobre los libros de ventas y caja.
// Un fallo aquí se devuelve como domain.ErrReportUnavailable y nunca afecta a las escrituras.
package reports

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jhoicas/caixa-pdv/internal/application/cash"
	"github.com/jhoicas/caixa-pdv/internal/application/dto"
	"github.com/jhoicas/caixa-pdv/internal/domain"
	"github.com/jhoicas/caixa-pdv/internal/domain/entity"
	"github.com/jhoicas/caixa-pdv/internal/domain/ledger"
	"github.com/jhoicas/caixa-pdv/internal/domain/repository"
	"github.com/jhoicas/caixa-pdv/pkg/logger"
)

const (
	defaultDetailedLimit = 500
	maxDetailedLimit     = 5000
	cachePrefix          = "caixa:reports:"
)

// UseCase orquesta las consultas de reportes y aplica la clasificación del mix.
type UseCase struct {
	repo      repository.ReportRepository
	sessions  *cash.SessionUseCase
	movements *cash.MovementUseCase
	cache     ReportCache
	ttl       time.Duration
	renderer  SessionReportRenderer
	log       *logger.Logger
}

// NewUseCase construye el caso de uso. cache nil = NoopCache; renderer puede ser nil si no se
// exponen PDFs.
func NewUseCase(
	repo repository.ReportRepository,
	sessions *cash.SessionUseCase,
	movements *cash.MovementUseCase,
	cache ReportCache,
	ttl time.Duration,
	renderer SessionReportRenderer,
	log *logger.Logger,
) *UseCase {
	if cache == nil {
		cache = NoopCache{}
	}
	return &UseCase{
		repo:      repo,
		sessions:  sessions,
		movements: movements,
		cache:     cache,
		ttl:       ttl,
		renderer:  renderer,
		log:       log,
	}
}

// SoldProductsDetailed una fila por línea vendida, más recientes primero.
// Se pide una fila más que el límite para saber si el resultado quedó cortado.
func (uc *UseCase) SoldProductsDetailed(ctx context.Context, limit int) (*dto.SoldProductLines, error) {
	if limit <= 0 {
		limit = defaultDetailedLimit
	}
	if limit > maxDetailedLimit {
		limit = maxDetailedLimit
	}
	key := cachePrefix + "sold-detailed:" + strconv.Itoa(limit)
	var out dto.SoldProductLines
	if uc.cached(ctx, key, &out) {
		return &out, nil
	}
	rows, err := uc.repo.SoldProductsDetailed(ctx, limit+1)
	if err != nil {
		return nil, uc.unavailable("productos vendidos", err)
	}
	out = dto.SoldProductLines{Limit: limit, Truncated: len(rows) > limit}
	if out.Truncated {
		rows = rows[:limit]
	}
	out.Items = make([]dto.SoldProductLineDTO, 0, len(rows))
	for _, r := range rows {
		out.Items = append(out.Items, dto.SoldProductLineDTO{
			SaleID:      r.SaleID,
			ProductID:   r.ProductID,
			ProductName: r.ProductName,
			Quantity:    r.Quantity,
			TotalValue:  r.TotalValue,
			SaleDate:    dto.EpochMillis(r.SaleDate),
		})
	}
	if out.Truncated {
		uc.log.Warn().Int("limit", limit).Msg("productos vendidos: resultado truncado")
	}
	uc.store(ctx, key, out)
	return &out, nil
}

// SoldProductsSummary agrega por producto y nombre snapshot; from/to opcionales.
func (uc *UseCase) SoldProductsSummary(ctx context.Context, from, to *time.Time) ([]dto.SoldProductSummaryDTO, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, domain.NewValidationError("to", "debe ser posterior a from")
	}
	key := cachePrefix + "sold-summary:" + windowKey(from) + ":" + windowKey(to)
	var out []dto.SoldProductSummaryDTO
	if uc.cached(ctx, key, &out) {
		return out, nil
	}
	rows, err := uc.repo.SoldProductsSummary(ctx, from, to)
	if err != nil {
		return nil, uc.unavailable("resumen de productos vendidos", err)
	}
	out = make([]dto.SoldProductSummaryDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.SoldProductSummaryDTO{
			ProductID:     r.ProductID,
			ProductName:   r.ProductName,
			TotalQuantity: r.TotalQuantity,
			TotalValue:    r.TotalValue,
		})
	}
	uc.store(ctx, key, out)
	return out, nil
}

// ProductMixQuadrants devuelve el mix del período clasificado en cuadrantes.
// La frecuencia es el número de ventas distintas que contienen el producto, no unidades.
func (uc *UseCase) ProductMixQuadrants(ctx context.Context, from, to time.Time) (*dto.ProductMixResponse, error) {
	if to.Before(from) {
		return nil, domain.NewValidationError("to", "debe ser posterior a from")
	}
	key := cachePrefix + "product-mix:" + windowKey(&from) + ":" + windowKey(&to)
	var out dto.ProductMixResponse
	if uc.cached(ctx, key, &out) {
		return &out, nil
	}
	rows, err := uc.repo.ProductMix(ctx, from, to)
	if err != nil {
		return nil, uc.unavailable("mix de productos", err)
	}
	points := make([]ledger.MixPoint, 0, len(rows))
	for _, r := range rows {
		points = append(points, ledger.MixPoint{Frequency: r.Frequency, Quantity: r.TotalQuantity})
	}
	th := ledger.MixThresholds(points)
	out = dto.ProductMixResponse{
		From:             dto.EpochMillis(from),
		To:               dto.EpochMillis(to),
		AverageFrequency: th.Frequency,
		AverageQuantity:  th.Quantity,
		Items:            make([]dto.ProductMixItemDTO, 0, len(rows)),
	}
	for i, r := range rows {
		out.Items = append(out.Items, dto.ProductMixItemDTO{
			ProductID:     r.ProductID,
			ProductName:   r.ProductName,
			Unit:          r.Unit,
			Frequency:     r.Frequency,
			TotalQuantity: r.TotalQuantity,
			TotalValue:    r.TotalValue,
			CostPrice:     r.CostPrice,
			SalePrice:     r.SalePrice,
			Quadrant:      ledger.Classify(points[i], th),
		})
	}
	uc.store(ctx, key, out)
	return &out, nil
}

// SessionReport datos del cierre de caja de una sesión.
type SessionReport struct {
	Summary     *cash.Summary
	Movements   []*entity.CashMovement
	GeneratedAt time.Time
}

// GetSessionReport junta resumen y movimientos de la sesión.
// Las dos lecturas son independientes y se hacen en paralelo.
func (uc *UseCase) GetSessionReport(ctx context.Context, sessionID string) (*SessionReport, error) {
	type summaryResult struct {
		summary *cash.Summary
		err     error
	}
	type movementsResult struct {
		list []*entity.CashMovement
		err  error
	}
	sumChan := make(chan summaryResult, 1)
	movChan := make(chan movementsResult, 1)

	go func() {
		s, err := uc.sessions.Summary(ctx, sessionID)
		sumChan <- summaryResult{s, err}
	}()
	go func() {
		list, err := uc.movements.ListMovements(ctx, sessionID)
		movChan <- movementsResult{list, err}
	}()

	sumRes := <-sumChan
	movRes := <-movChan
	if sumRes.err != nil {
		return nil, sumRes.err
	}
	if movRes.err != nil {
		return nil, movRes.err
	}
	return &SessionReport{
		Summary:     sumRes.summary,
		Movements:   movRes.list,
		GeneratedAt: time.Now(),
	}, nil
}

// SessionReportPDF genera el PDF de cierre de caja. Devuelve bytes y nombre de archivo.
func (uc *UseCase) SessionReportPDF(ctx context.Context, sessionID string) ([]byte, string, error) {
	if uc.renderer == nil {
		return nil, "", fmt.Errorf("pdf deshabilitado: %w", domain.ErrReportUnavailable)
	}
	report, err := uc.GetSessionReport(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}
	doc, err := uc.renderer.RenderSessionReport(ctx, report)
	if err != nil {
		return nil, "", uc.unavailable("pdf de cierre", err)
	}
	name := fmt.Sprintf("caixa_%s_%s.pdf", report.Summary.Session.OpenedAt.Format("20060102"), shortID(sessionID))
	return doc, name, nil
}

func (uc *UseCase) unavailable(what string, err error) error {
	uc.log.Error().Err(err).Str("report", what).Msg("reporte no disponible")
	return fmt.Errorf("%s: %w: %w", what, domain.ErrReportUnavailable, err)
}

func (uc *UseCase) cached(ctx context.Context, key string, dest any) bool {
	ok, err := uc.cache.Get(ctx, key, dest)
	if err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("caché de reportes: lectura")
		return false
	}
	return ok
}

func (uc *UseCase) store(ctx context.Context, key string, value any) {
	if uc.ttl <= 0 {
		return
	}
	if err := uc.cache.Set(ctx, key, value, uc.ttl); err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("caché de reportes: escritura")
	}
}

func windowKey(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return strconv.FormatInt(t.UnixMilli(), 10)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
