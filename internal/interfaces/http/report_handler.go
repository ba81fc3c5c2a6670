package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/caixa-pdv/internal/application/dto"
	"github.com/jhoicas/caixa-pdv/internal/application/reports"
	"github.com/jhoicas/caixa-pdv/internal/domain"
)

// defaultMixWindow ventana del mix de productos cuando no se informa from.
const defaultMixWindow = 30 * 24 * time.Hour

// ReportHandler expone los agregados de ventas (protegido, solo lectura).
type ReportHandler struct {
	uc *reports.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// SoldProducts godoc
// @Summary      Productos vendidos (una fila por línea)
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        limit  query     int  false  "Máximo de filas (por defecto 500, máximo 5000)"
// @Success      200    {array}   dto.SoldProductLineDTO
// @Header       200    {string}  X-Result-Limit  "Límite aplicado"
// @Header       200    {string}  X-Truncated     "true si había más líneas que el límite"
// @Failure      503    {object}  dto.ErrorResponse
// @Router       /api/reports/sold-products [get]
func (h *ReportHandler) SoldProducts(c *fiber.Ctx) error {
	out, err := h.uc.SoldProductsDetailed(c.Context(), c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, err)
	}
	c.Set("X-Result-Limit", strconv.Itoa(out.Limit))
	c.Set("X-Truncated", strconv.FormatBool(out.Truncated))
	return c.JSON(out.Items)
}

// SoldProductsSummary godoc
// @Summary      Productos vendidos agrupados por producto y nombre
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query     int  false  "Desde (epoch ms)"
// @Param        to    query     int  false  "Hasta (epoch ms)"
// @Success      200   {array}   dto.SoldProductSummaryDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/reports/sold-products/summary [get]
func (h *ReportHandler) SoldProductsSummary(c *fiber.Ctx) error {
	from, err := queryEpochMillis(c, "from")
	if err != nil {
		return writeError(c, err)
	}
	to, err := queryEpochMillis(c, "to")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.SoldProductsSummary(c.Context(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ProductMix godoc
// @Summary      Mix de productos (frecuencia x volumen)
// @Description  frequency = ventas distintas que contienen el producto. Sin from se usan los últimos 30 días.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query     int  false  "Desde (epoch ms)"
// @Param        to    query     int  false  "Hasta (epoch ms, por defecto ahora)"
// @Success      200   {object}  dto.ProductMixResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/reports/product-mix [get]
func (h *ReportHandler) ProductMix(c *fiber.Ctx) error {
	fromPtr, err := queryEpochMillis(c, "from")
	if err != nil {
		return writeError(c, err)
	}
	toPtr, err := queryEpochMillis(c, "to")
	if err != nil {
		return writeError(c, err)
	}
	to := time.Now()
	if toPtr != nil {
		to = *toPtr
	}
	from := to.Add(-defaultMixWindow)
	if fromPtr != nil {
		from = *fromPtr
	}
	out, err := h.uc.ProductMixQuadrants(c.Context(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// queryEpochMillis lee un parámetro opcional en milisegundos epoch.
func queryEpochMillis(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, domain.NewValidationError(key, "debe ser epoch en milisegundos")
	}
	return dto.FromEpochMillis(&ms), nil
}
