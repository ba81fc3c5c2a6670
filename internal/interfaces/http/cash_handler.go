package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/caixa-pdv/internal/application/cash"
	"github.com/jhoicas/caixa-pdv/internal/application/dto"
	"github.com/jhoicas/caixa-pdv/internal/application/reports"
	"github.com/jhoicas/caixa-pdv/internal/domain/entity"
)

// CashHandler maneja sesiones de caja y movimientos manuales (protegido).
type CashHandler struct {
	sessions  *cash.SessionUseCase
	movements *cash.MovementUseCase
	reports   *reports.UseCase
}

// NewCashHandler construye el handler. reports puede ser nil (sin PDF de cierre).
func NewCashHandler(sessions *cash.SessionUseCase, movements *cash.MovementUseCase, reports *reports.UseCase) *CashHandler {
	return &CashHandler{sessions: sessions, movements: movements, reports: reports}
}

// Open godoc
// @Summary      Abrir sesión de caja
// @Tags         cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenCashSessionRequest  true  "initialBalance en centavos; el operador sale del token"
// @Success      201   {object}  dto.CashSessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cash/sessions [post]
func (h *CashHandler) Open(c *fiber.Ctx) error {
	operatorID := GetOperatorID(c)
	if operatorID == "" {
		return unauthorized(c)
	}
	var in dto.OpenCashSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	in.OperatorID = operatorID
	session, err := h.sessions.Open(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewCashSessionResponse(session))
}

// GetOpen godoc
// @Summary      Sesión de caja abierta
// @Tags         cash
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CashSessionResponse
// @Success      204  "sin sesión abierta"
// @Router       /api/cash/sessions/open [get]
func (h *CashHandler) GetOpen(c *fiber.Ctx) error {
	session, err := h.sessions.GetOpen(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	if session == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(dto.NewCashSessionResponse(session))
}

// GetByID godoc
// @Summary      Obtener sesión de caja
// @Tags         cash
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la sesión"
// @Success      200  {object}  dto.CashSessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cash/sessions/{id} [get]
func (h *CashHandler) GetByID(c *fiber.Ctx) error {
	session, err := h.sessions.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewCashSessionResponse(session))
}

// Close godoc
// @Summary      Cerrar sesión de caja
// @Description  Calcula el saldo esperado a partir del libro de movimientos y la diferencia con el conteo físico.
// @Tags         cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID de la sesión"
// @Param        body  body  dto.CloseCashSessionRequest  true  "physicalCount en centavos"
// @Success      200   {object}  dto.CloseCashSessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cash/sessions/{id}/close [post]
func (h *CashHandler) Close(c *fiber.Ctx) error {
	var in dto.CloseCashSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	result, err := h.sessions.Close(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CloseCashSessionResponse{
		Expected:   result.Expected,
		Difference: result.Difference,
		Session:    dto.NewCashSessionResponse(result.Session),
	})
}

// Summary godoc
// @Summary      Saldo corriente de la sesión
// @Tags         cash
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la sesión"
// @Success      200  {object}  dto.CashSessionSummaryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cash/sessions/{id}/summary [get]
func (h *CashHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.sessions.Summary(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	out := dto.CashSessionSummaryResponse{
		Session:        dto.NewCashSessionResponse(summary.Session),
		TotalIn:        summary.Totals.In,
		TotalOut:       summary.Totals.Out,
		RunningBalance: summary.RunningBalance,
		TotalsByType:   summary.Totals.ByType,
		MovementsCount: summary.MovementsCount,
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Movimientos de la sesión
// @Tags         cash
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la sesión"
// @Success      200  {array}   dto.CashMovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cash/sessions/{id}/movements [get]
func (h *CashHandler) ListMovements(c *fiber.Ctx) error {
	list, err := h.movements.ListMovements(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewCashMovementsResponse(list))
}

// ReportPDF godoc
// @Summary      Reporte de cierre en PDF
// @Tags         cash
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {file}    file
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/cash/sessions/{id}/report.pdf [get]
func (h *CashHandler) ReportPDF(c *fiber.Ctx) error {
	if h.reports == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "REPORT_UNAVAILABLE", Message: "reportes deshabilitados"})
	}
	pdf, filename, err := h.reports.SessionReportPDF(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(pdf)
}

// AddSuprimento godoc
// @Summary      Registrar suprimento (entrada manual de efectivo)
// @Tags         cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ManualCashMovementRequest  true  "amount > 0; cashSessionId vacío = sesión abierta"
// @Success      201   {object}  dto.CashMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cash/suprimento [post]
func (h *CashHandler) AddSuprimento(c *fiber.Ctx) error {
	return h.addManual(c, h.movements.AddSuprimento)
}

// AddSangria godoc
// @Summary      Registrar sangria (retiro manual de efectivo)
// @Tags         cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ManualCashMovementRequest  true  "amount > 0; cashSessionId vacío = sesión abierta"
// @Success      201   {object}  dto.CashMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cash/sangria [post]
func (h *CashHandler) AddSangria(c *fiber.Ctx) error {
	return h.addManual(c, h.movements.AddSangria)
}

func (h *CashHandler) addManual(c *fiber.Ctx, add func(context.Context, dto.ManualCashMovementRequest) (*entity.CashMovement, error)) error {
	operatorID := GetOperatorID(c)
	if operatorID == "" {
		return unauthorized(c)
	}
	var in dto.ManualCashMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	in.OperatorID = operatorID
	m, err := add(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewCashMovementResponse(m))
}
