package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/caixa-pdv/internal/application/dto"
	"github.com/jhoicas/caixa-pdv/internal/application/inventory"
	"github.com/jhoicas/caixa-pdv/pkg/jwt"
)

// InventoryHandler maneja los movimientos de stock fuera de venta y la reconciliación (protegido).
type InventoryHandler struct {
	uc *inventory.RegisterMovementUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.RegisterMovementUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterStockMovementRequest  true  "productId, type (restock_in, adjustment, initial), quantity, negative (sólo adjustment)"
// @Success      201   {object}  dto.StockMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	operatorID := GetOperatorID(c)
	if operatorID == "" {
		return unauthorized(c)
	}
	var in dto.RegisterStockMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	result, err := h.uc.RegisterMovementFromRequest(c.Context(), operatorID, in)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.NewStockMovementResponse(result.Movement)
	out.StockAfter = &result.StockAfter
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListByProduct godoc
// @Summary      Ledger de stock de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del producto"
// @Success      200  {array}   dto.StockMovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/movements [get]
func (h *InventoryHandler) ListByProduct(c *fiber.Ctx) error {
	list, err := h.uc.ListMovements(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.NewStockMovementResponse(m))
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Detectar o reparar diferencias de stock
// @Description  Compara stock_on_hand con la suma de deltas del ledger. Con repair=true
//
//	(sólo supervisor) reescribe el stock materializado con el valor del ledger.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        repair  query     bool  false  "Reparar además de detectar"
// @Success      200  {object}  dto.ReconcileResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/inventory/reconcile [post]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	repair := c.QueryBool("repair", false)
	if repair && !strings.EqualFold(GetRole(c), jwt.RoleSupervisor) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "sólo un supervisor puede reparar el stock"})
	}
	drifts, err := h.uc.Reconcile(c.Context(), repair)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewReconcileResponse(drifts, repair))
}
