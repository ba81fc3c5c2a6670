package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/caixa-pdv/internal/application/dto"
	"github.com/jhoicas/caixa-pdv/internal/application/sale"
)

// SaleHandler maneja la finalización y consulta de ventas (protegido).
type SaleHandler struct {
	uc *sale.FinalizeSaleUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sale.FinalizeSaleUseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Finalize godoc
// @Summary      Finalizar venta
// @Description  Registra cabecera, líneas, pagos, salidas de stock y entradas de caja en una
//
//	única transacción. Con clientSaleId repetido devuelve la venta original (200).
//
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.FinalizeSaleRequest  true  "Carrito calculado por el PDV (centavos)"
// @Success      201   {object}  dto.FinalizeSaleResponse
// @Success      200   {object}  dto.FinalizeSaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Finalize(c *fiber.Ctx) error {
	operatorID := GetOperatorID(c)
	if operatorID == "" {
		return unauthorized(c)
	}
	var in dto.FinalizeSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	in.OperatorID = operatorID
	out, err := h.uc.FinalizeSale(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	status := fiber.StatusCreated
	if out.Duplicate {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(dto.FinalizeSaleResponse{SaleID: out.SaleID, Duplicate: out.Duplicate})
}

// GetByID godoc
// @Summary      Obtener venta con líneas y pagos
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	s, err := h.uc.GetSale(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewSaleResponse(s))
}
