package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/caixa-pdv/internal/application/catalog"
	"github.com/jhoicas/caixa-pdv/internal/application/dto"
)

// ProductHandler catálogo mínimo que alimenta los snapshots de venta (protegido).
type ProductHandler struct {
	catalog *catalog.Provider
}

// NewProductHandler construye el handler.
func NewProductHandler(provider *catalog.Provider) *ProductHandler {
	return &ProductHandler{catalog: provider}
}

// Create godoc
// @Summary      Crear producto
// @Description  El stock inicial se registra con POST /api/inventory/movements (type=initial).
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	p, err := h.catalog.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewProductResponse(p))
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ProductResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	list, err := h.catalog.List(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.NewProductResponse(p))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	p, err := h.catalog.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewProductResponse(p))
}

// Rename godoc
// @Summary      Renombrar producto
// @Description  Las ventas ya registradas conservan el nombre snapshot.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del producto"
// @Param        body  body  dto.RenameProductRequest  true  "Nuevo nombre"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/name [put]
func (h *ProductHandler) Rename(c *fiber.Ctx) error {
	var in dto.RenameProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := dto.Validate(in); err != nil {
		return writeError(c, err)
	}
	if err := h.catalog.Rename(c.Context(), c.Params("id"), in.Name); err != nil {
		return writeError(c, err)
	}
	return h.GetByID(c)
}

// UpdatePrice godoc
// @Summary      Cambiar precio de venta
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID del producto"
// @Param        body  body  dto.UpdateProductPriceRequest  true  "salePrice en centavos"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/price [put]
func (h *ProductHandler) UpdatePrice(c *fiber.Ctx) error {
	var in dto.UpdateProductPriceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := dto.Validate(in); err != nil {
		return writeError(c, err)
	}
	if err := h.catalog.UpdatePrice(c.Context(), c.Params("id"), in.SalePrice); err != nil {
		return writeError(c, err)
	}
	return h.GetByID(c)
}
