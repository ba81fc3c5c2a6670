package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/caixa-pdv/internal/application/cash"
	"github.com/jhoicas/caixa-pdv/internal/application/catalog"
	"github.com/jhoicas/caixa-pdv/internal/application/inventory"
	"github.com/jhoicas/caixa-pdv/internal/application/reports"
	"github.com/jhoicas/caixa-pdv/internal/application/sale"
	"github.com/jhoicas/caixa-pdv/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Catalog          *catalog.Provider
	FinalizeSale     *sale.FinalizeSaleUseCase
	CashSessions     *cash.SessionUseCase
	CashMovements    *cash.MovementUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	Reports          *reports.UseCase
	JWTSecret        string
	JWTIssuer        string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	// Ventas
	saleHandler := NewSaleHandler(deps.FinalizeSale)
	sales := api.Group("/sales")
	sales.Post("/", saleHandler.Finalize)
	sales.Get("/:id", saleHandler.GetByID)

	// Caja
	cashHandler := NewCashHandler(deps.CashSessions, deps.CashMovements, deps.Reports)
	cashGroup := api.Group("/cash")
	cashGroup.Post("/suprimento", cashHandler.AddSuprimento)
	cashGroup.Post("/sangria", cashHandler.AddSangria)
	sessions := cashGroup.Group("/sessions")
	sessions.Post("/", cashHandler.Open)
	sessions.Get("/open", cashHandler.GetOpen)
	sessions.Get("/:id", cashHandler.GetByID)
	sessions.Post("/:id/close", cashHandler.Close)
	sessions.Get("/:id/summary", cashHandler.Summary)
	sessions.Get("/:id/movements", cashHandler.ListMovements)
	sessions.Get("/:id/report.pdf", cashHandler.ReportPDF)

	// Inventario
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement)
	invGroup := api.Group("/inventory")
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)
	invGroup.Get("/products/:id/movements", inventoryHandler.ListByProduct)
	invGroup.Post("/reconcile", inventoryHandler.Reconcile)

	// Catálogo
	productHandler := NewProductHandler(deps.Catalog)
	products := api.Group("/products")
	products.Get("/", productHandler.List)
	products.Post("/", RequireRole(jwt.RoleSupervisor), productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id/name", RequireRole(jwt.RoleSupervisor), productHandler.Rename)
	products.Put("/:id/price", RequireRole(jwt.RoleSupervisor), productHandler.UpdatePrice)

	// Reportes
	if deps.Reports != nil {
		reportHandler := NewReportHandler(deps.Reports)
		reportsGroup := api.Group("/reports")
		reportsGroup.Get("/sold-products", reportHandler.SoldProducts)
		reportsGroup.Get("/sold-products/summary", reportHandler.SoldProductsSummary)
		reportsGroup.Get("/product-mix", reportHandler.ProductMix)
	}
}
