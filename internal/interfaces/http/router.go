package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/gestinvlab-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Auth       LoginService
	Movements  MovementService
	Batches    BatchLister
	Critical   CriticalLister
	Vouchers   VoucherService
	Items      ItemService
	Services   ServiceCatalog
	Users      UserService
	Reports    MovementReporter
	StockAudit StockAuditor
	JWTSecret  string
	Log        zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", RequestLoggerMiddleware(deps.Log))

	// Auth (público)
	authHandler := NewAuthHandler(deps.Auth)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)

	inv := protected.Group("/inventory")
	invHandler := NewInventoryHandler(deps.Movements, deps.Batches, deps.Critical, deps.Vouchers)
	inv.Post("/entries", invHandler.CreateEntry)
	inv.Post("/exits", invHandler.CreateExit)
	inv.Get("/movements/:id", invHandler.GetMovement)
	inv.Get("/movements/:id/pdf", invHandler.GetMovementPDF)
	inv.Get("/batches", invHandler.ListBatches)
	inv.Get("/critical", invHandler.ListCritical)

	catalog := NewCatalogHandler(deps.Items, deps.Services)
	items := protected.Group("/items")
	items.Get("/", catalog.ListItems)
	items.Get("/:id", catalog.GetItem)
	items.Post("/", adminOnly, catalog.CreateItem)
	items.Patch("/:id", adminOnly, catalog.UpdateItem)

	services := protected.Group("/services")
	services.Get("/", catalog.ListServices)
	services.Post("/", adminOnly, catalog.CreateService)

	userHandler := NewUserHandler(deps.Users)
	users := protected.Group("/users")
	users.Get("/", userHandler.List)
	users.Post("/", adminOnly, userHandler.Create)

	reportHandler := NewReportHandler(deps.Reports, deps.StockAudit)
	protected.Get("/reports/movements", reportHandler.Movements)

	admin := protected.Group("/admin", adminOnly)
	admin.Get("/stock-audit", reportHandler.StockAudit)
	admin.Post("/stock-audit/repair", reportHandler.RepairStock)
}
