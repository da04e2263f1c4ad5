package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-escolar-api/internal/application/auth"
	"github.com/jhoicas/almacen-escolar-api/internal/application/request"
	"github.com/jhoicas/almacen-escolar-api/internal/application/stock"
	"github.com/jhoicas/almacen-escolar-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC            *stock.ItemUseCase
	LedgerUC          *stock.LedgerUseCase
	AlertUC           *stock.AlertUseCase
	WorkflowUC        *request.WorkflowUseCase
	AuthUC            *auth.AuthUseCase
	JWTSecret         string
	AlertExpiringDays int
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Items (lectura para todos; escritura solo almacén)
	items := protected.Group("/items")
	stockHandler := NewStockHandler(deps.ItemUC)
	items.Get("/", stockHandler.List)
	items.Get("/:id", stockHandler.GetByID)
	items.Post("/", RequireRole(entity.RoleAlmacen), stockHandler.Create)
	items.Put("/:id", RequireRole(entity.RoleAlmacen), stockHandler.Update)
	items.Delete("/:id", RequireRole(entity.RoleAlmacen), stockHandler.Delete)

	// Movements (solo almacén registra y restaura)
	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.LedgerUC)
	movements.Get("/", movementHandler.List)
	movements.Post("/", RequireRole(entity.RoleAlmacen), movementHandler.Register)
	movements.Post("/:id/reverse", RequireRole(entity.RoleAlmacen), movementHandler.Reverse)

	// Requests (profesores y coordinación crean; almacén confirma)
	requests := protected.Group("/requests")
	requestHandler := NewRequestHandler(deps.WorkflowUC)
	requests.Post("/", RequireRole(entity.RoleProfesor, entity.RoleCoordinacion), requestHandler.Submit)
	requests.Get("/", requestHandler.List)
	requests.Put("/:id/lines", RequireRole(entity.RoleProfesor, entity.RoleCoordinacion), requestHandler.EditLines)
	requests.Post("/:id/coordination", RequireRole(entity.RoleCoordinacion), requestHandler.CoordinationDecide)
	requests.Post("/:id/fulfill", RequireRole(entity.RoleAlmacen), requestHandler.Fulfill)
	requests.Post("/:id/reject", RequireRole(entity.RoleAlmacen), requestHandler.Reject)

	// Alerts (cualquier usuario autenticado; compras las usa para reponer)
	alerts := protected.Group("/alerts")
	alertHandler := NewAlertHandler(deps.AlertUC, deps.AlertExpiringDays)
	alerts.Get("/", alertHandler.Summary)
	alerts.Get("/low-stock", alertHandler.LowStock)
	alerts.Get("/expiring", alertHandler.ExpiringSoon)
}
