package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-obras/internal/application/auth"
	"github.com/jhoicas/inventario-obras/internal/application/inventory"
	"github.com/jhoicas/inventario-obras/internal/application/usecase"
	"github.com/jhoicas/inventario-obras/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC      *inventory.ItemUseCase
	TransferUC  *inventory.TransferUseCase
	SiteUC      *usecase.SiteUseCase
	LedgerUC    *usecase.LedgerUseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
	ReserveSite string
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

	// Items y transferencias (protegido)
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC, deps.TransferUC, deps.ReserveSite)
	items.Get("/", itemHandler.ListDistinct)
	items.Post("/", itemHandler.Create)
	items.Get("/search", itemHandler.Search)
	items.Get("/page", itemHandler.ListPage)
	items.Get("/stats", itemHandler.Stats)
	items.Post("/increase", itemHandler.Increase)
	items.Post("/decrease", itemHandler.Decrease)
	items.Post("/send", itemHandler.Send)
	items.Post("/send-to-reserve", itemHandler.SendToReserve)
	items.Get("/site/:siteId", itemHandler.ListBySite)
	items.Get("/site/:siteId/total", itemHandler.TotalBySite)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", itemHandler.Delete)
	items.Post("/:id/increase", itemHandler.IncreaseOne)
	items.Post("/:id/decrease", itemHandler.DecreaseOne)

	// Sites (protegido; mutaciones solo admin)
	sites := protected.Group("/sites")
	siteHandler := NewSiteHandler(deps.SiteUC)
	sites.Get("/", siteHandler.List)
	sites.Get("/count", siteHandler.Count)
	sites.Get("/:id", siteHandler.GetByID)
	adminOnly := RequireRole(entity.RoleAdmin)
	sites.Post("/", adminOnly, siteHandler.Create)
	sites.Put("/:id", adminOnly, siteHandler.Update)
	sites.Delete("/:id", adminOnly, siteHandler.Delete)

	// Libro de auditoría (protegido, solo lectura)
	ledger := protected.Group("/ledger")
	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	ledger.Get("/", ledgerHandler.List)
	ledger.Get("/site/:siteId", ledgerHandler.ListBySite)
}
