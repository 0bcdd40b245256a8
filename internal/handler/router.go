package handler

import (
	"go-diamond-ledger/internal/middleware"
	"go-diamond-ledger/internal/model"
	"go-diamond-ledger/internal/ws"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles every route group's handler for SetupRoutes.
type Handlers struct {
	Auth        *AuthHandler
	Lot         *LotHandler
	Rate        *RateHandler
	Transaction *TransactionHandler
	Attendance  *AttendanceHandler

	Party         *PartyHandler
	Shape         *RegistryHandler[model.Shape]
	Color         *RegistryHandler[model.Color]
	Clarity       *RegistryHandler[model.Clarity]
	Status        *RegistryHandler[model.Status]
	PaymentStatus *RegistryHandler[model.PaymentStatus]
	Employee      *RegistryHandler[model.Employee]
}

type registryRoutes interface {
	List(c *fiber.Ctx) error
	All(c *fiber.Ctx) error
	Create(c *fiber.Ctx) error
	Update(c *fiber.Ctx) error
	Delete(c *fiber.Ctx) error
}

func SetupRoutes(app *fiber.App, h Handlers, auth middleware.Authenticator, hub *ws.Hub) {
	api := app.Group("/api")
	requireAuth := middleware.RequireAuth(auth)

	// ============ PUBLIC ROUTES ============
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", h.Auth.SignUp)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/logout", h.Auth.Logout)
	authGroup.Get("/me", requireAuth, h.Auth.Me)
	authGroup.Get("/users", requireAuth, middleware.RequireRole(model.RoleSuperAdmin, model.RoleAdmin), h.Auth.Users)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", requireAuth)

	lots := protected.Group("/diamondLot")
	lots.Get("/", h.Lot.Query)
	lots.Get("/lot", h.Lot.Get)
	lots.Get("/export", h.Lot.Export)
	lots.Post("/", h.Lot.Create)
	lots.Put("/:id", h.Lot.Update)
	lots.Delete("/:id", h.Lot.Delete)

	rates := protected.Group("/rate")
	rates.Get("/", h.Rate.List)
	rates.Post("/", h.Rate.Create)
	rates.Put("/deleteItem/:id", h.Rate.DeleteItem)
	rates.Put("/:id", h.Rate.UpsertItem)
	rates.Delete("/:id", h.Rate.Delete)

	registry(protected, "/party", "/allParty", h.Party)
	registry(protected, "/shape", "/allShape", h.Shape)
	registry(protected, "/color", "/allColors", h.Color)
	registry(protected, "/clarity", "/allClarity", h.Clarity)
	registry(protected, "/status", "/allStatus", h.Status)
	registry(protected, "/paymentStatus", "/allPaymentStatus", h.PaymentStatus)
	registry(protected, "/employee", "/allEmployees", h.Employee)

	txs := protected.Group("/transaction")
	txs.Get("/", h.Transaction.List)
	txs.Get("/summary", h.Transaction.Summary)
	txs.Get("/movement", h.Transaction.Movement)
	txs.Post("/", h.Transaction.Create)
	txs.Put("/:id", h.Transaction.Update)
	txs.Delete("/:id", h.Transaction.Delete)

	att := protected.Group("/attendance")
	att.Get("/", h.Attendance.All)
	att.Get("/:employeeId", h.Attendance.ForEmployee)
	att.Post("/", h.Attendance.Mark)
	att.Delete("/", h.Attendance.DeleteDate)

	app.Use("/ws", requireAuth, ws.Upgrade)
	app.Get("/ws", hub.Handler())
}

// registry mounts the CRUD routes of one reference kind. Reads are open to any
// session; writes need an admin role.
func registry(r fiber.Router, prefix, legacyAll string, h registryRoutes) {
	admin := middleware.RequireRole(model.RoleSuperAdmin, model.RoleAdmin)

	g := r.Group(prefix)
	g.Get("/", h.List)
	g.Get("/all", h.All)
	g.Post("/", admin, h.Create)
	g.Put("/:id", admin, h.Update)
	g.Delete("/:id", admin, h.Delete)

	r.Get(legacyAll, h.All)
}
