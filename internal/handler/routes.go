package handler

import (
	"go-estoque-condo/internal/middleware"
	"go-estoque-condo/internal/model"
	"go-estoque-condo/internal/service"
	"go-estoque-condo/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// Handlers groups every HTTP handler the API serves.
type Handlers struct {
	Auth      *AuthHandler
	Inventory *InventoryHandler
	Users     *UserHandler
	Roles     *RoleHandler
	Dashboard *DashboardHandler
	Finance   *FinanceHandler
}

// SetupRoutes mounts the API under /api/v1 and, when hub is not nil, the
// reload websocket under /ws.
func SetupRoutes(app *fiber.App, h Handlers, authService service.AuthService, hub *ws.Hub) {
	api := app.Group("/api/v1")
	requireAuth := middleware.RequireAuth(authService)
	priv := middleware.RequirePrivilege

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", h.Auth.Login)
	auth.Post("/register", h.Auth.Register)
	auth.Post("/reset-password", h.Auth.ResetPassword)
	auth.Post("/validate-token", h.Auth.ValidateToken)
	auth.Post("/logout", requireAuth, h.Auth.Logout)
	auth.Get("/session", requireAuth, h.Auth.Session)
	auth.Put("/password", requireAuth, h.Auth.ChangePassword)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", requireAuth)

	protected.Get("/dashboard/stats", priv(model.PrivDashboardView), h.Dashboard.GetDashboardStats)
	protected.Get("/dashboard/output-movement", priv(model.PrivDashboardView), h.Dashboard.GetOutputMovement)

	protected.Get("/products", priv(model.PrivProductView), h.Inventory.GetProducts)
	protected.Get("/products/lookup", middleware.RequireAnyPrivilege(model.PrivProductView, model.PrivOutputCreate), h.Inventory.LookupProduct)
	protected.Get("/products/:id", priv(model.PrivProductView), h.Inventory.GetProduct)
	protected.Post("/products", priv(model.PrivProductCreate), h.Inventory.CreateProduct)
	protected.Put("/products/:id", priv(model.PrivProductUpdate), h.Inventory.UpdateProduct)
	protected.Delete("/products/:id", priv(model.PrivProductDelete), h.Inventory.DeleteProduct)

	protected.Get("/people", priv(model.PrivPersonView), h.Inventory.GetPeople)
	protected.Post("/people", priv(model.PrivPersonCreate), h.Inventory.CreatePerson)
	protected.Put("/people/:id", priv(model.PrivPersonUpdate), h.Inventory.UpdatePerson)
	protected.Delete("/people/:id", priv(model.PrivPersonDelete), h.Inventory.DeletePerson)

	protected.Get("/outputs", priv(model.PrivOutputView), h.Inventory.GetOutputs)
	protected.Post("/outputs", priv(model.PrivOutputCreate), h.Inventory.CreateOutput)

	protected.Get("/users", priv(model.PrivUserView), h.Users.GetUsers)
	protected.Get("/users/:id", priv(model.PrivUserView), h.Users.GetUser)
	protected.Post("/users", priv(model.PrivUserCreate), h.Users.CreateUser)
	protected.Put("/users/:id", priv(model.PrivUserUpdate), h.Users.UpdateUser)
	protected.Delete("/users/:id", priv(model.PrivUserDelete), h.Users.DeleteUser)

	protected.Get("/roles", priv(model.PrivUserView), h.Roles.GetRoles)
	protected.Get("/privileges", priv(model.PrivUserView), h.Roles.GetPrivileges)

	protected.Get("/residents", priv(model.PrivFinanceView), h.Finance.GetResidents)
	protected.Post("/residents", priv(model.PrivFinanceManage), h.Finance.CreateResident)
	protected.Put("/residents/:id", priv(model.PrivFinanceManage), h.Finance.UpdateResident)
	protected.Delete("/residents/:id", priv(model.PrivFinanceManage), h.Finance.DeleteResident)

	protected.Get("/payments", priv(model.PrivFinanceView), h.Finance.GetPayments)
	protected.Post("/payments", priv(model.PrivFinanceManage), h.Finance.CreatePayment)
	protected.Put("/payments/:id", priv(model.PrivFinanceManage), h.Finance.UpdatePayment)
	protected.Delete("/payments/:id", priv(model.PrivFinanceManage), h.Finance.DeletePayment)

	protected.Get("/expenses", priv(model.PrivFinanceView), h.Finance.GetExpenses)
	protected.Post("/expenses", priv(model.PrivFinanceManage), h.Finance.CreateExpense)
	protected.Put("/expenses/:id", priv(model.PrivFinanceManage), h.Finance.UpdateExpense)
	protected.Delete("/expenses/:id", priv(model.PrivFinanceManage), h.Finance.DeleteExpense)

	protected.Get("/finance/summary", priv(model.PrivFinanceView), h.Finance.GetSummary)
	protected.Get("/finance/report.xlsx", priv(model.PrivFinanceView), h.Finance.ExportReport)

	if hub == nil {
		return
	}

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		if !hub.Join(c) {
			return
		}
		defer hub.Leave(c)

		for {
			// clients only listen; reading detects disconnects
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))
}
