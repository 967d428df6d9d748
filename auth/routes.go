package auth

import (
	"github.com/gofiber/fiber/v2"

	"veltahq.com/accounts/token"
)

// RegisterRoutes wires the auth endpoints into a Fiber app. Login and
// refresh are public; everything else sits behind the interceptor, with
// user creation additionally behind the admin role gate.
func RegisterRoutes(app *fiber.App, h *Handlers, ts *token.Service) {
	public := app.Group("/auth")
	public.Post("/login", h.Login)
	public.Post("/refresh", h.Refresh)

	protected := app.Group("/auth", RequireAuth(ts))
	protected.Post("/password", h.ChangePassword)
	protected.Post("/users", RequireAdmin(), h.CreateUser)
}
