package middleware

import (
	"taskhub/internal/models"
	"taskhub/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie is the name of the cookie carrying the signed session token.
const SessionCookie = "taskhub_session"

// userContextKey is the Locals key holding the resolved *models.User.
const userContextKey = "current_user"

// LoadUser resolves the session cookie into a request-scoped user. It never
// fails the request: a missing, invalid or expired token simply leaves the
// request anonymous.
func LoadUser(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := c.Cookies(SessionCookie); token != "" {
			if user, err := authService.CurrentUser(token); err == nil {
				c.Locals(userContextKey, user)
			}
		}
		return c.Next()
	}
}

// UserFromCtx returns the authenticated user for this request, or nil for
// an anonymous request.
func UserFromCtx(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userContextKey).(*models.User)
	return user
}

// RequireUser gates protected routes. Anonymous callers are redirected to
// the login page and the originally intended action is abandoned.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if UserFromCtx(c) == nil {
			return c.Redirect("/login", fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

// AnonymousOnly guards the register and login pages: a caller who is already
// authenticated is sent to their task list instead.
func AnonymousOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if UserFromCtx(c) != nil {
			return c.Redirect("/tasks", fiber.StatusSeeOther)
		}
		return c.Next()
	}
}
