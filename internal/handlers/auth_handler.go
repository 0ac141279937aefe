package handlers

import (
	"errors"
	"log"
	"time"

	"taskhub/internal/middleware"
	"taskhub/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles the registration, login and logout pages.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes. Register and login are
// for anonymous callers only; logout requires a session.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, anonymousOnly, requireUser fiber.Handler) {
	router.Get("/register", anonymousOnly, h.ShowRegister)
	router.Post("/register", anonymousOnly, h.HandleRegister)
	router.Get("/login", anonymousOnly, h.ShowLogin)
	router.Post("/login", anonymousOnly, h.HandleLogin)
	router.Get("/logout", requireUser, h.HandleLogout)
}

// ShowRegister renders the empty registration form.
func (h *AuthHandler) ShowRegister(c *fiber.Ctx) error {
	return render(c, "register", fiber.Map{
		"Title": "Register",
		"Form":  &RegisterForm{},
	})
}

// HandleRegister creates a new account and redirects to the login page.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var form RegisterForm
	if err := c.BodyParser(&form); err != nil {
		log.Printf("Error parsing register form: %v", err)
		return fiber.NewError(fiber.StatusBadRequest, "Invalid form submission")
	}

	if ve := validateForm(h.validate, &form); ve != nil {
		return render(c, "register", fiber.Map{
			"Title":  "Register",
			"Form":   &form,
			"Errors": ve.Fields,
		})
	}

	if _, err := h.authService.Register(form.Username, form.Email, form.Password); err != nil {
		if errors.Is(err, services.ErrDuplicateUser) {
			return render(c, "register", fiber.Map{
				"Title": "Register",
				"Form":  &form,
				"Flash": &Flash{Category: "danger", Message: "Username or email is already registered"},
			})
		}
		log.Printf("Error registering user: %v", err)
		return fiber.ErrInternalServerError
	}

	setFlash(c, "success", "Your account has been created! You are now able to log in")
	return c.Redirect("/login", fiber.StatusSeeOther)
}

// ShowLogin renders the empty login form.
func (h *AuthHandler) ShowLogin(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{
		"Title": "Login",
		"Form":  &LoginForm{},
	})
}

// HandleLogin authenticates the caller and establishes a long-lived session
// cookie before redirecting to the task list.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var form LoginForm
	if err := c.BodyParser(&form); err != nil {
		log.Printf("Error parsing login form: %v", err)
		return fiber.NewError(fiber.StatusBadRequest, "Invalid form submission")
	}

	if ve := validateForm(h.validate, &form); ve != nil {
		return render(c, "login", fiber.Map{
			"Title":  "Login",
			"Form":   &form,
			"Errors": ve.Fields,
		})
	}

	token, err := h.authService.Authenticate(form.Email, form.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return render(c, "login", fiber.Map{
				"Title": "Login",
				"Form":  &form,
				"Flash": &Flash{Category: "danger", Message: "Login unsuccessful. Please check email and password"},
			})
		}
		log.Printf("Error during login for %s: %v", form.Email, err)
		return fiber.ErrInternalServerError
	}

	// Remember is always on: the cookie lives as long as the token.
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.authService.SessionTTL()),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.Redirect("/tasks", fiber.StatusSeeOther)
}

// HandleLogout clears the session cookie. Clearing an already-cleared cookie
// is harmless, so logout is idempotent.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.Redirect("/login", fiber.StatusSeeOther)
}
