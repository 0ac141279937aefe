package handlers

import (
	"errors"
	"log"
	"net/url"
	"strings"
	"time"

	"taskhub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// flashCookie holds a one-shot notice shown on the next rendered page.
const flashCookie = "taskhub_flash"

// Flash is a one-shot user-facing status message.
type Flash struct {
	Category string // "success", "danger", "info"
	Message  string
}

// setFlash queues a notice for the next rendered page.
func setFlash(c *fiber.Ctx, category, message string) {
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(category + "|" + message),
		Path:     "/",
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

// popFlash consumes the pending notice, if any.
func popFlash(c *fiber.Ctx) *Flash {
	raw := c.Cookies(flashCookie)
	if raw == "" {
		return nil
	}
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return nil
	}
	parts := strings.SplitN(decoded, "|", 2)
	if len(parts) != 2 {
		return nil
	}
	return &Flash{Category: parts[0], Message: parts[1]}
}

// render wraps c.Render, always supplying the current user and any pending
// flash notice to the template.
func render(c *fiber.Ctx, view string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["CurrentUser"] = middleware.UserFromCtx(c)
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = popFlash(c)
	}
	return c.Render(view, data)
}

// ErrorHandler is the app-wide Fiber error handler. Client errors (404, 403,
// ...) are rendered with their message; anything unexpected is logged and
// shown as a generic server error so internals never leak.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Something went wrong"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		if code < fiber.StatusInternalServerError {
			message = fiberErr.Message
		}
	}
	if code >= fiber.StatusInternalServerError {
		log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	}

	renderErr := c.Status(code).Render("errors/error", fiber.Map{
		"Title":       message,
		"Code":        code,
		"Message":     message,
		"CurrentUser": middleware.UserFromCtx(c),
	})
	if renderErr != nil {
		return c.Status(code).SendString(message)
	}
	return nil
}
