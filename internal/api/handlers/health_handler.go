package handlers

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// NewFallbackHandler answers requests no route matched. Unknown API paths get
// a JSON 404, other GET requests get the client entry page so the browser
// router can take over.
func NewFallbackHandler(staticDir string) fiber.Handler {
	index := filepath.Join(staticDir, "index.html")
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if path == "/api" || strings.HasPrefix(path, "/api/") || c.Method() != fiber.MethodGet {
			return fiber.NewError(fiber.StatusNotFound, "route not found")
		}
		if _, err := os.Stat(index); err != nil {
			return fiber.NewError(fiber.StatusNotFound, "route not found")
		}
		return c.SendFile(index)
	}
}
