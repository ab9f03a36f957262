package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postdeck/internal/service"
)

const ActorKey = "actor"

func GetActor(c *fiber.Ctx) service.Actor {
	actor, _ := c.Locals(ActorKey).(service.Actor)
	return actor
}

func GetUserID(c *fiber.Ctx) int64 {
	return GetActor(c).UserID
}

// ParamID reads a positive numeric path parameter. Anything else is reported
// as notFound since no record can match it.
func ParamID(c *fiber.Ctx, notFound error) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, notFound
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("%w: malformed request body", service.ErrValidation)
	}
	return nil
}

// NewErrorHandler renders every error returned by a handler as a
// {success: false} envelope. Outside production the internal error text is
// added as detail.
func NewErrorHandler(production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"success": false,
				"error":   fiberErr.Message,
			})
		}

		status, kind := service.StatusOf(err)
		message := err.Error()
		if status >= fiber.StatusInternalServerError {
			slog.Error("request failed", "method", c.Method(), "path", c.Path(), "err", err)
			message = kind.Error()
		}

		body := fiber.Map{
			"success": false,
			"error":   message,
		}
		if !production {
			body["detail"] = err.Error()
		}
		return c.Status(status).JSON(body)
	}
}
