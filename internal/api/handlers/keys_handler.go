package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postdeck/internal/service"
	"github.com/maheshrc27/postdeck/internal/transfer"
)

type ApiKeyHandler struct {
	s service.ApiKeyService
}

func NewApiKeyHandler(service service.ApiKeyService) *ApiKeyHandler {
	return &ApiKeyHandler{s: service}
}

func (h *ApiKeyHandler) CreateApiKey(c *fiber.Ctx) error {
	var req transfer.ApiKeyCreation
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}

	key, err := h.s.Create(c.UserContext(), GetActor(c), &req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"key":     key,
	})
}

func (h *ApiKeyHandler) ListKeys(c *fiber.Ctx) error {
	keys, err := h.s.List(c.UserContext(), GetActor(c))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"keys":    keys,
	})
}

func (h *ApiKeyHandler) RemoveAPIKey(c *fiber.Ctx) error {
	keyID, err := ParamID(c, service.ErrApiKeyNotFound)
	if err != nil {
		return err
	}

	if err := h.s.RemoveAPIKey(c.UserContext(), GetActor(c), keyID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}
