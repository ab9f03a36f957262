package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postdeck/internal/service"
)

type HashtagHandler struct {
	s service.HashtagService
}

func NewHashtagHandler(service service.HashtagService) *HashtagHandler {
	return &HashtagHandler{s: service}
}

func (h *HashtagHandler) Popular(c *fiber.Ctx) error {
	hashtags, err := h.s.Popular(c.UserContext(), GetActor(c), c.QueryInt("limit", 0))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"hashtags": hashtags,
	})
}
