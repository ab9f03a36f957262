package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postdeck/internal/service"
	"github.com/maheshrc27/postdeck/internal/transfer"
)

type AuthHandler struct {
	s service.AuthService
}

func NewAuthHandler(service service.AuthService) *AuthHandler {
	return &AuthHandler{s: service}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req transfer.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.s.Register(c.UserContext(), &req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req transfer.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	token, user, err := h.s.Login(c.UserContext(), &req)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	token, user, err := h.s.Refresh(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    user,
	})
}
