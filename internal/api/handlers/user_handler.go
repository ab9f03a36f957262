package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postdeck/internal/service"
	"github.com/maheshrc27/postdeck/internal/transfer"
)

type UserHandler struct {
	s service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{s: service}
}

func (h *UserHandler) GetUserInfo(c *fiber.Ctx) error {
	userInfo, err := h.s.GetUserInfo(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    userInfo,
	})
}

func (h *UserHandler) LinkThreads(c *fiber.Ctx) error {
	if !GetActor(c).CanWrite() {
		return service.ErrForbidden
	}

	var link transfer.ThreadsLink
	if err := parseBody(c, &link); err != nil {
		return err
	}

	user, err := h.s.LinkThreads(c.UserContext(), GetUserID(c), &link)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}
