package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postdeck/internal/service"
	"github.com/maheshrc27/postdeck/internal/transfer"
)

type TemplateHandler struct {
	s service.TemplateService
}

func NewTemplateHandler(service service.TemplateService) *TemplateHandler {
	return &TemplateHandler{s: service}
}

func (h *TemplateHandler) ListTemplates(c *fiber.Ctx) error {
	templates, err := h.s.List(c.UserContext(), GetActor(c))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"templates": templates,
	})
}

func (h *TemplateHandler) CreateTemplate(c *fiber.Ctx) error {
	var in transfer.TemplateInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	template, err := h.s.Create(c.UserContext(), GetActor(c), &in)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"template": template,
	})
}

func (h *TemplateHandler) UpdateTemplate(c *fiber.Ctx) error {
	id, err := ParamID(c, service.ErrTemplateNotFound)
	if err != nil {
		return err
	}

	var in transfer.TemplateInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	template, err := h.s.Update(c.UserContext(), GetActor(c), id, &in)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"template": template,
	})
}

func (h *TemplateHandler) RemoveTemplate(c *fiber.Ctx) error {
	id, err := ParamID(c, service.ErrTemplateNotFound)
	if err != nil {
		return err
	}

	if err := h.s.Remove(c.UserContext(), GetActor(c), id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}
