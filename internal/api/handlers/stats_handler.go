package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postdeck/internal/service"
	"github.com/maheshrc27/postdeck/internal/transfer"
)

type StatsHandler struct {
	s service.StatsService
}

func NewStatsHandler(service service.StatsService) *StatsHandler {
	return &StatsHandler{s: service}
}

func (h *StatsHandler) RecordStats(c *fiber.Ctx) error {
	postID, err := ParamID(c, service.ErrPostNotFound)
	if err != nil {
		return err
	}

	var sr transfer.StatsRecord
	if err := parseBody(c, &sr); err != nil {
		return err
	}

	stats, err := h.s.Record(c.UserContext(), GetActor(c), postID, &sr)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}

func (h *StatsHandler) LatestStats(c *fiber.Ctx) error {
	postID, err := ParamID(c, service.ErrPostNotFound)
	if err != nil {
		return err
	}

	stats, err := h.s.Latest(c.UserContext(), GetActor(c), postID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}

func (h *StatsHandler) StatsHistory(c *fiber.Ctx) error {
	postID, err := ParamID(c, service.ErrPostNotFound)
	if err != nil {
		return err
	}

	history, err := h.s.History(c.UserContext(), GetActor(c), postID, c.QueryInt("limit", 0))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats":   history,
	})
}
