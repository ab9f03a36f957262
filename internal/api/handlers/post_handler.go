package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postdeck/internal/service"
	"github.com/maheshrc27/postdeck/internal/transfer"
)

type PostHandler struct {
	s service.PostService
}

func NewPostHandler(service service.PostService) *PostHandler {
	return &PostHandler{s: service}
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	posts, err := h.s.List(c.UserContext(), GetActor(c), c.Query("status"), c.QueryInt("limit", 0))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"posts":   posts,
	})
}

func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	postID, err := ParamID(c, service.ErrPostNotFound)
	if err != nil {
		return err
	}

	post, err := h.s.PostInfo(c.UserContext(), GetActor(c), postID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"post":    post,
	})
}

func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	var pc transfer.PostCreation
	if err := parseBody(c, &pc); err != nil {
		return err
	}

	post, err := h.s.CreatePost(c.UserContext(), GetActor(c), &pc)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"post":    post,
	})
}

func (h *PostHandler) UpdatePost(c *fiber.Ctx) error {
	postID, err := ParamID(c, service.ErrPostNotFound)
	if err != nil {
		return err
	}

	var pu transfer.PostUpdate
	if err := parseBody(c, &pu); err != nil {
		return err
	}

	post, err := h.s.Update(c.UserContext(), GetActor(c), postID, &pu)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"post":    post,
	})
}

func (h *PostHandler) RemovePost(c *fiber.Ctx) error {
	postID, err := ParamID(c, service.ErrPostNotFound)
	if err != nil {
		return err
	}

	if err := h.s.Remove(c.UserContext(), GetActor(c), postID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}

func (h *PostHandler) DuplicatePost(c *fiber.Ctx) error {
	postID, err := ParamID(c, service.ErrPostNotFound)
	if err != nil {
		return err
	}

	post, err := h.s.Duplicate(c.UserContext(), GetActor(c), postID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"post":    post,
	})
}

func (h *PostHandler) DuePosts(c *fiber.Ctx) error {
	posts, err := h.s.Due(c.UserContext(), GetActor(c))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"posts":   posts,
	})
}

func (h *PostHandler) SetStatus(c *fiber.Ctx) error {
	postID, err := ParamID(c, service.ErrPostNotFound)
	if err != nil {
		return err
	}

	var su transfer.StatusUpdate
	if err := parseBody(c, &su); err != nil {
		return err
	}

	post, err := h.s.SetStatus(c.UserContext(), GetActor(c), postID, &su)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"post":    post,
	})
}
