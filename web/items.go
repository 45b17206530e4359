package web

import (
	"github.com/gofiber/fiber/v2"

	"storefront/retail"
)

func (s *Server) listItems(c *fiber.Ctx) error {
	items, err := s.repo.Items(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (s *Server) addItem(c *fiber.Ctx) error {
	var params retail.ItemParams
	if err := body(c, &params); err != nil {
		return err
	}
	id, err := s.repo.AddItem(c.UserContext(), params)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(idResponse{ID: id})
}

func (s *Server) modifyItem(c *fiber.Ctx) error {
	var params retail.ItemParams
	if err := body(c, &params); err != nil {
		return err
	}
	if err := s.repo.ModifyItem(c.UserContext(), c.Params("id"), params); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) deleteItem(c *fiber.Ctx) error {
	if err := s.repo.DeleteItem(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) itemExists(c *fiber.Ctx) error {
	model := c.Query("model")
	brand := c.Query("brand")
	if model == "" || brand == "" {
		return fiber.NewError(fiber.StatusBadRequest, "model and brand are required")
	}
	exists, err := s.repo.ItemExists(c.UserContext(), model, brand, c.Query("exclude"))
	if err != nil {
		return err
	}
	return c.JSON(existsResponse{Exists: exists})
}
