package web

import (
	"github.com/gofiber/fiber/v2"

	"storefront/retail"
)

func (s *Server) listStockEntries(c *fiber.Ctx) error {
	entries, err := s.repo.StockEntries(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(entries)
}

func (s *Server) addStockEntry(c *fiber.Ctx) error {
	var params retail.StockEntryParams
	if err := body(c, &params); err != nil {
		return err
	}
	id, err := s.repo.AddStockEntry(c.UserContext(), params)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(idResponse{ID: id})
}

func (s *Server) modifyStockEntry(c *fiber.Ctx) error {
	var params retail.StockEntryParams
	if err := body(c, &params); err != nil {
		return err
	}
	if err := s.repo.ModifyStockEntry(c.UserContext(), c.Params("id"), params); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) deleteStockEntry(c *fiber.Ctx) error {
	if err := s.repo.DeleteStockEntry(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
