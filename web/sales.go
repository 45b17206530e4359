package web

import (
	"github.com/gofiber/fiber/v2"

	"storefront/retail"
)

func (s *Server) listSales(c *fiber.Ctx) error {
	sales, err := s.repo.Sales(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(sales)
}

func (s *Server) addSale(c *fiber.Ctx) error {
	var params retail.SaleParams
	if err := body(c, &params); err != nil {
		return err
	}
	id, err := s.repo.AddSale(c.UserContext(), params)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(idResponse{ID: id})
}

func (s *Server) modifySale(c *fiber.Ctx) error {
	var params retail.SaleParams
	if err := body(c, &params); err != nil {
		return err
	}
	if err := s.repo.ModifySale(c.UserContext(), c.Params("id"), params); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) deleteSale(c *fiber.Ctx) error {
	if err := s.repo.DeleteSale(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
