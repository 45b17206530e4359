package web

import (
	"github.com/gofiber/fiber/v2"

	"storefront/retail"
)

func (s *Server) listCustomers(c *fiber.Ctx) error {
	customers, err := s.repo.Customers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(customers)
}

func (s *Server) addCustomer(c *fiber.Ctx) error {
	var params retail.CustomerParams
	if err := body(c, &params); err != nil {
		return err
	}
	id, err := s.repo.AddCustomer(c.UserContext(), params)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(idResponse{ID: id})
}

func (s *Server) modifyCustomer(c *fiber.Ctx) error {
	var params retail.CustomerParams
	if err := body(c, &params); err != nil {
		return err
	}
	if err := s.repo.ModifyCustomer(c.UserContext(), c.Params("id"), params); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) deleteCustomer(c *fiber.Ctx) error {
	if err := s.repo.DeleteCustomer(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) customerExists(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email is required")
	}
	exists, err := s.repo.CustomerExists(c.UserContext(), email, c.Query("exclude"))
	if err != nil {
		return err
	}
	return c.JSON(existsResponse{Exists: exists})
}
