package web

import (
	"github.com/gofiber/fiber/v2"

	"storefront/retail"
)

func (s *Server) listSuppliers(c *fiber.Ctx) error {
	suppliers, err := s.repo.Suppliers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(suppliers)
}

func (s *Server) addSupplier(c *fiber.Ctx) error {
	var params retail.SupplierParams
	if err := body(c, &params); err != nil {
		return err
	}
	id, err := s.repo.AddSupplier(c.UserContext(), params)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(idResponse{ID: id})
}

func (s *Server) modifySupplier(c *fiber.Ctx) error {
	var params retail.SupplierParams
	if err := body(c, &params); err != nil {
		return err
	}
	if err := s.repo.ModifySupplier(c.UserContext(), c.Params("id"), params); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) deleteSupplier(c *fiber.Ctx) error {
	if err := s.repo.DeleteSupplier(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) supplierExists(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email is required")
	}
	exists, err := s.repo.SupplierExists(c.UserContext(), email, c.Query("exclude"))
	if err != nil {
		return err
	}
	return c.JSON(existsResponse{Exists: exists})
}
