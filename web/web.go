// Package web exposes the repository over a JSON HTTP API.
package web

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"storefront/internal/config"
	"storefront/retail"
	"storefront/store"
)

// Server holds the handler state shared across requests.
type Server struct {
	repo      *retail.Repository
	log       *slog.Logger
	prefsPath string

	mu    sync.Mutex
	prefs config.Preferences
}

// New builds the Fiber application with all routes registered. A nil logger
// falls back to slog.Default.
func New(repo *retail.Repository, prefs config.Preferences, prefsPath string, log *slog.Logger) *fiber.App {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		repo:      repo,
		log:       log,
		prefsPath: prefsPath,
		prefs:     prefs,
	}

	app := fiber.New(fiber.Config{
		AppName:      "storefront",
		ErrorHandler: s.errorHandler,
	})
	app.Use(requestid.New())
	app.Use(logger.New())

	app.Get("/items", s.listItems)
	app.Post("/items", s.addItem)
	app.Get("/items/exists", s.itemExists)
	app.Put("/items/:id", s.modifyItem)
	app.Delete("/items/:id", s.deleteItem)

	app.Get("/customers", s.listCustomers)
	app.Post("/customers", s.addCustomer)
	app.Get("/customers/exists", s.customerExists)
	app.Put("/customers/:id", s.modifyCustomer)
	app.Delete("/customers/:id", s.deleteCustomer)

	app.Get("/suppliers", s.listSuppliers)
	app.Post("/suppliers", s.addSupplier)
	app.Get("/suppliers/exists", s.supplierExists)
	app.Put("/suppliers/:id", s.modifySupplier)
	app.Delete("/suppliers/:id", s.deleteSupplier)

	app.Get("/sales", s.listSales)
	app.Post("/sales", s.addSale)
	app.Put("/sales/:id", s.modifySale)
	app.Delete("/sales/:id", s.deleteSale)

	app.Get("/stock", s.listStockEntries)
	app.Post("/stock", s.addStockEntry)
	app.Put("/stock/:id", s.modifyStockEntry)
	app.Delete("/stock/:id", s.deleteStockEntry)

	app.Post("/admin/repair", s.repair)
	app.Get("/admin/preferences", s.getPreferences)
	app.Put("/admin/preferences", s.putPreferences)

	return app
}

// errorHandler maps engine errors onto HTTP statuses. Unrecognized errors are
// logged and reported as 500 without leaking internals.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	switch {
	case errors.Is(err, retail.ErrValidation):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, retail.ErrDuplicateKey):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, store.ErrUnavailable):
		s.log.Error("store unavailable", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "store unavailable"})
	case errors.As(err, &fe):
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	s.log.Error("request failed", "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}

// body parses the request body into params, reporting a 400 on malformed
// JSON. Validation of field values happens in the repository.
func body(c *fiber.Ctx, params any) error {
	if err := c.BodyParser(params); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
	}
	return nil
}

type idResponse struct {
	ID string `json:"id"`
}

type existsResponse struct {
	Exists bool `json:"exists"`
}
