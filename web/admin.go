package web

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/config"
)

func (s *Server) repair(c *fiber.Ctx) error {
	stats, err := s.repo.Repair(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

func (s *Server) getPreferences(c *fiber.Ctx) error {
	s.mu.Lock()
	prefs := s.prefs
	s.mu.Unlock()
	return c.JSON(prefs)
}

func (s *Server) putPreferences(c *fiber.Ctx) error {
	var prefs config.Preferences
	if err := body(c, &prefs); err != nil {
		return err
	}
	if err := prefs.Save(s.prefsPath); err != nil {
		return err
	}
	s.mu.Lock()
	s.prefs = prefs
	s.mu.Unlock()
	return c.JSON(prefs)
}
