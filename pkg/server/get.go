package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"parsverse/pkg/lore"
)

func (s *Server) handleGetRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"service": "ParsVerse API",
		"status":  "ok",
		"mode":    string(s.Generator.Mode()),
	})
}

// GET /api/regions
func (s *Server) handleGetRegions(c echo.Context) error {
	return c.JSON(http.StatusOK, lore.All())
}

// GET /api/fact
func (s *Server) handleGetFact(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"fact": lore.RandomFact()})
}

// GET /api/backend
func (s *Server) handleGetBackend(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Composer.Backend())
}

type optionsResponse struct {
	Regions []lore.Region `json:"regions"`
	Styles  []lore.Style  `json:"styles"`
	Traits  []string      `json:"traits"`
	Genders []string      `json:"genders"`
	Facts   []string      `json:"facts"`
}

// GET /api/options
func (s *Server) handleGetOptions(c echo.Context) error {
	return c.JSON(http.StatusOK, optionsResponse{
		Regions: lore.Regions(),
		Styles:  lore.Styles(),
		Traits:  lore.Traits(),
		Genders: lore.Genders(),
		Facts:   lore.Facts(),
	})
}
