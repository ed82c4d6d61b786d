package server

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"parsverse/pkg/generator"
	"parsverse/pkg/illustrate"
)

type Server struct {
	Echo      *echo.Echo
	Generator *generator.Generator
	Composer  *illustrate.Composer
	Ctx       context.Context
}

func NewServer(ctx context.Context, gen *generator.Generator, comp *illustrate.Composer) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.CORS())
	e.Use(observe)

	s := &Server{
		Echo:      e,
		Generator: gen,
		Composer:  comp,
		Ctx:       ctx,
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.Echo.GET("/", s.handleGetRoot)
	s.Echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.Echo.Group("/api")
	api.GET("/regions", s.handleGetRegions)
	api.GET("/options", s.handleGetOptions)
	api.GET("/fact", s.handleGetFact)
	api.GET("/backend", s.handleGetBackend)

	api.POST("/myth", s.handlePostMyth)
	api.POST("/chronicle", s.handlePostChronicle)
	api.POST("/persona", s.handlePostPersona)
	api.POST("/illustrate", s.handlePostIllustrate)
}

func (s *Server) Start(addr string) error {
	log.Info("server listening", "addr", addr, "mode", s.Generator.Mode(), "images", s.Composer.Backend())
	return s.Echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info("shutting down server")
	return s.Echo.Shutdown(ctx)
}
