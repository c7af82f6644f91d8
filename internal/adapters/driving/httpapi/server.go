package httpapi

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/campusnotice/noticeagent/internal/logger"
)

// shutdownTimeout bounds how long in-flight requests may run after cancellation.
const shutdownTimeout = 10 * time.Second

// Config holds HTTP server options.
type Config struct {
	// Addr is the listen address, e.g. ":8000".
	Addr string

	// CORSOrigins is a comma-separated origin list; empty means "*".
	CORSOrigins string

	// Engine describes the completion service for /status when no
	// status service is wired.
	Engine string
}

// Server is the HTTP front end.
type Server struct {
	ports *Ports
	cfg   Config
	app   *fiber.App
}

// NewServer creates a server with routes registered.
func NewServer(ports *Ports, cfg Config) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}
	if cfg.CORSOrigins == "" {
		cfg.CORSOrigins = "*"
	}

	app := fiber.New(fiber.Config{
		AppName:               "noticeagent",
		BodyLimit:             1024 * 1024,
		DisableStartupMessage: true,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	s := &Server{
		ports: ports,
		cfg:   cfg,
		app:   app,
	}
	s.registerRoutes()
	return s, nil
}

// App returns the underlying Fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(s.cfg.Addr)
	}()
	logger.Info("HTTP server listening on %s", s.cfg.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Shutting down HTTP server")
		if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) registerRoutes() {
	s.app.Post("/chat", s.handleChat)
	s.app.Get("/sync", s.handleSync)
	s.app.Post("/sync", s.handleSync)
	s.app.Get("/status", s.handleStatus)
}
