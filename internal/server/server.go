package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/cozinhecomigo/recipes/backend/config"
	"github.com/cozinhecomigo/recipes/backend/internal/api"
	"github.com/cozinhecomigo/recipes/backend/internal/middleware"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	log    *logrus.Logger
}

// New builds the router with the middleware chain and every API route
func New(cfg *config.Config, deps api.Dependencies) *Server {
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(deps.Log),
		middleware.Metrics(),
		middleware.ErrorHandler(deps.Log),
		cors.New(corsConfig(cfg)),
	)
	router.NoRoute(middleware.NotFound())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api.RegisterRoutes(router, deps)

	return &Server{
		router: router,
		log:    deps.Log,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.ServerHost, cfg.ServerPort),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func corsConfig(cfg *config.Config) cors.Config {
	return cors.Config{
		AllowOrigins: cfg.CORSOrigins(),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Authorization",
			middleware.LegacyTokenHeader, middleware.RequestIDHeader,
		},
		ExposeHeaders: []string{
			middleware.RequestIDHeader,
			"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset",
		},
		MaxAge: 24 * time.Hour,
	}
}

// Router exposes the handler, mostly for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start listens until the server is shut down. A graceful shutdown is not an error.
func (s *Server) Start() error {
	s.log.WithField("addr", s.http.Addr).Info("Starting HTTP server")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
