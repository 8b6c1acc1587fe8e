// Package http provides the HTTP adapter for the application layer. It
// translates requests into application service calls and maps service errors
// to status codes.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gakkou-tools/kintai/internal/application/service"
	"github.com/gakkou-tools/kintai/pkg/utils"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server is the HTTP server adapter
type Server struct {
	config         ServerConfig
	httpServer     *http.Server
	router         *gin.Engine
	monthlyService service.MonthlyService
	dayService     service.DayService
	leaveService   service.LeaveService
	exportService  service.ExportService
	logger         Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(
	config ServerConfig,
	monthlyService service.MonthlyService,
	dayService service.DayService,
	leaveService service.LeaveService,
	exportService service.ExportService,
	logger Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		config:         config,
		router:         gin.New(),
		monthlyService: monthlyService,
		dayService:     dayService,
		leaveService:   leaveService,
		exportService:  exportService,
		logger:         logger,
	}

	server.setupMiddleware()
	server.setupRoutes()
	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}

const actorKey = "actor"

// actorMiddleware resolves the calling staff member from request headers.
// Identity is taken on trust from the reverse proxy in front of this service.
func (s *Server) actorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if err := utils.ValidateUserID(userID); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "missing or invalid X-User-ID header",
			})
			return
		}

		privileged := c.GetHeader("X-Privileged") == "true"
		c.Set(actorKey, service.Actor{ID: userID, Privileged: privileged})
		c.Next()
	}
}

func actorFrom(c *gin.Context) service.Actor {
	actor, _ := c.MustGet(actorKey).(service.Actor)
	return actor
}

func (s *Server) setupRoutes() {
	handlers := NewHandlers(s.monthlyService, s.dayService, s.leaveService, s.exportService, s.logger)

	s.router.GET("/health", handlers.HealthCheck)

	api := s.router.Group("/api")
	api.Use(s.actorMiddleware())
	{
		api.GET("/activities", handlers.ListActivities)

		api.GET("/days/:date", handlers.GetDay)
		api.PUT("/days/:date", handlers.SaveDay)

		api.GET("/months/:month", handlers.GetMonth)
		api.GET("/months/:month/statuses", handlers.ListStatuses)
		api.GET("/months/:month/export", handlers.ExportMonth)
		api.POST("/months/:month/submissions/:track", handlers.SubmitMonth)
		api.POST("/months/:month/reviews/:track", handlers.ReviewMonth)

		api.POST("/leave", handlers.ApplyLeave)
		api.GET("/leave", handlers.ListLeave)
		api.GET("/leave/pending", handlers.ListPendingLeave)
		api.GET("/leave/balance", handlers.LeaveBalance)
		api.POST("/leave/:id/review", handlers.ReviewLeave)
	}
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
