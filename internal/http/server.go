// Package http provides the HTTP server, router and shared middleware.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	"github.com/allisson/cardvault/internal/config"
	"github.com/allisson/cardvault/internal/database"
	"github.com/allisson/cardvault/internal/metrics"
	paymentHTTP "github.com/allisson/cardvault/internal/payment/http"
)

const readinessTimeout = 2 * time.Second

// Server represents the HTTP server.
type Server struct {
	db     *sql.DB
	server *http.Server
	logger *slog.Logger
	router *gin.Engine

	// stops background middleware work such as rate limiter cleanup
	stop context.CancelFunc
}

// NewServer creates a new HTTP server. SetupRouter must be called before Start.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the gin engine with middleware and every route.
// meterProvider may be nil, in which case HTTP metrics are not recorded.
func (s *Server) SetupRouter(
	cfg *config.Config,
	meterProvider metric.MeterProvider,
	cryptoHandler *paymentHTTP.CryptoHandler,
	keyHandler *paymentHTTP.KeyHandler,
	paymentMethodHandler *paymentHTTP.PaymentMethodHandler,
) {
	ctx, cancel := context.WithCancel(context.Background())
	s.stop = cancel

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if meterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(meterProvider, cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1/payment")
	if cfg.RateLimitEnabled {
		v1.Use(RateLimitMiddleware(ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}

	v1.POST("/encrypt", cryptoHandler.EncryptHandler)
	v1.POST("/decrypt", cryptoHandler.DecryptHandler)
	v1.POST("/fingerprint", cryptoHandler.FingerprintHandler)
	v1.POST("/validate", cryptoHandler.ValidateHandler)
	v1.POST("/inspect", cryptoHandler.InspectHandler)
	v1.POST("/reencrypt", cryptoHandler.ReEncryptHandler)

	cards := v1.Group("/cards")
	cards.POST("/encrypt", cryptoHandler.EncryptCardHandler)
	cards.POST("/decrypt", cryptoHandler.DecryptCardHandler)

	keys := v1.Group("/keys")
	keys.GET("/current", keyHandler.CurrentHandler)
	keys.POST("/rotate", keyHandler.RotateHandler)
	keys.POST("/:id/activate", keyHandler.ActivateHandler)

	methods := v1.Group("/methods")
	methods.POST("", paymentMethodHandler.CreateHandler)
	methods.GET("", paymentMethodHandler.ListHandler)
	methods.POST("/search", paymentMethodHandler.SearchHandler)
	methods.POST("/migrate", paymentMethodHandler.MigrateHandler)
	methods.POST("/verify", paymentMethodHandler.VerifyHandler)
	methods.GET("/:id", paymentMethodHandler.GetHandler)
	methods.POST("/:id/reveal", paymentMethodHandler.RevealHandler)

	s.router = router
}

// GetHandler returns the configured router, or nil before SetupRouter.
func (s *Server) GetHandler() http.Handler {
	if s.router == nil {
		return nil
	}
	return s.router
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	if s.stop != nil {
		s.stop()
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	if err := database.Ping(c.Request.Context(), s.db, readinessTimeout); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": "ok"},
	})
}
