package api

import (
	"context"
	"net/http"
	"os"
	"time"

	"cosmossdk.io/log"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/gix-network/gcam/x/clearing/types"
)

// Engine is the clearing surface the gateway exposes.
type Engine interface {
	RunAuction(ctx context.Context, job types.Job, priority uint8) (types.AuctionMatch, error)
	ProcessEnvelope(ctx context.Context, env types.Envelope) (types.AuctionMatch, error)
	GetStats() types.AuctionStats
	GetProviders() []types.ComputeProvider
	GetProvider(id string) (types.ComputeProvider, bool)
	GetRoutes() []types.Route
}

// RequestRecorder receives one observation per served request.
type RequestRecorder interface {
	RecordRequest(ctx context.Context, transport, method string, duration time.Duration, success bool)
}

// Server represents the REST gateway
type Server struct {
	router   *gin.Engine
	handler  http.Handler
	engine   Engine
	logger   log.Logger
	recorder RequestRecorder
	config   Config
}

// Config holds server configuration
type Config struct {
	Address         string
	CORSOrigins     []string
	RateLimitRPS    float64
	RateBurst       int
	MaxRequestSize  int64
	RequestTimeout  time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Address:         "0.0.0.0:1318",
		CORSOrigins:     []string{"*"},
		RateLimitRPS:    100,
		RateBurst:       200,
		MaxRequestSize:  MaxRequestSize,
		RequestTimeout:  30 * time.Second,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// NewServer creates a new API server instance. recorder may be nil.
func NewServer(engine Engine, logger log.Logger, recorder RequestRecorder, config Config) *Server {
	s := &Server{
		engine:   engine,
		logger:   logger.With("module", "api"),
		recorder: recorder,
		config:   config,
	}
	s.setupRouter()
	return s
}

// setupRouter configures the Gin router with all routes and middleware
func (s *Server) setupRouter() {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	// Recovery must be first to catch panics.
	s.router.Use(RecoveryMiddleware(s.logger))
	s.router.Use(SecurityHeadersMiddleware())
	s.router.Use(RequestSizeLimitMiddleware(s.config.MaxRequestSize))
	s.router.Use(RequestIDMiddleware())
	s.router.Use(LoggerMiddleware(s.logger))
	if s.recorder != nil {
		s.router.Use(TelemetryMiddleware(s.recorder))
	}
	if s.config.RateLimitRPS > 0 {
		s.router.Use(RateLimitMiddleware(s.config.RateLimitRPS, s.config.RateBurst))
	}
	s.router.Use(TimeoutMiddleware(s.config.RequestTimeout))

	s.router.GET("/health", s.healthCheck)

	s.registerRoutes()

	s.handler = cors.New(cors.Options{
		AllowedOrigins: s.config.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         86400,
	}).Handler(s.router)
}

// Handler returns the CORS-wrapped router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// HTTPServer returns an http.Server serving the gateway on the configured address.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.config.Address,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		MaxHeaderBytes:    1 << 20,
	}
}

// healthCheck returns server health status
func (s *Server) healthCheck(c *gin.Context) {
	stats := s.engine.GetStats()
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"timestamp":      time.Now().Unix(),
		"total_auctions": stats.TotalAuctions,
	})
}
