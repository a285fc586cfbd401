// Package health provides health checks for the clearing daemon.
//
// Three endpoints are served:
// - /health - basic liveness check
// - /health/ready - readiness check for load balancers
// - /health/detailed - component status plus invariant results
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gix-network/gcam/x/clearing/types"
)

var (
	startTime = time.Now()

	healthCheckTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gix",
			Subsystem: "gcam",
			Name:      "health_check_total",
			Help:      "Total number of health check requests",
		},
		[]string{"endpoint", "status"},
	)

	componentHealthy = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "gix",
			Subsystem: "gcam",
			Name:      "component_healthy",
			Help:      "1 if healthy, 0.5 if degraded, 0 if unhealthy",
		},
		[]string{"component"},
	)
)

// Status represents the health status of a component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

func (s Status) gauge() float64 {
	switch s {
	case StatusHealthy:
		return 1
	case StatusDegraded:
		return 0.5
	default:
		return 0
	}
}

// ComponentHealth represents the health status of a single component
type ComponentHealth struct {
	Status    Status                 `json:"status"`
	Message   string                 `json:"message,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metrics   map[string]interface{} `json:"metrics,omitempty"`
}

// HealthCheck represents the overall health check response
type HealthCheck struct {
	Status        Status                     `json:"status"`
	Timestamp     time.Time                  `json:"timestamp"`
	UptimeSeconds int64                      `json:"uptime_seconds"`
	Version       string                     `json:"version,omitempty"`
	Components    map[string]ComponentHealth `json:"components,omitempty"`
}

// StatePinger is the part of the state database the checker probes.
type StatePinger interface {
	Ping() error
	Generation() uint64
}

// Engine is the read-only view of the clearing engine the checker inspects.
type Engine interface {
	GetProviders() []types.ComputeProvider
	GetRoutes() []types.Route
	GetStats() types.AuctionStats
}

// InvariantFunc reports a message and whether an invariant is broken.
type InvariantFunc func() (string, bool)

// Checker performs health checks on the state database and the engine.
type Checker struct {
	logger    log.Logger
	store     StatePinger
	engine    Engine
	invariant InvariantFunc
	version   string

	maxResponseTime    time.Duration
	saturationDegraded float64

	mu            sync.RWMutex
	lastCheck     time.Time
	cachedHealth  *HealthCheck
	cacheDuration time.Duration
}

// Config holds configuration for the health checker
type Config struct {
	// Version is reported in every response.
	Version string

	// MaxResponseTime bounds a database ping before it counts as degraded.
	MaxResponseTime time.Duration

	// SaturationDegraded is the fleet utilization ratio at which the
	// providers component reports degraded.
	SaturationDegraded float64

	// CacheDuration is how long to cache readiness results
	CacheDuration time.Duration
}

// DefaultConfig returns the default health check configuration
func DefaultConfig() Config {
	return Config{
		Version:            "dev",
		MaxResponseTime:    time.Second,
		SaturationDegraded: 0.9,
		CacheDuration:      5 * time.Second,
	}
}

// NewChecker creates a new health checker. invariant may be nil.
func NewChecker(logger log.Logger, cfg Config, store StatePinger, engine Engine, invariant InvariantFunc) (*Checker, error) {
	if store == nil || engine == nil {
		return nil, fmt.Errorf("health checker requires a store and an engine")
	}

	return &Checker{
		logger:             logger.With("module", "health"),
		store:              store,
		engine:             engine,
		invariant:          invariant,
		version:            cfg.Version,
		maxResponseTime:    cfg.MaxResponseTime,
		saturationDegraded: cfg.SaturationDegraded,
		cacheDuration:      cfg.CacheDuration,
	}, nil
}

type componentCheck struct {
	name string
	fn   func(context.Context) ComponentHealth
}

// Check performs a health check. Detailed checks bypass the cache and also
// evaluate the engine invariants.
func (c *Checker) Check(ctx context.Context, detailed bool) *HealthCheck {
	if !detailed {
		if cached, ok := c.cached(); ok {
			return cached
		}
	}

	health := &HealthCheck{
		Timestamp:     time.Now(),
		UptimeSeconds: int64(time.Since(startTime).Seconds()),
		Version:       c.version,
		Components:    make(map[string]ComponentHealth),
	}

	checks := []componentCheck{
		{"database", c.checkDatabase},
		{"providers", c.checkProviders},
		{"routes", c.checkRoutes},
	}
	if detailed {
		checks = append(checks,
			componentCheck{"invariants", c.checkInvariants},
			componentCheck{"statistics", c.checkStatistics},
			componentCheck{"system", c.checkSystem},
		)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, check := range checks {
		wg.Add(1)
		go func(check componentCheck) {
			defer wg.Done()
			result := check.fn(ctx)
			componentHealthy.WithLabelValues(check.name).Set(result.Status.gauge())
			mu.Lock()
			health.Components[check.name] = result
			mu.Unlock()
		}(check)
	}
	wg.Wait()

	health.Status = calculateOverallStatus(health.Components)

	if !detailed {
		c.mu.Lock()
		c.lastCheck = time.Now()
		c.cachedHealth = health
		c.mu.Unlock()
	}

	return health
}

// checkDatabase pings the state database
func (c *Checker) checkDatabase(context.Context) ComponentHealth {
	start := time.Now()
	err := c.store.Ping()
	duration := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:    StatusUnhealthy,
			Message:   fmt.Sprintf("state database unavailable: %v", err),
			Timestamp: time.Now(),
		}
	}

	status := StatusHealthy
	message := "state database is responsive"
	if duration > c.maxResponseTime {
		status = StatusDegraded
		message = "state database response time is degraded"
	}

	return ComponentHealth{
		Status:    status,
		Message:   message,
		Timestamp: time.Now(),
		Metrics: map[string]interface{}{
			"ping_time_ms":     duration.Milliseconds(),
			"flush_generation": c.store.Generation(),
		},
	}
}

// checkProviders reports remaining fleet capacity
func (c *Checker) checkProviders(context.Context) ComponentHealth {
	providers := c.engine.GetProviders()
	if len(providers) == 0 {
		return ComponentHealth{
			Status:    StatusUnhealthy,
			Message:   "no providers registered",
			Timestamp: time.Now(),
		}
	}

	var capacity, utilization uint64
	available := 0
	for _, p := range providers {
		capacity += uint64(p.Capacity)
		utilization += uint64(p.Utilization)
		if p.HasCapacity() {
			available++
		}
	}

	saturation := 1.0
	if capacity > 0 {
		saturation = float64(utilization) / float64(capacity)
	}

	status := StatusHealthy
	message := fmt.Sprintf("%d of %d providers have capacity", available, len(providers))
	switch {
	case available == 0:
		status = StatusDegraded
		message = "all providers are at capacity"
	case saturation >= c.saturationDegraded:
		status = StatusDegraded
		message = fmt.Sprintf("fleet utilization at %.0f%%", saturation*100)
	}

	return ComponentHealth{
		Status:    status,
		Message:   message,
		Timestamp: time.Now(),
		Metrics: map[string]interface{}{
			"providers":           len(providers),
			"providers_available": available,
			"capacity":            capacity,
			"utilization":         utilization,
		},
	}
}

// checkRoutes verifies a route is available for matching
func (c *Checker) checkRoutes(context.Context) ComponentHealth {
	routes := c.engine.GetRoutes()
	if len(routes) == 0 {
		return ComponentHealth{
			Status:    StatusUnhealthy,
			Message:   "no routes registered",
			Timestamp: time.Now(),
		}
	}

	lanes := make(map[uint8]int)
	for _, r := range routes {
		lanes[r.LaneID]++
	}

	return ComponentHealth{
		Status:    StatusHealthy,
		Message:   fmt.Sprintf("%d routes across %d lanes", len(routes), len(lanes)),
		Timestamp: time.Now(),
		Metrics: map[string]interface{}{
			"routes": len(routes),
			"lanes":  len(lanes),
		},
	}
}

func (c *Checker) checkInvariants(context.Context) ComponentHealth {
	if c.invariant == nil {
		return ComponentHealth{
			Status:    StatusHealthy,
			Message:   "no invariants registered",
			Timestamp: time.Now(),
		}
	}

	msg, broken := c.invariant()
	if broken {
		c.logger.Error("invariant broken", "detail", msg)
		return ComponentHealth{
			Status:    StatusUnhealthy,
			Message:   msg,
			Timestamp: time.Now(),
		}
	}
	return ComponentHealth{
		Status:    StatusHealthy,
		Message:   "all invariants hold",
		Timestamp: time.Now(),
	}
}

func (c *Checker) checkStatistics(context.Context) ComponentHealth {
	stats := c.engine.GetStats()
	return ComponentHealth{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Metrics: map[string]interface{}{
			"total_auctions":  stats.TotalAuctions,
			"total_matches":   stats.TotalMatches,
			"total_unmatched": stats.TotalUnmatched,
			"total_volume":    stats.TotalVolume,
		},
	}
}

func (c *Checker) checkSystem(context.Context) ComponentHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return ComponentHealth{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Metrics: map[string]interface{}{
			"memory_mb":  m.Alloc / 1024 / 1024,
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// calculateOverallStatus determines the overall health status based on component statuses
func calculateOverallStatus(components map[string]ComponentHealth) Status {
	hasDegraded := false
	for _, component := range components {
		switch component.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			hasDegraded = true
		}
	}
	if hasDegraded {
		return StatusDegraded
	}
	return StatusHealthy
}

func (c *Checker) cached() (*HealthCheck, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.cachedHealth == nil || time.Since(c.lastCheck) >= c.cacheDuration {
		return nil, false
	}
	return c.cachedHealth, true
}

// RegisterRoutes registers health check endpoints on router
func (c *Checker) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", withHealthMetrics("health", c.handleHealth)).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", withHealthMetrics("ready", c.handleHealthReady)).Methods(http.MethodGet)
	router.HandleFunc("/health/detailed", withHealthMetrics("detailed", c.handleHealthDetailed)).Methods(http.MethodGet)
}

// Handler returns the health endpoints wrapped with panic recovery.
func (c *Checker) Handler() http.Handler {
	router := mux.NewRouter()
	c.RegisterRoutes(router)
	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(false))(router)
}

// NewServer returns an HTTP server for the health endpoints on addr.
func NewServer(addr string, c *Checker) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           c.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

func withHealthMetrics(endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(rw, r)
		healthCheckTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", rw.statusCode)).Inc()
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// handleHealth handles the basic liveness check endpoint
func (c *Checker) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handleHealthReady handles the readiness check endpoint. Degraded is still ready.
func (c *Checker) handleHealthReady(w http.ResponseWriter, r *http.Request) {
	health := c.Check(r.Context(), false)

	statusCode := http.StatusOK
	if health.Status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, statusCode, health)
}

// handleHealthDetailed handles the detailed health check endpoint
func (c *Checker) handleHealthDetailed(w http.ResponseWriter, r *http.Request) {
	health := c.Check(r.Context(), true)

	statusCode := http.StatusOK
	if health.Status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, statusCode, health)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
