// Package app wires the clearing engine into a runnable daemon.
//
// GCAMApp opens the state database, loads the provider and route sets through
// the keeper, and serves them over three listeners:
//   - the gix.clearing.v1.AuctionService gRPC service, with grpc health
//   - the optional REST gateway under /gcam/v1
//   - the health endpoints on the telemetry health port
//
// Close stops the listeners, flushes the store and closes it.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"cosmossdk.io/log"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/gix-network/gcam/api"
	"github.com/gix-network/gcam/app/health"
	"github.com/gix-network/gcam/x/clearing/keeper"
	"github.com/gix-network/gcam/x/clearing/store"
	"github.com/gix-network/gcam/x/clearing/types"
)

const shutdownTimeout = 10 * time.Second

// GCAMApp is the clearing daemon.
type GCAMApp struct {
	cfg       Config
	logger    log.Logger
	telemetry *Telemetry

	store  *store.Store
	keeper *keeper.Keeper

	grpcServer   *grpc.Server
	grpcHealth   *grpchealth.Server
	apiServer    *http.Server
	healthServer *http.Server

	mu        sync.Mutex
	listeners map[string]net.Listener
	errCh     chan error
	started   bool
	closed    bool
}

// NewGCAMApp opens the store in cfg.Clearing.DBDir and builds the keeper and
// servers. Corrupt persisted state fails with ErrCorruptState.
func NewGCAMApp(cfg Config, logger log.Logger, tel *Telemetry) (*GCAMApp, error) {
	params, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	genesis, err := cfg.GenesisState()
	if err != nil {
		return nil, err
	}
	if tel == nil {
		tel, err = InitTelemetry(TelemetryConfig{}, nil)
		if err != nil {
			return nil, err
		}
	}

	st, err := store.Open(cfg.Clearing.DBDir, cfg.StoreConfig(), logger)
	if err != nil {
		return nil, err
	}

	k, err := keeper.NewKeeper(st, params, genesis, logger)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	app := &GCAMApp{
		cfg:       cfg,
		logger:    logger,
		telemetry: tel,
		store:     st,
		keeper:    k,
		listeners: make(map[string]net.Listener),
		errCh:     make(chan error, 3),
	}
	if err := app.setupServers(); err != nil {
		_ = st.Close()
		return nil, err
	}
	return app, nil
}

func (app *GCAMApp) setupServers() error {
	rpcMetrics, err := NewTelemetryMiddleware(app.telemetry.Meter())
	if err != nil {
		return fmt.Errorf("create rpc metrics: %w", err)
	}

	app.grpcServer = grpc.NewServer(grpc.ChainUnaryInterceptor(
		RecoveryInterceptor(app.logger),
		RateLimitInterceptor(app.cfg.GRPC.RateLimitRPS, app.cfg.GRPC.RateBurst),
		TelemetryInterceptor(rpcMetrics),
		LoggingInterceptor(app.logger.With("module", "grpc")),
	))
	types.RegisterAuctionServiceServer(app.grpcServer, keeper.NewGRPCServerImpl(app.keeper))

	app.grpcHealth = grpchealth.NewServer()
	healthpb.RegisterHealthServer(app.grpcServer, app.grpcHealth)
	app.grpcHealth.SetServingStatus(types.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	if app.cfg.API.Enable {
		apiCfg := api.DefaultConfig()
		apiCfg.Address = app.cfg.API.Address
		apiCfg.CORSOrigins = app.cfg.API.CORSOrigins
		apiCfg.RateLimitRPS = app.cfg.API.RateLimitRPS
		apiCfg.RateBurst = app.cfg.API.RateBurst
		app.apiServer = api.NewServer(app.keeper, app.logger, rpcMetrics, apiCfg).HTTPServer()
	}

	if app.cfg.Telemetry.HealthPort > 0 {
		checker, err := health.NewChecker(app.logger, health.DefaultConfig(), app.store, app.keeper, health.InvariantFunc(keeper.AllInvariants(app.keeper)))
		if err != nil {
			return err
		}
		app.healthServer = health.NewServer(fmt.Sprintf(":%d", app.cfg.Telemetry.HealthPort), checker)
	}
	return nil
}

// Keeper returns the clearing keeper.
func (app *GCAMApp) Keeper() *keeper.Keeper {
	return app.keeper
}

// Store returns the state database.
func (app *GCAMApp) Store() *store.Store {
	return app.store
}

// Addr returns the bound address of a started listener: "grpc", "api" or
// "health".
func (app *GCAMApp) Addr(name string) (net.Addr, bool) {
	app.mu.Lock()
	defer app.mu.Unlock()
	lis, ok := app.listeners[name]
	if !ok {
		return nil, false
	}
	return lis.Addr(), true
}

// Start binds every listener and serves in the background. Bind failures
// close the listeners already opened.
func (app *GCAMApp) Start() error {
	app.mu.Lock()
	defer app.mu.Unlock()
	if app.started {
		return errors.New("app already started")
	}
	if app.closed {
		return errors.New("app is closed")
	}

	grpcLis, err := net.Listen("tcp", app.cfg.GRPC.Address)
	if err != nil {
		return fmt.Errorf("listen grpc on %s: %w", app.cfg.GRPC.Address, err)
	}
	app.listeners["grpc"] = grpcLis

	if app.apiServer != nil {
		lis, err := net.Listen("tcp", app.apiServer.Addr)
		if err != nil {
			app.closeListenersLocked()
			return fmt.Errorf("listen api on %s: %w", app.apiServer.Addr, err)
		}
		app.listeners["api"] = lis
	}
	if app.healthServer != nil {
		lis, err := net.Listen("tcp", app.healthServer.Addr)
		if err != nil {
			app.closeListenersLocked()
			return fmt.Errorf("listen health on %s: %w", app.healthServer.Addr, err)
		}
		app.listeners["health"] = lis
	}

	go func() {
		if err := app.grpcServer.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			app.errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()
	if lis, ok := app.listeners["api"]; ok {
		go app.serveHTTP("api", app.apiServer, lis)
	}
	if lis, ok := app.listeners["health"]; ok {
		go app.serveHTTP("health", app.healthServer, lis)
	}

	app.grpcHealth.SetServingStatus(types.ServiceName, healthpb.HealthCheckResponse_SERVING)
	app.started = true

	app.logger.Info("gcam started", "grpc", grpcLis.Addr().String(), "api", app.apiServer != nil, "health_port", app.cfg.Telemetry.HealthPort)
	return nil
}

func (app *GCAMApp) serveHTTP(name string, srv *http.Server, lis net.Listener) {
	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.errCh <- fmt.Errorf("%s server: %w", name, err)
	}
}

func (app *GCAMApp) closeListenersLocked() {
	for name, lis := range app.listeners {
		_ = lis.Close()
		delete(app.listeners, name)
	}
}

// Wait blocks until ctx is done or a server fails.
func (app *GCAMApp) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return nil
	case err := <-app.errCh:
		return err
	}
}

// Run starts the app, waits for ctx or a server failure, and closes it.
func (app *GCAMApp) Run(ctx context.Context) error {
	if err := app.Start(); err != nil {
		return errors.Join(err, app.Close())
	}
	runErr := app.Wait(ctx)
	return errors.Join(runErr, app.Close())
}

// Close stops the servers, flushes pending writes and closes the store. It
// is safe to call more than once.
func (app *GCAMApp) Close() error {
	app.mu.Lock()
	if app.closed {
		app.mu.Unlock()
		return nil
	}
	app.closed = true
	started := app.started
	app.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if started {
		app.grpcHealth.Shutdown()
		stopGRPC(ctx, app.grpcServer)
		for _, srv := range []*http.Server{app.apiServer, app.healthServer} {
			if srv == nil {
				continue
			}
			if err := srv.Shutdown(ctx); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if err := app.keeper.Flush(); err != nil {
		app.logger.Error("final flush failed", "error", err)
		errs = append(errs, err)
	}
	if err := app.store.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := app.telemetry.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}

	app.logger.Info("gcam stopped", "flush_generation", app.store.Generation())
	return errors.Join(errs...)
}

// stopGRPC drains in-flight calls, forcing a stop when ctx expires.
func stopGRPC(ctx context.Context, srv *grpc.Server) {
	done := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		srv.Stop()
	}
}
