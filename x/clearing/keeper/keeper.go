package keeper

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"cosmossdk.io/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/gix-network/gcam/x/clearing/types"
)

const tracerName = "github.com/gix-network/gcam/x/clearing"

// Keeper owns the provider set, the route set and the auction statistics.
type Keeper struct {
	store   types.StateStore
	params  types.Params
	logger  log.Logger
	metrics *ClearingMetrics
	tracer  trace.Tracer
	now     func() time.Time

	mu          sync.RWMutex
	providers   map[string]*types.ComputeProvider
	providerIDs []string
	stats       types.AuctionStats

	routesMu sync.RWMutex
	routes   []types.Route
}

// Option configures a Keeper.
type Option func(*Keeper)

// WithClock overrides the clock used for envelope expiry.
func WithClock(now func() time.Time) Option {
	return func(k *Keeper) {
		k.now = now
	}
}

// WithTracer overrides the tracer used for auction spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(k *Keeper) {
		k.tracer = tracer
	}
}

// NewKeeper loads state from store, seeding it from genesis when empty.
// Corrupt persisted state is returned as ErrCorruptState.
func NewKeeper(
	store types.StateStore,
	params types.Params,
	genesis types.GenesisState,
	logger log.Logger,
	opts ...Option,
) (*Keeper, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid clearing params: %w", err)
	}
	if err := genesis.Validate(); err != nil {
		return nil, err
	}

	k := &Keeper{
		store:     store,
		params:    params,
		logger:    logger.With("module", "x/"+types.ModuleName),
		metrics:   NewClearingMetrics(),
		tracer:    otel.Tracer(tracerName),
		now:       time.Now,
		providers: make(map[string]*types.ComputeProvider),
	}
	for _, opt := range opts {
		opt(k)
	}

	providers, err := store.LoadProviders(genesis.Providers)
	if err != nil {
		return nil, err
	}
	routes, err := store.LoadRoutes(genesis.Routes)
	if err != nil {
		return nil, err
	}
	stats, err := store.LoadStats()
	if err != nil {
		return nil, err
	}

	for i := range providers {
		p := providers[i].Copy()
		if _, dup := k.providers[p.ID]; dup {
			return nil, types.ErrCorruptState.Wrapf("duplicate provider %s", p.ID)
		}
		k.providers[p.ID] = &p
		k.providerIDs = append(k.providerIDs, p.ID)
		k.metrics.observeProvider(p)
	}
	slices.Sort(k.providerIDs)

	k.routes = make([]types.Route, 0, len(routes))
	for _, r := range routes {
		k.routes = append(k.routes, r.Copy())
	}
	slices.SortFunc(k.routes, func(a, b types.Route) int { return strings.Compare(a.ID, b.ID) })

	stats.Normalize()
	k.stats = stats

	k.logger.Info("clearing engine loaded",
		"providers", len(k.providerIDs),
		"routes", len(k.routes),
		"total_auctions", stats.TotalAuctions,
		"total_matches", stats.TotalMatches,
	)
	return k, nil
}

// Logger returns a module-specific logger.
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetParams returns the clearing parameters.
func (k *Keeper) GetParams() types.Params {
	return k.params
}

// GetStats returns a snapshot of the auction statistics.
func (k *Keeper) GetStats() types.AuctionStats {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.stats.Copy()
}

// GetProviders returns copies of all providers ordered by ID.
func (k *Keeper) GetProviders() []types.ComputeProvider {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.providerSnapshot()
}

// GetProvider returns a copy of a single provider.
func (k *Keeper) GetProvider(id string) (types.ComputeProvider, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	p, ok := k.providers[id]
	if !ok {
		return types.ComputeProvider{}, false
	}
	return p.Copy(), true
}

// GetRoutes returns copies of all routes ordered by ID.
func (k *Keeper) GetRoutes() []types.Route {
	k.routesMu.RLock()
	defer k.routesMu.RUnlock()

	routes := make([]types.Route, 0, len(k.routes))
	for _, r := range k.routes {
		routes = append(routes, r.Copy())
	}
	return routes
}

// Flush rewrites the current providers and statistics and forces the store
// to stable storage.
func (k *Keeper) Flush() error {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if err := k.store.SaveAuction(k.providerSnapshot(), k.stats.Copy()); err != nil {
		return persistenceError(err)
	}
	if err := k.store.Flush(); err != nil {
		return persistenceError(err)
	}
	k.logger.Debug("flushed clearing state", "total_auctions", k.stats.TotalAuctions)
	return nil
}

// providerSnapshot must be called with mu held.
func (k *Keeper) providerSnapshot() []types.ComputeProvider {
	providers := make([]types.ComputeProvider, 0, len(k.providerIDs))
	for _, id := range k.providerIDs {
		providers = append(providers, k.providers[id].Copy())
	}
	return providers
}

func persistenceError(err error) error {
	if errors.Is(err, types.ErrPersistence) {
		return err
	}
	return types.ErrPersistence.Wrap(err.Error())
}
