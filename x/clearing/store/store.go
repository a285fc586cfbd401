package store

import (
	"encoding/binary"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	dbm "github.com/cosmos/cosmos-db"

	"github.com/gix-network/gcam/x/clearing/types"
)

var _ types.StateStore = (*Store)(nil)

// Config configures the state database.
type Config struct {
	// Backend is a cosmos-db backend name, goleveldb or memdb.
	Backend string
	// SyncWrites fsyncs the journal on every save instead of only on Flush.
	SyncWrites bool
}

// DefaultConfig returns the default store config.
func DefaultConfig() Config {
	return Config{
		Backend: string(dbm.GoLevelDBBackend),
	}
}

// Store persists providers, routes and statistics in a single embedded
// database under three key prefixes. Writes go through atomic batches.
type Store struct {
	db         dbm.DB
	logger     log.Logger
	syncWrites bool

	mu         sync.Mutex
	generation uint64
	closed     bool
}

// Open opens the database in dir, creating it if needed. Existing data is
// never discarded.
func Open(dir string, cfg Config, logger log.Logger) (*Store, error) {
	backend := dbm.BackendType(cfg.Backend)
	if backend == "" {
		backend = dbm.GoLevelDBBackend
	}
	if backend != dbm.MemDBBackend {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, types.ErrPersistence.Wrapf("create data directory: %v", err)
		}
	}

	db, err := dbm.NewDB(types.StoreKey, backend, dir)
	if err != nil {
		return nil, types.ErrPersistence.Wrapf("open %s database in %s: %v", backend, dir, err)
	}

	s := NewStoreWithDB(db, cfg, logger)
	s.logger.Info("opened state database", "backend", backend, "dir", dir, "sync_writes", cfg.SyncWrites)
	return s, nil
}

// NewStoreWithDB wraps an already opened database.
func NewStoreWithDB(db dbm.DB, cfg Config, logger log.Logger) *Store {
	s := &Store{
		db:         db,
		logger:     logger.With("module", "x/clearing/store"),
		syncWrites: cfg.SyncWrites,
	}
	if bz, err := db.Get(FlushMarkerKey); err == nil && len(bz) == 8 {
		s.generation = binary.BigEndian.Uint64(bz)
	}
	return s
}

// LoadProviders returns all stored providers ordered by ID. An empty
// namespace is seeded with defaults, which are then returned in the same
// order.
func (s *Store) LoadProviders(defaults []types.ComputeProvider) ([]types.ComputeProvider, error) {
	var providers []types.ComputeProvider
	err := s.iteratePrefix(ProviderKeyPrefix, func(key, value []byte) error {
		p, err := types.UnmarshalProvider(value)
		if err != nil {
			return types.ErrCorruptState.Wrapf("provider record %q: %v", key[len(ProviderKeyPrefix):], err)
		}
		if string(key[len(ProviderKeyPrefix):]) != p.ID {
			return types.ErrCorruptState.Wrapf("provider record %q holds id %q", key[len(ProviderKeyPrefix):], p.ID)
		}
		providers = append(providers, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(providers) > 0 {
		return providers, nil
	}

	if err := s.seed(func(b dbm.Batch) error { return putProviders(b, defaults) }); err != nil {
		return nil, err
	}
	s.logger.Info("seeded default providers", "count", len(defaults))

	providers = make([]types.ComputeProvider, 0, len(defaults))
	for _, p := range defaults {
		providers = append(providers, p.Copy())
	}
	slices.SortFunc(providers, func(a, b types.ComputeProvider) int { return strings.Compare(a.ID, b.ID) })
	return providers, nil
}

// LoadRoutes returns all stored routes ordered by ID. An empty namespace is
// seeded with defaults, which are then returned.
func (s *Store) LoadRoutes(defaults []types.Route) ([]types.Route, error) {
	var routes []types.Route
	err := s.iteratePrefix(RouteKeyPrefix, func(key, value []byte) error {
		r, err := types.UnmarshalRoute(value)
		if err != nil {
			return types.ErrCorruptState.Wrapf("route record %q: %v", key[len(RouteKeyPrefix):], err)
		}
		if string(key[len(RouteKeyPrefix):]) != r.ID {
			return types.ErrCorruptState.Wrapf("route record %q holds id %q", key[len(RouteKeyPrefix):], r.ID)
		}
		routes = append(routes, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(routes) > 0 {
		return routes, nil
	}

	if err := s.seed(func(b dbm.Batch) error { return putRoutes(b, defaults) }); err != nil {
		return nil, err
	}
	s.logger.Info("seeded default routes", "count", len(defaults))

	routes = make([]types.Route, 0, len(defaults))
	for _, r := range defaults {
		routes = append(routes, r.Copy())
	}
	slices.SortFunc(routes, func(a, b types.Route) int { return strings.Compare(a.ID, b.ID) })
	return routes, nil
}

// LoadStats returns the stored statistics. An empty namespace is seeded with
// zeroed statistics, which are then returned.
func (s *Store) LoadStats() (types.AuctionStats, error) {
	bz, err := s.db.Get(StatsKey)
	if err != nil {
		return types.AuctionStats{}, types.ErrPersistence.Wrapf("read stats: %v", err)
	}
	if bz == nil {
		stats := types.NewAuctionStats()
		if err := s.seed(func(b dbm.Batch) error { return putStats(b, stats) }); err != nil {
			return types.AuctionStats{}, err
		}
		return stats, nil
	}

	stats, err := types.UnmarshalStats(bz)
	if err != nil {
		return types.AuctionStats{}, types.ErrCorruptState.Wrapf("stats record: %v", err)
	}
	return stats, nil
}

// SaveProviders overwrites the given provider records.
func (s *Store) SaveProviders(providers []types.ComputeProvider) error {
	return s.write(func(b dbm.Batch) error {
		return putProviders(b, providers)
	})
}

// SaveRoutes overwrites the given route records.
func (s *Store) SaveRoutes(routes []types.Route) error {
	return s.write(func(b dbm.Batch) error {
		return putRoutes(b, routes)
	})
}

// SaveStats overwrites the statistics record.
func (s *Store) SaveStats(stats types.AuctionStats) error {
	return s.write(func(b dbm.Batch) error {
		return putStats(b, stats)
	})
}

// SaveAuction writes providers and statistics in one atomic batch.
func (s *Store) SaveAuction(providers []types.ComputeProvider, stats types.AuctionStats) error {
	return s.write(func(b dbm.Batch) error {
		if err := putProviders(b, providers); err != nil {
			return err
		}
		return putStats(b, stats)
	})
}

// Flush forces all acknowledged writes to stable storage by writing the next
// generation marker synchronously.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrPersistence.Wrap("flush: store is closed")
	}

	next := s.generation + 1
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, next)
	if err := s.db.SetSync(FlushMarkerKey, bz); err != nil {
		return types.ErrPersistence.Wrapf("flush: %v", err)
	}
	s.generation = next
	return nil
}

// Generation returns the number of completed flushes.
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Ping checks the database answers reads.
func (s *Store) Ping() error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return fmt.Errorf("store is closed")
	}
	_, err := s.db.Has(FlushMarkerKey)
	return err
}

// DBStats returns backend statistics.
func (s *Store) DBStats() map[string]string {
	return s.db.Stats()
}

// Close releases the database. It does not flush.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *Store) seed(fn func(dbm.Batch) error) error {
	batch := s.db.NewBatch()
	defer batch.Close()

	if err := fn(batch); err != nil {
		return err
	}
	if err := batch.WriteSync(); err != nil {
		return types.ErrPersistence.Wrapf("seed defaults: %v", err)
	}
	return nil
}

func (s *Store) write(fn func(dbm.Batch) error) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return types.ErrPersistence.Wrap("store is closed")
	}

	batch := s.db.NewBatch()
	defer batch.Close()

	if err := fn(batch); err != nil {
		return err
	}

	var err error
	if s.syncWrites {
		err = batch.WriteSync()
	} else {
		err = batch.Write()
	}
	if err != nil {
		return types.ErrPersistence.Wrapf("write batch: %v", err)
	}
	return nil
}

func (s *Store) iteratePrefix(prefix []byte, cb func(key, value []byte) error) error {
	it, err := s.db.Iterator(prefix, storetypes.PrefixEndBytes(prefix))
	if err != nil {
		return types.ErrPersistence.Wrapf("iterate: %v", err)
	}
	defer it.Close()

	for ; it.Valid(); it.Next() {
		if err := cb(it.Key(), it.Value()); err != nil {
			return err
		}
	}
	if err := it.Error(); err != nil {
		return types.ErrPersistence.Wrapf("iterate: %v", err)
	}
	return nil
}

func putProviders(b dbm.Batch, providers []types.ComputeProvider) error {
	for _, p := range providers {
		bz, err := types.MarshalProvider(p)
		if err != nil {
			return types.ErrPersistence.Wrapf("encode provider %s: %v", p.ID, err)
		}
		if err := b.Set(ProviderKey(p.ID), bz); err != nil {
			return types.ErrPersistence.Wrapf("stage provider %s: %v", p.ID, err)
		}
	}
	return nil
}

func putRoutes(b dbm.Batch, routes []types.Route) error {
	for _, r := range routes {
		bz, err := types.MarshalRoute(r)
		if err != nil {
			return types.ErrPersistence.Wrapf("encode route %s: %v", r.ID, err)
		}
		if err := b.Set(RouteKey(r.ID), bz); err != nil {
			return types.ErrPersistence.Wrapf("stage route %s: %v", r.ID, err)
		}
	}
	return nil
}

func putStats(b dbm.Batch, stats types.AuctionStats) error {
	bz, err := types.MarshalStats(stats)
	if err != nil {
		return types.ErrPersistence.Wrapf("encode stats: %v", err)
	}
	if err := b.Set(StatsKey, bz); err != nil {
		return types.ErrPersistence.Wrapf("stage stats: %v", err)
	}
	return nil
}
