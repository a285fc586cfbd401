package keeper

import (
	"sync/atomic"
	"testing"

	"cosmossdk.io/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/gix-network/gcam/x/clearing/keeper"
	"github.com/gix-network/gcam/x/clearing/store"
	"github.com/gix-network/gcam/x/clearing/types"
)

// ClearingKeeper creates a keeper over a goleveldb store in a temporary
// directory. The directory is returned so tests can reopen it.
func ClearingKeeper(t testing.TB, genesis types.GenesisState, opts ...keeper.Option) (*keeper.Keeper, *store.Store, string) {
	t.Helper()
	dir := t.TempDir()
	k, st := OpenClearingKeeper(t, dir, genesis, opts...)
	return k, st, dir
}

// OpenClearingKeeper opens a keeper over the store in dir. The store is
// closed when the test ends.
func OpenClearingKeeper(t testing.TB, dir string, genesis types.GenesisState, opts ...keeper.Option) (*keeper.Keeper, *store.Store) {
	t.Helper()
	st, err := store.Open(dir, store.DefaultConfig(), log.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	k, err := keeper.NewKeeper(st, types.DefaultParams(), genesis, log.NewNopLogger(), opts...)
	require.NoError(t, err)
	return k, st
}

// SingleProviderGenesis returns one BF16 provider with base price 100 and the
// given capacity, and one route.
func SingleProviderGenesis(capacity uint32) types.GenesisState {
	return types.GenesisState{
		Providers: []types.ComputeProvider{{
			ID:                  "slp-test-1",
			Region:              "US",
			SupportedPrecisions: []types.Precision{types.PrecisionBF16},
			Capacity:            capacity,
			BasePrice:           100,
		}},
		Routes: []types.Route{{
			ID:        "route-test-1",
			LaneID:    types.LaneFlash,
			Hops:      []string{"node-a", "node-b"},
			LatencyMs: 10,
			Cost:      10,
		}},
	}
}

// Job returns a valid job with a fresh ID.
func Job(precision types.Precision, contextLength uint32) types.Job {
	return types.Job{
		JobID:         uuid.New(),
		ModelID:       "test-model",
		Precision:     precision,
		ContextLength: contextLength,
	}
}

// FailingStore wraps a StateStore and fails every save while FailWrites is set.
type FailingStore struct {
	types.StateStore
	FailWrites atomic.Bool
	Failures   atomic.Int64
}

var _ types.StateStore = (*FailingStore)(nil)

// NewFailingStore wraps inner.
func NewFailingStore(inner types.StateStore) *FailingStore {
	return &FailingStore{StateStore: inner}
}

func (f *FailingStore) fail() error {
	if f.FailWrites.Load() {
		f.Failures.Add(1)
		return types.ErrPersistence.Wrap("injected write failure")
	}
	return nil
}

func (f *FailingStore) SaveProviders(providers []types.ComputeProvider) error {
	if err := f.fail(); err != nil {
		return err
	}
	return f.StateStore.SaveProviders(providers)
}

func (f *FailingStore) SaveStats(stats types.AuctionStats) error {
	if err := f.fail(); err != nil {
		return err
	}
	return f.StateStore.SaveStats(stats)
}

func (f *FailingStore) SaveAuction(providers []types.ComputeProvider, stats types.AuctionStats) error {
	if err := f.fail(); err != nil {
		return err
	}
	return f.StateStore.SaveAuction(providers, stats)
}

func (f *FailingStore) Flush() error {
	if err := f.fail(); err != nil {
		return err
	}
	return f.StateStore.Flush()
}
