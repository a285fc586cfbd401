package store

import (
	"testing"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/gix-network/gcam/x/clearing/types"
)

// StoreTestSuite exercises the goleveldb backed store on disk
type StoreTestSuite struct {
	suite.Suite
	dir    string
	store  *Store
	logger log.Logger
}

func (s *StoreTestSuite) SetupTest() {
	s.logger = log.NewNopLogger()
	s.dir = s.T().TempDir()
	s.store = s.open()
}

func (s *StoreTestSuite) TearDownTest() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

func (s *StoreTestSuite) open() *Store {
	st, err := Open(s.dir, DefaultConfig(), s.logger)
	s.Require().NoError(err)
	return st
}

func (s *StoreTestSuite) reopen() {
	s.Require().NoError(s.store.Close())
	s.store = s.open()
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) TestSeedsDefaultsOnce() {
	gs := types.DefaultGenesis()

	providers, err := s.store.LoadProviders(gs.Providers)
	s.Require().NoError(err)
	s.Require().Len(providers, 2)

	routes, err := s.store.LoadRoutes(gs.Routes)
	s.Require().NoError(err)
	s.Require().Len(routes, 2)

	s.reopen()

	// defaults are ignored once records exist
	providers, err = s.store.LoadProviders(nil)
	s.Require().NoError(err)
	s.Require().Equal([]string{"slp-eu-west-1", "slp-us-east-1"}, providerIDs(providers))

	routes, err = s.store.LoadRoutes(nil)
	s.Require().NoError(err)
	s.Require().Equal("route-deep-1", routes[0].ID)
	s.Require().Equal([]string{"node-3", "node-4", "node-5"}, routes[0].Hops)
}

func (s *StoreTestSuite) TestLoadStatsEmpty() {
	stats, err := s.store.LoadStats()
	s.Require().NoError(err)
	s.Require().Equal(types.NewAuctionStats(), stats)

	// zeroed counters are written back so the record exists on the next open
	has, err := s.store.db.Has(StatsKey)
	s.Require().NoError(err)
	s.Require().True(has)

	s.reopen()
	stats, err = s.store.LoadStats()
	s.Require().NoError(err)
	s.Require().Equal(types.NewAuctionStats(), stats)
}

func (s *StoreTestSuite) TestSaveAuctionRoundTrip() {
	gs := types.DefaultGenesis()
	providers, err := s.store.LoadProviders(gs.Providers)
	s.Require().NoError(err)

	providers[0].Utilization++
	stats := types.NewAuctionStats()
	s.Require().NoError(stats.RecordMatch(types.PrecisionBF16, types.LaneFlash, 1200))
	stats.RecordUnmatched()

	s.Require().NoError(s.store.SaveAuction(providers, stats))
	s.reopen()

	loaded, err := s.store.LoadProviders(nil)
	s.Require().NoError(err)
	s.Require().Equal(providers, loaded)

	loadedStats, err := s.store.LoadStats()
	s.Require().NoError(err)
	s.Require().Equal(stats, loadedStats)
}

func (s *StoreTestSuite) TestSaveProvidersAndStatsSeparately() {
	p := types.ComputeProvider{
		ID:                  "slp-ap-south-1",
		Region:              "AP",
		SupportedPrecisions: []types.Precision{types.PrecisionINT8},
		Capacity:            4,
		Utilization:         1,
		BasePrice:           10,
	}
	s.Require().NoError(s.store.SaveProviders([]types.ComputeProvider{p}))

	stats := types.NewAuctionStats()
	stats.RecordUnmatched()
	s.Require().NoError(s.store.SaveStats(stats))

	loaded, err := s.store.LoadProviders(types.DefaultGenesis().Providers)
	s.Require().NoError(err)
	s.Require().Equal([]types.ComputeProvider{p}, loaded)

	loadedStats, err := s.store.LoadStats()
	s.Require().NoError(err)
	s.Require().Equal(uint64(1), loadedStats.TotalUnmatched)
}

func (s *StoreTestSuite) TestCloseWithoutFlushRecovers() {
	providers, err := s.store.LoadProviders(types.DefaultGenesis().Providers)
	s.Require().NoError(err)

	stats := types.NewAuctionStats()
	for i := 0; i < 25; i++ {
		providers[1].Utilization++
		s.Require().NoError(stats.RecordMatch(types.PrecisionFP8, types.LaneFlash, 1000))
		s.Require().NoError(s.store.SaveAuction(providers, stats))
	}

	s.reopen()

	loadedStats, err := s.store.LoadStats()
	s.Require().NoError(err)
	s.Require().Equal(uint64(25), loadedStats.TotalMatches)
	s.Require().Equal(uint64(25000), loadedStats.TotalVolume)

	loaded, err := s.store.LoadProviders(nil)
	s.Require().NoError(err)
	s.Require().Equal(providers[1].Utilization, loaded[1].Utilization)
}

func (s *StoreTestSuite) TestFlushAdvancesGeneration() {
	s.Require().Equal(uint64(0), s.store.Generation())
	s.Require().NoError(s.store.Flush())
	s.Require().NoError(s.store.Flush())
	s.Require().Equal(uint64(2), s.store.Generation())

	s.reopen()
	s.Require().Equal(uint64(2), s.store.Generation())
}

func (s *StoreTestSuite) TestClosedStoreRejectsWrites() {
	s.Require().NoError(s.store.Close())
	s.Require().NoError(s.store.Close())

	err := s.store.SaveStats(types.NewAuctionStats())
	s.Require().ErrorIs(err, types.ErrPersistence)
	s.Require().ErrorIs(s.store.Flush(), types.ErrPersistence)
	s.Require().Error(s.store.Ping())
	s.store = nil
}

func providerIDs(providers []types.ComputeProvider) []string {
	ids := make([]string, 0, len(providers))
	for _, p := range providers {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestCorruptRecordsFailLoad(t *testing.T) {
	tests := []struct {
		name  string
		key   []byte
		value []byte
		load  func(*Store) error
	}{
		{
			name:  "provider garbage",
			key:   ProviderKey("slp-us-east-1"),
			value: []byte{0xff, 0x00, 0x13},
			load: func(s *Store) error {
				_, err := s.LoadProviders(types.DefaultGenesis().Providers)
				return err
			},
		},
		{
			name:  "route garbage",
			key:   RouteKey("route-flash-1"),
			value: []byte("not cbor at all"),
			load: func(s *Store) error {
				_, err := s.LoadRoutes(types.DefaultGenesis().Routes)
				return err
			},
		},
		{
			name:  "stats garbage",
			key:   StatsKey,
			value: []byte{0x1b},
			load: func(s *Store) error {
				_, err := s.LoadStats()
				return err
			},
		},
		{
			name: "provider key mismatch",
			key:  ProviderKey("slp-other"),
			value: func() []byte {
				bz, err := types.MarshalProvider(types.DefaultGenesis().Providers[0])
				require.NoError(t, err)
				return bz
			}(),
			load: func(s *Store) error {
				_, err := s.LoadProviders(nil)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := dbm.NewMemDB()
			require.NoError(t, db.Set(tt.key, tt.value))

			st := NewStoreWithDB(db, DefaultConfig(), log.NewNopLogger())
			err := tt.load(st)
			require.ErrorIs(t, err, types.ErrCorruptState)
		})
	}
}

func TestCorruptStateSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	st, err := Open(dir, DefaultConfig(), log.NewNopLogger())
	require.NoError(t, err)
	_, err = st.LoadProviders(types.DefaultGenesis().Providers)
	require.NoError(t, err)
	require.NoError(t, st.db.SetSync(ProviderKey("slp-eu-west-1"), []byte("garbage")))
	require.NoError(t, st.Close())

	st, err = Open(dir, DefaultConfig(), log.NewNopLogger())
	require.NoError(t, err)
	defer st.Close()

	_, err = st.LoadProviders(types.DefaultGenesis().Providers)
	require.ErrorIs(t, err, types.ErrCorruptState)
}

func TestMemDBBackend(t *testing.T) {
	st, err := Open("", Config{Backend: string(dbm.MemDBBackend), SyncWrites: true}, log.NewNopLogger())
	require.NoError(t, err)
	defer st.Close()

	routes, err := st.LoadRoutes(types.DefaultGenesis().Routes)
	require.NoError(t, err)
	require.Len(t, routes, 2)
	require.NoError(t, st.Ping())
	require.NoError(t, st.Flush())
}

func TestKeyPrefixesAreDisjoint(t *testing.T) {
	require.Equal(t, byte(0x01), ProviderKey("a")[0])
	require.Equal(t, byte(0x02), RouteKey("a")[0])
	require.Equal(t, byte(0x03), StatsKey[0])
	require.Equal(t, "a", string(ProviderKey("a")[1:]))
}
