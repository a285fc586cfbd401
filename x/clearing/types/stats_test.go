package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuctionStatsRecord(t *testing.T) {
	stats := NewAuctionStats()

	require.NoError(t, stats.RecordMatch(PrecisionBF16, LaneFlash, 100))
	require.NoError(t, stats.RecordMatch(PrecisionINT8, LaneDeep, 50))
	stats.RecordUnmatched()

	require.Equal(t, uint64(3), stats.TotalAuctions)
	require.Equal(t, uint64(2), stats.TotalMatches)
	require.Equal(t, uint64(1), stats.TotalUnmatched)
	require.Equal(t, uint64(150), stats.TotalVolume)
	require.Equal(t, uint64(1), stats.MatchesByPrecision[PrecisionBF16])
	require.Equal(t, uint64(1), stats.MatchesByLane[LaneDeep])
	require.NoError(t, stats.Validate())
}

func TestAuctionStatsVolumeOverflow(t *testing.T) {
	stats := NewAuctionStats()
	stats.TotalVolume = math.MaxUint64 - 1
	before := stats.Copy()

	err := stats.RecordMatch(PrecisionBF16, LaneFlash, 2)
	require.ErrorIs(t, err, ErrMalformedJob)
	require.Equal(t, before, stats)
}

func TestAuctionStatsCopyIsDeep(t *testing.T) {
	stats := NewAuctionStats()
	require.NoError(t, stats.RecordMatch(PrecisionFP8, LaneFlash, 10))

	cp := stats.Copy()
	cp.MatchesByPrecision[PrecisionFP8] = 99
	cp.MatchesByLane[LaneDeep] = 7

	require.Equal(t, uint64(1), stats.MatchesByPrecision[PrecisionFP8])
	require.NotContains(t, stats.MatchesByLane, LaneDeep)
}

func TestAuctionStatsValidate(t *testing.T) {
	stats := AuctionStats{TotalAuctions: 1, TotalMatches: 2}
	require.Error(t, stats.Validate())

	stats = AuctionStats{TotalAuctions: 2, TotalMatches: 1}
	require.Error(t, stats.Validate(), "unmatched must make up the difference")

	stats = AuctionStats{TotalAuctions: 1, TotalMatches: 1, MatchesByLane: map[uint8]uint64{0: 1}}
	require.Error(t, stats.Validate(), "precision breakdown missing")
}
