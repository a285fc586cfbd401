package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodecDeterministic(t *testing.T) {
	stats := NewAuctionStats()
	require.NoError(t, stats.RecordMatch(PrecisionINT8, LaneDeep, 3))
	require.NoError(t, stats.RecordMatch(PrecisionBF16, LaneFlash, 4))

	a, err := MarshalStats(stats)
	require.NoError(t, err)
	b, err := MarshalStats(stats.Copy())
	require.NoError(t, err)
	require.Equal(t, a, b)

	decoded, err := UnmarshalStats(a)
	require.NoError(t, err)
	require.Equal(t, stats, decoded)
}

func TestCodecRejectsCorruptRecords(t *testing.T) {
	_, err := UnmarshalProvider([]byte{0xff, 0x00, 0x13})
	require.Error(t, err)

	_, err = UnmarshalRoute([]byte("garbage"))
	require.Error(t, err)

	valid, err := MarshalProvider(DefaultGenesis().Providers[0])
	require.NoError(t, err)
	_, err = UnmarshalProvider(append(valid, 0x00))
	require.Error(t, err, "trailing bytes")

	inconsistent, err := MarshalStats(AuctionStats{TotalAuctions: 1, TotalMatches: 5})
	require.NoError(t, err)
	_, err = UnmarshalStats(inconsistent)
	require.Error(t, err)

	overfull := DefaultGenesis().Providers[0]
	overfull.Utilization = overfull.Capacity + 1
	bz, err := MarshalProvider(overfull)
	require.NoError(t, err)
	_, err = UnmarshalProvider(bz)
	require.Error(t, err)
}
