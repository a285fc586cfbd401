package keeper_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	keepertest "github.com/gix-network/gcam/testutil/keeper"
	"github.com/gix-network/gcam/x/clearing/types"
)

func TestConcurrentAuctionsRespectCapacity(t *testing.T) {
	const (
		capacity = 20
		workers  = 60
	)
	k, st, dir := keepertest.ClearingKeeper(t, keepertest.SingleProviderGenesis(capacity))

	var (
		wg        sync.WaitGroup
		matched   atomic.Int64
		unmatched atomic.Int64
		other     = make(chan error, workers)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := k.RunAuction(context.Background(), keepertest.Job(types.PrecisionBF16, 1024), 0)
			switch {
			case err == nil:
				matched.Add(1)
			case errors.Is(err, types.ErrNoProviderAvailable):
				unmatched.Add(1)
			default:
				other <- err
			}
		}()
	}

	// readers run alongside writers
	var (
		readers      sync.WaitGroup
		invalidReads atomic.Int64
	)
	for i := 0; i < 4; i++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for j := 0; j < 50; j++ {
				if err := k.GetStats().Validate(); err != nil {
					invalidReads.Add(1)
				}
			}
		}()
	}

	wg.Wait()
	readers.Wait()
	close(other)
	for err := range other {
		require.NoError(t, err)
	}

	require.Zero(t, invalidReads.Load(), "readers observed a partially applied auction")
	require.Equal(t, int64(capacity), matched.Load())
	require.Equal(t, int64(workers-capacity), unmatched.Load())

	stats := k.GetStats()
	require.Equal(t, uint64(workers), stats.TotalAuctions)
	require.Equal(t, uint64(capacity), stats.TotalMatches)
	require.Equal(t, uint64(capacity*100), stats.TotalVolume)

	require.NoError(t, st.Close())
	reopened, _ := keepertest.OpenClearingKeeper(t, dir, keepertest.SingleProviderGenesis(capacity))
	require.Equal(t, stats, reopened.GetStats())
}
