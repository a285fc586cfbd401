package keeper_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	keepertest "github.com/gix-network/gcam/testutil/keeper"
	"github.com/gix-network/gcam/x/clearing/keeper"
	"github.com/gix-network/gcam/x/clearing/types"
)

func TestProcessEnvelope(t *testing.T) {
	now := time.Unix(1_750_000_000, 0)
	k, _, _ := keepertest.ClearingKeeper(t, types.DefaultGenesis(), keeper.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	job := keepertest.Job(types.PrecisionINT8, 1024)
	env, err := types.NewEnvelopeFromJob(job, 130, now)
	require.NoError(t, err)
	env.Meta = env.Meta.WithTTL(time.Minute)

	match, err := k.ProcessEnvelope(ctx, env)
	require.NoError(t, err)
	require.Equal(t, job.JobID, match.JobID)
	require.Equal(t, uint64(600), match.Price) // 1200 * 1/2
	require.Equal(t, uint64(1), k.GetStats().TotalMatches)

	t.Run("expired envelopes are not counted", func(t *testing.T) {
		stale, err := types.NewEnvelopeFromJob(keepertest.Job(types.PrecisionBF16, 1), 0, now.Add(-time.Hour))
		require.NoError(t, err)
		stale.Meta = stale.Meta.WithTTL(time.Minute)

		_, err = k.ProcessEnvelope(ctx, stale)
		require.ErrorIs(t, err, types.ErrEnvelopeExpired)
		require.Equal(t, uint64(1), k.GetStats().TotalAuctions)
	})

	t.Run("wrong schema version", func(t *testing.T) {
		bad := env
		bad.Meta.SchemaVersion = 2
		_, err := k.ProcessEnvelope(ctx, bad)
		require.ErrorIs(t, err, types.ErrInvalidEnvelope)
	})

	t.Run("malformed payload", func(t *testing.T) {
		bad := env
		bad.Payload = []byte(`{"precision":"BF16"}`)
		_, err := k.ProcessEnvelope(ctx, bad)
		require.ErrorIs(t, err, types.ErrMalformedJob)
		require.Equal(t, uint64(1), k.GetStats().TotalAuctions)
	})
}
