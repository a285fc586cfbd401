package keeper

import (
	"context"
	"errors"

	"github.com/gix-network/gcam/x/clearing/types"
)

// ProcessEnvelope validates env against the current time and runs an auction
// for its job with the envelope priority. Invalid or expired envelopes are
// rejected without being counted.
func (k *Keeper) ProcessEnvelope(ctx context.Context, env types.Envelope) (types.AuctionMatch, error) {
	if err := env.Validate(k.now()); err != nil {
		k.metrics.EnvelopesRejected.WithLabelValues(envelopeRejectReason(err)).Inc()
		return types.AuctionMatch{}, err
	}

	job, err := env.Job()
	if err != nil {
		k.metrics.EnvelopesRejected.WithLabelValues(envelopeRejectReason(err)).Inc()
		return types.AuctionMatch{}, err
	}

	k.logger.Debug("processing envelope",
		"job_id", job.JobID.String(),
		"source_slp", env.Meta.SourceSLP,
		"target_lane", env.Meta.TargetLane,
	)
	return k.RunAuction(ctx, job, env.Meta.Priority)
}

func envelopeRejectReason(err error) string {
	switch {
	case errors.Is(err, types.ErrEnvelopeExpired):
		return "expired"
	case errors.Is(err, types.ErrMalformedJob):
		return "malformed_job"
	default:
		return "invalid"
	}
}
