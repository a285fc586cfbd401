package keeper

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gix-network/gcam/x/clearing/types"
)

// Auction outcomes used as metric labels.
const (
	OutcomeMatched     = "matched"
	OutcomeNoProvider  = "no_provider"
	OutcomeNoRoute     = "no_route"
	OutcomeMalformed   = "malformed"
	OutcomePersistence = "persistence_error"
	OutcomeCancelled   = "cancelled"
)

// RunAuction clears job against the provider and route sets. priority is a
// hint that is logged and exported but does not influence matching.
//
// A successful match increments the provider utilization and the statistics,
// both persisted before returning. ErrNoProviderAvailable and
// ErrNoRouteAvailable are counted as unmatched auctions. ErrMalformedJob is
// returned without counting anything.
func (k *Keeper) RunAuction(ctx context.Context, job types.Job, priority uint8) (types.AuctionMatch, error) {
	ctx, span := k.tracer.Start(ctx, "clearing.RunAuction", trace.WithAttributes(
		attribute.String("job.id", job.JobID.String()),
		attribute.String("job.precision", job.Precision.String()),
		attribute.Int("job.priority", int(priority)),
	))
	defer span.End()

	start := time.Now()
	match, outcome, err := k.runAuction(ctx, job, priority)
	k.metrics.observeAuction(outcome, types.PriorityBand(priority), time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		return types.AuctionMatch{}, err
	}

	span.SetAttributes(
		attribute.String("match.provider", match.ProviderID),
		attribute.String("match.route", match.RouteID),
		attribute.Int64("match.price", int64(min(match.Price, uint64(1<<63-1)))),
	)
	return match, nil
}

func (k *Keeper) runAuction(ctx context.Context, job types.Job, priority uint8) (types.AuctionMatch, string, error) {
	if err := job.ValidateBasic(); err != nil {
		return types.AuctionMatch{}, OutcomeMalformed, err
	}
	if err := ctx.Err(); err != nil {
		return types.AuctionMatch{}, OutcomeCancelled, err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	provider := k.selectProvider(job)
	if provider == nil {
		return k.recordUnmatched(job, priority, OutcomeNoProvider,
			types.ErrNoProviderAvailable.Wrapf("precision %s", job.Precision))
	}

	price, err := k.params.Price(*provider, job)
	if err != nil {
		return types.AuctionMatch{}, OutcomeMalformed, err
	}

	route, ok := k.selectRoute()
	if !ok {
		return k.recordUnmatched(job, priority, OutcomeNoRoute,
			types.ErrNoRouteAvailable.Wrapf("job %s", job.JobID))
	}

	prevStats := k.stats.Copy()
	if err := k.stats.RecordMatch(job.Precision, route.LaneID, price); err != nil {
		return types.AuctionMatch{}, OutcomeMalformed, err
	}
	provider.Utilization++

	persistStart := time.Now()
	err = k.store.SaveAuction([]types.ComputeProvider{provider.Copy()}, k.stats.Copy())
	k.metrics.observePersist(time.Since(persistStart), err)
	if err != nil {
		provider.Utilization--
		k.stats = prevStats
		k.logger.Error("failed to persist auction; reverted",
			"job_id", job.JobID.String(),
			"provider", provider.ID,
			"error", err,
		)
		return types.AuctionMatch{}, OutcomePersistence, persistenceError(err)
	}

	match := types.AuctionMatch{
		JobID:      job.JobID,
		ProviderID: provider.ID,
		LaneID:     route.LaneID,
		RouteID:    route.ID,
		Price:      price,
		Route:      route.Hops,
	}

	k.metrics.observeMatch(*provider, job.Precision, route.LaneID, price)
	k.logger.Info("auction matched",
		"job_id", job.JobID.String(),
		"provider", provider.ID,
		"route", route.ID,
		"lane", route.LaneID,
		"price", price,
		"priority", types.PriorityBand(priority).String(),
	)
	return match, OutcomeMatched, nil
}

// recordUnmatched counts an auction that found no provider or route and
// returns cause, or ErrPersistence when the count could not be saved.
func (k *Keeper) recordUnmatched(job types.Job, priority uint8, outcome string, cause error) (types.AuctionMatch, string, error) {
	prevStats := k.stats.Copy()
	k.stats.RecordUnmatched()

	persistStart := time.Now()
	err := k.store.SaveStats(k.stats.Copy())
	k.metrics.observePersist(time.Since(persistStart), err)
	if err != nil {
		k.stats = prevStats
		k.logger.Error("failed to persist unmatched auction; reverted", "job_id", job.JobID.String(), "error", err)
		return types.AuctionMatch{}, OutcomePersistence, persistenceError(err)
	}

	k.logger.Info("auction unmatched",
		"job_id", job.JobID.String(),
		"precision", job.Precision.String(),
		"priority", types.PriorityBand(priority).String(),
		"reason", outcome,
	)
	return types.AuctionMatch{}, outcome, cause
}

// selectProvider returns the least utilized eligible provider, or nil.
// Must be called with mu held.
func (k *Keeper) selectProvider(job types.Job) *types.ComputeProvider {
	var best *types.ComputeProvider
	for _, id := range k.providerIDs {
		p := k.providers[id]
		if !p.CanHandle(job) {
			continue
		}
		// providerIDs is sorted, so strict comparison keeps the smallest ID on ties
		if best == nil || p.Utilization < best.Utilization {
			best = p
		}
	}
	return best
}

// selectRoute returns a copy of the best scoring route.
func (k *Keeper) selectRoute() (types.Route, bool) {
	k.routesMu.RLock()
	defer k.routesMu.RUnlock()

	if len(k.routes) == 0 {
		return types.Route{}, false
	}
	best := k.routes[0]
	for _, r := range k.routes[1:] {
		if k.params.BetterRoute(r, best) {
			best = r
		}
	}
	return best.Copy(), true
}
