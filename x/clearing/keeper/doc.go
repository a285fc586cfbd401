// Package keeper implements the GCAM clearing engine.
//
// The clearing engine matches inference jobs to compute providers, prices
// them and assigns a network route. Every outcome that changes state is
// written through to the state store before the caller sees it, so the
// in-memory view and the database never diverge.
//
// # Core Functionality
//
// Matching: eligible providers support the job precision and have spare
// capacity. The least utilized provider wins; ties go to the smallest
// provider ID.
//
// Pricing: BasePrice scaled by the precision multiplier (BF16 1, FP8 5/6,
// E5M2 4/6, INT8 1/2) and by the number of started reference-length context
// units. The result is truncated to an integer.
//
// Route Selection: the route with the lowest weighted latency plus cost wins;
// ties go to the smallest route ID. Routes are read-only after startup.
//
// Statistics: total auctions, matches, unmatched attempts, volume and
// per-precision and per-lane match counts. Malformed jobs are rejected before
// anything is counted.
//
// # Concurrency
//
// One RWMutex guards providers and statistics and is held across the store
// write, so persisted order equals in-memory order. Routes have their own
// RWMutex. A failed store write reverts the in-memory mutation and returns
// ErrPersistence.
//
// # Usage Patterns
//
// Running an auction:
//
//	match, err := keeper.RunAuction(ctx, job, priority)
//
// Processing an envelope:
//
//	match, err := keeper.ProcessEnvelope(ctx, envelope)
//
// Reading statistics:
//
//	stats := keeper.GetStats()
//
// # Metrics
//
// Prometheus metrics are registered under the gix_gcam namespace: auction
// outcomes, clearing prices, volume, provider utilization and store latency.
package keeper
