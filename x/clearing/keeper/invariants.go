package keeper

import (
	"fmt"

	"github.com/gix-network/gcam/x/clearing/types"
)

// Invariant checks one property of the clearing state. It returns a message
// and whether the invariant is broken.
type Invariant func() (string, bool)

// AllInvariants runs all invariants of the clearing module
func AllInvariants(k *Keeper) Invariant {
	return func() (string, bool) {
		res, stop := StatsConservationInvariant(k)()
		if stop {
			return res, stop
		}
		res, stop = ProviderCapacityInvariant(k)()
		if stop {
			return res, stop
		}
		return RouteSetInvariant(k)()
	}
}

// StatsConservationInvariant checks that matches plus unmatched attempts
// equal total auctions and that each breakdown sums to total matches
func StatsConservationInvariant(k *Keeper) Invariant {
	return func() (string, bool) {
		stats := k.GetStats()
		if err := stats.Validate(); err != nil {
			return FormatInvariant("stats-conservation", err.Error(), true), true
		}
		return FormatInvariant("stats-conservation",
			fmt.Sprintf("auctions %d, matches %d, unmatched %d", stats.TotalAuctions, stats.TotalMatches, stats.TotalUnmatched),
			false), false
	}
}

// ProviderCapacityInvariant checks that no provider is utilized beyond its
// capacity
func ProviderCapacityInvariant(k *Keeper) Invariant {
	return func() (string, bool) {
		var (
			broken bool
			msg    string
		)
		for _, p := range k.GetProviders() {
			if p.Utilization > p.Capacity {
				broken = true
				msg += fmt.Sprintf("provider %s utilization %d exceeds capacity %d\n", p.ID, p.Utilization, p.Capacity)
			}
		}
		return FormatInvariant("provider-capacity", msg, broken), broken
	}
}

// RouteSetInvariant checks that every route has at least one hop and a
// unique ID
func RouteSetInvariant(k *Keeper) Invariant {
	return func() (string, bool) {
		var (
			broken bool
			msg    string
		)
		seen := make(map[string]struct{})
		for _, r := range k.GetRoutes() {
			if err := r.Validate(); err != nil {
				broken = true
				msg += err.Error() + "\n"
			}
			if _, dup := seen[r.ID]; dup {
				broken = true
				msg += fmt.Sprintf("duplicate route %s\n", r.ID)
			}
			seen[r.ID] = struct{}{}
		}
		return FormatInvariant("route-set", msg, broken), broken
	}
}

// FormatInvariant returns a standardized invariant message.
func FormatInvariant(name, msg string, broken bool) string {
	return fmt.Sprintf("%s: %s invariant\n%s\nbroken: %t\n", types.ModuleName, name, msg, broken)
}
