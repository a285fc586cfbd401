package keeper_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"cosmossdk.io/log"
	"github.com/google/uuid"
	"pgregory.net/rapid"

	"github.com/gix-network/gcam/x/clearing/keeper"
	"github.com/gix-network/gcam/x/clearing/store"
	"github.com/gix-network/gcam/x/clearing/types"
)

func genGenesis(t *rapid.T) types.GenesisState {
	n := rapid.IntRange(1, 5).Draw(t, "providers")
	gs := types.GenesisState{}
	for i := 0; i < n; i++ {
		capacity := rapid.Uint32Range(0, 8).Draw(t, fmt.Sprintf("capacity%d", i))
		precisions := rapid.SliceOfNDistinct(
			rapid.SampledFrom(types.AllPrecisions()), 1, 4,
			func(p types.Precision) types.Precision { return p },
		).Draw(t, fmt.Sprintf("precisions%d", i))
		gs.Providers = append(gs.Providers, types.ComputeProvider{
			ID:                  fmt.Sprintf("slp-%d", i),
			Region:              "US",
			SupportedPrecisions: precisions,
			Capacity:            capacity,
			Utilization:         rapid.Uint32Range(0, capacity).Draw(t, fmt.Sprintf("utilization%d", i)),
			BasePrice:           rapid.Uint64Range(1, 10_000).Draw(t, fmt.Sprintf("price%d", i)),
		})
	}

	routes := rapid.IntRange(0, 3).Draw(t, "routes")
	for i := 0; i < routes; i++ {
		gs.Routes = append(gs.Routes, types.Route{
			ID:        fmt.Sprintf("route-%d", i),
			LaneID:    rapid.Uint8Range(0, 3).Draw(t, fmt.Sprintf("lane%d", i)),
			Hops:      []string{"a", "b"},
			LatencyMs: rapid.Uint64Range(0, 500).Draw(t, fmt.Sprintf("latency%d", i)),
			Cost:      rapid.Uint64Range(0, 500).Draw(t, fmt.Sprintf("cost%d", i)),
		})
	}
	return gs
}

func genJobs(t *rapid.T) []types.Job {
	n := rapid.IntRange(1, 40).Draw(t, "jobs")
	jobs := make([]types.Job, n)
	for i := range jobs {
		jobs[i] = types.Job{
			JobID:         uuid.New(),
			Precision:     rapid.SampledFrom(types.AllPrecisions()).Draw(t, fmt.Sprintf("precision%d", i)),
			ContextLength: rapid.Uint32Range(1, 100_000).Draw(t, fmt.Sprintf("ctx%d", i)),
		}
	}
	return jobs
}

func memKeeper(t *rapid.T, gs types.GenesisState) *keeper.Keeper {
	st, err := store.Open("", store.Config{Backend: "memdb"}, log.NewNopLogger())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	k, err := keeper.NewKeeper(st, types.DefaultParams(), gs, log.NewNopLogger())
	if err != nil {
		t.Fatalf("new keeper: %v", err)
	}
	return k
}

// TestConservationProperties checks matches plus unmatched attempts equal
// auctions and volume equals the sum of returned prices
func TestConservationProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		k := memKeeper(t, genGenesis(t))

		var volume, matches, unmatched uint64
		for _, job := range genJobs(t) {
			match, err := k.RunAuction(context.Background(), job, 0)
			switch {
			case err == nil:
				matches++
				volume += match.Price
			case errors.Is(err, types.ErrNoProviderAvailable), errors.Is(err, types.ErrNoRouteAvailable):
				unmatched++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}

		stats := k.GetStats()
		if stats.TotalMatches != matches || stats.TotalUnmatched != unmatched {
			t.Fatalf("stats %+v, observed %d matches %d unmatched", stats, matches, unmatched)
		}
		if stats.TotalVolume != volume {
			t.Fatalf("volume %d, sum of prices %d", stats.TotalVolume, volume)
		}
		if msg, broken := keeper.AllInvariants(k)(); broken {
			t.Fatal(msg)
		}
	})
}

// TestCapacityProperties checks utilization never exceeds capacity and never
// decreases
func TestCapacityProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		k := memKeeper(t, genGenesis(t))

		prev := make(map[string]uint32)
		for _, p := range k.GetProviders() {
			prev[p.ID] = p.Utilization
		}

		for _, job := range genJobs(t) {
			_, _ = k.RunAuction(context.Background(), job, 0)
			for _, p := range k.GetProviders() {
				if p.Utilization > p.Capacity {
					t.Fatalf("provider %s utilization %d exceeds capacity %d", p.ID, p.Utilization, p.Capacity)
				}
				if p.Utilization < prev[p.ID] {
					t.Fatalf("provider %s utilization decreased", p.ID)
				}
				prev[p.ID] = p.Utilization
			}
		}
	})
}

// TestDeterminismProperties checks identical state and input give identical
// results
func TestDeterminismProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		gs := genGenesis(t)
		jobs := genJobs(t)
		a := memKeeper(t, gs)
		b := memKeeper(t, gs)

		for _, job := range jobs {
			ma, errA := a.RunAuction(context.Background(), job, 0)
			mb, errB := b.RunAuction(context.Background(), job, 255)
			if (errA == nil) != (errB == nil) {
				t.Fatalf("divergent errors: %v vs %v", errA, errB)
			}
			if errA == nil && fmt.Sprint(ma) != fmt.Sprint(mb) {
				t.Fatalf("divergent matches: %+v vs %+v", ma, mb)
			}
		}
		if fmt.Sprint(a.GetStats()) != fmt.Sprint(b.GetStats()) {
			t.Fatalf("divergent stats")
		}
	})
}
