package types

import (
	"cosmossdk.io/math"
)

// ContextUnits returns ceil(contextLength / ReferenceLength).
func (p Params) ContextUnits(contextLength uint32) uint64 {
	ref := uint64(p.ReferenceLength)
	return (uint64(contextLength) + ref - 1) / ref
}

// Price computes the clearing price of job on provider:
//
//	BasePrice * multiplier(precision) * ceil(ContextLength / ReferenceLength)
//
// The multiplier is applied as an exact fraction and the result truncated.
func (p Params) Price(provider ComputeProvider, job Job) (uint64, error) {
	if !job.Precision.IsValid() {
		return 0, ErrMalformedJob.Wrapf("unsupported precision %s", job.Precision)
	}

	price := math.NewIntFromUint64(provider.BasePrice).
		Mul(math.NewIntFromUint64(p.ContextUnits(job.ContextLength))).
		MulRaw(job.Precision.multiplierNumerator()).
		QuoRaw(multiplierDenominator)

	if !price.IsUint64() {
		return 0, ErrMalformedJob.Wrapf("price for provider %s overflows", provider.ID)
	}
	return price.Uint64(), nil
}

// RouteScore returns LatencyWeight*LatencyMs + CostWeight*Cost. Lower is better.
func (p Params) RouteScore(route Route) math.LegacyDec {
	latency := p.LatencyWeight.MulInt(math.NewIntFromUint64(route.LatencyMs))
	cost := p.CostWeight.MulInt(math.NewIntFromUint64(route.Cost))
	return latency.Add(cost)
}

// BetterRoute reports whether a should be preferred over b. Equal scores fall
// back to the lexically smaller route ID.
func (p Params) BetterRoute(a, b Route) bool {
	sa, sb := p.RouteScore(a), p.RouteScore(b)
	if !sa.Equal(sb) {
		return sa.LT(sb)
	}
	return a.ID < b.ID
}
