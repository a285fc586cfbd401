package types

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestPrice(t *testing.T) {
	params := DefaultParams()
	provider := ComputeProvider{ID: "p", BasePrice: 1200, Capacity: 1}

	tests := []struct {
		name      string
		precision Precision
		ctxLen    uint32
		want      uint64
	}{
		{"bf16 one unit", PrecisionBF16, 1, 1200},
		{"bf16 exact unit", PrecisionBF16, 1024, 1200},
		{"bf16 rounds up", PrecisionBF16, 1025, 2400},
		{"fp8", PrecisionFP8, 1024, 1000},
		{"e5m2", PrecisionE5M2, 2048, 1600},
		{"int8", PrecisionINT8, 4096, 2400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := Job{JobID: uuid.New(), Precision: tt.precision, ContextLength: tt.ctxLen}
			got, err := params.Price(provider, job)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestPriceTruncates(t *testing.T) {
	params := DefaultParams()
	job := Job{JobID: uuid.New(), Precision: PrecisionFP8, ContextLength: 1}

	got, err := params.Price(ComputeProvider{ID: "p", BasePrice: 7}, job)
	require.NoError(t, err)
	require.Equal(t, uint64(5), got) // 7 * 5/6 = 5.83
}

func TestPriceOverflow(t *testing.T) {
	params := DefaultParams()
	job := Job{JobID: uuid.New(), Precision: PrecisionBF16, ContextLength: math.MaxUint32}

	_, err := params.Price(ComputeProvider{ID: "p", BasePrice: math.MaxUint64}, job)
	require.ErrorIs(t, err, ErrMalformedJob)
}

func TestContextUnits(t *testing.T) {
	params := DefaultParams()
	require.Equal(t, uint64(1), params.ContextUnits(1))
	require.Equal(t, uint64(1), params.ContextUnits(1024))
	require.Equal(t, uint64(2), params.ContextUnits(1025))
	require.Equal(t, uint64(4194304), params.ContextUnits(math.MaxUint32))
}

func TestRouteSelectionOrder(t *testing.T) {
	params := DefaultParams()
	flash := Route{ID: "route-flash-1", LatencyMs: 50, Cost: 100}
	deep := Route{ID: "route-deep-1", LatencyMs: 150, Cost: 80}

	require.True(t, params.BetterRoute(flash, deep))
	require.False(t, params.BetterRoute(deep, flash))

	twin := Route{ID: "route-a", LatencyMs: 50, Cost: 100}
	require.True(t, params.BetterRoute(twin, flash), "equal scores fall back to ID order")
	require.False(t, params.BetterRoute(flash, twin))
}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())

	p := DefaultParams()
	p.ReferenceLength = 0
	require.Error(t, p.Validate())

	p = DefaultParams()
	p.CostWeight = DefaultCostWeight.Neg()
	require.Error(t, p.Validate())
}
