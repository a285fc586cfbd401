package keeper

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gix-network/gcam/x/clearing/types"
)

// ClearingMetrics holds all Prometheus metrics for the clearing engine
type ClearingMetrics struct {
	// Auction metrics
	AuctionsTotal      *prometheus.CounterVec
	AuctionDuration    prometheus.Histogram
	MatchesByPrecision *prometheus.CounterVec
	MatchesByLane      *prometheus.CounterVec
	EnvelopesRejected  *prometheus.CounterVec

	// Pricing metrics
	ClearingPrice *prometheus.GaugeVec
	PriceSummary  prometheus.Histogram
	VolumeTotal   prometheus.Counter

	// Provider metrics
	ProviderUtilization *prometheus.GaugeVec
	ProviderCapacity    *prometheus.GaugeVec

	// Store metrics
	PersistLatency  prometheus.Histogram
	PersistFailures prometheus.Counter
}

var (
	clearingMetricsOnce sync.Once
	clearingMetrics     *ClearingMetrics
)

// NewClearingMetrics creates and registers clearing metrics (singleton pattern)
func NewClearingMetrics() *ClearingMetrics {
	clearingMetricsOnce.Do(func() {
		clearingMetrics = &ClearingMetrics{
			AuctionsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "gix",
					Subsystem: "gcam",
					Name:      "auctions_total",
					Help:      "Total auctions by outcome and priority band",
				},
				[]string{"outcome", "priority"},
			),
			AuctionDuration: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Namespace: "gix",
					Subsystem: "gcam",
					Name:      "auction_duration_seconds",
					Help:      "Time to clear one auction including the store write",
					Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 14),
				},
			),
			MatchesByPrecision: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "gix",
					Subsystem: "gcam",
					Name:      "matches_by_precision_total",
					Help:      "Matched auctions per precision",
				},
				[]string{"precision"},
			),
			MatchesByLane: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "gix",
					Subsystem: "gcam",
					Name:      "matches_by_lane_total",
					Help:      "Matched auctions per lane",
				},
				[]string{"lane"},
			),
			EnvelopesRejected: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "gix",
					Subsystem: "gcam",
					Name:      "envelopes_rejected_total",
					Help:      "Envelopes rejected before clearing",
				},
				[]string{"reason"},
			),
			ClearingPrice: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "gix",
					Subsystem: "gcam",
					Name:      "clearing_price",
					Help:      "Last clearing price per provider",
				},
				[]string{"provider"},
			),
			PriceSummary: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Namespace: "gix",
					Subsystem: "gcam",
					Name:      "clearing_price_distribution",
					Help:      "Distribution of clearing prices",
					Buckets:   prometheus.ExponentialBuckets(100, 2, 16),
				},
			),
			VolumeTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "gix",
					Subsystem: "gcam",
					Name:      "volume_total",
					Help:      "Sum of all clearing prices",
				},
			),
			ProviderUtilization: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "gix",
					Subsystem: "gcam",
					Name:      "provider_utilization",
					Help:      "Jobs matched to each provider",
				},
				[]string{"provider", "region"},
			),
			ProviderCapacity: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "gix",
					Subsystem: "gcam",
					Name:      "provider_capacity",
					Help:      "Job capacity of each provider",
				},
				[]string{"provider", "region"},
			),
			PersistLatency: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Namespace: "gix",
					Subsystem: "gcam",
					Name:      "persist_duration_seconds",
					Help:      "State store write latency",
					Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 14),
				},
			),
			PersistFailures: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "gix",
					Subsystem: "gcam",
					Name:      "persist_failures_total",
					Help:      "State store writes that failed and were reverted",
				},
			),
		}
	})
	return clearingMetrics
}

func (m *ClearingMetrics) observeAuction(outcome string, band types.JobPriority, elapsed time.Duration) {
	m.AuctionsTotal.WithLabelValues(outcome, band.String()).Inc()
	if outcome != OutcomeMalformed && outcome != OutcomeCancelled {
		m.AuctionDuration.Observe(elapsed.Seconds())
	}
}

func (m *ClearingMetrics) observeMatch(p types.ComputeProvider, precision types.Precision, lane uint8, price uint64) {
	m.MatchesByPrecision.WithLabelValues(precision.String()).Inc()
	m.MatchesByLane.WithLabelValues(strconv.Itoa(int(lane))).Inc()
	m.ClearingPrice.WithLabelValues(p.ID).Set(float64(price))
	m.PriceSummary.Observe(float64(price))
	m.VolumeTotal.Add(float64(price))
	m.observeProvider(p)
}

func (m *ClearingMetrics) observeProvider(p types.ComputeProvider) {
	m.ProviderUtilization.WithLabelValues(p.ID, p.Region).Set(float64(p.Utilization))
	m.ProviderCapacity.WithLabelValues(p.ID, p.Region).Set(float64(p.Capacity))
}

func (m *ClearingMetrics) observePersist(elapsed time.Duration, err error) {
	m.PersistLatency.Observe(elapsed.Seconds())
	if err != nil {
		m.PersistFailures.Inc()
	}
}
