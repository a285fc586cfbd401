package types

import (
	errorsmod "cosmossdk.io/errors"
	"github.com/google/uuid"
)

// NewMatchResponse converts a successful match to its wire form.
func NewMatchResponse(match AuctionMatch) *RunAuctionResponse {
	return &RunAuctionResponse{
		JobId:      match.JobID.String(),
		ProviderId: match.ProviderID,
		LaneId:     uint32(match.LaneID),
		Price:      match.Price,
		Route:      append([]string(nil), match.Route...),
		RouteId:    match.RouteID,
		Success:    true,
	}
}

// NewFailureResponse reports err in-band. jobID is uuid.Nil when the job
// could not be decoded.
func NewFailureResponse(jobID uuid.UUID, err error) *RunAuctionResponse {
	codespace, code, log := errorsmod.ABCIInfo(err, false)
	resp := &RunAuctionResponse{
		Success:   false,
		Error:     log,
		Code:      code,
		Codespace: codespace,
	}
	if jobID != uuid.Nil {
		resp.JobId = jobID.String()
	}
	return resp
}

// NewStatsResponse converts statistics to their wire form.
func NewStatsResponse(stats AuctionStats) *GetAuctionStatsResponse {
	resp := &GetAuctionStatsResponse{
		TotalAuctions:      stats.TotalAuctions,
		TotalMatches:       stats.TotalMatches,
		TotalVolume:        stats.TotalVolume,
		TotalUnmatched:     stats.TotalUnmatched,
		MatchesByPrecision: make(map[string]uint64, len(stats.MatchesByPrecision)),
		MatchesByLane:      make(map[uint32]uint64, len(stats.MatchesByLane)),
	}
	for precision, n := range stats.MatchesByPrecision {
		resp.MatchesByPrecision[precision.String()] = n
	}
	for lane, n := range stats.MatchesByLane {
		resp.MatchesByLane[uint32(lane)] = n
	}
	return resp
}

// NewProviderInfo converts a provider to its wire form.
func NewProviderInfo(p ComputeProvider) *ProviderInfo {
	precisions := make([]string, 0, len(p.SupportedPrecisions))
	for _, precision := range p.SupportedPrecisions {
		precisions = append(precisions, precision.String())
	}
	return &ProviderInfo{
		Id:                  p.ID,
		Region:              p.Region,
		SupportedPrecisions: precisions,
		Capacity:            p.Capacity,
		Utilization:         p.Utilization,
		BasePrice:           p.BasePrice,
	}
}

// NewRouteInfo converts a route to its wire form.
func NewRouteInfo(r Route) *RouteInfo {
	return &RouteInfo{
		Id:        r.ID,
		LaneId:    uint32(r.LaneID),
		Hops:      append([]string(nil), r.Hops...),
		LatencyMs: r.LatencyMs,
		Cost:      r.Cost,
	}
}
