package types

import (
	proto "github.com/golang/protobuf/proto"
)

// Wire messages of gix.clearing.v1. The field tags mirror
// proto/gix/clearing/v1/clearing.proto.

// RunAuctionRequest carries a JSON encoded Job and a priority hint (0-255).
type RunAuctionRequest struct {
	Job      []byte `protobuf:"bytes,1,opt,name=job,proto3" json:"job,omitempty"`
	Priority uint32 `protobuf:"varint,2,opt,name=priority,proto3" json:"priority,omitempty"`
}

func (m *RunAuctionRequest) Reset()         { *m = RunAuctionRequest{} }
func (m *RunAuctionRequest) String() string { return proto.CompactTextString(m) }
func (*RunAuctionRequest) ProtoMessage()    {}

func (m *RunAuctionRequest) GetJob() []byte {
	if m != nil {
		return m.Job
	}
	return nil
}

func (m *RunAuctionRequest) GetPriority() uint32 {
	if m != nil {
		return m.Priority
	}
	return 0
}

// SubmitEnvelopeRequest carries a JSON encoded Envelope.
type SubmitEnvelopeRequest struct {
	Envelope []byte `protobuf:"bytes,1,opt,name=envelope,proto3" json:"envelope,omitempty"`
}

func (m *SubmitEnvelopeRequest) Reset()         { *m = SubmitEnvelopeRequest{} }
func (m *SubmitEnvelopeRequest) String() string { return proto.CompactTextString(m) }
func (*SubmitEnvelopeRequest) ProtoMessage()    {}

func (m *SubmitEnvelopeRequest) GetEnvelope() []byte {
	if m != nil {
		return m.Envelope
	}
	return nil
}

// RunAuctionResponse reports an auction outcome. Failures are in-band:
// Success is false and Error, Code and Codespace describe the failure.
type RunAuctionResponse struct {
	JobId      string   `protobuf:"bytes,1,opt,name=job_id,json=jobId,proto3" json:"job_id,omitempty"`
	ProviderId string   `protobuf:"bytes,2,opt,name=provider_id,json=providerId,proto3" json:"provider_id,omitempty"`
	LaneId     uint32   `protobuf:"varint,3,opt,name=lane_id,json=laneId,proto3" json:"lane_id,omitempty"`
	Price      uint64   `protobuf:"varint,4,opt,name=price,proto3" json:"price,omitempty"`
	Route      []string `protobuf:"bytes,5,rep,name=route,proto3" json:"route,omitempty"`
	Success    bool     `protobuf:"varint,6,opt,name=success,proto3" json:"success"`
	Error      string   `protobuf:"bytes,7,opt,name=error,proto3" json:"error,omitempty"`
	Code       uint32   `protobuf:"varint,8,opt,name=code,proto3" json:"code,omitempty"`
	Codespace  string   `protobuf:"bytes,9,opt,name=codespace,proto3" json:"codespace,omitempty"`
	RouteId    string   `protobuf:"bytes,10,opt,name=route_id,json=routeId,proto3" json:"route_id,omitempty"`
}

func (m *RunAuctionResponse) Reset()         { *m = RunAuctionResponse{} }
func (m *RunAuctionResponse) String() string { return proto.CompactTextString(m) }
func (*RunAuctionResponse) ProtoMessage()    {}

func (m *RunAuctionResponse) GetJobId() string {
	if m != nil {
		return m.JobId
	}
	return ""
}

func (m *RunAuctionResponse) GetProviderId() string {
	if m != nil {
		return m.ProviderId
	}
	return ""
}

func (m *RunAuctionResponse) GetLaneId() uint32 {
	if m != nil {
		return m.LaneId
	}
	return 0
}

func (m *RunAuctionResponse) GetPrice() uint64 {
	if m != nil {
		return m.Price
	}
	return 0
}

func (m *RunAuctionResponse) GetRoute() []string {
	if m != nil {
		return m.Route
	}
	return nil
}

func (m *RunAuctionResponse) GetSuccess() bool {
	if m != nil {
		return m.Success
	}
	return false
}

func (m *RunAuctionResponse) GetError() string {
	if m != nil {
		return m.Error
	}
	return ""
}

func (m *RunAuctionResponse) GetCode() uint32 {
	if m != nil {
		return m.Code
	}
	return 0
}

func (m *RunAuctionResponse) GetCodespace() string {
	if m != nil {
		return m.Codespace
	}
	return ""
}

func (m *RunAuctionResponse) GetRouteId() string {
	if m != nil {
		return m.RouteId
	}
	return ""
}

type GetAuctionStatsRequest struct{}

func (m *GetAuctionStatsRequest) Reset()         { *m = GetAuctionStatsRequest{} }
func (m *GetAuctionStatsRequest) String() string { return proto.CompactTextString(m) }
func (*GetAuctionStatsRequest) ProtoMessage()    {}

type GetAuctionStatsResponse struct {
	TotalAuctions      uint64            `protobuf:"varint,1,opt,name=total_auctions,json=totalAuctions,proto3" json:"total_auctions"`
	TotalMatches       uint64            `protobuf:"varint,2,opt,name=total_matches,json=totalMatches,proto3" json:"total_matches"`
	TotalVolume        uint64            `protobuf:"varint,3,opt,name=total_volume,json=totalVolume,proto3" json:"total_volume"`
	MatchesByPrecision map[string]uint64 `protobuf:"bytes,4,rep,name=matches_by_precision,json=matchesByPrecision,proto3" json:"matches_by_precision,omitempty" protobuf_key:"bytes,1,opt,name=key,proto3" protobuf_val:"varint,2,opt,name=value,proto3"`
	MatchesByLane      map[uint32]uint64 `protobuf:"bytes,5,rep,name=matches_by_lane,json=matchesByLane,proto3" json:"matches_by_lane,omitempty" protobuf_key:"varint,1,opt,name=key,proto3" protobuf_val:"varint,2,opt,name=value,proto3"`
	TotalUnmatched     uint64            `protobuf:"varint,6,opt,name=total_unmatched,json=totalUnmatched,proto3" json:"total_unmatched"`
}

func (m *GetAuctionStatsResponse) Reset()         { *m = GetAuctionStatsResponse{} }
func (m *GetAuctionStatsResponse) String() string { return proto.CompactTextString(m) }
func (*GetAuctionStatsResponse) ProtoMessage()    {}

func (m *GetAuctionStatsResponse) GetTotalAuctions() uint64 {
	if m != nil {
		return m.TotalAuctions
	}
	return 0
}

func (m *GetAuctionStatsResponse) GetTotalMatches() uint64 {
	if m != nil {
		return m.TotalMatches
	}
	return 0
}

func (m *GetAuctionStatsResponse) GetTotalVolume() uint64 {
	if m != nil {
		return m.TotalVolume
	}
	return 0
}

func (m *GetAuctionStatsResponse) GetMatchesByPrecision() map[string]uint64 {
	if m != nil {
		return m.MatchesByPrecision
	}
	return nil
}

func (m *GetAuctionStatsResponse) GetMatchesByLane() map[uint32]uint64 {
	if m != nil {
		return m.MatchesByLane
	}
	return nil
}

func (m *GetAuctionStatsResponse) GetTotalUnmatched() uint64 {
	if m != nil {
		return m.TotalUnmatched
	}
	return 0
}

// ProviderInfo is the wire view of a ComputeProvider.
type ProviderInfo struct {
	Id                  string   `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	Region              string   `protobuf:"bytes,2,opt,name=region,proto3" json:"region,omitempty"`
	SupportedPrecisions []string `protobuf:"bytes,3,rep,name=supported_precisions,json=supportedPrecisions,proto3" json:"supported_precisions,omitempty"`
	Capacity            uint32   `protobuf:"varint,4,opt,name=capacity,proto3" json:"capacity"`
	Utilization         uint32   `protobuf:"varint,5,opt,name=utilization,proto3" json:"utilization"`
	BasePrice           uint64   `protobuf:"varint,6,opt,name=base_price,json=basePrice,proto3" json:"base_price"`
}

func (m *ProviderInfo) Reset()         { *m = ProviderInfo{} }
func (m *ProviderInfo) String() string { return proto.CompactTextString(m) }
func (*ProviderInfo) ProtoMessage()    {}

type ListProvidersRequest struct{}

func (m *ListProvidersRequest) Reset()         { *m = ListProvidersRequest{} }
func (m *ListProvidersRequest) String() string { return proto.CompactTextString(m) }
func (*ListProvidersRequest) ProtoMessage()    {}

type ListProvidersResponse struct {
	Providers []*ProviderInfo `protobuf:"bytes,1,rep,name=providers,proto3" json:"providers"`
}

func (m *ListProvidersResponse) Reset()         { *m = ListProvidersResponse{} }
func (m *ListProvidersResponse) String() string { return proto.CompactTextString(m) }
func (*ListProvidersResponse) ProtoMessage()    {}

func (m *ListProvidersResponse) GetProviders() []*ProviderInfo {
	if m != nil {
		return m.Providers
	}
	return nil
}

// RouteInfo is the wire view of a Route.
type RouteInfo struct {
	Id        string   `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	LaneId    uint32   `protobuf:"varint,2,opt,name=lane_id,json=laneId,proto3" json:"lane_id"`
	Hops      []string `protobuf:"bytes,3,rep,name=hops,proto3" json:"hops,omitempty"`
	LatencyMs uint64   `protobuf:"varint,4,opt,name=latency_ms,json=latencyMs,proto3" json:"latency_ms"`
	Cost      uint64   `protobuf:"varint,5,opt,name=cost,proto3" json:"cost"`
}

func (m *RouteInfo) Reset()         { *m = RouteInfo{} }
func (m *RouteInfo) String() string { return proto.CompactTextString(m) }
func (*RouteInfo) ProtoMessage()    {}

type ListRoutesRequest struct{}

func (m *ListRoutesRequest) Reset()         { *m = ListRoutesRequest{} }
func (m *ListRoutesRequest) String() string { return proto.CompactTextString(m) }
func (*ListRoutesRequest) ProtoMessage()    {}

type ListRoutesResponse struct {
	Routes []*RouteInfo `protobuf:"bytes,1,rep,name=routes,proto3" json:"routes"`
}

func (m *ListRoutesResponse) Reset()         { *m = ListRoutesResponse{} }
func (m *ListRoutesResponse) String() string { return proto.CompactTextString(m) }
func (*ListRoutesResponse) ProtoMessage()    {}

func (m *ListRoutesResponse) GetRoutes() []*RouteInfo {
	if m != nil {
		return m.Routes
	}
	return nil
}
