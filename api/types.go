package api

import (
	"encoding/json"

	"github.com/gix-network/gcam/x/clearing/types"
)

// RunAuctionRequest is the body of POST /gcam/v1/auction.
type RunAuctionRequest struct {
	Job      json.RawMessage `json:"job" binding:"required"`
	Priority uint32          `json:"priority"`
}

// AuctionResponse carries the same fields as the gRPC response plus a
// recovery hint for failures.
type AuctionResponse struct {
	*types.RunAuctionResponse
	Suggestion string `json:"suggestion,omitempty"`
}

// ProvidersResponse lists providers
type ProvidersResponse struct {
	Providers []*types.ProviderInfo `json:"providers"`
}

// RoutesResponse lists routes
type RoutesResponse struct {
	Routes []*types.RouteInfo `json:"routes"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}
