package types

import "github.com/google/uuid"

// AuctionMatch is the result of a successful auction.
type AuctionMatch struct {
	JobID      uuid.UUID `json:"job_id"`
	ProviderID string    `json:"provider_id"`
	LaneID     uint8     `json:"lane_id"`
	RouteID    string    `json:"route_id"`
	Price      uint64    `json:"price"`
	Route      []string  `json:"route"`
}
