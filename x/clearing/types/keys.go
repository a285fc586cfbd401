package types

const (
	// ModuleName defines the module name
	ModuleName = "clearing"

	// StoreKey names the database created under the data directory
	StoreKey = "gcam"

	// ServiceName is the fully qualified gRPC service name
	ServiceName = "gix.clearing.v1.AuctionService"
)

// Lane identifiers used by the default route set.
const (
	LaneFlash uint8 = 0
	LaneDeep  uint8 = 1
)
