package types

// StateStore defines the durable storage the keeper writes through to.
type StateStore interface {
	LoadProviders(defaults []ComputeProvider) ([]ComputeProvider, error)
	LoadRoutes(defaults []Route) ([]Route, error)
	LoadStats() (AuctionStats, error)
	SaveProviders(providers []ComputeProvider) error
	SaveStats(stats AuctionStats) error
	SaveAuction(providers []ComputeProvider, stats AuctionStats) error
	Flush() error
	Close() error
}
