package store

var (
	// ProviderKeyPrefix is the prefix for provider records, keyed by provider ID
	ProviderKeyPrefix = []byte{0x01}

	// RouteKeyPrefix is the prefix for route records, keyed by route ID
	RouteKeyPrefix = []byte{0x02}

	// StatsKeyPrefix is the prefix for the statistics singleton
	StatsKeyPrefix = []byte{0x03}

	// MetaKeyPrefix is the prefix for store bookkeeping
	MetaKeyPrefix = []byte{0x04}
)

var (
	// StatsKey holds the statistics record
	StatsKey = prefixed(StatsKeyPrefix, "stats")

	// FlushMarkerKey holds the generation counter written by Flush
	FlushMarkerKey = prefixed(MetaKeyPrefix, "flush")
)

// ProviderKey returns the store key for a provider
func ProviderKey(id string) []byte {
	return prefixed(ProviderKeyPrefix, id)
}

// RouteKey returns the store key for a route
func RouteKey(id string) []byte {
	return prefixed(RouteKeyPrefix, id)
}

func prefixed(prefix []byte, id string) []byte {
	key := make([]byte, 0, len(prefix)+len(id))
	key = append(key, prefix...)
	return append(key, id...)
}
