package types

import (
	"fmt"
	"maps"
	"math"
)

// AuctionStats aggregates auction outcomes since the state was created.
type AuctionStats struct {
	TotalAuctions      uint64               `cbor:"1,keyasint" json:"total_auctions"`
	TotalMatches       uint64               `cbor:"2,keyasint" json:"total_matches"`
	TotalUnmatched     uint64               `cbor:"3,keyasint" json:"total_unmatched"`
	TotalVolume        uint64               `cbor:"4,keyasint" json:"total_volume"`
	MatchesByPrecision map[Precision]uint64 `cbor:"5,keyasint" json:"matches_by_precision"`
	MatchesByLane      map[uint8]uint64     `cbor:"6,keyasint" json:"matches_by_lane"`
}

// NewAuctionStats returns zeroed statistics.
func NewAuctionStats() AuctionStats {
	return AuctionStats{
		MatchesByPrecision: make(map[Precision]uint64),
		MatchesByLane:      make(map[uint8]uint64),
	}
}

// Normalize replaces nil breakdown maps with empty ones.
func (s *AuctionStats) Normalize() {
	if s.MatchesByPrecision == nil {
		s.MatchesByPrecision = make(map[Precision]uint64)
	}
	if s.MatchesByLane == nil {
		s.MatchesByLane = make(map[uint8]uint64)
	}
}

// RecordMatch counts a successful auction. Nothing is modified when the
// volume would overflow.
func (s *AuctionStats) RecordMatch(precision Precision, laneID uint8, price uint64) error {
	if price > math.MaxUint64-s.TotalVolume {
		return ErrMalformedJob.Wrapf("total volume overflow adding price %d", price)
	}
	s.Normalize()
	s.TotalAuctions++
	s.TotalMatches++
	s.TotalVolume += price
	s.MatchesByPrecision[precision]++
	s.MatchesByLane[laneID]++
	return nil
}

// RecordUnmatched counts an auction that found no provider or no route.
func (s *AuctionStats) RecordUnmatched() {
	s.TotalAuctions++
	s.TotalUnmatched++
}

// Copy returns a deep copy.
func (s AuctionStats) Copy() AuctionStats {
	s.MatchesByPrecision = maps.Clone(s.MatchesByPrecision)
	s.MatchesByLane = maps.Clone(s.MatchesByLane)
	s.Normalize()
	return s
}

// Validate checks the counters are mutually consistent.
func (s AuctionStats) Validate() error {
	if s.TotalMatches > s.TotalAuctions {
		return fmt.Errorf("total matches %d exceed total auctions %d", s.TotalMatches, s.TotalAuctions)
	}
	if s.TotalMatches+s.TotalUnmatched != s.TotalAuctions {
		return fmt.Errorf("matches %d plus unmatched %d do not equal auctions %d",
			s.TotalMatches, s.TotalUnmatched, s.TotalAuctions)
	}

	var byPrecision, byLane uint64
	for _, n := range s.MatchesByPrecision {
		byPrecision += n
	}
	for _, n := range s.MatchesByLane {
		byLane += n
	}
	if byPrecision != s.TotalMatches {
		return fmt.Errorf("precision breakdown sums to %d, expected %d", byPrecision, s.TotalMatches)
	}
	if byLane != s.TotalMatches {
		return fmt.Errorf("lane breakdown sums to %d, expected %d", byLane, s.TotalMatches)
	}
	return nil
}
