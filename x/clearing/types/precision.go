package types

import (
	"fmt"

	"cosmossdk.io/math"
)

// Precision is the numeric format a job requires from its provider.
// The zero value is not a valid precision.
type Precision uint8

const (
	PrecisionUnspecified Precision = iota
	PrecisionBF16
	PrecisionFP8
	PrecisionE5M2
	PrecisionINT8
)

var precisionNames = map[Precision]string{
	PrecisionBF16: "BF16",
	PrecisionFP8:  "FP8",
	PrecisionE5M2: "E5M2",
	PrecisionINT8: "INT8",
}

// AllPrecisions returns the supported precisions from highest to lowest.
func AllPrecisions() []Precision {
	return []Precision{PrecisionBF16, PrecisionFP8, PrecisionE5M2, PrecisionINT8}
}

// ParsePrecision parses one of the exact uppercase precision names. Wire
// payloads spelled in any other case are rejected.
func ParsePrecision(s string) (Precision, error) {
	for p, name := range precisionNames {
		if name == s {
			return p, nil
		}
	}
	return PrecisionUnspecified, fmt.Errorf("unknown precision %q", s)
}

// IsValid reports whether p is one of the four supported precisions.
func (p Precision) IsValid() bool {
	_, ok := precisionNames[p]
	return ok
}

func (p Precision) String() string {
	if name, ok := precisionNames[p]; ok {
		return name
	}
	if p == PrecisionUnspecified {
		return "UNSPECIFIED"
	}
	return fmt.Sprintf("Precision(%d)", uint8(p))
}

// MarshalText implements encoding.TextMarshaler so JSON payloads and map keys
// carry precision names.
func (p Precision) MarshalText() ([]byte, error) {
	if !p.IsValid() {
		return nil, fmt.Errorf("cannot marshal %s", p)
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Precision) UnmarshalText(text []byte) error {
	parsed, err := ParsePrecision(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// multiplierNumerator is the price multiplier in sixths. Multipliers fall
// linearly from 6/6 for BF16 to 3/6 for INT8.
func (p Precision) multiplierNumerator() int64 {
	if !p.IsValid() {
		return 0
	}
	return int64(7 - p)
}

// Multiplier returns the precision price multiplier as a decimal.
func (p Precision) Multiplier() math.LegacyDec {
	return math.LegacyNewDec(p.multiplierNumerator()).QuoInt64(multiplierDenominator)
}

const multiplierDenominator = 6
