package types

import (
	"errors"

	sdkerrors "cosmossdk.io/errors"
)

// Clearing module sentinel errors

var (
	// Request validation errors
	ErrMalformedJob = sdkerrors.Register(ModuleName, 2, "malformed job")

	// Matching outcomes, counted as unmatched auctions
	ErrNoProviderAvailable = sdkerrors.Register(ModuleName, 3, "no provider available")
	ErrNoRouteAvailable    = sdkerrors.Register(ModuleName, 4, "no route available")

	// Storage errors
	ErrPersistence  = sdkerrors.Register(ModuleName, 5, "persistence failure")
	ErrCorruptState = sdkerrors.Register(ModuleName, 6, "corrupt persisted state")

	// Envelope errors
	ErrInvalidEnvelope = sdkerrors.Register(ModuleName, 7, "invalid envelope")
	ErrEnvelopeExpired = sdkerrors.Register(ModuleName, 8, "envelope expired")

	// Seed set errors
	ErrInvalidGenesis = sdkerrors.Register(ModuleName, 9, "invalid genesis state")
)

// RecoverySuggestions provides actionable recovery steps for each error type
var RecoverySuggestions = map[error]string{
	ErrMalformedJob:        "Check the job payload: job_id must be a UUID, precision one of BF16, FP8, E5M2, INT8, kv_cache_seq_len greater than zero and priority at most 255.",
	ErrNoProviderAvailable: "Every provider supporting this precision is at capacity. Retry later or submit with a different precision.",
	ErrNoRouteAvailable:    "No route is configured. Add routes to the genesis file and restart with a fresh data directory.",
	ErrPersistence:         "The state database rejected the write. Check disk space and permissions on the data directory; the auction was not applied.",
	ErrCorruptState:        "The state database holds records that cannot be decoded. Restore the data directory from a backup or remove it to reseed.",
	ErrInvalidEnvelope:     "Envelope must use schema version 3, carry a non-empty JSON job payload and an expiry later than its creation time.",
	ErrEnvelopeExpired:     "The envelope expiry has passed. Re-issue the envelope with a later expires_at.",
	ErrInvalidGenesis:      "Provider and route IDs must be unique and non-empty, utilization must not exceed capacity and every route needs at least one hop.",
}

// GetRecoverySuggestion returns the recovery suggestion for an error
func GetRecoverySuggestion(err error) string {
	for _, sentinel := range []error{
		ErrMalformedJob, ErrNoProviderAvailable, ErrNoRouteAvailable, ErrPersistence,
		ErrCorruptState, ErrInvalidEnvelope, ErrEnvelopeExpired, ErrInvalidGenesis,
	} {
		if errors.Is(err, sentinel) {
			return RecoverySuggestions[sentinel]
		}
	}

	return "No recovery suggestion available. Check error message for details."
}

// IsUnmatched reports whether err is a matching outcome that is counted in
// the auction statistics rather than a rejected request.
func IsUnmatched(err error) bool {
	return errors.Is(err, ErrNoProviderAvailable) || errors.Is(err, ErrNoRouteAvailable)
}
