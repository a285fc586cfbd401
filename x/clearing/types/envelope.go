package types

import (
	"encoding/json"
	"time"
)

// EnvelopeSchemaVersion is the only envelope schema accepted.
const EnvelopeSchemaVersion uint8 = 3

// EnvelopeMetadata describes an envelope. Timestamps are unix seconds.
type EnvelopeMetadata struct {
	SchemaVersion    uint8             `json:"schema_version"`
	Priority         uint8             `json:"priority"`
	CreatedAt        uint64            `json:"created_at"`
	ExpiresAt        *uint64           `json:"expires_at,omitempty"`
	SourceSLP        string            `json:"source_slp,omitempty"`
	TargetLane       string            `json:"target_lane,omitempty"`
	AdditionalFields map[string]string `json:"additional_fields,omitempty"`
}

// Envelope wraps a JSON job payload with routing metadata.
type Envelope struct {
	Meta    EnvelopeMetadata `json:"meta"`
	Payload []byte           `json:"payload"`
}

// NewEnvelopeMetadata returns schema version 3 metadata created at now
// without an expiry.
func NewEnvelopeMetadata(priority uint8, now time.Time) EnvelopeMetadata {
	return EnvelopeMetadata{
		SchemaVersion: EnvelopeSchemaVersion,
		Priority:      priority,
		CreatedAt:     unixSeconds(now),
	}
}

// WithTTL sets the expiry ttl after the creation time.
func (m EnvelopeMetadata) WithTTL(ttl time.Duration) EnvelopeMetadata {
	expires := m.CreatedAt + uint64(ttl/time.Second)
	m.ExpiresAt = &expires
	return m
}

// IsExpired reports whether the expiry, if any, is at or before now.
func (m EnvelopeMetadata) IsExpired(now time.Time) bool {
	return m.ExpiresAt != nil && *m.ExpiresAt <= unixSeconds(now)
}

// Validate checks the schema version and expiry against now.
func (m EnvelopeMetadata) Validate(now time.Time) error {
	if m.SchemaVersion != EnvelopeSchemaVersion {
		return ErrInvalidEnvelope.Wrapf("schema version %d, expected %d", m.SchemaVersion, EnvelopeSchemaVersion)
	}
	if m.ExpiresAt == nil {
		return nil
	}
	if *m.ExpiresAt <= m.CreatedAt {
		return ErrInvalidEnvelope.Wrapf("expires_at %d is not after created_at %d", *m.ExpiresAt, m.CreatedAt)
	}
	if m.IsExpired(now) {
		return ErrEnvelopeExpired.Wrapf("expired at %d, current time %d", *m.ExpiresAt, unixSeconds(now))
	}
	return nil
}

// NewEnvelopeFromJob serializes job into a fresh envelope.
func NewEnvelopeFromJob(job Job, priority uint8, now time.Time) (Envelope, error) {
	payload, err := job.Marshal()
	if err != nil {
		return Envelope{}, ErrMalformedJob.Wrapf("encode job: %v", err)
	}
	return Envelope{
		Meta:    NewEnvelopeMetadata(priority, now),
		Payload: payload,
	}, nil
}

// Validate checks metadata and that the payload is a valid job.
func (e Envelope) Validate(now time.Time) error {
	if err := e.Meta.Validate(now); err != nil {
		return err
	}
	if len(e.Payload) == 0 {
		return ErrInvalidEnvelope.Wrap("payload cannot be empty")
	}
	_, err := e.Job()
	return err
}

// Job decodes the envelope payload.
func (e Envelope) Job() (Job, error) {
	return DecodeJob(e.Payload)
}

// Marshal encodes the envelope as JSON.
func (e Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// DecodeEnvelope decodes a JSON envelope without validating it.
func DecodeEnvelope(bz []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(bz, &env); err != nil {
		return Envelope{}, ErrInvalidEnvelope.Wrapf("decode envelope: %v", err)
	}
	return env, nil
}

func unixSeconds(t time.Time) uint64 {
	secs := t.Unix()
	if secs < 0 {
		return 0
	}
	return uint64(secs)
}
