package types

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Job is a unit of inference work submitted for clearing. It is decoded from
// the JSON job payload carried by RunAuction requests and envelopes.
type Job struct {
	JobID         uuid.UUID         `json:"job_id"`
	ModelID       string            `json:"model_id,omitempty"`
	Precision     Precision         `json:"precision"`
	ContextLength uint32            `json:"kv_cache_seq_len"`
	BatchSize     uint32            `json:"batch_size,omitempty"`
	Parameters    map[string]string `json:"parameters,omitempty"`
}

// NewJob creates a job with a fresh random ID.
func NewJob(modelID string, precision Precision, contextLength uint32) Job {
	return Job{
		JobID:         uuid.New(),
		ModelID:       modelID,
		Precision:     precision,
		ContextLength: contextLength,
		BatchSize:     1,
	}
}

// UnmarshalJSON decodes a job payload. job_id is required and may be a UUID
// string or an array of 16 bytes. The all-zero id is valid.
func (j *Job) UnmarshalJSON(bz []byte) error {
	type jobFields Job
	aux := struct {
		JobID json.RawMessage `json:"job_id"`
		*jobFields
	}{jobFields: (*jobFields)(j)}
	if err := json.Unmarshal(bz, &aux); err != nil {
		return err
	}

	raw := bytes.TrimSpace(aux.JobID)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ErrMalformedJob.Wrap("job_id is required")
	}
	id, err := parseJobID(raw)
	if err != nil {
		return ErrMalformedJob.Wrapf("job_id: %v", err)
	}
	j.JobID = id
	return nil
}

func parseJobID(raw json.RawMessage) (uuid.UUID, error) {
	if raw[0] != '[' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return uuid.Nil, err
		}
		return uuid.Parse(s)
	}

	var elems []int
	if err := json.Unmarshal(raw, &elems); err != nil {
		return uuid.Nil, err
	}
	var id uuid.UUID
	if len(elems) != len(id) {
		return uuid.Nil, fmt.Errorf("expected %d bytes, got %d", len(id), len(elems))
	}
	for i, b := range elems {
		if b < 0 || b > 255 {
			return uuid.Nil, fmt.Errorf("byte %d out of range: %d", i, b)
		}
		id[i] = byte(b)
	}
	return id, nil
}

// ValidateBasic performs stateless validation of a job.
func (j Job) ValidateBasic() error {
	if !j.Precision.IsValid() {
		return ErrMalformedJob.Wrapf("unsupported precision %s", j.Precision)
	}
	if j.ContextLength == 0 {
		return ErrMalformedJob.Wrap("kv_cache_seq_len must be greater than zero")
	}
	return nil
}

// EffectiveBatchSize returns the batch size, treating zero as one.
func (j Job) EffectiveBatchSize() uint32 {
	if j.BatchSize == 0 {
		return 1
	}
	return j.BatchSize
}

// Marshal encodes the job as the JSON job payload.
func (j Job) Marshal() ([]byte, error) {
	return json.Marshal(j)
}

// DecodeJob decodes and validates a JSON job payload.
func DecodeJob(bz []byte) (Job, error) {
	if len(bz) == 0 {
		return Job{}, ErrMalformedJob.Wrap("empty job payload")
	}

	var job Job
	if err := json.Unmarshal(bz, &job); err != nil {
		return Job{}, ErrMalformedJob.Wrapf("decode job: %v", err)
	}
	if err := job.ValidateBasic(); err != nil {
		return Job{}, err
	}
	return job, nil
}

// JobPriority groups the 0-255 priority hint into bands.
type JobPriority uint8

const (
	PriorityLow      JobPriority = 0
	PriorityNormal   JobPriority = 64
	PriorityHigh     JobPriority = 128
	PriorityCritical JobPriority = 192
)

// PriorityBand returns the band a raw priority value falls into.
func PriorityBand(priority uint8) JobPriority {
	switch {
	case priority >= uint8(PriorityCritical):
		return PriorityCritical
	case priority >= uint8(PriorityHigh):
		return PriorityHigh
	case priority >= uint8(PriorityNormal):
		return PriorityNormal
	default:
		return PriorityLow
	}
}

func (p JobPriority) String() string {
	switch PriorityBand(uint8(p)) {
	case PriorityCritical:
		return "critical"
	case PriorityHigh:
		return "high"
	case PriorityNormal:
		return "normal"
	default:
		return "low"
	}
}

// ValidatePriority checks a wire priority fits in a byte.
func ValidatePriority(priority uint32) (uint8, error) {
	if priority > 255 {
		return 0, ErrMalformedJob.Wrapf("priority %d exceeds 255", priority)
	}
	return uint8(priority), nil
}
