package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// DispatchState is the submission state machine: idle -> sending -> succeeded|failed -> idle.
type DispatchState int

const (
	DispatchIdle DispatchState = iota
	DispatchSending
	DispatchSucceeded
	DispatchFailed
)

// String returns the state name used in API responses and logs.
func (s DispatchState) String() string {
	switch s {
	case DispatchIdle:
		return "idle"
	case DispatchSending:
		return "sending"
	case DispatchSucceeded:
		return "success"
	case DispatchFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the state by name.
func (s DispatchState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a state name.
func (s *DispatchState) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for _, candidate := range []DispatchState{DispatchIdle, DispatchSending, DispatchSucceeded, DispatchFailed} {
		if candidate.String() == name {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown dispatch state %q", name)
}

// ItemOutcome is the result of POSTing one cart line.
type ItemOutcome struct {
	LocalID     string      `json:"local_id" bson:"local_id"`
	DisplayName string      `json:"display_name" bson:"display_name"`
	Request     LoanRequest `json:"request" bson:"request"`
	OK          bool        `json:"ok" bson:"ok"`
	// StatusCode is zero when the request never got a response.
	StatusCode int    `json:"status_code,omitempty" bson:"status_code,omitempty"`
	Error      string `json:"error,omitempty" bson:"error,omitempty"`
}

// BatchResult is the per-item outcome of one submission attempt. Outcomes are in
// cart order regardless of the order responses arrived in.
type BatchResult struct {
	CorrelationID string `json:"solicitud_uuid" bson:"solicitud_uuid"`
	// Attempt is 1 for the first submission and grows with each retry.
	Attempt   int           `json:"attempt" bson:"attempt"`
	Outcomes  []ItemOutcome `json:"outcomes" bson:"outcomes"`
	StartedAt time.Time     `json:"started_at" bson:"started_at"`
	Duration  time.Duration `json:"duration" bson:"duration"`
}

// OK reports whether every item was accepted.
func (b BatchResult) OK() bool {
	if len(b.Outcomes) == 0 {
		return false
	}
	for _, o := range b.Outcomes {
		if !o.OK {
			return false
		}
	}
	return true
}

// Succeeded returns the accepted outcomes.
func (b BatchResult) Succeeded() []ItemOutcome {
	return b.filter(true)
}

// Failed returns the rejected outcomes.
func (b BatchResult) Failed() []ItemOutcome {
	return b.filter(false)
}

// FirstError returns the error of the first failed item in cart order.
func (b BatchResult) FirstError() string {
	for _, o := range b.Outcomes {
		if !o.OK {
			return o.Error
		}
	}
	return ""
}

func (b BatchResult) filter(ok bool) []ItemOutcome {
	out := make([]ItemOutcome, 0, len(b.Outcomes))
	for _, o := range b.Outcomes {
		if o.OK == ok {
			out = append(out, o)
		}
	}
	return out
}

// SubmissionRecord is the audit document kept for every batch attempt.
type SubmissionRecord struct {
	CorrelationID string                 `bson:"solicitud_uuid" json:"solicitud_uuid"`
	ClientID      string                 `bson:"client_id,omitempty" json:"client_id,omitempty"`
	RequestID     string                 `bson:"request_id,omitempty" json:"request_id,omitempty"`
	Attempt       int                    `bson:"attempt" json:"attempt"`
	State         string                 `bson:"state" json:"state"`
	Outcomes      []ItemOutcome          `bson:"outcomes" json:"outcomes"`
	CreatedAt     time.Time              `bson:"created_at" json:"created_at"`
	DurationMS    int64                  `bson:"duration_ms" json:"duration_ms"`
	Fields        map[string]interface{} `bson:"fields,omitempty" json:"fields,omitempty"`
}

// NewSubmissionRecord builds the audit document for a batch.
func NewSubmissionRecord(result BatchResult) *SubmissionRecord {
	state := DispatchFailed
	if result.OK() {
		state = DispatchSucceeded
	}
	return &SubmissionRecord{
		CorrelationID: result.CorrelationID,
		Attempt:       result.Attempt,
		State:         state.String(),
		Outcomes:      result.Outcomes,
		CreatedAt:     result.StartedAt,
		DurationMS:    result.Duration.Milliseconds(),
	}
}

// WithField adds a field to the record's Fields map.
func (r *SubmissionRecord) WithField(key string, value interface{}) *SubmissionRecord {
	if r.Fields == nil {
		r.Fields = make(map[string]interface{})
	}
	r.Fields[key] = value
	return r
}
