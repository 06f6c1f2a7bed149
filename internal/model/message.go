package model

import (
	"bytes"
	"encoding/json"
	"time"
)

type ScheduledMessage struct {
	ID           string         `json:"id"`
	ToHandle     string         `json:"to_handle"`
	Body         string         `json:"body"`
	ScheduledFor time.Time      `json:"scheduled_for"`
	Status       MessageStatus  `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	ClaimedAt    *time.Time     `json:"claimed_at"`
	ClaimedBy    *string        `json:"claimed_by"`
	AttemptCount int            `json:"attempt_count"`
	LastError    *string        `json:"last_error"`
	Events       []MessageEvent `json:"events,omitempty"`
}

type MessageEvent struct {
	ID        int64         `json:"id"`
	Status    MessageStatus `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	Detail    Detail        `json:"detail"`
}

// Detail is the freeform payload attached to an event. It is kept as raw
// JSON and only rendered or logged, never interpreted.
type Detail json.RawMessage

func NewDetail(v any) Detail {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return Detail(raw)
}

func (d Detail) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("null"), nil
	}
	return d, nil
}

func (d *Detail) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*d = nil
		return nil
	}
	*d = append((*d)[:0], data...)
	return nil
}

func (d Detail) IsZero() bool {
	return len(d) == 0
}

// Decode unmarshals the payload into v for callers that know its shape.
func (d Detail) Decode(v any) error {
	if d.IsZero() {
		return nil
	}
	return json.Unmarshal(d, v)
}

func (d Detail) String() string {
	if d.IsZero() {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, d); err != nil {
		return string(d)
	}
	return buf.String()
}

// SameIdentity reports equality by id, the only identity a message has.
func (m ScheduledMessage) SameIdentity(other ScheduledMessage) bool {
	return m.ID == other.ID
}

func (m ScheduledMessage) Claimed() bool {
	return m.ClaimedAt != nil && m.ClaimedBy != nil
}

func (m ScheduledMessage) HasEvents() bool {
	return len(m.Events) > 0
}

func (m ScheduledMessage) LastEvent() (MessageEvent, bool) {
	if len(m.Events) == 0 {
		return MessageEvent{}, false
	}
	return m.Events[len(m.Events)-1], true
}

// Clone returns a copy that shares no mutable state with m.
func (m ScheduledMessage) Clone() ScheduledMessage {
	out := m
	if m.ClaimedAt != nil {
		at := *m.ClaimedAt
		out.ClaimedAt = &at
	}
	if m.ClaimedBy != nil {
		by := *m.ClaimedBy
		out.ClaimedBy = &by
	}
	if m.LastError != nil {
		le := *m.LastError
		out.LastError = &le
	}
	if m.Events != nil {
		out.Events = make([]MessageEvent, len(m.Events))
		for i, e := range m.Events {
			e.Detail = append(Detail(nil), e.Detail...)
			out.Events[i] = e
		}
	}
	return out
}
