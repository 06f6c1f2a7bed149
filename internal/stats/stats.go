package stats

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Behyna/sms-scheduler/internal/model"
)

var (
	ErrUnexpectedShape = errors.New("UNEXPECTED_STATS_SHAPE")
	ErrNegativeCount   = errors.New("NEGATIVE_STATUS_COUNT")
)

// Counts maps every lifecycle status to its count. Statuses with no
// messages are always present with 0.
type Counts map[model.MessageStatus]int

type Entry struct {
	Status model.MessageStatus `json:"status"`
	Count  int                 `json:"count"`
}

func New() Counts {
	c := make(Counts, len(model.AllStatuses()))
	for _, s := range model.AllStatuses() {
		c[s] = 0
	}
	return c
}

// FromMessages reduces a snapshot to its count-by-status summary.
func FromMessages(msgs []model.ScheduledMessage) Counts {
	c := New()
	for _, m := range msgs {
		if m.Status.Valid() {
			c[m.Status]++
		}
	}
	return c
}

func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Entries lists the counts in lifecycle order.
func (c Counts) Entries() []Entry {
	out := make([]Entry, 0, len(c))
	for _, s := range model.AllStatuses() {
		out = append(out, Entry{Status: s, Count: c[s]})
	}
	return out
}

// Decode reads the summary endpoint body, which is either an array of
// {status, count} objects or a status-to-count mapping. Statuses unknown to
// this client are dropped.
func Decode(data []byte) (Counts, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrUnexpectedShape
	}

	var entries []Entry
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, err
		}
	case '{':
		var mapping map[string]int
		if err := json.Unmarshal(trimmed, &mapping); err != nil {
			return nil, err
		}
		for status, count := range mapping {
			entries = append(entries, Entry{Status: model.MessageStatus(status), Count: count})
		}
	default:
		return nil, fmt.Errorf("%w: starts with %q", ErrUnexpectedShape, trimmed[0])
	}

	c := New()
	for _, e := range entries {
		if e.Count < 0 {
			return nil, fmt.Errorf("%w: %s=%d", ErrNegativeCount, e.Status, e.Count)
		}
		if !e.Status.Valid() {
			continue
		}
		c[e.Status] += e.Count
	}
	return c, nil
}
