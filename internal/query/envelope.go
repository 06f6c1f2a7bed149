package query

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Behyna/sms-scheduler/internal/model"
)

var ErrUnexpectedShape = errors.New("UNEXPECTED_LIST_SHAPE")

type ListShape int

const (
	ShapeBare ListShape = iota + 1
	ShapeWrapped
)

func (s ListShape) String() string {
	switch s {
	case ShapeBare:
		return "bare"
	case ShapeWrapped:
		return "wrapped"
	default:
		return "unknown"
	}
}

// ListEnvelope normalizes the two list response shapes the backend may
// produce: a bare array, or an object carrying the array under "results".
type ListEnvelope struct {
	Shape   ListShape
	Results []model.ScheduledMessage
	Count   *int
	Next    *string
}

type wrappedList struct {
	Results []model.ScheduledMessage `json:"results"`
	Count   *int                     `json:"count"`
	Next    *string                  `json:"next"`
}

func (e *ListEnvelope) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return ErrUnexpectedShape
	}

	switch trimmed[0] {
	case '[':
		var results []model.ScheduledMessage
		if err := json.Unmarshal(trimmed, &results); err != nil {
			return err
		}
		*e = ListEnvelope{Shape: ShapeBare, Results: results}
		return nil

	case '{':
		var w wrappedList
		if err := json.Unmarshal(trimmed, &w); err != nil {
			return err
		}
		*e = ListEnvelope{Shape: ShapeWrapped, Results: w.Results, Count: w.Count, Next: w.Next}
		return nil

	case 'n':
		if bytes.Equal(trimmed, []byte("null")) {
			*e = ListEnvelope{Shape: ShapeBare}
			return nil
		}
	}

	return fmt.Errorf("%w: starts with %q", ErrUnexpectedShape, trimmed[0])
}

// Truncated reports whether a wrapped response points at a further page.
func (e ListEnvelope) Truncated() bool {
	return e.Next != nil && *e.Next != ""
}

// Messages returns the normalized sequence; never nil.
func (e ListEnvelope) Messages() []model.ScheduledMessage {
	if e.Results == nil {
		return []model.ScheduledMessage{}
	}
	return e.Results
}

func DecodeList(data []byte) (ListEnvelope, error) {
	var e ListEnvelope
	if err := json.Unmarshal(data, &e); err != nil {
		return ListEnvelope{}, err
	}
	return e, nil
}
