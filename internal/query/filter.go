package query

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/Behyna/sms-scheduler/internal/model"
)

const (
	ParamStatus        = "status"
	ParamToHandle      = "to_handle"
	ParamScheduledFrom = "scheduled_from"
	ParamScheduledTo   = "scheduled_to"
)

var ErrInvalidFilter = errors.New("INVALID_FILTER")

// Filter is the optional predicate set of a list query. Zero fields place
// no constraint on their dimension.
type Filter struct {
	Status           model.MessageStatus
	ToHandleContains string
	ScheduledFrom    *time.Time
	ScheduledTo      *time.Time
}

func (f Filter) IsZero() bool {
	return f.Status == "" && f.ToHandleContains == "" && f.ScheduledFrom == nil && f.ScheduledTo == nil
}

func (f Filter) Validate() error {
	if f.Status != "" && !f.Status.Valid() {
		return ErrInvalidFilter
	}
	return nil
}

// Values encodes the filter as list query parameters. The handle fragment
// is passed through uninterpreted; matching rules belong to the backend.
func (f Filter) Values() url.Values {
	values := url.Values{}
	if f.Status != "" {
		values.Set(ParamStatus, string(f.Status))
	}
	if f.ToHandleContains != "" {
		values.Set(ParamToHandle, f.ToHandleContains)
	}
	if f.ScheduledFrom != nil {
		values.Set(ParamScheduledFrom, model.FormatInstant(*f.ScheduledFrom))
	}
	if f.ScheduledTo != nil {
		values.Set(ParamScheduledTo, model.FormatInstant(*f.ScheduledTo))
	}
	return values
}

// Encode returns the query string including the leading '?', or "" when the
// filter is empty.
func (f Filter) Encode() string {
	values := f.Values()
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

// ParseValues is the inverse of Values.
func ParseValues(values url.Values) (Filter, error) {
	var f Filter

	if raw := values.Get(ParamStatus); raw != "" {
		status := model.MessageStatus(raw)
		if !status.Valid() {
			return Filter{}, ErrInvalidFilter
		}
		f.Status = status
	}

	f.ToHandleContains = values.Get(ParamToHandle)

	for _, bound := range []struct {
		param string
		dst   **time.Time
	}{
		{ParamScheduledFrom, &f.ScheduledFrom},
		{ParamScheduledTo, &f.ScheduledTo},
	} {
		raw := values.Get(bound.param)
		if raw == "" {
			continue
		}
		at, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return Filter{}, ErrInvalidFilter
		}
		at = at.UTC()
		*bound.dst = &at
	}

	return f, nil
}

// Matches evaluates the filter locally: exact status, case-insensitive
// handle substring, inclusive scheduled range.
func (f Filter) Matches(m model.ScheduledMessage) bool {
	if f.Status != "" && m.Status != f.Status {
		return false
	}
	if f.ToHandleContains != "" &&
		!strings.Contains(strings.ToLower(m.ToHandle), strings.ToLower(f.ToHandleContains)) {
		return false
	}
	if f.ScheduledFrom != nil && m.ScheduledFor.Before(*f.ScheduledFrom) {
		return false
	}
	if f.ScheduledTo != nil && m.ScheduledFor.After(*f.ScheduledTo) {
		return false
	}
	return true
}
