package model

import (
	"errors"
	"fmt"
)

var (
	ErrClaimPairMismatch   = errors.New("CLAIM_PAIR_MISMATCH")
	ErrUpdatedBeforeCreate = errors.New("UPDATED_BEFORE_CREATED")
	ErrNegativeAttempts    = errors.New("NEGATIVE_ATTEMPT_COUNT")
	ErrEventsOutOfOrder    = errors.New("EVENTS_OUT_OF_ORDER")
	ErrEventIDsNotMonotone = errors.New("EVENT_IDS_NOT_INCREASING")
	ErrStatusMismatch      = errors.New("STATUS_MISMATCH_LAST_EVENT")
	ErrOrphanLastError     = errors.New("LAST_ERROR_WITHOUT_FAILURE")
)

// CheckInvariants reports every record invariant m violates, joined into one
// error. Event checks only apply when events are present, since list
// responses may omit them.
func CheckInvariants(m ScheduledMessage) error {
	var errs []error

	if (m.ClaimedAt == nil) != (m.ClaimedBy == nil) {
		errs = append(errs, ErrClaimPairMismatch)
	}

	if !m.CreatedAt.IsZero() && !m.UpdatedAt.IsZero() && m.UpdatedAt.Before(m.CreatedAt) {
		errs = append(errs, ErrUpdatedBeforeCreate)
	}

	if m.AttemptCount < 0 {
		errs = append(errs, ErrNegativeAttempts)
	}

	if m.HasEvents() {
		failed := false
		for i, e := range m.Events {
			if e.Status == MessageStatusFailed {
				failed = true
			}
			if i == 0 {
				continue
			}
			prev := m.Events[i-1]
			if e.Timestamp.Before(prev.Timestamp) {
				errs = append(errs, fmt.Errorf("%w: event %d", ErrEventsOutOfOrder, e.ID))
			}
			if e.ID <= prev.ID {
				errs = append(errs, fmt.Errorf("%w: event %d", ErrEventIDsNotMonotone, e.ID))
			}
		}

		last, _ := m.LastEvent()
		if last.Status != m.Status {
			errs = append(errs, fmt.Errorf("%w: status %s, last event %s", ErrStatusMismatch, m.Status, last.Status))
		}

		if m.LastError != nil && !failed {
			errs = append(errs, ErrOrphanLastError)
		}
	}

	return errors.Join(errs...)
}
