package model

import (
	"errors"
	"strings"
)

var ErrUnknownStatus = errors.New("UNKNOWN_MESSAGE_STATUS")

type MessageStatus string

const (
	MessageStatusQueued    MessageStatus = "QUEUED"
	MessageStatusAccepted  MessageStatus = "ACCEPTED"
	MessageStatusSent      MessageStatus = "SENT"
	MessageStatusDelivered MessageStatus = "DELIVERED"
	MessageStatusReceived  MessageStatus = "RECEIVED"
	MessageStatusFailed    MessageStatus = "FAILED"
	MessageStatusCanceled  MessageStatus = "CANCELED"
)

var allStatuses = []MessageStatus{
	MessageStatusQueued,
	MessageStatusAccepted,
	MessageStatusSent,
	MessageStatusDelivered,
	MessageStatusReceived,
	MessageStatusFailed,
	MessageStatusCanceled,
}

// Transitions lists the legal successors of every status. The backend
// enforces it; the client only relies on it for cancel affordances and for
// interpreting the authoritative state returned after a command.
var Transitions = map[MessageStatus][]MessageStatus{
	MessageStatusQueued:    {MessageStatusAccepted, MessageStatusFailed, MessageStatusCanceled},
	MessageStatusAccepted:  {MessageStatusSent, MessageStatusFailed, MessageStatusCanceled},
	MessageStatusSent:      {MessageStatusDelivered, MessageStatusFailed},
	MessageStatusDelivered: {MessageStatusReceived, MessageStatusFailed},
	MessageStatusReceived:  {},
	MessageStatusFailed:    {},
	MessageStatusCanceled:  {},
}

// AllStatuses returns the lifecycle states in progression order.
func AllStatuses() []MessageStatus {
	out := make([]MessageStatus, len(allStatuses))
	copy(out, allStatuses)
	return out
}

func ParseStatus(value string) (MessageStatus, error) {
	s := MessageStatus(strings.ToUpper(strings.TrimSpace(value)))
	if !s.Valid() {
		return "", ErrUnknownStatus
	}
	return s, nil
}

func (s MessageStatus) Valid() bool {
	_, ok := Transitions[s]
	return ok
}

func (s MessageStatus) String() string {
	return string(s)
}

func Successors(s MessageStatus) []MessageStatus {
	next := Transitions[s]
	out := make([]MessageStatus, len(next))
	copy(out, next)
	return out
}

func CanTransition(from, to MessageStatus) bool {
	for _, next := range Transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further progression is expected. RECEIVED
// counts as terminal even though it sits on the success path.
func IsTerminal(s MessageStatus) bool {
	return s.Valid() && len(Transitions[s]) == 0
}

func IsCancelable(s MessageStatus) bool {
	return CanTransition(s, MessageStatusCanceled)
}
