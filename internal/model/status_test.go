package model_test

import (
	"testing"

	"github.com/Behyna/sms-scheduler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	testCases := []struct {
		name     string
		from     model.MessageStatus
		to       model.MessageStatus
		expected bool
	}{
		{name: "QueuedToAccepted", from: model.MessageStatusQueued, to: model.MessageStatusAccepted, expected: true},
		{name: "AcceptedToSent", from: model.MessageStatusAccepted, to: model.MessageStatusSent, expected: true},
		{name: "SentToDelivered", from: model.MessageStatusSent, to: model.MessageStatusDelivered, expected: true},
		{name: "DeliveredToReceived", from: model.MessageStatusDelivered, to: model.MessageStatusReceived, expected: true},
		{name: "QueuedToCanceled", from: model.MessageStatusQueued, to: model.MessageStatusCanceled, expected: true},
		{name: "AcceptedToCanceled", from: model.MessageStatusAccepted, to: model.MessageStatusCanceled, expected: true},
		{name: "SentToCanceled", from: model.MessageStatusSent, to: model.MessageStatusCanceled, expected: false},
		{name: "DeliveredToFailed", from: model.MessageStatusDelivered, to: model.MessageStatusFailed, expected: true},
		{name: "QueuedToSent", from: model.MessageStatusQueued, to: model.MessageStatusSent, expected: false},
		{name: "ReceivedToFailed", from: model.MessageStatusReceived, to: model.MessageStatusFailed, expected: false},
		{name: "CanceledToQueued", from: model.MessageStatusCanceled, to: model.MessageStatusQueued, expected: false},
		{name: "UnknownSource", from: model.MessageStatus("BOGUS"), to: model.MessageStatusFailed, expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, model.CanTransition(tc.from, tc.to))
		})
	}
}

func TestFailedReachableFromEveryNonTerminalState(t *testing.T) {
	for _, s := range model.AllStatuses() {
		if model.IsTerminal(s) {
			continue
		}
		assert.True(t, model.CanTransition(s, model.MessageStatusFailed), "FAILED should follow %s", s)
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := map[model.MessageStatus]bool{
		model.MessageStatusReceived: true,
		model.MessageStatusFailed:   true,
		model.MessageStatusCanceled: true,
	}

	for _, s := range model.AllStatuses() {
		assert.Equal(t, terminal[s], model.IsTerminal(s), s.String())
	}
	assert.False(t, model.IsTerminal(model.MessageStatus("BOGUS")))
}

func TestIsCancelable(t *testing.T) {
	for _, s := range model.AllStatuses() {
		expected := s == model.MessageStatusQueued || s == model.MessageStatusAccepted
		assert.Equal(t, expected, model.IsCancelable(s), s.String())
	}
}

func TestParseStatus(t *testing.T) {
	t.Run("accepts any case and surrounding space", func(t *testing.T) {
		s, err := model.ParseStatus("  failed ")
		require.NoError(t, err)
		assert.Equal(t, model.MessageStatusFailed, s)
	})

	t.Run("rejects unknown values", func(t *testing.T) {
		_, err := model.ParseStatus("PENDING")
		assert.ErrorIs(t, err, model.ErrUnknownStatus)
	})
}

func TestSuccessorsReturnsCopy(t *testing.T) {
	next := model.Successors(model.MessageStatusQueued)
	require.NotEmpty(t, next)
	next[0] = model.MessageStatusReceived

	assert.Equal(t, model.MessageStatusAccepted, model.Successors(model.MessageStatusQueued)[0])
}

func TestAllStatusesOrder(t *testing.T) {
	assert.Equal(t, []model.MessageStatus{
		model.MessageStatusQueued,
		model.MessageStatusAccepted,
		model.MessageStatusSent,
		model.MessageStatusDelivered,
		model.MessageStatusReceived,
		model.MessageStatusFailed,
		model.MessageStatusCanceled,
	}, model.AllStatuses())
}
