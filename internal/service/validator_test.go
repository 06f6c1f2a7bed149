package service_test

import (
	"testing"
	"time"

	"github.com/Behyna/sms-scheduler/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommandValidator(t *testing.T) service.CommandValidator {
	t.Helper()
	v, err := service.NewCommandValidator(validator.New())
	require.NoError(t, err)
	return v
}

func TestCommandValidator_ValidateCreate(t *testing.T) {
	v := newCommandValidator(t)

	t.Run("valid command", func(t *testing.T) {
		request, err := v.ValidateCreate(service.CreateMessageCommand{
			ToHandle:     "  +15551234567 ",
			Body:         "hi",
			ScheduledFor: "2030-01-01T10:00:00+02:00",
		})

		require.NoError(t, err)
		assert.Equal(t, "+15551234567", request.ToHandle)
		assert.Equal(t, "hi", request.Body)
		assert.Equal(t, "2030-01-01T08:00:00Z", request.ScheduledFor)
	})

	t.Run("wall clock input read in the command location", func(t *testing.T) {
		request, err := v.ValidateCreate(service.CreateMessageCommand{
			ToHandle:     "alice",
			Body:         "hi",
			ScheduledFor: "2030-01-01T10:00",
			Location:     time.FixedZone("UTC+3", 3*60*60),
		})

		require.NoError(t, err)
		assert.Equal(t, "2030-01-01T07:00:00Z", request.ScheduledFor)
	})

	t.Run("resolved instant", func(t *testing.T) {
		at := time.Date(2030, 5, 1, 12, 30, 0, 0, time.FixedZone("X", -4*60*60))

		request, err := v.ValidateCreate(service.NewCreateMessageCommand("alice", "hi", at))

		require.NoError(t, err)
		assert.Equal(t, "2030-05-01T16:30:00Z", request.ScheduledFor)
	})

	testCases := []struct {
		name     string
		cmd      service.CreateMessageCommand
		expected []error
	}{
		{
			name:     "blank recipient",
			cmd:      service.CreateMessageCommand{ToHandle: "   ", Body: "hi", ScheduledFor: "2030-01-01T10:00:00Z"},
			expected: []error{service.ErrEmptyRecipient},
		},
		{
			name:     "blank body",
			cmd:      service.CreateMessageCommand{ToHandle: "alice", Body: "\n\t", ScheduledFor: "2030-01-01T10:00:00Z"},
			expected: []error{service.ErrEmptyBody},
		},
		{
			name:     "missing instant",
			cmd:      service.CreateMessageCommand{ToHandle: "alice", Body: "hi"},
			expected: []error{service.ErrInvalidScheduledFor},
		},
		{
			name:     "malformed instant",
			cmd:      service.CreateMessageCommand{ToHandle: "alice", Body: "hi", ScheduledFor: "tomorrow"},
			expected: []error{service.ErrInvalidScheduledFor},
		},
		{
			name:     "everything wrong",
			cmd:      service.CreateMessageCommand{ScheduledFor: "01/02/2030"},
			expected: []error{service.ErrEmptyRecipient, service.ErrEmptyBody, service.ErrInvalidScheduledFor},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			request, err := v.ValidateCreate(tc.cmd)

			require.Error(t, err)
			assert.Equal(t, service.ErrCodeValidationFailed, service.ErrorCode(err))
			for _, expected := range tc.expected {
				assert.ErrorIs(t, err, expected)
			}
			assert.Empty(t, request)
		})
	}
}
