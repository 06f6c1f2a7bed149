package stats_test

import (
	"testing"

	"github.com/Behyna/sms-scheduler/internal/model"
	"github.com/Behyna/sms-scheduler/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromMessages(t *testing.T) {
	msgs := []model.ScheduledMessage{
		{ID: "a", Status: model.MessageStatusQueued},
		{ID: "b", Status: model.MessageStatusQueued},
		{ID: "c", Status: model.MessageStatusFailed},
	}

	c := stats.FromMessages(msgs)

	assert.Equal(t, 2, c[model.MessageStatusQueued])
	assert.Equal(t, 1, c[model.MessageStatusFailed])
	assert.Equal(t, 3, c.Total())
	assert.Len(t, c, len(model.AllStatuses()))
	assert.Equal(t, 0, c[model.MessageStatusSent])
}

func TestFromMessages_Empty(t *testing.T) {
	c := stats.FromMessages(nil)
	assert.Equal(t, 0, c.Total())
	for _, s := range model.AllStatuses() {
		v, ok := c[s]
		assert.True(t, ok, s.String())
		assert.Zero(t, v)
	}
}

func TestDecode(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "array", body: `[{"status":"QUEUED","count":2},{"status":"FAILED","count":1}]`},
		{name: "mapping", body: `{"QUEUED":2,"FAILED":1}`},
		{name: "array with zero rows", body: `[{"status":"QUEUED","count":2},{"status":"SENT","count":0},{"status":"FAILED","count":1}]`},
		{name: "unknown statuses dropped", body: `{"QUEUED":2,"FAILED":1,"ARCHIVED":7}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := stats.Decode([]byte(tc.body))
			require.NoError(t, err)
			assert.Equal(t, 2, c[model.MessageStatusQueued])
			assert.Equal(t, 1, c[model.MessageStatusFailed])
			assert.Equal(t, 3, c.Total())
			assert.Len(t, c, len(model.AllStatuses()))
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	_, err := stats.Decode([]byte(`"nope"`))
	assert.ErrorIs(t, err, stats.ErrUnexpectedShape)

	_, err = stats.Decode([]byte(``))
	assert.ErrorIs(t, err, stats.ErrUnexpectedShape)

	_, err = stats.Decode([]byte(`[{"status":"QUEUED","count":-1}]`))
	assert.ErrorIs(t, err, stats.ErrNegativeCount)

	_, err = stats.Decode([]byte(`[{"status":"QUEUED","count":"x"}]`))
	assert.Error(t, err)
}

func TestEntriesFollowLifecycleOrder(t *testing.T) {
	c := stats.FromMessages([]model.ScheduledMessage{{Status: model.MessageStatusCanceled}})
	entries := c.Entries()

	require.Len(t, entries, 7)
	assert.Equal(t, model.MessageStatusQueued, entries[0].Status)
	assert.Equal(t, stats.Entry{Status: model.MessageStatusCanceled, Count: 1}, entries[6])
}
