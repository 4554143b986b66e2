package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate_Layouts(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2026-04-01", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
		{"2026-04-01T09:30:00", time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)},
		{"2026-04-01T09:30:00.123456", time.Date(2026, 4, 1, 9, 30, 0, 123456000, time.UTC)},
		{"2026-04-01T00:00:00Z", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		require.NoError(t, err, tc.in)
		assert.True(t, tc.want.Equal(got), "%s parsed as %s", tc.in, got)
	}
}

func TestParseDate_WithOffset(t *testing.T) {
	got, err := ParseDate("2026-04-01T09:00:00+09:00")
	require.NoError(t, err)
	assert.True(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC).Equal(got))
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("April 1st")
	assert.Error(t, err)
}

func TestTimeline_JSONFieldNames(t *testing.T) {
	raw := `{"timeline":[{"date":"2026-04-01","label":"引越し当日","procedures":[{"id":"p1","title":"転入届","priority":"高","estimatedDuration":30,"isCompleted":false}]}],"milestones":[{"date":"2026-04-01","label":"引越し日","type":"moveDate"}]}`
	var tl Timeline
	require.NoError(t, json.Unmarshal([]byte(raw), &tl))
	require.Len(t, tl.Items, 1)
	require.Len(t, tl.Items[0].Procedures, 1)
	assert.Equal(t, PriorityHigh, tl.Items[0].Procedures[0].Priority)
	assert.Equal(t, MilestoneMoveDate, tl.Milestones[0].Type)
}

func TestCountCompleted(t *testing.T) {
	procs := []Procedure{{ID: "a", IsCompleted: true}, {ID: "b"}, {ID: "c", IsCompleted: true}}
	assert.Equal(t, 2, CountCompleted(procs))
	assert.Equal(t, 0, CountCompleted(nil))
}
