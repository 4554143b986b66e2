package calendar

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetsunavi/tetsunavi/internal/domain"
)

func sampleTimeline() domain.Timeline {
	return domain.Timeline{
		Items: []domain.TimelineItem{
			{
				Date:  "2026-04-01",
				Label: "引越し当日",
				Procedures: []domain.TimelineProcedure{
					{ID: "p1", Title: "転出届", Priority: domain.PriorityHigh, EstimatedDuration: 30},
					{ID: "p2", Title: "電気の契約", Priority: domain.PriorityMedium, EstimatedDuration: 15, IsCompleted: true},
				},
			},
			{
				Date:       "2026-04-14T00:00:00",
				Label:      "引越し後2週間以内",
				Procedures: []domain.TimelineProcedure{{ID: "p3", Title: "転入届", Priority: domain.PriorityHigh, EstimatedDuration: 60}},
			},
			{Date: "2026-04-20", Label: "空の日"},
		},
		Milestones: []domain.Milestone{{Date: "2026-04-01", Label: "引越し日", Type: domain.MilestoneMoveDate}},
	}
}

var stamp = time.Date(2026, 3, 10, 8, 5, 9, 0, time.UTC)

func TestSerialize_Structure(t *testing.T) {
	out := Serialize(sampleTimeline(), stamp)
	lines := strings.Split(out, "\r\n")

	assert.Equal(t, []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//tetsunavi//JP",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"X-WR-CALNAME:テツナビ - 引越し手続きスケジュール",
		"X-WR-TIMEZONE:Asia/Tokyo",
	}, lines[:7])

	assert.Equal(t, []string{
		"BEGIN:VEVENT",
		"UID:p1@tetsunavi",
		"DTSTAMP:20260310T080509",
		"DTSTART;VALUE=DATE:20260401",
		"DTEND;VALUE=DATE:20260401",
		"SUMMARY:転出届",
		"DESCRIPTION:引越し当日 / 所要時間: 約30分 / 優先度: 高",
		"STATUS:NEEDS-ACTION",
		"END:VEVENT",
	}, lines[7:16])

	assert.Equal(t, "STATUS:COMPLETED", lines[23])
	assert.Equal(t, "UID:p3@tetsunavi", lines[26])
	assert.Equal(t, "DTSTART;VALUE=DATE:20260414", lines[28])
	assert.Equal(t, "END:VCALENDAR", lines[len(lines)-1])
	assert.Len(t, lines, 7+3*9+1, "one event per procedure, milestones are not exported")
	assert.False(t, strings.HasSuffix(out, "\r\n"))
	assert.NotContains(t, strings.ReplaceAll(out, "\r\n", ""), "\n")
}

func TestSerialize_EmptyTimeline(t *testing.T) {
	out := Serialize(domain.Timeline{}, stamp)
	lines := strings.Split(out, "\r\n")
	assert.Len(t, lines, 8)
	assert.Equal(t, "END:VCALENDAR", lines[7])
}

func TestSerialize_IdempotentExceptStamp(t *testing.T) {
	tl := sampleTimeline()
	a := strings.Split(Serialize(tl, stamp), "\r\n")
	b := strings.Split(Serialize(tl, stamp.Add(90*time.Minute)), "\r\n")
	require.Len(t, b, len(a))

	var uidsA, uidsB []string
	for i := range a {
		if strings.HasPrefix(a[i], "DTSTAMP:") {
			assert.NotEqual(t, a[i], b[i])
			continue
		}
		assert.Equal(t, a[i], b[i])
		if strings.HasPrefix(a[i], "UID:") {
			uidsA = append(uidsA, a[i])
			uidsB = append(uidsB, b[i])
		}
	}
	assert.Equal(t, uidsA, uidsB)
}

func TestSerialize_SingleStampPerCall(t *testing.T) {
	out := Serialize(sampleTimeline(), stamp)
	stamps := map[string]bool{}
	for _, l := range strings.Split(out, "\r\n") {
		if strings.HasPrefix(l, "DTSTAMP:") {
			stamps[l] = true
		}
	}
	assert.Len(t, stamps, 1)
}

func TestSerialize_EscapesText(t *testing.T) {
	tl := domain.Timeline{Items: []domain.TimelineItem{{
		Date:       "2026-04-01",
		Label:      "前日; 準備",
		Procedures: []domain.TimelineProcedure{{ID: "x", Title: "A; B, C\nD", Priority: domain.PriorityLow, EstimatedDuration: 5}},
	}}}

	out := Serialize(tl, stamp)
	assert.Contains(t, out, "\r\nSUMMARY:A\\; B\\, C\\nD\r\n")
	assert.Contains(t, out, "\r\nDESCRIPTION:前日\\; 準備 / 所要時間: 約5分 / 優先度: 低\r\n")
}

func TestEscape(t *testing.T) {
	assert.Equal(t, `a\\b`, Escape(`a\b`))
	assert.Equal(t, `\;\,\n`, Escape(";,\n"))
	assert.Equal(t, `C:\\path\\n`, Escape(`C:\path\n`), "an existing backslash is escaped, not treated as a newline")
	assert.Equal(t, "普通の文字列", Escape("普通の文字列"))
}

func TestSave_WritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")

	path, err := Save(dir, sampleTimeline(), stamp)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, Filename), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Serialize(sampleTimeline(), stamp), string(data))
}

func TestConstants(t *testing.T) {
	assert.Equal(t, "tetsunavi-schedule.ics", Filename)
	assert.Equal(t, "text/calendar;charset=utf-8", ContentType)
}
