package view

import (
	"fmt"
	"math"
	"time"

	"github.com/tetsunavi/tetsunavi/internal/domain"
)

// FormatDuration renders minutes as 45分, 1時間30分 or 2時間.
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d分", minutes)
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%d時間", h)
	}
	return fmt.Sprintf("%d時間%d分", h, m)
}

// FormatDate renders a wire date as 2026年4月1日. Unparsable input is
// returned unchanged.
func FormatDate(s string) string {
	t, err := domain.ParseDate(s)
	if err != nil {
		return s
	}
	return JapaneseDate(t)
}

// JapaneseDate renders t as 2026年4月1日.
func JapaneseDate(t time.Time) string {
	return fmt.Sprintf("%d年%d月%d日", t.Year(), int(t.Month()), t.Day())
}

// ProgressSummary is the completion state of a procedure list.
type ProgressSummary struct {
	Completed int
	Total     int
	Percent   int
}

// Progress summarizes a list. Percent is rounded to the nearest integer
// and is 0 for an empty list.
func Progress(completed, total int) ProgressSummary {
	s := ProgressSummary{Completed: completed, Total: total}
	if total > 0 {
		s.Percent = int(math.Round(float64(completed) / float64(total) * 100))
	}
	return s
}

// Ratio is Completed/Total as a fraction, for progress bars.
func (s ProgressSummary) Ratio() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total)
}
