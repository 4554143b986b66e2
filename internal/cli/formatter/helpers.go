package formatter

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tetsunavi/tetsunavi/internal/domain"
	"github.com/tetsunavi/tetsunavi/internal/view"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(title) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// daysBetween counts calendar days from now to t, both read in now's location.
func daysBetween(t, now time.Time) int {
	a := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Round(b.Sub(a).Hours() / 24))
}

// RelativeDateFrom renders t relative to now in calendar days: 今日, 明日,
// あと5日, 3日前.
func RelativeDateFrom(t time.Time, now time.Time) string {
	switch days := daysBetween(t, now); {
	case days == 0:
		return "今日"
	case days == 1:
		return "明日"
	case days == -1:
		return "昨日"
	case days > 0:
		return fmt.Sprintf("あと%d日", days)
	default:
		return fmt.Sprintf("%d日前", -days)
	}
}

// RelativeDateStyled returns RelativeDateFrom with urgency coloring applied.
func RelativeDateStyled(t time.Time, now time.Time) string {
	text := RelativeDateFrom(t, now)
	days := daysBetween(t, now)
	switch {
	case days <= 2:
		return StyleRed.Render(text)
	case days <= 7:
		return StyleYellow.Render(text)
	default:
		return StyleFg.Render(text)
	}
}

// DateWithCountdown renders a wire date as "2026年4月1日 (あと12日)". Dates that
// do not parse are shown as they are.
func DateWithCountdown(s string, now time.Time) string {
	t, err := domain.ParseDate(s)
	if err != nil {
		return s
	}
	return view.FormatDate(s) + " " + Dim("(") + RelativeDateStyled(t, now) + Dim(")")
}

// HumanTimestamp renders how long ago t was.
func HumanTimestamp(t time.Time, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < 0:
		return t.Local().Format("2006/01/02")
	case diff < time.Minute:
		return "たった今"
	case diff < time.Hour:
		return fmt.Sprintf("%d分前", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%d時間前", int(diff.Hours()))
	default:
		return t.Local().Format("2006/01/02")
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// DeadlineText describes when a procedure is due.
func DeadlineText(d domain.Deadline) string {
	if d.Description != "" {
		return d.Description
	}
	switch {
	case d.AbsoluteDate != "":
		return view.FormatDate(d.AbsoluteDate) + "まで"
	case d.DaysAfter != nil && *d.DaysAfter < 0:
		return fmt.Sprintf("引越し%d日前まで", -*d.DaysAfter)
	case d.DaysAfter != nil && *d.DaysAfter > 0:
		return fmt.Sprintf("引越し後%d日以内", *d.DaysAfter)
	case d.Type != "":
		return string(d.Type)
	default:
		return "--"
	}
}
