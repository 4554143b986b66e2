package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/tetsunavi/tetsunavi/internal/view"
)

// FormatTimeline renders merged timeline rows in date order. Milestones
// get a diamond, dated groups list their procedures beneath.
func FormatTimeline(entries []view.Entry, now time.Time) string {
	if len(entries) == 0 {
		return RenderBox("タイムライン", Dim("タイムラインがありません")+"\n"+
			Dim("手続きリストを生成すると、タイムラインが表示されます。"))
	}

	var b strings.Builder
	for i, e := range entries {
		date := DateWithCountdown(e.Date, now)
		if e.Kind == view.KindMilestone {
			fmt.Fprintf(&b, "%s %s  %s\n", StylePurple.Render("◆"), date, StylePurple.Bold(true).Render(e.Label()))
		} else {
			fmt.Fprintf(&b, "%s %s  %s\n", StyleHeader.Render("●"), date, Bold(e.Label()))
			for _, p := range e.Item.Procedures {
				title := p.Title
				if p.IsCompleted {
					title = Dim(title)
				}
				fmt.Fprintf(&b, "  %s %s %s %s\n", CheckMark(p.IsCompleted), title,
					PriorityBadge(p.Priority), Dim(view.FormatDuration(p.EstimatedDuration)))
			}
		}
		if i < len(entries)-1 {
			b.WriteString(Dim("│") + "\n")
		}
	}
	return RenderBox("タイムライン", strings.TrimRight(b.String(), "\n"))
}

// FormatExported confirms where the calendar file was written.
func FormatExported(path string, events int) string {
	return StyleGreen.Render("✔ ") + fmt.Sprintf("%d件の予定を書き出しました: ", events) + Bold(path) + "\n" +
		Dim("Google カレンダーや Apple カレンダーに読み込めます。")
}
