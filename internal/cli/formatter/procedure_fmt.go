package formatter

import (
	"fmt"
	"strings"

	"github.com/tetsunavi/tetsunavi/internal/contract"
	"github.com/tetsunavi/tetsunavi/internal/domain"
	"github.com/tetsunavi/tetsunavi/internal/view"
)

const progressBarWidth = 20

// FormatProcedureList renders the checklist as a table with a progress line.
func FormatProcedureList(list *contract.ProcedureListResponse, filter contract.ProcedureFilter) string {
	var b strings.Builder
	b.WriteString(RenderProgressSummary(view.Progress(list.CompletedCount, list.TotalCount), progressBarWidth))
	b.WriteString("\n")
	if desc := describeFilter(filter); desc != "" {
		b.WriteString(Dim("絞り込み: "+desc) + "\n")
	}
	b.WriteString("\n")

	if len(list.Procedures) == 0 {
		b.WriteString(Dim("手続きが見つかりません"))
		return RenderBox("あなたの手続きリスト", b.String())
	}

	headers := []string{"", "ID", "手続き", "種類", "優先度", "期限", "所要時間"}
	rows := make([][]string, 0, len(list.Procedures))
	for _, p := range list.Procedures {
		title := Bold(p.Title)
		if p.IsCompleted {
			title = Dim(p.Title)
		}
		rows = append(rows, []string{
			CheckMark(p.IsCompleted),
			StyleBlue.Render(p.ID),
			title,
			CategoryBadge(p.Category),
			PriorityBadge(p.Priority),
			DeadlineText(p.Deadline),
			Dim(view.FormatDuration(p.EstimatedDuration)),
		})
	}
	b.WriteString(RenderTable(headers, rows))
	return RenderBox("あなたの手続きリスト", b.String())
}

func describeFilter(f contract.ProcedureFilter) string {
	var parts []string
	if f.Category != "" {
		parts = append(parts, "種類="+f.Category)
	}
	if f.Priority != "" {
		parts = append(parts, "優先度="+f.Priority)
	}
	if f.Completed != nil {
		if *f.Completed {
			parts = append(parts, "完了済みのみ")
		} else {
			parts = append(parts, "未完了のみ")
		}
	}
	return strings.Join(parts, ", ")
}

// FormatVisitGroups renders procedures grouped by the counter they are
// handled at, so one visit covers a whole group.
func FormatVisitGroups(groups []view.VisitGroup) string {
	if len(groups) == 0 {
		return RenderBox("窓口別グルーピング", Dim("手続きが見つかりません"))
	}
	var b strings.Builder
	b.WriteString(Dim(fmt.Sprintf("訪問が必要な窓口: %d箇所", len(groups))) + "\n")
	for _, g := range groups {
		b.WriteString("\n")
		heading := StyleHeader.Render(g.Location)
		if g.AllCompleted() {
			heading = StyleGreen.Render("✔ " + g.Location)
		}
		stats := fmt.Sprintf("%d件 / 約%s / %d件完了", len(g.Procedures), view.FormatDuration(g.TotalDuration), g.Completed)
		b.WriteString(heading + "  " + Dim(stats) + "\n")
		for _, p := range g.Procedures {
			fmt.Fprintf(&b, "  %s %s %s  %s\n", CheckMark(p.IsCompleted), p.Title, PriorityBadge(p.Priority), Dim(p.ID))
		}
	}
	return RenderBox("窓口別グルーピング", strings.TrimRight(b.String(), "\n"))
}

// FormatProcedureDetail renders everything needed to carry a procedure out.
func FormatProcedureDetail(d *domain.ProcedureDetail) string {
	var b strings.Builder
	status := StyleYellow.Render("未完了")
	if d.IsCompleted {
		status = StyleGreen.Render("✔ 完了")
	}
	fmt.Fprintf(&b, "%s  %s  %s\n", CategoryBadge(d.Category), PriorityBadge(d.Priority), status)
	fmt.Fprintf(&b, "%s %s\n", Dim("期限:"), DeadlineText(d.Deadline))
	fmt.Fprintf(&b, "%s %s\n", Dim("所要時間:"), view.FormatDuration(d.EstimatedDuration))
	if d.VisitLocation != "" {
		fmt.Fprintf(&b, "%s %s\n", Dim("窓口:"), d.VisitLocation)
	}

	if len(d.Documents) > 0 {
		b.WriteString("\n" + Header("必要書類") + "\n")
		for _, doc := range d.Documents {
			mark := Dim("任意")
			if doc.Required {
				mark = StyleRed.Render("必須")
			}
			fmt.Fprintf(&b, "  • %s %s\n", doc.Name, mark)
			if doc.Description != "" {
				b.WriteString("    " + Dim(doc.Description) + "\n")
			}
			if doc.ObtainMethod != "" {
				b.WriteString("    " + Dim("入手方法: "+doc.ObtainMethod) + "\n")
			}
		}
	}

	if o := d.Office; o != nil {
		b.WriteString("\n" + Header("窓口案内") + "\n")
		b.WriteString("  " + Bold(o.Name) + "\n")
		for _, line := range [][2]string{
			{"住所", o.Address},
			{"電話", o.Phone},
			{"受付時間", o.Hours},
			{"最寄駅", o.NearestStation},
			{"地図", o.MapURL},
		} {
			if line[1] != "" {
				fmt.Fprintf(&b, "  %s %s\n", Dim(line[0]+":"), line[1])
			}
		}
	}

	if len(d.Steps) > 0 {
		b.WriteString("\n" + Header("手順") + "\n")
		for _, s := range d.Steps {
			line := fmt.Sprintf("  %d. %s", s.Order, s.Description)
			if s.EstimatedDuration != nil {
				line += " " + Dim("("+view.FormatDuration(*s.EstimatedDuration)+")")
			}
			b.WriteString(line + "\n")
		}
	}

	if len(d.Notes) > 0 {
		b.WriteString("\n" + Header("注意事項") + "\n")
		for _, n := range d.Notes {
			b.WriteString("  " + StyleYellow.Render("!") + " " + n + "\n")
		}
	}

	if len(d.RelatedLinks) > 0 {
		b.WriteString("\n" + Header("関連リンク") + "\n")
		for _, l := range d.RelatedLinks {
			fmt.Fprintf(&b, "  %s %s\n", l.Title, StyleBlue.Render(l.URL))
		}
	}

	if len(d.Dependencies) > 0 {
		b.WriteString("\n" + Dim("先に済ませる手続き: "+strings.Join(d.Dependencies, ", ")) + "\n")
	}

	return RenderBox(d.Title, strings.TrimRight(b.String(), "\n"))
}

// FormatCompletion confirms a checklist toggle.
func FormatCompletion(title string, done bool) string {
	if done {
		return StyleGreen.Render("✔ ") + Bold(title) + Dim(" を完了にしました")
	}
	return StyleYellow.Render("○ ") + Bold(title) + Dim(" を未完了に戻しました")
}
