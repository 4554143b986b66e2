package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tetsunavi/tetsunavi/internal/view"
)

// FormatDocument renders a pre-filled form. Values taken from the session
// are blue; everything dim is left for the user to write.
func FormatDocument(f view.DocumentForm) string {
	labelWidth := 0
	for _, s := range f.Sections {
		for _, field := range s.Fields {
			labelWidth = max(labelWidth, lipgloss.Width(field.Label))
		}
	}
	label := lipgloss.NewStyle().Width(labelWidth).Foreground(ColorFg)

	var b strings.Builder
	b.WriteString(StyleBold.Render(spaced(f.Title)) + "\n")
	b.WriteString(Dim(f.Legal) + "\n")
	b.WriteString(StyleBlue.Render(fmt.Sprintf("✦ セッション情報から自動入力済み (%d項目)", f.FilledCount())) + "\n")

	for _, s := range f.Sections {
		b.WriteString("\n")
		if s.Title != "" {
			b.WriteString(Header(s.Title) + "\n")
		}
		for _, field := range s.Fields {
			value := Dim(field.Value)
			if field.Filled {
				value = StyleBlue.Render(field.Value)
				if field.Hint != "" {
					value += Dim(field.Hint)
				}
			}
			fmt.Fprintf(&b, "  %s  %s\n", label.Render(field.Label), value)
		}
	}

	b.WriteString("\n" + Bold("【注意事項】") + "\n")
	for _, n := range f.Notes {
		b.WriteString("  • " + n + "\n")
	}
	b.WriteString("  • " + StyleBlue.Render("青色の項目") + "はセッション情報から自動入力した項目です。内容をご確認ください。\n")
	b.WriteString("\n" + Dim("※ 自治体によって書式が異なる場合があります。正式な届出用紙は窓口で入手してください。"))

	return RenderBox(f.ProcedureTitle+" 書類プレビュー", b.String())
}

// spaced puts a space between the characters of a form title.
func spaced(s string) string {
	return strings.Join(strings.Split(s, ""), " ")
}
