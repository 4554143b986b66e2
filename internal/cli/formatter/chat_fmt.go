package formatter

import (
	"fmt"
	"strings"
)

// FormatChatWelcome is shown when the assistant view opens.
func FormatChatWelcome() string {
	return StyleHeader.Render("AIアシスタント") + "\n" +
		Dim("引越し手続きについて何でも質問してください。Enter で送信、Esc で終了。")
}

// FormatUserMessage renders one user turn.
func FormatUserMessage(text string) string {
	return StyleBlue.Render("あなた") + Dim(" › ") + text
}

// FormatAssistantMessage renders one assistant turn, indenting continuation
// lines under the speaker label.
func FormatAssistantMessage(text string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = "  " + lines[i]
	}
	return StylePurple.Render("テツナビ") + Dim(" › ") + strings.Join(lines, "\n")
}

// FormatSuggestions numbers follow-up questions so they can be picked by
// typing the digit.
func FormatSuggestions(items []string) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(Dim("💡 こんな質問ができます:"))
	for i, s := range items {
		fmt.Fprintf(&b, "\n  %s %s", StyleYellow.Render(fmt.Sprintf("[%d]", i+1)), s)
	}
	return b.String()
}
