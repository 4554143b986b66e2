package formatter

import (
	"fmt"
	"strings"

	"github.com/tetsunavi/tetsunavi/internal/contract"
	"github.com/tetsunavi/tetsunavi/internal/domain"
)

var questionTypeHints = map[domain.QuestionType]string{
	domain.QuestionSingleChoice:   "1つ選択",
	domain.QuestionMultipleChoice: "複数選択可 (カンマ区切り)",
	domain.QuestionText:           "自由入力",
	domain.QuestionBoolean:        "はい / いいえ",
}

// FormatQuestions lists the interview with the ids used by --answer.
func FormatQuestions(resp *contract.InterviewQuestionsResponse) string {
	var b strings.Builder
	if resp.EstimatedTime > 0 {
		b.WriteString(Dim(fmt.Sprintf("所要時間: 約%d分", resp.EstimatedTime)) + "\n\n")
	}
	for i, q := range resp.Questions {
		title := fmt.Sprintf("%d. %s", i+1, q.Text)
		if q.Required {
			title += StyleRed.Render(" *")
		}
		b.WriteString(Bold(title) + "\n")
		fmt.Fprintf(&b, "   %s %s  %s\n", Dim("id:"), StyleBlue.Render(q.ID), Dim(questionTypeHints[q.Type]))
		if len(q.Options) > 0 {
			b.WriteString("   " + Dim(strings.Join(q.Options, " / ")) + "\n")
		}
		if i < len(resp.Questions)-1 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n" + Dim("回答例: tetsunavi interview --answer "+exampleAnswer(resp.Questions)))
	return RenderBox("ヒアリング", b.String())
}

func exampleAnswer(qs []domain.Question) string {
	if len(qs) == 0 {
		return "id=値"
	}
	q := qs[0]
	value := "はい"
	if len(q.Options) > 0 {
		value = q.Options[0]
	} else if q.Type == domain.QuestionText {
		value = "..."
	}
	return q.ID + "=" + value
}
