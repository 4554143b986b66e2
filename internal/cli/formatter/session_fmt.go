package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/tetsunavi/tetsunavi/internal/domain"
)

// SessionStatusPill renders where a session is in the intake flow.
func SessionStatusPill(s domain.SessionStatus) string {
	switch s {
	case domain.SessionCreated:
		return StyleYellow.Render("○ ヒアリング未回答")
	case domain.SessionInterviewCompleted:
		return StyleBlue.Render("◐ ヒアリング完了")
	case domain.SessionProceduresGenerated:
		return StyleGreen.Render("● 手続きリスト生成済み")
	default:
		return StyleDim.Render(domain.CoalesceStr(string(s), "--"))
	}
}

// NextStep suggests the command to run after a session reaches status s.
func NextStep(s domain.SessionStatus) string {
	switch s {
	case domain.SessionCreated:
		return "tetsunavi interview"
	default:
		return "tetsunavi procedures"
	}
}

// FormatSession renders the overview box of one session.
func FormatSession(s *domain.Session, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Dim("ID      "), s.SessionID)
	fmt.Fprintf(&b, "%s  %s\n", Dim("引越し元"), s.MoveFrom)
	fmt.Fprintf(&b, "%s  %s\n", Dim("引越し先"), s.MoveTo)
	fmt.Fprintf(&b, "%s  %s\n", Dim("引越し日"), DateWithCountdown(s.MoveDate, now))
	fmt.Fprintf(&b, "%s  %s\n", Dim("状態    "), SessionStatusPill(s.Status))
	b.WriteString("\n")
	b.WriteString(Dim("次のステップ: ") + StyleBlue.Render(NextStep(s.Status)))
	return RenderBox("セッション", b.String())
}

// FormatBookmarks renders the locally remembered sessions.
func FormatBookmarks(list []*domain.Bookmark, now time.Time) string {
	if len(list) == 0 {
		return Dim("保存されたセッションはありません。`tetsunavi start` で開始してください。")
	}
	headers := []string{"", "ID", "ルート", "引越し日", "最終利用"}
	rows := make([][]string, 0, len(list))
	for _, bm := range list {
		marker := " "
		if bm.Active {
			marker = StyleGreen.Render("▶")
		}
		rows = append(rows, []string{
			marker,
			TruncID(bm.SessionID),
			domain.CoalesceStr(bm.Route(), Dim("--")),
			DateWithCountdown(bm.MoveDate, now),
			Dim(HumanTimestamp(bm.LastUsedAt, now)),
		})
	}
	return RenderBox("セッション一覧", RenderTable(headers, rows))
}
