package formatter

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tetsunavi/tetsunavi/internal/api"
	"github.com/tetsunavi/tetsunavi/internal/contract"
	"github.com/tetsunavi/tetsunavi/internal/domain"
	"github.com/tetsunavi/tetsunavi/internal/testutil"
	"github.com/tetsunavi/tetsunavi/internal/view"
)

func procedures() []domain.Procedure {
	var out []domain.Procedure
	for _, d := range testutil.DefaultProcedures() {
		out = append(out, d.Procedure)
	}
	return out
}

func TestFormatProcedureList(t *testing.T) {
	procs := procedures()
	procs[1].IsCompleted = true
	done := false
	out := FormatProcedureList(&contract.ProcedureListResponse{
		Procedures:     procs,
		TotalCount:     len(procs),
		CompletedCount: 1,
	}, contract.ProcedureFilter{Category: "行政", Completed: &done})

	assert.Contains(t, out, "あなたの手続きリスト")
	assert.Contains(t, out, fmt.Sprintf("1 / %d 完了", len(procs)))
	assert.Contains(t, out, "種類=行政, 未完了のみ")
	for _, p := range procs {
		assert.Contains(t, out, p.ID)
	}
	assert.Contains(t, out, "引越し後14日以内")
	assert.Contains(t, out, "30分")
}

func TestFormatProcedureList_Empty(t *testing.T) {
	out := FormatProcedureList(&contract.ProcedureListResponse{}, contract.ProcedureFilter{})
	assert.Contains(t, out, "手続きが見つかりません")
	assert.Contains(t, out, "0 / 0 完了")
}

func TestFormatVisitGroups_KeepsGroupOrder(t *testing.T) {
	groups := view.GroupByVisitLocation(procedures())
	out := FormatVisitGroups(groups)

	assert.Contains(t, out, fmt.Sprintf("訪問が必要な窓口: %d箇所", len(groups)))
	last := -1
	for _, g := range groups {
		idx := strings.Index(out, g.Location)
		assert.Greater(t, idx, last, g.Location)
		last = idx
	}
	assert.Contains(t, out, view.OtherLocation)
}

func TestFormatProcedureDetail(t *testing.T) {
	d := testutil.DefaultProcedures()[1]
	d.Office = &domain.Office{Name: "横浜市役所", Address: "横浜市中区本町6-50-10", Hours: "8:45〜17:15"}
	d.RelatedLinks = []domain.RelatedLink{{Title: "横浜市", URL: "https://www.city.yokohama.lg.jp"}}

	out := FormatProcedureDetail(&d)
	for _, want := range []string{"転入届", "必要書類", "本人確認書類", "必須", "窓口案内", "横浜市中区本町6-50-10", "手順", "1. 窓口で申請書を記入する", "注意事項", "関連リンク"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "最寄駅", "empty office fields are skipped")
}

func TestFormatTimeline(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	entries := view.MergeTimeline(domain.Timeline{
		Items: []domain.TimelineItem{{
			Date:  "2026-04-01",
			Label: "引越し当日",
			Procedures: []domain.TimelineProcedure{
				{ID: "denki", Title: "電気の使用開始", Priority: domain.PriorityLow, EstimatedDuration: 15},
			},
		}},
		Milestones: []domain.Milestone{{Date: "2026-04-01", Label: "引越し日", Type: domain.MilestoneMoveDate}},
	})

	out := FormatTimeline(entries, now)
	assert.Contains(t, out, "2026年4月1日")
	assert.Contains(t, out, "電気の使用開始")
	assert.Contains(t, out, "◆")
	assert.Less(t, strings.Index(out, "引越し当日"), strings.Index(out, "◆"))

	assert.Contains(t, FormatTimeline(nil, now), "タイムラインがありません")
}

func TestFormatError(t *testing.T) {
	err := &api.Error{
		Status:    http.StatusBadRequest,
		Code:      api.CodeValidation,
		Message:   "入力内容に誤りがあります",
		Details:   []contract.FieldError{{Field: "moveTo.city", Message: "市区町村を入力してください"}},
		RequestID: "req-1",
	}
	out := FormatError(fmt.Errorf("creating session: %w", err))
	assert.Contains(t, out, "入力内容に誤りがあります")
	assert.Contains(t, out, "moveTo.city")
	assert.Contains(t, out, "市区町村を入力してください")
	assert.Contains(t, out, "request id: req-1")

	answers := &domain.InvalidAnswersError{Problems: []domain.AnswerProblem{{QuestionID: "car", Message: "回答が必要です"}}}
	out = FormatError(answers)
	assert.Contains(t, out, contract.DefaultValidationMessage)
	assert.Contains(t, out, "car")

	assert.Empty(t, FormatError(nil))
}

func TestFormatSuggestions(t *testing.T) {
	out := FormatSuggestions([]string{"転入届の手続き方法を教えて", "オンラインでできる手続きは？"})
	assert.Contains(t, out, "[1]")
	assert.Contains(t, out, "[2]")
	assert.Empty(t, FormatSuggestions(nil))
}

func TestFormatDocument(t *testing.T) {
	s := domain.Session{
		MoveFrom: domain.Location{Prefecture: "東京都", City: "世田谷区"},
		MoveTo:   domain.Location{Prefecture: "神奈川県", City: "横浜市"},
		MoveDate: "2026-04-01",
	}
	d := testutil.DefaultProcedures()[0]
	out := FormatDocument(view.BuildMoveOutForm(s, d, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)))

	assert.Contains(t, out, "転出届 書類プレビュー")
	assert.Contains(t, out, "転 出 届")
	assert.Contains(t, out, "自動入力済み (6項目)")
	assert.Contains(t, out, "神奈川県横浜市（以降の住所を記入）")
	assert.Contains(t, out, "2026年4月1日")
	assert.Contains(t, out, "【注意事項】")
	assert.Contains(t, out, "印鑑登録")
}
