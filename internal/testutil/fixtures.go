package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/tetsunavi/tetsunavi/internal/domain"
)

// Bookmark options
type BookmarkOption func(*domain.Bookmark)

func WithLastUsed(t time.Time) BookmarkOption {
	return func(b *domain.Bookmark) {
		b.LastUsedAt = t
	}
}

func WithActive() BookmarkOption {
	return func(b *domain.Bookmark) {
		b.Active = true
	}
}

func WithRoute(from, to domain.Location) BookmarkOption {
	return func(b *domain.Bookmark) {
		b.MoveFrom = from
		b.MoveTo = to
	}
}

func NewTestBookmark(opts ...BookmarkOption) *domain.Bookmark {
	now := time.Now().UTC()
	b := &domain.Bookmark{
		SessionID:  uuid.NewString(),
		MoveFrom:   domain.Location{Prefecture: "東京都", City: "世田谷区"},
		MoveTo:     domain.Location{Prefecture: "神奈川県", City: "横浜市"},
		MoveDate:   now.AddDate(0, 1, 0).Format(domain.DateLayout),
		CreatedAt:  now,
		LastUsedAt: now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Procedure options
type ProcedureOption func(*domain.Procedure)

func WithLocation(loc string) ProcedureOption {
	return func(p *domain.Procedure) {
		p.VisitLocation = loc
	}
}

func WithCompleted() ProcedureOption {
	return func(p *domain.Procedure) {
		p.IsCompleted = true
	}
}

func WithCategory(c domain.Category) ProcedureOption {
	return func(p *domain.Procedure) {
		p.Category = c
	}
}

func WithPriority(pr domain.Priority) ProcedureOption {
	return func(p *domain.Procedure) {
		p.Priority = pr
	}
}

func WithDaysAfter(days int) ProcedureOption {
	return func(p *domain.Procedure) {
		p.Deadline.DaysAfter = &days
		switch {
		case days < 0:
			p.Deadline.Type = domain.DeadlineBeforeMove
		case days == 0:
			p.Deadline.Type = domain.DeadlineOnMoveDay
		default:
			p.Deadline.Type = domain.DeadlineAfterMove
		}
	}
}

func NewTestProcedure(id, title string, opts ...ProcedureOption) domain.Procedure {
	days := 14
	p := domain.Procedure{
		ID:                id,
		Title:             title,
		Category:          domain.CategoryGovernment,
		Priority:          domain.PriorityMedium,
		Deadline:          domain.Deadline{Type: domain.DeadlineAfterMove, DaysAfter: &days},
		EstimatedDuration: 30,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// DefaultProcedures is the catalogue the fake backend generates.
func DefaultProcedures() []domain.ProcedureDetail {
	list := []domain.Procedure{
		NewTestProcedure("tenshutsu", "転出届", WithLocation("世田谷区役所"), WithPriority(domain.PriorityHigh), WithDaysAfter(-14)),
		NewTestProcedure("tennyu", "転入届", WithLocation("横浜市役所"), WithPriority(domain.PriorityHigh), WithDaysAfter(14)),
		NewTestProcedure("menkyo", "運転免許証の住所変更", WithLocation("神奈川県警察 運転免許センター"), WithDaysAfter(30)),
		NewTestProcedure("shako", "車庫証明", WithLocation("港北警察署"), WithDaysAfter(15)),
		NewTestProcedure("shaken", "自動車検査証の変更", WithLocation("神奈川運輸支局"), WithDaysAfter(15)),
		NewTestProcedure("denki", "電気の使用開始", WithLocation("オンライン申請"), WithCategory(domain.CategoryPrivate), WithPriority(domain.PriorityLow), WithDaysAfter(-7)),
		NewTestProcedure("ginko", "銀行の住所変更", WithCategory(domain.CategoryPrivate), WithPriority(domain.PriorityLow), WithDaysAfter(30)),
	}
	out := make([]domain.ProcedureDetail, len(list))
	for i, p := range list {
		out[i] = domain.ProcedureDetail{
			Procedure: p,
			Documents: []domain.Document{{Name: "本人確認書類", Description: "運転免許証またはマイナンバーカード", Required: true}},
			Steps:     []domain.Step{{Order: 1, Description: "窓口で申請書を記入する"}, {Order: 2, Description: "書類を提出する"}},
			Notes:     []string{"混雑する時期は待ち時間が長くなります"},
		}
	}
	return out
}

// DefaultQuestions is the interview the fake backend asks.
func DefaultQuestions() []domain.Question {
	return []domain.Question{
		{ID: "household", Text: "世帯構成を教えてください", Type: domain.QuestionSingleChoice, Options: []string{"単身", "夫婦", "子供あり"}, Required: true},
		{ID: "car", Text: "自動車をお持ちですか？", Type: domain.QuestionBoolean, Required: true},
		{ID: "pets", Text: "ペットを飼っていますか？", Type: domain.QuestionMultipleChoice, Options: []string{"犬", "猫", "その他"}, Required: false},
		{ID: "note", Text: "その他気になること", Type: domain.QuestionText, Required: false},
	}
}
