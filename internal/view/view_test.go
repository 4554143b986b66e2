package view

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetsunavi/tetsunavi/internal/domain"
)

func proc(id, loc string, minutes int, done bool) domain.Procedure {
	return domain.Procedure{ID: id, Title: "手続き" + id, VisitLocation: loc, EstimatedDuration: minutes, IsCompleted: done}
}

func locations(groups []VisitGroup) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Location
	}
	return out
}

func TestGroupByVisitLocation_Order(t *testing.T) {
	procs := []domain.Procedure{
		proc("1", "△△警察署", 30, false),
		proc("2", "□□市役所", 60, false),
		proc("3", "オンライン申請", 10, false),
		proc("4", "△△運輸支局", 45, false),
		proc("5", "不明", 20, false),
	}

	groups := GroupByVisitLocation(procs)
	assert.Equal(t, []string{"□□市役所", "△△警察署", "△△運輸支局", "オンライン申請", "その他"}, locations(groups))
}

func TestGroupByVisitLocation_UnknownAndBlankShareOther(t *testing.T) {
	procs := []domain.Procedure{
		proc("1", "不明", 10, false),
		proc("2", "", 20, true),
		proc("3", "  ", 30, false),
		proc("4", " 不明 ", 40, false),
	}

	groups := GroupByVisitLocation(procs)
	require.Len(t, groups, 1)
	assert.Equal(t, OtherLocation, groups[0].Location)
	assert.Len(t, groups[0].Procedures, 4)
	assert.Equal(t, 100, groups[0].TotalDuration)
	assert.Equal(t, 1, groups[0].Completed)
}

func TestNormalizeLocation(t *testing.T) {
	assert.Equal(t, OtherLocation, NormalizeLocation("不明"))
	assert.Equal(t, OtherLocation, NormalizeLocation(" "))
	assert.Equal(t, "□□市役所", NormalizeLocation(" □□市役所 "))
	assert.Equal(t, "不明な窓口", NormalizeLocation("不明な窓口"))
}

func TestGroupByVisitLocation_TiesKeepFirstAppearance(t *testing.T) {
	procs := []domain.Procedure{
		proc("1", "電力会社", 10, false),
		proc("2", "B区役所", 10, false),
		proc("3", "ガス会社", 10, false),
		proc("4", "A市役所", 10, false),
		proc("5", "運転免許センター", 10, false),
		proc("6", "B区役所", 10, true),
		proc("7", "  ", 10, false),
	}

	groups := GroupByVisitLocation(procs)
	assert.Equal(t, []string{"B区役所", "A市役所", "運転免許センター", "電力会社", "ガス会社", "その他"}, locations(groups))

	require.Len(t, groups[0].Procedures, 2)
	assert.Equal(t, "2", groups[0].Procedures[0].ID)
	assert.Equal(t, "6", groups[0].Procedures[1].ID)
	assert.Equal(t, 20, groups[0].TotalDuration)
	assert.Equal(t, 1, groups[0].Completed)
	assert.False(t, groups[0].AllCompleted())
}

func TestGroupByVisitLocation_KeepsEveryProcedureOnce(t *testing.T) {
	locs := []string{"市役所", "警察署", "", "オンライン", "運輸支局", "銀行", "区役所", ""}
	var procs []domain.Procedure
	for i := 0; i < 40; i++ {
		procs = append(procs, proc(fmt.Sprint(i), locs[i%len(locs)], i, i%3 == 0))
	}

	groups := GroupByVisitLocation(procs)

	seen := map[string]int{}
	total := 0
	for _, g := range groups {
		for _, p := range g.Procedures {
			seen[p.ID]++
			total++
		}
	}
	assert.Equal(t, len(procs), total)
	for _, p := range procs {
		assert.Equal(t, 1, seen[p.ID], "procedure %s", p.ID)
	}

	for i := 1; i < len(groups); i++ {
		assert.LessOrEqual(t, LocationRank(groups[i-1].Location), LocationRank(groups[i].Location))
	}

	assert.Equal(t, groups, GroupByVisitLocation(procs), "grouping is deterministic")
}

func TestGroupByVisitLocation_Empty(t *testing.T) {
	assert.Empty(t, GroupByVisitLocation(nil))
}

func TestLocationRank(t *testing.T) {
	assert.Equal(t, 0, LocationRank("新宿区役所"))
	assert.Equal(t, 1, LocationRank("警察署"))
	assert.Equal(t, 1, LocationRank("運転免許試験場"))
	assert.Equal(t, 2, LocationRank("関東運輸局"))
	assert.Equal(t, 3, LocationRank("オンライン (マイナポータル)"))
	assert.Equal(t, 4, LocationRank(OtherLocation))
}

func TestMergeTimeline_SortsByDateItemsFirst(t *testing.T) {
	tl := domain.Timeline{
		Items: []domain.TimelineItem{
			{Date: "2026-04-10", Label: "転入後"},
			{Date: "2026-04-01", Label: "当日"},
			{Date: "2026-03-20", Label: "2週間前"},
		},
		Milestones: []domain.Milestone{
			{Date: "2026-04-01", Label: "引越し日", Type: domain.MilestoneMoveDate},
			{Date: "2026-04-15", Label: "転入届期限", Type: domain.MilestoneDeadline},
		},
	}

	entries := MergeTimeline(tl)
	require.Len(t, entries, 5)

	var labels []string
	var kinds []EntryKind
	for _, e := range entries {
		labels = append(labels, e.Label())
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []string{"2週間前", "当日", "引越し日", "転入後", "転入届期限"}, labels)
	assert.Equal(t, []EntryKind{KindTimeline, KindTimeline, KindMilestone, KindTimeline, KindMilestone}, kinds)
	assert.Equal(t, "2026-04-01", entries[2].Milestone.Date)
	assert.Same(t, &tl.Items[1], entries[1].Item)
}

func TestMergeTimeline_NonDecreasing(t *testing.T) {
	tl := domain.Timeline{}
	for i := 0; i < 20; i++ {
		day := (i*7)%28 + 1
		tl.Items = append(tl.Items, domain.TimelineItem{Date: fmt.Sprintf("2026-05-%02d", day)})
		tl.Milestones = append(tl.Milestones, domain.Milestone{Date: fmt.Sprintf("2026-05-%02dT00:00:00", day)})
	}

	entries := MergeTimeline(tl)
	for i := 1; i < len(entries); i++ {
		prev, _ := domain.ParseDate(entries[i-1].Date)
		cur, _ := domain.ParseDate(entries[i].Date)
		assert.False(t, cur.Before(prev), "entry %d out of order", i)
		if cur.Equal(prev) && entries[i].Kind == KindTimeline {
			assert.Equal(t, KindTimeline, entries[i-1].Kind, "timeline entries precede milestones on the same date")
		}
	}
}

func TestMergeTimeline_UnparsableDatesLast(t *testing.T) {
	tl := domain.Timeline{
		Items:      []domain.TimelineItem{{Date: "未定", Label: "a"}, {Date: "2026-04-02", Label: "b"}},
		Milestones: []domain.Milestone{{Date: "", Label: "c"}, {Date: "2026-04-01", Label: "d"}},
	}

	var labels []string
	for _, e := range MergeTimeline(tl) {
		labels = append(labels, e.Label())
	}
	assert.Equal(t, []string{"d", "b", "a", "c"}, labels)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0分", FormatDuration(0))
	assert.Equal(t, "45分", FormatDuration(45))
	assert.Equal(t, "1時間", FormatDuration(60))
	assert.Equal(t, "1時間30分", FormatDuration(90))
	assert.Equal(t, "2時間", FormatDuration(120))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2026年4月1日", FormatDate("2026-04-01"))
	assert.Equal(t, "未定", FormatDate("未定"))
}

func TestProgress(t *testing.T) {
	assert.Equal(t, ProgressSummary{Completed: 1, Total: 3, Percent: 33}, Progress(1, 3))
	assert.Equal(t, 67, Progress(2, 3).Percent)
	assert.Equal(t, 0, Progress(0, 0).Percent)
	assert.InDelta(t, 0.5, Progress(2, 4).Ratio(), 0.0001)
	assert.Zero(t, Progress(0, 0).Ratio())
}
