package view

import (
	"sort"
	"time"

	"github.com/tetsunavi/tetsunavi/internal/domain"
)

// EntryKind tells timeline rows apart.
type EntryKind int

const (
	KindTimeline EntryKind = iota
	KindMilestone
)

func (k EntryKind) String() string {
	if k == KindMilestone {
		return "milestone"
	}
	return "timeline"
}

// Entry is one row of the merged timeline. Item is set for KindTimeline,
// Milestone for KindMilestone.
type Entry struct {
	Kind      EntryKind
	Date      string
	Item      *domain.TimelineItem
	Milestone *domain.Milestone
}

// Label returns the row heading.
func (e Entry) Label() string {
	if e.Milestone != nil {
		return e.Milestone.Label
	}
	if e.Item != nil {
		return e.Item.Label
	}
	return ""
}

// MergeTimeline interleaves timeline items and milestones by date. Items
// come before milestones on the same date; rows with unparsable dates go
// last in input order.
func MergeTimeline(t domain.Timeline) []Entry {
	entries := make([]Entry, 0, len(t.Items)+len(t.Milestones))
	for i := range t.Items {
		entries = append(entries, Entry{Kind: KindTimeline, Date: t.Items[i].Date, Item: &t.Items[i]})
	}
	for i := range t.Milestones {
		entries = append(entries, Entry{Kind: KindMilestone, Date: t.Milestones[i].Date, Milestone: &t.Milestones[i]})
	}

	type keyed struct {
		at time.Time
		ok bool
	}
	keys := make([]keyed, len(entries))
	for i, e := range entries {
		at, err := domain.ParseDate(e.Date)
		keys[i] = keyed{at: at, ok: err == nil}
	}
	order := make([]int, len(entries))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ka, kb := keys[order[a]], keys[order[b]]
		switch {
		case ka.ok && kb.ok:
			return ka.at.Before(kb.at)
		case ka.ok:
			return true
		default:
			return false
		}
	})

	out := make([]Entry, len(entries))
	for i, idx := range order {
		out[i] = entries[idx]
	}
	return out
}
