// Package view turns backend payloads into the shapes the CLI renders:
// visit groups, the merged timeline and progress figures.
package view

import (
	"sort"
	"strings"

	"github.com/tetsunavi/tetsunavi/internal/domain"
)

// OtherLocation labels procedures that carry no usable visit location.
const OtherLocation = "その他"

// unknownLocations are placeholders the backend sends when it could not
// name a place.
var unknownLocations = map[string]bool{
	"":   true,
	"不明": true,
}

// NormalizeLocation trims loc and folds blank or unknown values into
// OtherLocation.
func NormalizeLocation(loc string) string {
	loc = strings.TrimSpace(loc)
	if unknownLocations[loc] {
		return OtherLocation
	}
	return loc
}

// VisitGroup collects procedures handled at the same place.
type VisitGroup struct {
	Location      string
	Procedures    []domain.Procedure
	TotalDuration int
	Completed     int
}

// AllCompleted reports whether every procedure in the group is done.
func (g VisitGroup) AllCompleted() bool {
	return len(g.Procedures) > 0 && g.Completed == len(g.Procedures)
}

var locationRanks = []struct {
	rank  int
	terms []string
}{
	{0, []string{"役所"}},
	{1, []string{"警察", "免許"}},
	{2, []string{"運輸"}},
	{3, []string{"オンライン"}},
}

// LocationRank orders visit locations: city offices first, then police and
// licence centres, transport bureaus, online and finally everything else.
func LocationRank(location string) int {
	for _, r := range locationRanks {
		for _, term := range r.terms {
			if strings.Contains(location, term) {
				return r.rank
			}
		}
	}
	return 4
}

// GroupByVisitLocation partitions procedures by visit location. Groups are
// ordered by LocationRank and, within a rank, by first appearance. Every
// procedure lands in exactly one group and keeps its relative order.
func GroupByVisitLocation(procs []domain.Procedure) []VisitGroup {
	index := make(map[string]int)
	var groups []VisitGroup
	for _, p := range procs {
		loc := NormalizeLocation(p.VisitLocation)
		i, ok := index[loc]
		if !ok {
			i = len(groups)
			index[loc] = i
			groups = append(groups, VisitGroup{Location: loc})
		}
		g := &groups[i]
		g.Procedures = append(g.Procedures, p)
		g.TotalDuration += p.EstimatedDuration
		if p.IsCompleted {
			g.Completed++
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return LocationRank(groups[i].Location) < LocationRank(groups[j].Location)
	})
	return groups
}
