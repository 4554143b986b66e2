package domain

import (
	"fmt"
	"time"
)

// TimelineProcedure is the lightweight projection of a Procedure shown on
// a timeline date.
type TimelineProcedure struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Priority          Priority `json:"priority"`
	EstimatedDuration int      `json:"estimatedDuration"`
	IsCompleted       bool     `json:"isCompleted"`
}

// TimelineItem groups the procedures due on one date.
type TimelineItem struct {
	Date       string              `json:"date"`
	Label      string              `json:"label"`
	Procedures []TimelineProcedure `json:"procedures"`
}

// Milestone marks a significant date that is not itself actionable.
type Milestone struct {
	Date  string        `json:"date"`
	Label string        `json:"label"`
	Type  MilestoneType `json:"type"`
}

// Timeline is the whole schedule of a session. It is always fetched whole.
type Timeline struct {
	Items      []TimelineItem `json:"timeline"`
	Milestones []Milestone    `json:"milestones"`
}

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate accepts a bare date or an ISO-8601 date-time as sent by the
// backend. Values without an offset are read as UTC.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
