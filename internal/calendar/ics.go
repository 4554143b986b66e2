// Package calendar exports a session timeline as an iCalendar document.
package calendar

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/tetsunavi/tetsunavi/internal/domain"
)

const (
	// Filename is the name of the exported file.
	Filename = "tetsunavi-schedule.ics"
	// ContentType is the MIME type of the exported document.
	ContentType = "text/calendar;charset=utf-8"
)

const (
	dateLayout  = "20060102"
	stampLayout = "20060102T150405"
)

var header = []string{
	"BEGIN:VCALENDAR",
	"VERSION:2.0",
	"PRODID:-//tetsunavi//JP",
	"CALSCALE:GREGORIAN",
	"METHOD:PUBLISH",
	"X-WR-CALNAME:テツナビ - 引越し手続きスケジュール",
	"X-WR-TIMEZONE:Asia/Tokyo",
}

var escaper = strings.NewReplacer(`\`, `\\`, `;`, `\;`, `,`, `\,`, "\n", `\n`)

// Escape applies iCalendar text escaping: backslash, semicolon and comma
// get a leading backslash and newlines become the two characters \n.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Serialize renders one all-day VEVENT per procedure of every timeline item,
// in input order, joined with CRLF. now only feeds the DTSTAMP lines, so two
// calls on the same timeline differ in nothing else.
func Serialize(t domain.Timeline, now time.Time) string {
	stamp := now.Format(stampLayout)
	lines := append([]string(nil), header...)

	for _, item := range t.Items {
		date := eventDate(item.Date)
		for _, p := range item.Procedures {
			status := "NEEDS-ACTION"
			if p.IsCompleted {
				status = "COMPLETED"
			}
			desc := fmt.Sprintf("%s / 所要時間: 約%d分 / 優先度: %s", item.Label, p.EstimatedDuration, p.Priority)
			lines = append(lines,
				"BEGIN:VEVENT",
				"UID:"+p.ID+"@tetsunavi",
				"DTSTAMP:"+stamp,
				"DTSTART;VALUE=DATE:"+date,
				"DTEND;VALUE=DATE:"+date,
				"SUMMARY:"+Escape(p.Title),
				"DESCRIPTION:"+Escape(desc),
				"STATUS:"+status,
				"END:VEVENT",
			)
		}
	}

	lines = append(lines, "END:VCALENDAR")
	return strings.Join(lines, "\r\n")
}

// eventDate formats a wire date as YYYYMMDD. Values the backend should
// never send fall back to their digits.
func eventDate(s string) string {
	if t, err := domain.ParseDate(s); err == nil {
		return t.Format(dateLayout)
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// Save writes the serialized timeline to dir/Filename and returns the path.
func Save(dir string, t domain.Timeline, now time.Time) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, Filename)
	if err := os.WriteFile(path, []byte(Serialize(t, now)), 0o644); err != nil {
		return "", fmt.Errorf("write calendar: %w", err)
	}
	return path, nil
}
