package query

import (
	"strings"
	"time"
)

// Key identifies a cache entry. Keys are ordered tuples; invalidation
// matches by prefix.
type Key []string

func (k Key) String() string {
	return strings.Join(k, "/")
}

// id is the map key. The unit separator cannot appear in ids we build.
func (k Key) id() string {
	return strings.Join(k, "\x1f")
}

// HasPrefix reports whether p is an element-wise prefix of k. An empty
// prefix matches every key.
func (k Key) HasPrefix(p Key) bool {
	if len(p) > len(k) {
		return false
	}
	for i := range p {
		if k[i] != p[i] {
			return false
		}
	}
	return true
}

// Staleness windows per resource.
const (
	StaleInterview  = 10 * time.Minute
	StaleSession    = 5 * time.Minute
	StaleProcedures = 1 * time.Minute
	StaleDetail     = 5 * time.Minute
	StaleTimeline   = 5 * time.Minute
)

func SessionKey(sessionID string) Key   { return Key{"session", sessionID} }
func InterviewKey(sessionID string) Key { return Key{"session", sessionID, "interview"} }
func TimelineKey(sessionID string) Key  { return Key{"session", sessionID, "timeline"} }

// ProceduresPrefix matches every cached list of a session, whatever the filter.
func ProceduresPrefix(sessionID string) Key { return Key{"procedures", sessionID} }

func ProceduresKey(sessionID, filterKey string) Key {
	return Key{"procedures", sessionID, filterKey}
}

func ProcedureKey(sessionID, procedureID string) Key {
	return Key{"procedure", sessionID, procedureID}
}

// ProcedurePrefix matches every cached detail of a session.
func ProcedurePrefix(sessionID string) Key { return Key{"procedure", sessionID} }
