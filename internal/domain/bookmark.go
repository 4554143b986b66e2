package domain

import "time"

// Bookmark is the local record of a session created from this machine. It
// holds enough to list and reopen the session; everything else lives on the
// backend.
type Bookmark struct {
	SessionID  string
	MoveFrom   Location
	MoveTo     Location
	MoveDate   string
	Active     bool
	CreatedAt  time.Time
	LastUsedAt time.Time
}

// NewBookmark records s as used at now.
func NewBookmark(s Session, now time.Time) *Bookmark {
	return &Bookmark{
		SessionID:  s.SessionID,
		MoveFrom:   s.MoveFrom,
		MoveTo:     s.MoveTo,
		MoveDate:   s.MoveDate,
		CreatedAt:  now.UTC(),
		LastUsedAt: now.UTC(),
	}
}

// Route renders "from → to", or "" when the locations are unknown.
func (b *Bookmark) Route() string {
	if b.MoveFrom == (Location{}) && b.MoveTo == (Location{}) {
		return ""
	}
	return b.MoveFrom.String() + " → " + b.MoveTo.String()
}
