package domain

import "fmt"

// Location is a prefecture + city pair. It is always embedded, never
// identified on its own.
type Location struct {
	Prefecture string `json:"prefecture"`
	City       string `json:"city"`
}

func (l Location) String() string {
	return l.Prefecture + l.City
}

// Session identifies one user's relocation case.
type Session struct {
	SessionID string        `json:"sessionId"`
	CreatedAt string        `json:"createdAt"`
	Status    SessionStatus `json:"status"`
	MoveFrom  Location      `json:"moveFrom"`
	MoveTo    Location      `json:"moveTo"`
	MoveDate  string        `json:"moveDate"`
}

// Route renders "from → to" for display.
func (s *Session) Route() string {
	return fmt.Sprintf("%s → %s", s.MoveFrom, s.MoveTo)
}
