package contract

import (
	"strings"
	"time"

	"github.com/tetsunavi/tetsunavi/internal/domain"
)

const (
	maxPrefectureLen = 10
	maxCityLen       = 50
)

// CreateSessionRequest is the intake form submitted to POST /sessions.
type CreateSessionRequest struct {
	MoveFrom domain.Location `json:"moveFrom"`
	MoveTo   domain.Location `json:"moveTo"`
	MoveDate string          `json:"moveDate"`
}

// Validate rejects empty or oversized locations and move dates before today.
// today is compared by calendar date in its own location.
func (r CreateSessionRequest) Validate(today time.Time) error {
	var fe fieldErrors
	checkLocation(&fe, "moveFrom", r.MoveFrom)
	checkLocation(&fe, "moveTo", r.MoveTo)

	d, err := time.Parse(domain.DateLayout, strings.TrimSpace(r.MoveDate))
	if err != nil {
		fe.add("moveDate", "日付はYYYY-MM-DD形式で入力してください")
	} else if d.Format(domain.DateLayout) < today.Format(domain.DateLayout) {
		fe.add("moveDate", "引越し日は今日以降の日付を入力してください")
	}
	return fe.err()
}

func checkLocation(fe *fieldErrors, field string, l domain.Location) {
	fe.checkLength(field+".prefecture", strings.TrimSpace(l.Prefecture), 1, maxPrefectureLen, "都道府県を入力してください")
	fe.checkLength(field+".city", strings.TrimSpace(l.City), 1, maxCityLen, "市区町村を入力してください")
}

// CreateSessionResponse is the payload of a successful POST /sessions.
type CreateSessionResponse struct {
	SessionID string               `json:"sessionId"`
	CreatedAt string               `json:"createdAt"`
	Status    domain.SessionStatus `json:"status"`
}
