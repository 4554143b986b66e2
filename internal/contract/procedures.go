package contract

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/tetsunavi/tetsunavi/internal/domain"
)

// ProcedureFilter narrows GET /sessions/{id}/procedures. Empty fields are
// not sent.
type ProcedureFilter struct {
	Category  string
	Priority  string
	Completed *bool
}

// IsZero reports whether no filter is active.
func (f ProcedureFilter) IsZero() bool {
	return f.Category == "" && f.Priority == "" && f.Completed == nil
}

func (f ProcedureFilter) Validate() error {
	var fe fieldErrors
	if f.Category != "" && !domain.ValidCategories[f.Category] {
		fe.add("category", "カテゴリは「行政」または「民間」を指定してください")
	}
	if f.Priority != "" && !domain.ValidPriorities[f.Priority] {
		fe.add("priority", "優先度は「高」「中」「低」のいずれかを指定してください")
	}
	return fe.err()
}

// Query encodes the filter as URL query parameters.
func (f ProcedureFilter) Query() url.Values {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Priority != "" {
		q.Set("priority", f.Priority)
	}
	if f.Completed != nil {
		q.Set("completed", strconv.FormatBool(*f.Completed))
	}
	return q
}

// Key is a stable identifier of the filter for cache keys.
func (f ProcedureFilter) Key() string {
	if f.IsZero() {
		return "all"
	}
	parts := []string{"c=" + f.Category, "p=" + f.Priority}
	if f.Completed != nil {
		parts = append(parts, "done="+strconv.FormatBool(*f.Completed))
	}
	return strings.Join(parts, "&")
}

// ProcedureListResponse is the payload of the procedure list and generation
// endpoints.
type ProcedureListResponse struct {
	Procedures     []domain.Procedure `json:"procedures"`
	TotalCount     int                `json:"totalCount"`
	CompletedCount int                `json:"completedCount"`
}

// WithCompletion returns a copy with the completion flag of procedure id set
// to done and CompletedCount recomputed from the copied entries. The receiver
// is not modified.
func (r ProcedureListResponse) WithCompletion(id string, done bool) ProcedureListResponse {
	procs := make([]domain.Procedure, len(r.Procedures))
	copy(procs, r.Procedures)
	for i := range procs {
		if procs[i].ID == id {
			procs[i].IsCompleted = done
		}
	}
	return ProcedureListResponse{
		Procedures:     procs,
		TotalCount:     r.TotalCount,
		CompletedCount: domain.CountCompleted(procs),
	}
}

// UpdateProcedureRequest is sent with PATCH /sessions/{id}/procedures/{pid}.
type UpdateProcedureRequest struct {
	IsCompleted bool `json:"isCompleted"`
}

type UpdateProcedureResponse struct {
	ID          string `json:"id"`
	IsCompleted bool   `json:"isCompleted"`
	CompletedAt string `json:"completedAt,omitempty"`
}
