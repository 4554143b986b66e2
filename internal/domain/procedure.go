package domain

// Deadline describes when a procedure is due relative to the move.
type Deadline struct {
	Type         DeadlineType `json:"type"`
	DaysAfter    *int         `json:"daysAfter,omitempty"`
	AbsoluteDate string       `json:"absoluteDate,omitempty"`
	Description  string       `json:"description,omitempty"`
}

// Procedure is a unit of work the user must perform.
type Procedure struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Category          Category `json:"category"`
	Priority          Priority `json:"priority"`
	Deadline          Deadline `json:"deadline"`
	EstimatedDuration int      `json:"estimatedDuration"`
	IsCompleted       bool     `json:"isCompleted"`
	CompletedAt       string   `json:"completedAt,omitempty"`
	VisitLocation     string   `json:"visitLocation,omitempty"`
}

// Document is a paper the user has to bring.
type Document struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Required     bool   `json:"required"`
	ObtainMethod string `json:"obtainMethod,omitempty"`
}

// Office is the counter where a procedure is handled.
type Office struct {
	Name           string `json:"name"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	Hours          string `json:"hours"`
	NearestStation string `json:"nearestStation,omitempty"`
	MapURL         string `json:"mapUrl,omitempty"`
}

type Step struct {
	Order             int    `json:"order"`
	Description       string `json:"description"`
	EstimatedDuration *int   `json:"estimatedDuration,omitempty"`
}

type RelatedLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ProcedureDetail extends Procedure with everything needed to carry it out.
type ProcedureDetail struct {
	Procedure
	Documents    []Document    `json:"documents,omitempty"`
	Office       *Office       `json:"office,omitempty"`
	Steps        []Step        `json:"steps,omitempty"`
	Notes        []string      `json:"notes,omitempty"`
	RelatedLinks []RelatedLink `json:"relatedLinks,omitempty"`
	Dependencies []string      `json:"dependencies,omitempty"`
}

// CountCompleted returns how many procedures have their completion flag set.
func CountCompleted(procs []Procedure) int {
	n := 0
	for _, p := range procs {
		if p.IsCompleted {
			n++
		}
	}
	return n
}
