package domain

type SessionStatus string

const (
	SessionCreated             SessionStatus = "created"
	SessionInterviewCompleted  SessionStatus = "interview_completed"
	SessionProceduresGenerated SessionStatus = "procedures_generated"
)

type QuestionType string

const (
	QuestionSingleChoice   QuestionType = "single_choice"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionText           QuestionType = "text"
	QuestionBoolean        QuestionType = "boolean"
)

type Category string

const (
	CategoryGovernment Category = "行政"
	CategoryPrivate    Category = "民間"
)

// ValidCategories is the canonical set of accepted procedure categories.
var ValidCategories = map[string]bool{
	string(CategoryGovernment): true,
	string(CategoryPrivate):    true,
}

type Priority string

const (
	PriorityHigh   Priority = "高"
	PriorityMedium Priority = "中"
	PriorityLow    Priority = "低"
)

// ValidPriorities is the canonical set of accepted procedure priorities.
var ValidPriorities = map[string]bool{
	string(PriorityHigh):   true,
	string(PriorityMedium): true,
	string(PriorityLow):    true,
}

type DeadlineType string

const (
	DeadlineBeforeMove DeadlineType = "引越し前"
	DeadlineAfterMove  DeadlineType = "引越し後"
	DeadlineOnMoveDay  DeadlineType = "引越し当日"
)

type MilestoneType string

const (
	MilestoneMoveDate MilestoneType = "moveDate"
	MilestoneDeadline MilestoneType = "deadline"
	MilestoneCustom   MilestoneType = "custom"
)
