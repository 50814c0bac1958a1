package training

import "time"

// UserProgress is the read model behind the user report card.
type UserProgress struct {
	User    User
	Modules []ModuleProgress
}

type ModuleProgress struct {
	ModuleID       int
	ModuleName     string
	Status         Status
	Percentage     *float64
	StartedAt      *time.Time
	CompletedAt    *time.Time
	DueAt          *time.Time
	LastEvaluation *EvaluationResult
	UpdatedAt      time.Time
}

type ModuleSummary struct {
	ModuleID          int
	ModuleName        string
	CountsByStatus    map[Status]int64
	Total             int64
	AveragePercentage float64
}

// CompletionRate is the share of enrolled users that finished the module, in percent.
func (s ModuleSummary) CompletionRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.CountsByStatus[StatusCompleted]) * 100 / float64(s.Total)
}
