package training

import (
	"fmt"
	"strings"
	"time"
)

type ImportKind string

const (
	// KindAuto lets the reader decide from the detected headers.
	KindAuto        ImportKind = ""
	KindTranscript  ImportKind = "transcript"
	KindOrgPlanning ImportKind = "org_planning"
	KindAssignments ImportKind = "assignments"
)

func ParseImportKind(raw string) (ImportKind, error) {
	switch ImportKind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindAuto:
		return KindAuto, nil
	case KindTranscript:
		return KindTranscript, nil
	case KindOrgPlanning:
		return KindOrgPlanning, nil
	case KindAssignments:
		return KindAssignments, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, raw)
}

// Field identifies a logical spreadsheet column independent of its header label.
type Field string

const (
	FieldUserID         Field = "user_id"
	FieldFullName       Field = "full_name"
	FieldFirstName      Field = "first_name"
	FieldLastName       Field = "last_name"
	FieldEmail          Field = "email"
	FieldPosition       Field = "position"
	FieldDepartment     Field = "department"
	FieldBusinessUnit   Field = "business_unit"
	FieldTrainingTitle  Field = "training_title"
	FieldStatus         Field = "status"
	FieldStartDate      Field = "start_date"
	FieldCompletionDate Field = "completion_date"
	FieldDueDate        Field = "due_date"
	FieldPercentage     Field = "percentage"
	FieldScore          Field = "score"
	FieldAttempt        Field = "attempt"
)

// RawRow is one spreadsheet row keyed by detected field. Number is the 1-based sheet row.
type RawRow struct {
	Number int64
	Values map[Field]string
}

func (r RawRow) Get(field Field) string {
	return strings.TrimSpace(r.Values[field])
}

type ProgressRecord struct {
	UserID      string
	ModuleID    int
	ModuleTitle string
	Status      Status
	StartedAt   *time.Time
	CompletedAt *time.Time
	DueAt       *time.Time
	Percentage  *float64
}

type EvaluationResult struct {
	Score   float64
	Passed  bool
	Attempt int
}

func NewEvaluation(score float64, attempt int, passingScore float64, status Status) EvaluationResult {
	return EvaluationResult{
		Score:   score,
		Passed:  score >= passingScore && status != StatusFailed,
		Attempt: attempt,
	}
}

// Record is a validated row ready to be persisted.
type Record struct {
	RowNumber  int64
	User       User
	Progress   *ProgressRecord
	Evaluation *EvaluationResult
}

type RecordOptions struct {
	PassingScore float64
}

const DefaultPassingScore = 70

func NewRecord(kind ImportKind, raw RawRow, opts RecordOptions) (Record, error) {
	if opts.PassingScore <= 0 {
		opts.PassingScore = DefaultPassingScore
	}

	name := raw.Get(FieldFullName)
	if name == "" {
		name = strings.TrimSpace(raw.Get(FieldFirstName) + " " + raw.Get(FieldLastName))
	}

	u, err := NewUser(
		raw.Get(FieldUserID),
		name,
		raw.Get(FieldEmail),
		raw.Get(FieldPosition),
		raw.Get(FieldDepartment),
		raw.Get(FieldBusinessUnit),
	)
	if err != nil {
		return Record{}, err
	}

	record := Record{RowNumber: raw.Number, User: u}

	switch kind {
	case KindOrgPlanning:
		return record, nil
	case KindTranscript, KindAssignments:
	default:
		return Record{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	title := raw.Get(FieldTrainingTitle)
	if title == "" {
		return Record{}, ErrMissingTitle
	}
	moduleID, err := ParseModuleNumber(title)
	if err != nil {
		return Record{}, err
	}

	title = collapseSpaces(title)
	if err := checkLength("training title", title, MaxTextLength); err != nil {
		return Record{}, err
	}

	progress := &ProgressRecord{
		UserID:      u.ID,
		ModuleID:    moduleID,
		ModuleTitle: title,
		Status:      StatusNotStarted,
	}

	if kind == KindTranscript {
		if progress.Status, err = NormalizeStatus(raw.Get(FieldStatus)); err != nil {
			return Record{}, err
		}
	}

	if progress.StartedAt, err = ParseDate(raw.Get(FieldStartDate)); err != nil {
		return Record{}, fmt.Errorf("start date: %w", err)
	}
	if progress.CompletedAt, err = ParseDate(raw.Get(FieldCompletionDate)); err != nil {
		return Record{}, fmt.Errorf("completion date: %w", err)
	}
	if progress.DueAt, err = ParseDate(raw.Get(FieldDueDate)); err != nil {
		return Record{}, fmt.Errorf("due date: %w", err)
	}
	if progress.Percentage, err = ParsePercentage(raw.Get(FieldPercentage)); err != nil {
		return Record{}, fmt.Errorf("percentage: %w", err)
	}

	if kind == KindTranscript && progress.Percentage == nil {
		switch progress.Status {
		case StatusCompleted:
			full := 100.0
			progress.Percentage = &full
		case StatusNotStarted, StatusRegistered:
			zero := 0.0
			progress.Percentage = &zero
		}
	}
	record.Progress = progress

	if kind != KindTranscript {
		return record, nil
	}

	score, err := ParseScore(raw.Get(FieldScore))
	if err != nil {
		return Record{}, fmt.Errorf("score: %w", err)
	}
	if score != nil {
		attempt, err := ParseAttempt(raw.Get(FieldAttempt))
		if err != nil {
			return Record{}, err
		}
		evaluation := NewEvaluation(*score, attempt, opts.PassingScore, progress.Status)
		record.Evaluation = &evaluation
	}

	return record, nil
}
