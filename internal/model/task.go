package model

// Status is the workflow state of a task.
type Status string

const (
	StatusTodo  Status = "todo"
	StatusDoing Status = "doing"
	StatusDone  Status = "done"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusDoing, StatusDone:
		return true
	}
	return false
}

// TaskType separates study work from wellbeing activities.
type TaskType string

const (
	TypeStudy     TaskType = "study"
	TypeWellbeing TaskType = "wellbeing"
)

// Valid reports whether t is study or wellbeing.
func (t TaskType) Valid() bool {
	return t == TypeStudy || t == TypeWellbeing
}

// Task represents a single study item and its review schedule.
// Dates are stored as YYYY-MM-DD strings.
type Task struct {
	ID               uint     `gorm:"primaryKey" json:"task_id"`
	SubjectID        string   `gorm:"index" json:"subject_id"`
	Description      string   `json:"description"`
	ResourceCode     string   `json:"resource_code,omitempty"`
	Status           Status   `gorm:"index;default:todo" json:"status"`
	Type             TaskType `gorm:"default:study" json:"type"`
	DueDate          *string  `json:"due_date"`
	PeakTimeRequired bool     `gorm:"default:false" json:"peak_time_required"`
	ReviewInterval   int      `gorm:"default:0" json:"review_interval"`
	LastReviewDate   *string  `json:"last_review_date"`
	NextReviewDate   *string  `json:"next_review_date"`
}

// Clone returns a copy that shares no pointer fields with t.
func (t Task) Clone() Task {
	out := t
	out.DueDate = cloneString(t.DueDate)
	out.LastReviewDate = cloneString(t.LastReviewDate)
	out.NextReviewDate = cloneString(t.NextReviewDate)
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
