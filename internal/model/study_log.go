package model

import "time"

const (
	ActivityReview   = "review"
	ActivityNewStudy = "new_study"
)

// StudyLog records one completion or review of a task.
type StudyLog struct {
	ID              uint      `gorm:"primaryKey" json:"log_id"`
	TaskID          uint      `gorm:"index" json:"task_id"`
	Timestamp       time.Time `gorm:"index" json:"timestamp"`
	ActivityType    string    `json:"activity_type"`
	DurationMinutes int       `json:"duration_minutes"`
	Performance     string    `json:"performance"`
	Notes           string    `json:"notes"`
}
