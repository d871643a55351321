package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"study-planner/internal/model"
)

// StudyLogRepository reads the study activity journal.
type StudyLogRepository struct {
	db *gorm.DB
}

func NewStudyLogRepository(db *gorm.DB) *StudyLogRepository {
	return &StudyLogRepository{db: db}
}

// ListSince returns logs with a timestamp at or after since, oldest first.
func (r *StudyLogRepository) ListSince(ctx context.Context, since time.Time) ([]model.StudyLog, error) {
	var logs []model.StudyLog
	if err := r.db.WithContext(ctx).Where("timestamp >= ?", since.UTC()).
		Order("timestamp ASC").
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list study logs: %w", err)
	}
	return logs, nil
}

func (r *StudyLogRepository) ListByTask(ctx context.Context, taskID uint) ([]model.StudyLog, error) {
	var logs []model.StudyLog
	if err := r.db.WithContext(ctx).Where("task_id = ?", taskID).Order("id ASC").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list task logs: %w", err)
	}
	return logs, nil
}
