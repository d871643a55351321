package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"study-planner/internal/model"
	"study-planner/internal/planner"
	"study-planner/internal/repository"
	"study-planner/internal/review"
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	SubjectID        string
	Description      string
	Type             string
	ResourceCode     string
	DueDate          string // YYYY-MM-DD, optional
	PeakTimeRequired bool
}

// CompleteInput describes one study or review session of a task.
type CompleteInput struct {
	TaskID          uint
	Performance     review.Performance
	DurationMinutes int
	Notes           string
}

// CompleteResult is the rescheduled task and the log entry written for it.
type CompleteResult struct {
	Task model.Task
	Log  model.StudyLog
}

// TaskService wraps task-related business logic.
type TaskService struct {
	taskRepo    *repository.TaskRepository
	subjectRepo *repository.SubjectRepository
}

func NewTaskService(taskRepo *repository.TaskRepository, subjectRepo *repository.SubjectRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, subjectRepo: subjectRepo}
}

func (s *TaskService) AddTask(ctx context.Context, input TaskInput) (*model.Task, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	subjectID := strings.TrimSpace(input.SubjectID)
	if subjectID == "" {
		return nil, fmt.Errorf("%w: subject id is required", ErrInvalidInput)
	}

	taskType := model.TaskType(strings.ToLower(strings.TrimSpace(input.Type)))
	if taskType == "" {
		taskType = model.TypeStudy
	}
	if !taskType.Valid() {
		return nil, fmt.Errorf("%w: unknown task type %q", ErrInvalidInput, input.Type)
	}

	var due *string
	if raw := strings.TrimSpace(input.DueDate); raw != "" {
		if _, err := review.ParseDate(raw, time.UTC); err != nil {
			return nil, fmt.Errorf("%w: due date %q, expected YYYY-MM-DD", ErrInvalidInput, raw)
		}
		due = &raw
	}

	if _, err := s.subjectRepo.GetByID(ctx, subjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSubjectNotFound, subjectID)
		}
		return nil, fmt.Errorf("find subject: %w", err)
	}

	task := model.Task{
		SubjectID:        subjectID,
		Description:      description,
		ResourceCode:     strings.TrimSpace(input.ResourceCode),
		Status:           model.StatusTodo,
		Type:             taskType,
		DueDate:          due,
		PeakTimeRequired: input.PeakTimeRequired,
	}

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// ListTasks returns tasks filtered by status; "all" or "" returns everything.
func (s *TaskService) ListTasks(ctx context.Context, status string) ([]model.Task, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" || status == "all" {
		return s.taskRepo.List(ctx)
	}
	st := model.Status(status)
	if !st.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	return s.taskRepo.ListByStatus(ctx, st)
}

func (s *TaskService) GetTask(ctx context.Context, taskID uint) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrTaskNotFound, taskID)
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return task, nil
}

// SetStatus moves a task to another workflow status without touching its schedule.
func (s *TaskService) SetStatus(ctx context.Context, taskID uint, status model.Status) (*model.Task, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.taskRepo.UpdateStatus(ctx, task, status); err != nil {
		return nil, err
	}
	task.Status = status
	return task, nil
}

// CompleteTask records a study session and reschedules the task's next review.
// The first session of a never-reviewed task is logged as new study and closes
// the task; later sessions are reviews and keep the status as is.
func (s *TaskService) CompleteTask(ctx context.Context, input CompleteInput, now time.Time) (*CompleteResult, error) {
	if !input.Performance.IsValid() {
		return nil, fmt.Errorf("%w: %v", review.ErrInvalidPerformance, input.Performance)
	}
	if input.DurationMinutes < 0 {
		return nil, fmt.Errorf("%w: duration must not be negative", ErrInvalidInput)
	}

	task, err := s.GetTask(ctx, input.TaskID)
	if err != nil {
		return nil, err
	}

	activity := model.ActivityNewStudy
	if task.ReviewInterval > 0 {
		activity = model.ActivityReview
	}

	updated, err := review.Update(*task, input.Performance, now)
	if err != nil {
		return nil, err
	}
	if activity == model.ActivityNewStudy {
		updated.Status = model.StatusDone
	}

	entry := model.StudyLog{
		TaskID:          updated.ID,
		Timestamp:       now.UTC(),
		ActivityType:    activity,
		DurationMinutes: input.DurationMinutes,
		Performance:     input.Performance.String(),
		Notes:           strings.TrimSpace(input.Notes),
	}
	if err := s.taskRepo.SaveReview(ctx, &updated, &entry); err != nil {
		return nil, err
	}

	return &CompleteResult{Task: updated, Log: entry}, nil
}

// DailyPlan loads all tasks and builds today's agenda.
func (s *TaskService) DailyPlan(ctx context.Context, today time.Time) (planner.Agenda, error) {
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return planner.Agenda{}, err
	}
	return planner.BuildAgenda(planner.Plan(tasks, today), today), nil
}
