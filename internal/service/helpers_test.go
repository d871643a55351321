package service

import (
	"context"
	"strings"
	"testing"

	"study-planner/internal/model"
	"study-planner/internal/repository"
)

type fixture struct {
	tasks    *TaskService
	subjects *SubjectService
	reminder *ReminderService
	report   *ReportService
	taskRepo *repository.TaskRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repository.NewDB("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("NewDB() err=%v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB() err=%v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	taskRepo := repository.NewTaskRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	logRepo := repository.NewStudyLogRepository(db)

	subjects := NewSubjectService(subjectRepo, taskRepo)
	tasks := NewTaskService(taskRepo, subjectRepo)
	f := &fixture{
		tasks:    tasks,
		subjects: subjects,
		reminder: NewReminderService(tasks, subjects),
		report:   NewReportService(logRepo, taskRepo, subjects),
		taskRepo: taskRepo,
	}

	if err := subjects.Import(context.Background(), []model.Subject{
		{ID: "math", Name: "Math", Status: "red"},
		{ID: "eng", Name: "English", Status: "green"},
		{ID: "bio", Name: "Biology", Status: "yellow"},
	}); err != nil {
		t.Fatalf("Import() err=%v", err)
	}
	return f
}

func (f *fixture) addTask(t *testing.T, subjectID, description string) *model.Task {
	t.Helper()
	task, err := f.tasks.AddTask(context.Background(), TaskInput{SubjectID: subjectID, Description: description})
	if err != nil {
		t.Fatalf("AddTask() err=%v", err)
	}
	return task
}

func strPtr(s string) *string { return &s }
