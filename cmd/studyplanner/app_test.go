package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"study-planner/internal/config"
	"study-planner/internal/model"
	"study-planner/internal/repository"
	"study-planner/internal/review"
	"study-planner/internal/service"
)

func newTestApp(t *testing.T, input string) (*app, *bytes.Buffer) {
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
	subjectSvc := service.NewSubjectService(subjectRepo, taskRepo)
	taskSvc := service.NewTaskService(taskRepo, subjectRepo)

	out := &bytes.Buffer{}
	a := &app{
		cfg:       config.Config{Location: time.UTC},
		tasks:     taskSvc,
		subjects:  subjectSvc,
		reports:   service.NewReportService(repository.NewStudyLogRepository(db), taskRepo, subjectSvc),
		reminders: service.NewReminderService(taskSvc, subjectSvc),
		out:       out,
		in:        bufio.NewReader(strings.NewReader(input)),
		now:       func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) },
	}
	return a, out
}

func importSubjects(t *testing.T, a *app) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "subjects.yaml")
	doc := "subjects:\n  - id: math\n    name: Math\n    status: red\n  - id: eng\n    name: English\n    status: green\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	if err := a.run(context.Background(), []string{"subjects", "import", path}); err != nil {
		t.Fatalf("subjects import err=%v", err)
	}
}

func TestRunWorkflow(t *testing.T) {
	a, out := newTestApp(t, "great\ngood\n25\nfirst pass\n")
	ctx := context.Background()
	importSubjects(t, a)

	if err := a.run(ctx, []string{"task", "add", "-subject", "math", "-due", "2024-06-30", "chain", "rule"}); err != nil {
		t.Fatalf("task add err=%v", err)
	}
	if !strings.Contains(out.String(), "added task 1: chain rule") {
		t.Fatalf("output=\n%s", out)
	}

	out.Reset()
	if err := a.run(ctx, []string{"plan"}); err != nil {
		t.Fatalf("plan err=%v", err)
	}
	if !strings.Contains(out.String(), "[ID: 1] (Math) chain rule") || !strings.Contains(out.String(), "Nothing overdue") {
		t.Errorf("plan output=\n%s", out)
	}

	out.Reset()
	if err := a.run(ctx, []string{"task", "complete", "1"}); err != nil {
		t.Fatalf("task complete err=%v", err)
	}
	if !strings.Contains(out.String(), "invalid answer") {
		t.Errorf("expected re-prompt for invalid rating, output=\n%s", out)
	}
	if !strings.Contains(out.String(), "next review on 2024-06-02") {
		t.Errorf("complete output=\n%s", out)
	}

	task, err := a.tasks.GetTask(ctx, 1)
	if err != nil {
		t.Fatalf("GetTask() err=%v", err)
	}
	if task.Status != "done" || task.ReviewInterval != 1 {
		t.Errorf("task=%+v", task)
	}

	out.Reset()
	if err := a.run(ctx, []string{"task", "list", "-status", "done"}); err != nil {
		t.Fatalf("task list err=%v", err)
	}
	if !strings.Contains(out.String(), "[DONE ]") || !strings.Contains(out.String(), "next review: 2024-06-02") {
		t.Errorf("list output=\n%s", out)
	}

	out.Reset()
	if err := a.run(ctx, []string{"report"}); err != nil {
		t.Fatalf("report err=%v", err)
	}
	if !strings.Contains(out.String(), "Math") || !strings.Contains(out.String(), "0.4 hrs") {
		t.Errorf("report output=\n%s", out)
	}
}

func TestRunCompleteWithFlags(t *testing.T) {
	a, out := newTestApp(t, "")
	ctx := context.Background()
	importSubjects(t, a)

	if err := a.run(ctx, []string{"task", "add", "-subject", "eng", "essay"}); err != nil {
		t.Fatalf("task add err=%v", err)
	}
	if err := a.run(ctx, []string{"task", "start", "1"}); err != nil {
		t.Fatalf("task start err=%v", err)
	}
	err := a.run(ctx, []string{"task", "complete", "1", "-performance", "BAD", "-minutes", "15", "-notes", ""})
	if err != nil {
		t.Fatalf("task complete err=%v", err)
	}
	if !strings.Contains(out.String(), "next review on 2024-06-02") {
		t.Errorf("output=\n%s", out)
	}

	err = a.run(ctx, []string{"task", "complete", "1", "-performance", "great", "-minutes", "5", "-notes", ""})
	if !errors.Is(err, review.ErrInvalidPerformance) {
		t.Errorf("complete with great err=%v, want %v", err, review.ErrInvalidPerformance)
	}
}

func TestRunErrors(t *testing.T) {
	a, _ := newTestApp(t, "")
	ctx := context.Background()

	tests := []struct {
		args []string
		want error
	}{
		{nil, errUsage},
		{[]string{"bogus"}, errUsage},
		{[]string{"task"}, errUsage},
		{[]string{"task", "start"}, errUsage},
		{[]string{"task", "start", "zero"}, errUsage},
		{[]string{"task", "complete", "7", "-performance", "good", "-minutes", "1", "-notes", ""}, service.ErrTaskNotFound},
		{[]string{"task", "add", "-subject", "art", "drawing"}, service.ErrSubjectNotFound},
		{[]string{"subjects", "import"}, errUsage},
	}
	for _, tt := range tests {
		if err := a.run(ctx, tt.args); !errors.Is(err, tt.want) {
			t.Errorf("run(%q) err=%v, want %v", tt.args, err, tt.want)
		}
	}
}

func TestRemindRequiresTelegram(t *testing.T) {
	a, _ := newTestApp(t, "")
	if err := a.run(context.Background(), []string{"remind"}); err == nil || !strings.Contains(err.Error(), "TELEGRAM_TOKEN") {
		t.Errorf("remind err=%v, want missing TELEGRAM_TOKEN", err)
	}
}

func TestStatusAndSubjects(t *testing.T) {
	a, out := newTestApp(t, "")
	ctx := context.Background()

	if err := a.run(ctx, []string{"subjects"}); err != nil {
		t.Fatalf("subjects err=%v", err)
	}
	if !strings.Contains(out.String(), "No subjects yet") {
		t.Errorf("subjects output=\n%s", out)
	}

	importSubjects(t, a)
	for _, d := range []string{"a", "b"} {
		if err := a.run(ctx, []string{"task", "add", "-subject", "math", d}); err != nil {
			t.Fatalf("task add err=%v", err)
		}
	}

	out.Reset()
	if err := a.run(ctx, []string{"status"}); err != nil {
		t.Fatalf("status err=%v", err)
	}
	if !strings.Contains(out.String(), "Math        :  2 ██") || !strings.Contains(out.String(), "Total todo: 2") {
		t.Errorf("status output=\n%s", out)
	}

	out.Reset()
	if err := a.run(ctx, []string{"subjects"}); err != nil {
		t.Fatalf("subjects err=%v", err)
	}
	if !strings.Contains(out.String(), "🔴 math") {
		t.Errorf("subjects output=\n%s", out)
	}
}

// cancelOnWrite cancels once the CLI has printed marker.
type cancelOnWrite struct {
	buf    bytes.Buffer
	marker string
	cancel context.CancelFunc
}

func (w *cancelOnWrite) Write(p []byte) (int, error) {
	n, err := w.buf.Write(p)
	if strings.Contains(w.buf.String(), w.marker) {
		w.cancel()
	}
	return n, err
}

func TestCompleteInterruptedAtPrompt(t *testing.T) {
	a, _ := newTestApp(t, "")
	importSubjects(t, a)
	if err := a.run(context.Background(), []string{"task", "add", "-subject", "math", "limits"}); err != nil {
		t.Fatalf("task add err=%v", err)
	}

	stdin, stdinW := io.Pipe()
	defer stdinW.Close()
	a.in = bufio.NewReader(stdin)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.out = &cancelOnWrite{marker: "How did it go?", cancel: cancel}

	done := make(chan error, 1)
	go func() { done <- a.run(ctx, []string{"task", "complete", "1"}) }()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("task complete err=%v, want %v", err, context.Canceled)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("task complete still blocked on stdin after cancel")
	}

	task, err := a.tasks.GetTask(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetTask() err=%v", err)
	}
	if task.Status != model.StatusTodo || task.ReviewInterval != 0 || task.NextReviewDate != nil {
		t.Errorf("task after interrupt status=%s interval=%d next=%v, want untouched", task.Status, task.ReviewInterval, task.NextReviewDate)
	}
}

func TestCompleteRejectsNegativeMinutesFlag(t *testing.T) {
	a, out := newTestApp(t, "")
	ctx := context.Background()
	importSubjects(t, a)
	if err := a.run(ctx, []string{"task", "add", "-subject", "eng", "essay"}); err != nil {
		t.Fatalf("task add err=%v", err)
	}

	out.Reset()
	err := a.run(ctx, []string{"task", "complete", "1", "-performance", "good", "-minutes", "-5", "-notes", ""})
	if !errors.Is(err, service.ErrInvalidInput) {
		t.Fatalf("complete -minutes -5 err=%v, want %v", err, service.ErrInvalidInput)
	}
	if strings.Contains(out.String(), "Minutes spent?") {
		t.Errorf("explicit -minutes still prompted, output=\n%s", out)
	}
}

func TestTaskListEmptyStore(t *testing.T) {
	a, out := newTestApp(t, "")
	ctx := context.Background()

	if err := a.run(ctx, []string{"task", "list"}); err != nil {
		t.Fatalf("task list err=%v", err)
	}
	if got, want := strings.TrimSpace(out.String()), "No tasks yet, add one with 'task add'."; got != want {
		t.Errorf("task list output=%q, want %q", got, want)
	}

	out.Reset()
	if err := a.run(ctx, []string{"task", "list", "-status", "doing"}); err != nil {
		t.Fatalf("task list -status doing err=%v", err)
	}
	if !strings.Contains(out.String(), `No tasks with status "doing".`) {
		t.Errorf("task list -status doing output=%q", out)
	}
}

func TestScheduleReminders(t *testing.T) {
	noop := func(context.Context) error { return nil }
	tests := []struct {
		name     string
		cfg      config.Config
		wantDesc string
		within   time.Duration
	}{
		{"interval", config.Config{RemindAt: "07:30", RemindEvery: time.Hour}, "every 1h0m0s", time.Hour + 2*time.Second},
		{"daily", config.Config{RemindAt: "07:30"}, "daily at 07:30", 24*time.Hour + 2*time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scheduler := service.NewSchedulerService(time.UTC, time.Second)
			id, desc, err := scheduleReminders(scheduler, tt.cfg, noop)
			if err != nil {
				t.Fatalf("scheduleReminders() err=%v", err)
			}
			if desc != tt.wantDesc {
				t.Errorf("desc=%q, want %q", desc, tt.wantDesc)
			}
			start := time.Now()
			scheduler.Start()
			defer scheduler.Stop()

			next := scheduler.Next(id)
			if next.IsZero() || next.Before(start) || next.Sub(start) > tt.within {
				t.Errorf("Next()=%s, want within %s of %s", next, tt.within, start)
			}
			if tt.cfg.RemindEvery > 0 && next.Sub(start) < tt.cfg.RemindEvery-2*time.Second {
				t.Errorf("Next()=%s, want about %s after %s", next, tt.cfg.RemindEvery, start)
			}
		})
	}
}
