package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"study-planner/internal/bot"
	"study-planner/internal/catalog"
	"study-planner/internal/config"
	"study-planner/internal/model"
	"study-planner/internal/review"
	"study-planner/internal/service"
)

var errUsage = errors.New("usage")

type app struct {
	cfg       config.Config
	tasks     *service.TaskService
	subjects  *service.SubjectService
	reports   *service.ReportService
	reminders *service.ReminderService
	out       io.Writer
	in        *bufio.Reader
	now       func() time.Time
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "subjects":
		if len(args) > 1 && args[1] == "import" {
			return a.importSubjects(ctx, args[2:])
		}
		return a.listSubjects(ctx)
	case "status":
		return a.status(ctx)
	case "plan":
		return a.plan(ctx)
	case "task":
		return a.task(ctx, args[1:])
	case "report":
		return a.report(ctx)
	case "remind":
		return a.remind(ctx, args[1:])
	case "help", "-h", "--help":
		return errUsage
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

func (a *app) task(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "list":
		return a.listTasks(ctx, args[1:])
	case "add":
		return a.addTask(ctx, args[1:])
	case "start":
		return a.startTask(ctx, args[1:])
	case "complete":
		return a.completeTask(ctx, args[1:])
	default:
		return fmt.Errorf("%w: unknown task command %q", errUsage, args[0])
	}
}

func (a *app) listSubjects(ctx context.Context) error {
	subjects, err := a.subjects.List(ctx)
	if err != nil {
		return err
	}
	writeSubjects(a.out, subjects)
	return nil
}

func (a *app) importSubjects(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: subjects import needs a file", errUsage)
	}
	subjects, err := catalog.LoadFile(args[0])
	if err != nil {
		return err
	}
	if err := a.subjects.Import(ctx, subjects); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✅ imported %d subjects from %s\n", len(subjects), args[0])
	return nil
}

func (a *app) status(ctx context.Context) error {
	summary, err := a.subjects.StatusSummary(ctx)
	if err != nil {
		return err
	}
	writeStatus(a.out, summary)
	return nil
}

func (a *app) plan(ctx context.Context) error {
	agenda, err := a.tasks.DailyPlan(ctx, a.now())
	if err != nil {
		return err
	}
	names, err := a.subjects.Names(ctx)
	if err != nil {
		return err
	}
	writeAgenda(a.out, agenda, names)
	return nil
}

func (a *app) listTasks(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("task list", flag.ContinueOnError)
	status := fs.String("status", "all", "filter by status (all, todo, doing, done)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	tasks, err := a.tasks.ListTasks(ctx, *status)
	if err != nil {
		return err
	}
	names, err := a.subjects.Names(ctx)
	if err != nil {
		return err
	}
	writeTasks(a.out, tasks, names, *status)
	return nil
}

func (a *app) addTask(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("task add", flag.ContinueOnError)
	var input service.TaskInput
	fs.StringVar(&input.SubjectID, "subject", "", "subject id the task belongs to")
	fs.StringVar(&input.Type, "type", "study", "task type (study, wellbeing)")
	fs.StringVar(&input.ResourceCode, "resource", "", "related resource code")
	fs.StringVar(&input.DueDate, "due", "", "due date (YYYY-MM-DD)")
	fs.BoolVar(&input.PeakTimeRequired, "peak", false, "needs peak focus time")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	input.Description = strings.Join(fs.Args(), " ")

	task, err := a.tasks.AddTask(ctx, input)
	if err != nil {
		return err
	}
	log.Printf("[info] task %d added to %s", task.ID, task.SubjectID)
	fmt.Fprintf(a.out, "✅ added task %d: %s\n", task.ID, task.Description)
	return nil
}

func (a *app) startTask(ctx context.Context, args []string) error {
	id, err := parseTaskID(args)
	if err != nil {
		return err
	}
	task, err := a.tasks.SetStatus(ctx, id, model.StatusDoing)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "▶ task %d is now in progress: %s\n", task.ID, task.Description)
	return nil
}

func (a *app) completeTask(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("task complete", flag.ContinueOnError)
	perfFlag := fs.String("performance", "", "how the session went (good, ok, bad)")
	minutes := fs.Int("minutes", 0, "minutes spent")
	notes := fs.String("notes", "", "free-form notes")
	id, err := parseTaskID(args)
	if err != nil {
		return err
	}
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	task, err := a.tasks.GetTask(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "--- completing task %d (%s) ---\n", task.ID, task.Description)

	perf, err := a.resolvePerformance(ctx, *perfFlag)
	if err != nil {
		return err
	}
	if !flagSet(fs, "minutes") {
		if *minutes, err = a.promptInt(ctx, "Minutes spent? "); err != nil {
			return err
		}
	}
	if !flagSet(fs, "notes") {
		if *notes, err = a.prompt(ctx, "Notes (optional): "); err != nil {
			return err
		}
	}

	res, err := a.tasks.CompleteTask(ctx, service.CompleteInput{
		TaskID:          id,
		Performance:     perf,
		DurationMinutes: *minutes,
		Notes:           *notes,
	}, a.now())
	if err != nil {
		return err
	}
	log.Printf("[info] task %d logged as %s (%s)", res.Task.ID, res.Log.ActivityType, res.Log.Performance)
	fmt.Fprintf(a.out, "✅ task %d done, next review on %s\n", res.Task.ID, valueOr(res.Task.NextReviewDate, "n/a"))
	return nil
}

// resolvePerformance validates the flag value or keeps asking until the answer is valid.
func (a *app) resolvePerformance(ctx context.Context, raw string) (review.Performance, error) {
	if raw != "" {
		return review.ParsePerformance(raw)
	}
	for {
		answer, err := a.prompt(ctx, "How did it go? (good, ok, bad) ")
		if err != nil {
			return 0, err
		}
		perf, err := review.ParsePerformance(answer)
		if err == nil {
			return perf, nil
		}
		fmt.Fprintln(a.out, "⚠ invalid answer, please type good, ok or bad.")
	}
}

// prompt prints label and waits for one line of input. It gives up as soon as
// ctx is cancelled; the pending read is abandoned.
func (a *app) prompt(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(a.out, label)

	type result struct {
		line string
		err  error
	}
	lines := make(chan result, 1)
	go func() {
		line, err := a.in.ReadString('\n')
		lines <- result{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(a.out)
		return "", ctx.Err()
	case r := <-lines:
		if r.err != nil && !(errors.Is(r.err, io.EOF) && r.line != "") {
			return "", fmt.Errorf("read input: %w", r.err)
		}
		return strings.TrimSpace(r.line), nil
	}
}

func (a *app) promptInt(ctx context.Context, label string) (int, error) {
	for {
		answer, err := a.prompt(ctx, label)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 0 {
			return n, nil
		}
		fmt.Fprintln(a.out, "⚠ please enter a whole number of minutes.")
	}
}

func (a *app) report(ctx context.Context) error {
	stats, err := a.reports.Weekly(ctx, a.now())
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, service.RenderWeekly(stats))
	return nil
}

func (a *app) remind(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("remind", flag.ContinueOnError)
	daemon := fs.Bool("daemon", false, "keep running and send the plan daily at STUDY_REMIND_AT, or every STUDY_REMIND_EVERY")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if err := a.cfg.RequireReminders(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	notifier, err := bot.New(a.cfg.TelegramToken, a.cfg.TelegramChatID)
	if err != nil {
		return err
	}
	send := func(ctx context.Context) error {
		text, err := a.reminders.DailySummary(ctx, a.now())
		if err != nil {
			return fmt.Errorf("build summary: %w", err)
		}
		return notifier.Send(ctx, text)
	}

	if !*daemon {
		if err := send(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "✅ plan sent")
		return nil
	}

	scheduler := service.NewSchedulerService(a.cfg.Location, 30*time.Second)
	id, when, err := scheduleReminders(scheduler, a.cfg, send)
	if err != nil {
		return fmt.Errorf("schedule reminders: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Printf("[info] reminders scheduled %s, next at %s", when, scheduler.Next(id).Format(time.RFC3339))
	<-ctx.Done()
	log.Println("[info] shutdown complete")
	return nil
}

// scheduleReminders registers send on the interval from STUDY_REMIND_EVERY
// when it is set, otherwise daily at STUDY_REMIND_AT.
func scheduleReminders(scheduler *service.SchedulerService, cfg config.Config, send func(context.Context) error) (cron.EntryID, string, error) {
	if cfg.RemindEvery > 0 {
		id, err := scheduler.ScheduleInterval(cfg.RemindEvery, send)
		return id, "every " + cfg.RemindEvery.String(), err
	}
	id, err := scheduler.ScheduleDaily(cfg.RemindAt, send)
	return id, "daily at " + cfg.RemindAt, err
}

func parseTaskID(args []string) (uint, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: task id is required", errUsage)
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid task id %q", errUsage, args[0])
	}
	return uint(id), nil
}

func flagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func valueOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
