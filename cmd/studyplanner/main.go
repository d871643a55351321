package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"study-planner/internal/config"
	"study-planner/internal/repository"
	"study-planner/internal/service"
)

const usage = `usage: studyplanner <command> [flags]

commands:
  subjects                      list subjects and their traffic-light status
  subjects import <file>        load subjects from a YAML or JSON catalog
  status                        open todo tasks per subject
  plan                          today's reviews and new tasks
  task list [-status s]         list tasks (all, todo, doing, done)
  task add -subject id [-type t] [-resource r] [-due YYYY-MM-DD] [-peak] <description>
  task start <id>               mark a task as in progress
  task complete <id> [-performance good|ok|bad] [-minutes n] [-notes text]
  report                        this week's study time per subject
  remind [-daemon]              send today's plan to Telegram, optionally on a schedule`

func main() {
	log.SetFlags(0)
	log.SetPrefix("studyplanner: ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	taskRepo := repository.NewTaskRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	logRepo := repository.NewStudyLogRepository(db)

	subjectSvc := service.NewSubjectService(subjectRepo, taskRepo)
	taskSvc := service.NewTaskService(taskRepo, subjectRepo)

	a := &app{
		cfg:       cfg,
		tasks:     taskSvc,
		subjects:  subjectSvc,
		reports:   service.NewReportService(logRepo, taskRepo, subjectSvc),
		reminders: service.NewReminderService(taskSvc, subjectSvc),
		out:       os.Stdout,
		in:        bufio.NewReader(os.Stdin),
		now:       func() time.Time { return time.Now().In(cfg.Location) },
	}

	if err := a.run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		if errors.Is(err, context.Canceled) {
			stop()
			fmt.Fprintln(os.Stderr, "interrupted, nothing saved")
			os.Exit(130)
		}
		log.Fatal(err)
	}
}
