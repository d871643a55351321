package main

import (
	"fmt"
	"io"
	"strings"

	"study-planner/internal/model"
	"study-planner/internal/planner"
	"study-planner/internal/review"
	"study-planner/internal/service"
)

var statusSymbols = map[string]string{"green": "✅", "yellow": "🟡", "red": "🔴"}

func writeSubjects(w io.Writer, subjects []model.Subject) {
	if len(subjects) == 0 {
		fmt.Fprintln(w, "No subjects yet, load some with 'subjects import <file>'.")
		return
	}
	fmt.Fprintln(w, "--- Subjects ---")
	for _, s := range subjects {
		symbol, ok := statusSymbols[s.Status]
		if !ok {
			symbol = "⚪"
		}
		fmt.Fprintf(w, "%s %-10s %-20s %s\n", symbol, s.ID, s.Name, s.Status)
		if s.Description != "" {
			fmt.Fprintf(w, "   %s\n", s.Description)
		}
	}
}

func writeStatus(w io.Writer, summary []service.SubjectCount) {
	fmt.Fprintln(w, "--- Open todo tasks per subject ---")
	total := 0
	for _, c := range summary {
		total += c.Todo
		fmt.Fprintf(w, "  - %-12s: %2d %s\n", c.Subject.Name, c.Todo, strings.Repeat("█", c.Todo))
	}
	fmt.Fprintln(w, strings.Repeat("-", 30))
	fmt.Fprintf(w, "Total todo: %d\n", total)
}

func writeAgenda(w io.Writer, agenda planner.Agenda, names map[string]string) {
	fmt.Fprintf(w, "--- Study plan for %s ---\n", review.FormatDate(agenda.Date))

	fmt.Fprintln(w, "\n🔥 Overdue reviews")
	if len(agenda.Overdue) == 0 {
		fmt.Fprintln(w, "  Nothing overdue, well done!")
	}
	for _, item := range agenda.Overdue {
		fmt.Fprintf(w, "  - %s - %d days late\n", taskLine(item.Task, names), item.DaysLate)
	}

	fmt.Fprintln(w, "\n💧 Due today")
	if len(agenda.DueToday) == 0 {
		fmt.Fprintln(w, "  No reviews due today.")
	}
	for _, task := range agenda.DueToday {
		fmt.Fprintf(w, "  - %s\n", taskLine(task, names))
	}

	fmt.Fprintln(w, "\n🚀 New tasks")
	if len(agenda.New) == 0 {
		fmt.Fprintln(w, "  No new tasks, add one with 'task add'.")
	}
	for _, task := range agenda.New {
		fmt.Fprintf(w, "  - %s\n", taskLine(task, names))
	}

	fmt.Fprintln(w, "\n"+strings.Repeat("=", 50))
	fmt.Fprintln(w, "Tip: run 'studyplanner task complete <id>' after a session.")
}

func writeTasks(w io.Writer, tasks []model.Task, names map[string]string, filter string) {
	if len(tasks) == 0 {
		if f := strings.ToLower(strings.TrimSpace(filter)); f == "" || f == "all" {
			fmt.Fprintln(w, "No tasks yet, add one with 'task add'.")
		} else {
			fmt.Fprintf(w, "No tasks with status %q.\n", filter)
		}
		return
	}
	fmt.Fprintf(w, "--- Tasks (status: %s) ---\n", filter)
	for _, task := range tasks {
		fmt.Fprintf(w, "ID: %-3d [%-5s] %s\n", task.ID, strings.ToUpper(string(task.Status)), taskLine(task, names))
		if task.NextReviewDate != nil {
			fmt.Fprintf(w, "  next review: %s\n", *task.NextReviewDate)
		} else {
			fmt.Fprintf(w, "  due: %s\n", valueOr(task.DueDate, "not set"))
		}
	}
}

func taskLine(task model.Task, names map[string]string) string {
	name, ok := names[task.SubjectID]
	if !ok || name == "" {
		name = "unknown subject"
	}
	return fmt.Sprintf("[ID: %d] (%s) %s", task.ID, name, task.Description)
}
