// Package planner builds the daily study agenda from a task set.
package planner

import (
	"sort"
	"time"

	"study-planner/internal/model"
	"study-planner/internal/review"
)

// DailyPlan is the raw partition of tasks for one day.
type DailyPlan struct {
	ReviewTasks []model.Task
	NewTasks    []model.Task
}

// Plan partitions tasks into review tasks (next review on or before today)
// and new tasks (todo and never scheduled). A task lands in at most one
// bucket and input order is kept. Missing or malformed review dates are
// treated as absent; a valid review date, even a future one, keeps the
// task out of the new bucket.
func Plan(tasks []model.Task, today time.Time) DailyPlan {
	day := review.Day(today)
	var plan DailyPlan
	for _, task := range tasks {
		if next, ok := nextReview(task, day.Location()); ok {
			if !next.After(day) {
				plan.ReviewTasks = append(plan.ReviewTasks, task)
			}
			continue
		}
		if task.Status == model.StatusTodo && task.ReviewInterval == 0 {
			plan.NewTasks = append(plan.NewTasks, task)
		}
	}
	return plan
}

func nextReview(task model.Task, loc *time.Location) (time.Time, bool) {
	if task.NextReviewDate == nil || *task.NextReviewDate == "" {
		return time.Time{}, false
	}
	next, err := review.ParseDate(*task.NextReviewDate, loc)
	if err != nil {
		return time.Time{}, false
	}
	return next, true
}

// OverdueTask is a review task together with how many days it is late.
type OverdueTask struct {
	Task     model.Task
	DaysLate int
}

// Agenda is the presentation view of a DailyPlan.
type Agenda struct {
	Date     time.Time
	Overdue  []OverdueTask // most days late first
	DueToday []model.Task  // by task ID
	New      []model.Task  // plan order
}

// Empty reports whether nothing is scheduled.
func (a Agenda) Empty() bool {
	return len(a.Overdue) == 0 && len(a.DueToday) == 0 && len(a.New) == 0
}

// BuildAgenda splits the review tasks of plan into overdue and due-today
// lists relative to today.
func BuildAgenda(plan DailyPlan, today time.Time) Agenda {
	day := review.Day(today)
	agenda := Agenda{Date: day, New: plan.NewTasks}

	for _, task := range plan.ReviewTasks {
		next, ok := nextReview(task, day.Location())
		if !ok {
			continue
		}
		if late := daysBetween(next, day); late > 0 {
			agenda.Overdue = append(agenda.Overdue, OverdueTask{Task: task, DaysLate: late})
		} else {
			agenda.DueToday = append(agenda.DueToday, task)
		}
	}

	sort.SliceStable(agenda.Overdue, func(i, j int) bool {
		return agenda.Overdue[i].DaysLate > agenda.Overdue[j].DaysLate
	})
	sort.SliceStable(agenda.DueToday, func(i, j int) bool {
		return agenda.DueToday[i].ID < agenda.DueToday[j].ID
	})
	return agenda
}

// daysBetween counts calendar days from a to b. Both must be midnights in the same location.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
