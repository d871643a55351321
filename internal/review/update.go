package review

import (
	"fmt"
	"time"

	"study-planner/internal/model"
)

// Update applies one review to task and returns the rescheduled copy.
// Only ReviewInterval, LastReviewDate and NextReviewDate change; the input
// task is left untouched. An invalid performance returns the task as given
// together with ErrInvalidPerformance.
func Update(task model.Task, p Performance, today time.Time) (model.Task, error) {
	interval, err := NextInterval(task.ReviewInterval, p)
	if err != nil {
		return task, fmt.Errorf("task %d: %w: %d", task.ID, err, int(p))
	}

	out := task.Clone()
	day := Day(today)
	last := FormatDate(day)
	out.LastReviewDate = &last
	out.ReviewInterval = interval
	if interval > 0 {
		next := FormatDate(AddDays(day, interval))
		out.NextReviewDate = &next
	} else {
		out.NextReviewDate = nil
	}
	return out, nil
}
