package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"study-planner/internal/model"
	"study-planner/internal/planner"
)

// ReminderService builds the daily agenda message sent to Telegram.
type ReminderService struct {
	taskSvc    *TaskService
	subjectSvc *SubjectService
}

func NewReminderService(taskSvc *TaskService, subjectSvc *SubjectService) *ReminderService {
	return &ReminderService{taskSvc: taskSvc, subjectSvc: subjectSvc}
}

// DailySummary renders today's agenda as Telegram HTML.
func (s *ReminderService) DailySummary(ctx context.Context, now time.Time) (string, error) {
	agenda, err := s.taskSvc.DailyPlan(ctx, now)
	if err != nil {
		return "", err
	}
	names, err := s.subjectSvc.Names(ctx)
	if err != nil {
		return "", err
	}
	return formatAgenda(agenda, names), nil
}

func formatAgenda(agenda planner.Agenda, names map[string]string) string {
	var builder strings.Builder
	builder.WriteString("📋 <b>Study plan</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", agenda.Date.Format("2006-01-02")))

	builder.WriteString("🔥 <b>Overdue reviews</b>\n")
	if len(agenda.Overdue) == 0 {
		builder.WriteString("— nothing overdue\n")
	} else {
		for _, item := range agenda.Overdue {
			builder.WriteString(formatTask(item.Task, names))
			builder.WriteString(fmt.Sprintf(" · <b>%d d late</b>\n", item.DaysLate))
		}
	}

	builder.WriteString("\n💧 <b>Due today</b>\n")
	if len(agenda.DueToday) == 0 {
		builder.WriteString("— no reviews due\n")
	} else {
		for _, task := range agenda.DueToday {
			builder.WriteString(formatTask(task, names))
			builder.WriteByte('\n')
		}
	}

	builder.WriteString("\n🚀 <b>New tasks</b>\n")
	if len(agenda.New) == 0 {
		builder.WriteString("— no new tasks\n")
	} else {
		for _, task := range agenda.New {
			builder.WriteString(formatTask(task, names))
			builder.WriteByte('\n')
		}
	}

	return strings.TrimSpace(builder.String())
}

func formatTask(task model.Task, names map[string]string) string {
	return fmt.Sprintf("#%d <i>(%s)</i> %s",
		task.ID,
		html.EscapeString(subjectName(names, task.SubjectID)),
		html.EscapeString(strings.TrimSpace(task.Description)),
	)
}
