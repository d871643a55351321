package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"study-planner/internal/model"
	"study-planner/internal/repository"
	"study-planner/internal/review"
)

const maxBarWidth = 40

// SubjectTime is the study time spent on one subject.
type SubjectTime struct {
	SubjectID string
	Name      string
	Minutes   float64
	Bad       int
}

// WeeklyStats aggregates study logs since the start of the week.
type WeeklyStats struct {
	WeekStart time.Time
	Subjects  []SubjectTime // most minutes first
	Weakest   string        // subject id with most bad ratings, empty if none
}

// ReportService summarizes study activity.
type ReportService struct {
	logRepo    *repository.StudyLogRepository
	taskRepo   *repository.TaskRepository
	subjectSvc *SubjectService
}

func NewReportService(logRepo *repository.StudyLogRepository, taskRepo *repository.TaskRepository, subjectSvc *SubjectService) *ReportService {
	return &ReportService{logRepo: logRepo, taskRepo: taskRepo, subjectSvc: subjectSvc}
}

// Weekly collects minutes and bad ratings per subject from Monday of now's week.
func (s *ReportService) Weekly(ctx context.Context, now time.Time) (WeeklyStats, error) {
	start := weekStart(now)
	stats := WeeklyStats{WeekStart: start}

	logs, err := s.logRepo.ListSince(ctx, start)
	if err != nil {
		return stats, err
	}
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return stats, err
	}
	names, err := s.subjectSvc.Names(ctx)
	if err != nil {
		return stats, err
	}

	taskSubject := make(map[uint]string, len(tasks))
	for _, task := range tasks {
		taskSubject[task.ID] = task.SubjectID
	}

	stats.Subjects, stats.Weakest = aggregate(logs, taskSubject, names)
	return stats, nil
}

func aggregate(logs []model.StudyLog, taskSubject map[uint]string, names map[string]string) ([]SubjectTime, string) {
	bySubject := make(map[string]*SubjectTime)
	var order []string
	for _, entry := range logs {
		subjectID, ok := taskSubject[entry.TaskID]
		if !ok || subjectID == "" {
			continue
		}
		st, ok := bySubject[subjectID]
		if !ok {
			name := names[subjectID]
			if name == "" {
				name = subjectID
			}
			st = &SubjectTime{SubjectID: subjectID, Name: name}
			bySubject[subjectID] = st
			order = append(order, subjectID)
		}
		st.Minutes += float64(entry.DurationMinutes)
		if entry.Performance == "bad" {
			st.Bad++
		}
	}

	out := make([]SubjectTime, 0, len(order))
	weakest, mostBad := "", 0
	for _, id := range order {
		st := *bySubject[id]
		out = append(out, st)
		if st.Bad > mostBad {
			weakest, mostBad = id, st.Bad
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Minutes > out[j].Minutes
	})
	return out, weakest
}

// RenderWeekly draws stats as ASCII bars scaled to the busiest subject.
func RenderWeekly(stats WeeklyStats) string {
	if len(stats.Subjects) == 0 {
		return "No study activity logged this week."
	}

	maxMinutes := stats.Subjects[0].Minutes
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("--- Weekly study time (since %s) ---\n", review.FormatDate(stats.WeekStart)))

	var weakestName string
	for _, st := range stats.Subjects {
		width := 0
		if maxMinutes > 0 {
			width = int(st.Minutes / maxMinutes * maxBarWidth)
		}
		marker := ""
		if st.SubjectID == stats.Weakest {
			marker = " 🔥"
			weakestName = st.Name
		}
		sb.WriteString(fmt.Sprintf("%-10s | %4.1f hrs | %s%s\n", st.Name, st.Minutes/60, strings.Repeat("█", width), marker))
	}

	if weakestName != "" {
		sb.WriteString("\n" + strings.Repeat("=", 50) + "\n")
		sb.WriteString(fmt.Sprintf("🔥 %s collected the most 'bad' ratings this week.\n", weakestName))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func weekStart(now time.Time) time.Time {
	day := review.Day(now)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
