package service

import (
	"context"
	"sort"

	"study-planner/internal/model"
	"study-planner/internal/repository"
)

// SubjectCount pairs a subject with its number of open todo tasks.
type SubjectCount struct {
	Subject model.Subject
	Todo    int
}

// SubjectService provides helpers around subjects.
type SubjectService struct {
	repo     *repository.SubjectRepository
	taskRepo *repository.TaskRepository
}

func NewSubjectService(repo *repository.SubjectRepository, taskRepo *repository.TaskRepository) *SubjectService {
	return &SubjectService{repo: repo, taskRepo: taskRepo}
}

func (s *SubjectService) List(ctx context.Context) ([]model.Subject, error) {
	return s.repo.List(ctx)
}

func (s *SubjectService) Import(ctx context.Context, subjects []model.Subject) error {
	return s.repo.Upsert(ctx, subjects)
}

// Names maps subject IDs to display names.
func (s *SubjectService) Names(ctx context.Context) (map[string]string, error) {
	subjects, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(subjects))
	for _, subj := range subjects {
		names[subj.ID] = subj.Name
	}
	return names, nil
}

// StatusSummary counts todo tasks per subject, busiest subject first.
func (s *SubjectService) StatusSummary(ctx context.Context) ([]SubjectCount, error) {
	subjects, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	todo, err := s.taskRepo.ListByStatus(ctx, model.StatusTodo)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, task := range todo {
		counts[task.SubjectID]++
	}

	out := make([]SubjectCount, 0, len(subjects))
	for _, subj := range subjects {
		out = append(out, SubjectCount{Subject: subj, Todo: counts[subj.ID]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Todo > out[j].Todo
	})
	return out, nil
}

func subjectName(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return "unknown subject"
}
