package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
)

type TaskService struct {
	repository TaskRepository
	now        func() time.Time
}

func NewTaskService(repository TaskRepository) *TaskService {
	return &TaskService{repository: repository, now: time.Now}
}

func (s *TaskService) Create(ctx context.Context, weddingID string, task *entities.Task) (*entities.Task, error) {
	if task.Priority == "" {
		task.Priority = entities.PriorityMedium
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	task.ID = uuid.NewString()
	task.Completed = false
	task.CompletedAt = nil
	task.CreatedAt = now
	task.UpdatedAt = now

	if err := s.repository.Save(ctx, weddingID, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, weddingID, taskID string) (*entities.Task, error) {
	return s.repository.Get(ctx, weddingID, taskID)
}

// List returns open tasks first, then by due date and priority.
func (s *TaskService) List(ctx context.Context, weddingID string) ([]*entities.Task, error) {
	tasks, err := s.repository.List(ctx, weddingID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(tasks, func(i, j int) bool { return entities.TaskLess(tasks[i], tasks[j]) })
	return tasks, nil
}

// Update replaces the editable fields. Completion is changed through
// Complete and Reopen only.
func (s *TaskService) Update(ctx context.Context, weddingID, taskID string, in *entities.Task) (*entities.Task, error) {
	task, err := s.repository.Get(ctx, weddingID, taskID)
	if err != nil {
		return nil, err
	}

	task.Title = in.Title
	task.Description = in.Description
	task.DueDate = in.DueDate
	task.AssignedTo = in.AssignedTo
	if in.Priority != "" {
		task.Priority = in.Priority
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}
	task.UpdatedAt = s.now().UTC()

	if err := s.repository.Save(ctx, weddingID, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, weddingID, taskID string) error {
	return s.repository.Delete(ctx, weddingID, taskID)
}

func (s *TaskService) Complete(ctx context.Context, weddingID, taskID string) (*entities.Task, error) {
	return s.setCompleted(ctx, weddingID, taskID, true)
}

func (s *TaskService) Reopen(ctx context.Context, weddingID, taskID string) (*entities.Task, error) {
	return s.setCompleted(ctx, weddingID, taskID, false)
}

func (s *TaskService) setCompleted(ctx context.Context, weddingID, taskID string, done bool) (*entities.Task, error) {
	task, err := s.repository.Get(ctx, weddingID, taskID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if done {
		task.Complete(now)
	} else {
		task.Reopen()
	}
	task.UpdatedAt = now

	if err := s.repository.Save(ctx, weddingID, task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}
	return task, nil
}
