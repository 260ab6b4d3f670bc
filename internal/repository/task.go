package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
	"github.com/ofirte/wedding-sub001/internal/infra/docstore"
)

var ErrTaskNotFound = errors.New("task not found")

type TaskRepository struct {
	store docstore.Store
	docs  collection[entities.Task]
}

func NewTaskRepository(store docstore.Store) *TaskRepository {
	return &TaskRepository{
		store: store,
		docs:  collection[entities.Task]{store: store, notFound: ErrTaskNotFound},
	}
}

func (r *TaskRepository) Save(ctx context.Context, weddingID string, task *entities.Task) error {
	path, err := weddingDocument(weddingID, tasksCollection, task.ID)
	if err != nil {
		return err
	}
	if err := r.docs.put(ctx, path, task); err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

// Get returns ErrTaskNotFound for unknown ids.
func (r *TaskRepository) Get(ctx context.Context, weddingID, taskID string) (*entities.Task, error) {
	path, err := weddingDocument(weddingID, tasksCollection, taskID)
	if err != nil {
		return nil, err
	}
	task, err := r.docs.get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

func (r *TaskRepository) List(ctx context.Context, weddingID string) ([]*entities.Task, error) {
	path, err := weddingCollection(weddingID, tasksCollection)
	if err != nil {
		return nil, err
	}
	tasks, err := r.docs.list(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Delete(ctx context.Context, weddingID, taskID string) error {
	path, err := weddingDocument(weddingID, tasksCollection, taskID)
	if err != nil {
		return err
	}
	if err := r.docs.exists(ctx, path); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if err := r.store.Delete(ctx, path); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
