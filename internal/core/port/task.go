package port

import (
	"context"
	"errors"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/response"
)

// ErrTaskNotFound is returned by repositories when no row matches the id.
var ErrTaskNotFound = errors.New("task record not found")

type TaskRepository interface {
	Find(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, int, error)
	GetByID(ctx context.Context, id string) (domain.Task, error)
	Create(ctx context.Context, task domain.Task) (domain.Task, error)
	Update(ctx context.Context, task domain.Task) (domain.Task, error)
	DeleteByID(ctx context.Context, id string) (int64, error)
}

type TaskService interface {
	ListTasks(ctx context.Context, filter domain.TaskFilter) (*response.TaskListResponse, error)
	GetTask(ctx context.Context, id string) (domain.Task, error)
	CreateTask(ctx context.Context, task domain.Task) (domain.Task, error)
	UpdateTask(ctx context.Context, id string, changes domain.TaskChanges) (domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
}
