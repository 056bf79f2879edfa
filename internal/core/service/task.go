package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/response"
	"taskapp/internal/core/port"
	tel "taskapp/internal/core/telemetry"
)

const serviceName = "task"

type TaskService struct {
	repo      port.TaskRepository
	telemetry port.Telemetry
	clock     func() time.Time
}

func NewTaskService(repo port.TaskRepository, telemetry port.Telemetry) *TaskService {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TaskService{
		repo:      repo,
		telemetry: telemetry,
		clock:     time.Now,
	}
}

// WithClock replaces the time source used for task timestamps.
func (ts *TaskService) WithClock(clock func() time.Time) *TaskService {
	ts.clock = clock
	return ts
}

func (ts *TaskService) ListTasks(ctx context.Context, filter domain.TaskFilter) (*response.TaskListResponse, error) {
	filter = filter.Normalize()

	ctx, span := ts.telemetry.StartServiceSpan(ctx, serviceName, "ListTasks", map[string]interface{}{
		"filter.title":       filter.Title,
		"filter.description": filter.Description,
		"pagination.page":    filter.Page,
		"pagination.limit":   filter.Limit,
	})
	defer span.End()

	startTime := time.Now()

	tasks, total, err := ts.repo.Find(ctx, filter)

	if err != nil {
		slog.ErrorContext(ctx, "Repository find failed", "error", err)
		return nil, ts.finish(ctx, "ListTasks", startTime, domain.NewBadRequestError("Failed to fetch tasks", err))
	}

	span.SetAttributes(map[string]interface{}{
		"tasks.total":    total,
		"tasks.returned": len(tasks),
	})

	ts.finish(ctx, "ListTasks", startTime, nil)

	return response.NewTaskListResponse(tasks, total, filter.Page, filter.Limit), nil
}

func (ts *TaskService) GetTask(ctx context.Context, id string) (domain.Task, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, serviceName, "GetTask", map[string]interface{}{
		"task.id": id,
	})
	defer span.End()

	startTime := time.Now()

	task, err := ts.findByID(ctx, id)

	return task, ts.finish(ctx, "GetTask", startTime, err)
}

func (ts *TaskService) CreateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, serviceName, "CreateTask", map[string]interface{}{
		"task.title": task.Title,
	})
	defer span.End()

	startTime := time.Now()

	if task.Status == "" {
		task.Status = domain.TaskStatusToDo
	}

	if task.Title == "" {
		return domain.Task{}, ts.finish(ctx, "CreateTask", startTime,
			domain.NewBadRequestError("Failed to create task", errors.New("title is required")))
	}

	if !task.Status.IsValid() {
		return domain.Task{}, ts.finish(ctx, "CreateTask", startTime,
			domain.NewBadRequestError("Failed to create task", fmt.Errorf("invalid status: %s", task.Status)))
	}

	// both drivers keep microseconds, so round-tripped timestamps compare equal
	now := ts.clock().UTC().Truncate(time.Microsecond)

	newTask := domain.Task{
		ID:          uuid.New(),
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	saved, err := ts.repo.Create(ctx, newTask)

	if err != nil {
		slog.ErrorContext(ctx, "Repository create failed", "error", err, "title", newTask.Title)
		return domain.Task{}, ts.finish(ctx, "CreateTask", startTime, domain.NewBadRequestError("Failed to create task", err))
	}

	span.SetAttributes(map[string]interface{}{"task.id": saved.ID.String()})
	ts.finish(ctx, "CreateTask", startTime, nil)

	return saved, nil
}

func (ts *TaskService) UpdateTask(ctx context.Context, id string, changes domain.TaskChanges) (domain.Task, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, serviceName, "UpdateTask", map[string]interface{}{
		"task.id": id,
	})
	defer span.End()

	startTime := time.Now()

	task, err := ts.findByID(ctx, id)

	if err != nil {
		if domain.IsNotFound(err) {
			return domain.Task{}, ts.finish(ctx, "UpdateTask", startTime, err)
		}

		return domain.Task{}, ts.finish(ctx, "UpdateTask", startTime, domain.NewBadRequestError("Failed to update task", err))
	}

	if changes.Status != nil && !changes.Status.IsValid() {
		return domain.Task{}, ts.finish(ctx, "UpdateTask", startTime,
			domain.NewBadRequestError("Failed to update task", fmt.Errorf("invalid status: %s", *changes.Status)))
	}

	if changes.Title != nil && *changes.Title == "" {
		return domain.Task{}, ts.finish(ctx, "UpdateTask", startTime,
			domain.NewBadRequestError("Failed to update task", errors.New("title cannot be empty")))
	}

	task.Apply(changes, ts.clock().UTC().Truncate(time.Microsecond))

	updated, err := ts.repo.Update(ctx, task)

	if err != nil {
		if errors.Is(err, port.ErrTaskNotFound) {
			return domain.Task{}, ts.finish(ctx, "UpdateTask", startTime, domain.NewNotFoundError(id))
		}

		slog.ErrorContext(ctx, "Repository update failed", "error", err, "id", id)
		return domain.Task{}, ts.finish(ctx, "UpdateTask", startTime, domain.NewBadRequestError("Failed to update task", err))
	}

	return updated, ts.finish(ctx, "UpdateTask", startTime, nil)
}

func (ts *TaskService) DeleteTask(ctx context.Context, id string) error {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, serviceName, "DeleteTask", map[string]interface{}{
		"task.id": id,
	})
	defer span.End()

	startTime := time.Now()

	parsedID, err := uuid.Parse(id)

	if err != nil {
		return ts.finish(ctx, "DeleteTask", startTime, domain.NewNotFoundError(id))
	}

	affected, err := ts.repo.DeleteByID(ctx, parsedID.String())

	if err != nil {
		slog.ErrorContext(ctx, "Repository delete failed", "error", err, "id", id)
		return ts.finish(ctx, "DeleteTask", startTime, fmt.Errorf("failed to delete task %s: %w", id, err))
	}

	if affected == 0 {
		return ts.finish(ctx, "DeleteTask", startTime, domain.NewNotFoundError(id))
	}

	return ts.finish(ctx, "DeleteTask", startTime, nil)
}

// findByID maps a missing row, and an id that cannot be a task id, to NotFound.
func (ts *TaskService) findByID(ctx context.Context, id string) (domain.Task, error) {
	parsedID, err := uuid.Parse(id)

	if err != nil {
		return domain.Task{}, domain.NewNotFoundError(id)
	}

	task, err := ts.repo.GetByID(ctx, parsedID.String())

	if err != nil {
		if errors.Is(err, port.ErrTaskNotFound) {
			return domain.Task{}, domain.NewNotFoundError(id)
		}

		return domain.Task{}, err
	}

	return task, nil
}

func (ts *TaskService) finish(ctx context.Context, operation string, startTime time.Time, err error) error {
	ts.telemetry.RecordServiceOperation(ctx, serviceName, operation, time.Since(startTime), err)
	return err
}
