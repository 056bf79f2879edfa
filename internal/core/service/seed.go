package service

import (
	"context"
	"log/slog"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/port"
)

type demoTask struct {
	title       string
	description string
	status      domain.TaskStatus
}

var demoTasks = []demoTask{
	{"Set up project", "Initialize the project with proper dependencies", domain.TaskStatusDone},
	{"Create tasks entity", "Define the Task entity with appropriate fields", domain.TaskStatusDone},
	{"Implement CRUD operations", "Create handler and service methods for task management", domain.TaskStatusInProgress},
	{"Set up validation", "Implement request validation", domain.TaskStatusToDo},
	{"Write tests", "Implement unit and end-to-end tests for the task module", domain.TaskStatusToDo},
}

// SeedDemoTasks inserts the demo tasks when no task exists yet and returns
// how many were created.
func SeedDemoTasks(ctx context.Context, tasks port.TaskService) (int, error) {
	existing, err := tasks.ListTasks(ctx, domain.TaskFilter{Page: 1, Limit: 1})

	if err != nil {
		return 0, err
	}

	if existing.Total > 0 {
		slog.InfoContext(ctx, "Skipping demo seed, tasks already exist", "total", existing.Total)
		return 0, nil
	}

	created := 0

	for _, demo := range demoTasks {
		description := demo.description

		if _, err := tasks.CreateTask(ctx, domain.Task{
			Title:       demo.title,
			Description: &description,
			Status:      demo.status,
		}); err != nil {
			return created, err
		}

		created++
	}

	slog.InfoContext(ctx, "Seeded demo tasks", "count", created)

	return created, nil
}
