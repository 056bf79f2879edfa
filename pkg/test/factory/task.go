package factory

import (
	"time"

	fab "github.com/Goldziher/fabricator"
	"github.com/google/uuid"

	"taskapp/internal/core/domain"
)

// NewTask builds a task with random text fields. Identity, status and
// timestamps get valid defaults unless customData sets them.
func NewTask[T any](customData ...map[string]any) T {
	instance := fab.New(*new(T))

	now := time.Now().UTC().Truncate(time.Microsecond)

	defaults := map[string]any{
		"ID":        uuid.New(),
		"Status":    domain.TaskStatusToDo,
		"CreatedAt": now,
		"UpdatedAt": now,
	}

	for _, data := range customData {
		for key, value := range data {
			defaults[key] = value
		}
	}

	return instance.Build(defaults)
}

func Ptr[T any](value T) *T {
	return &value
}
