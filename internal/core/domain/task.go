package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusToDo       TaskStatus = "TO_DO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

type Task struct {
	ID          uuid.UUID
	Title       string
	Description *string
	Status      TaskStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskFilter holds the optional list constraints. Empty strings and a nil
// status impose no constraint.
type TaskFilter struct {
	Status      *TaskStatus
	Title       string
	Description string
	Page        int
	Limit       int
}

// TaskChanges carries the fields supplied by an update request; nil means
// "keep the stored value". Description is set to null to clear it.
type TaskChanges struct {
	Title       *string
	Description Optional[string]
	Status      *TaskStatus
}

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusToDo, TaskStatusInProgress, TaskStatusDone:
		return true
	default:
		return false
	}
}

func (s TaskStatus) String() string {
	return string(s)
}

// Apply merges the supplied changes onto the task and refreshes UpdatedAt.
// Fields the request did not supply are untouched.
func (t *Task) Apply(changes TaskChanges, now time.Time) {
	if changes.Title != nil {
		t.Title = *changes.Title
	}

	if changes.Description.Set {
		t.Description = nil

		if changes.Description.Value != nil {
			description := *changes.Description.Value
			t.Description = &description
		}
	}

	if changes.Status != nil {
		t.Status = *changes.Status
	}

	if now.Before(t.CreatedAt) {
		now = t.CreatedAt
	}

	t.UpdatedAt = now
}

func (f TaskFilter) Normalize() TaskFilter {
	if f.Page <= 0 {
		f.Page = DefaultPage
	}

	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}

	return f
}

// Offset saturates at math.MaxInt instead of overflowing on huge pages.
func (f TaskFilter) Offset() int {
	if f.Page <= 1 || f.Limit <= 0 {
		return 0
	}

	if f.Page-1 > math.MaxInt/f.Limit {
		return math.MaxInt
	}

	return (f.Page - 1) * f.Limit
}
