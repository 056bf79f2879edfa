package domain

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
)

func TestTaskStatusIsValid(t *testing.T) {
	assert.True(t, TaskStatusInProgress.IsValid())
	assert.False(t, TaskStatus("ARCHIVED").IsValid())
	assert.False(t, TaskStatus("").IsValid())
}

func TestTaskApply_OnlySuppliedFields(t *testing.T) {
	RegisterTestingT(t)

	description := "original description"
	created := time.Now().Add(-time.Hour)

	task := Task{
		Title:       "Original",
		Description: &description,
		Status:      TaskStatusToDo,
		CreatedAt:   created,
		UpdatedAt:   created,
	}

	done := TaskStatusDone
	now := time.Now()
	task.Apply(TaskChanges{Status: &done}, now)

	Expect(task.Title).To(Equal("Original"))
	Expect(*task.Description).To(Equal("original description"))
	Expect(task.Status).To(Equal(TaskStatusDone))
	Expect(task.UpdatedAt).To(Equal(now))

	title := "Renamed"
	task.Apply(TaskChanges{Title: &title}, now)

	Expect(task.Title).To(Equal("Renamed"))
	Expect(task.Status).To(Equal(TaskStatusDone))
}

func TestTaskApply_Description(t *testing.T) {
	RegisterTestingT(t)

	task := Task{Title: "Notes"}

	task.Apply(TaskChanges{Description: Some("first draft")}, time.Now())
	Expect(*task.Description).To(Equal("first draft"))

	task.Apply(TaskChanges{}, time.Now())
	Expect(*task.Description).To(Equal("first draft"))

	task.Apply(TaskChanges{Description: Null[string]()}, time.Now())
	Expect(task.Description).To(BeNil())
}

func TestTaskApply_UpdatedAtNeverBeforeCreatedAt(t *testing.T) {
	created := time.Now()
	task := Task{Title: "Clock skew", CreatedAt: created, UpdatedAt: created}

	task.Apply(TaskChanges{}, created.Add(-time.Minute))

	assert.Equal(t, created, task.UpdatedAt)
}

func TestTaskFilterNormalize(t *testing.T) {
	RegisterTestingT(t)

	filter := TaskFilter{}.Normalize()
	Expect(filter.Page).To(Equal(DefaultPage))
	Expect(filter.Limit).To(Equal(DefaultLimit))
	Expect(filter.Offset()).To(Equal(0))

	filter = TaskFilter{Page: 3, Limit: 2}.Normalize()
	Expect(filter.Offset()).To(Equal(4))

	filter = TaskFilter{Page: math.MaxInt, Limit: 10}.Normalize()
	Expect(filter.Offset()).To(Equal(math.MaxInt))

	filter = TaskFilter{Page: 2, Limit: math.MaxInt}.Normalize()
	Expect(filter.Offset()).To(Equal(math.MaxInt))
}

func TestErrorKinds(t *testing.T) {
	RegisterTestingT(t)

	notFound := NewNotFoundError("abc")
	Expect(notFound.Error()).To(Equal(`Task with ID "abc" not found`))
	Expect(IsNotFound(notFound)).To(BeTrue())
	Expect(IsBadRequest(notFound)).To(BeFalse())

	wrapped := fmt.Errorf("handler: %w", notFound)
	Expect(IsNotFound(wrapped)).To(BeTrue())

	cause := errors.New("connection refused")
	badRequest := NewBadRequestError("Failed to fetch tasks", cause)
	Expect(badRequest.Error()).To(Equal("Failed to fetch tasks: connection refused"))
	Expect(IsBadRequest(badRequest)).To(BeTrue())
	Expect(errors.Is(badRequest, cause)).To(BeTrue())

	Expect(IsNotFound(cause)).To(BeFalse())
	Expect(KindNotFound.String()).To(Equal("NOT_FOUND"))
}
