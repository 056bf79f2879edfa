package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"taskapp/internal/adapter/database/sqlite"
	"taskapp/internal/adapter/database/sqlite/repository"
	"taskapp/internal/core/domain"
	"taskapp/internal/core/port"
	"taskapp/internal/core/telemetry"
	. "taskapp/pkg/test"
	factory "taskapp/pkg/test/factory"
)

var ctx = context.Background()

type TaskRepositoryTestSuite struct {
	suite.Suite
	DB   *sqlite.DB
	Repo port.TaskRepository
}

func (s *TaskRepositoryTestSuite) SetupTest() {
	s.DB = InitTestDB()
	s.Repo = repository.NewTaskRepository(s.DB, telemetry.NewNoOpProbe())
}

func (s *TaskRepositoryTestSuite) TearDownTest() {
	if s.DB != nil {
		s.DB.Close()
	}
}

func TestTaskRepositoryTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TaskRepositoryTestSuite))
}

func (s *TaskRepositoryTestSuite) createTask(data map[string]any) domain.Task {
	task, err := s.Repo.Create(ctx, factory.NewTask[domain.Task](data))
	s.Require().NoError(err)

	return task
}

func (s *TaskRepositoryTestSuite) TestFind_Empty() {
	tasks, total, err := s.Repo.Find(ctx, domain.TaskFilter{})

	Expect(err).To(BeNil())
	Expect(tasks).To(BeEmpty())
	Expect(tasks).NotTo(BeNil())
	Expect(total).To(Equal(0))
}

func (s *TaskRepositoryTestSuite) TestCreate_RoundTrip() {
	description := "Some description"

	task := factory.NewTask[domain.Task](map[string]any{
		"Title":       "Write docs",
		"Description": &description,
		"Status":      domain.TaskStatusInProgress,
	})

	saved, err := s.Repo.Create(ctx, task)

	Expect(err).To(BeNil())
	Expect(saved.ID).To(Equal(task.ID))
	Expect(saved.Title).To(Equal("Write docs"))
	Expect(*saved.Description).To(Equal("Some description"))
	Expect(saved.Status).To(Equal(domain.TaskStatusInProgress))
	Expect(saved.CreatedAt.Equal(task.CreatedAt)).To(BeTrue())
	Expect(saved.UpdatedAt.Equal(task.UpdatedAt)).To(BeTrue())
}

func (s *TaskRepositoryTestSuite) TestCreate_NullDescription() {
	task := factory.NewTask[domain.Task](map[string]any{"Title": "No description"})
	task.Description = nil

	saved, err := s.Repo.Create(ctx, task)
	Expect(err).To(BeNil())
	Expect(saved.Description).To(BeNil())

	found, err := s.Repo.GetByID(ctx, saved.ID.String())

	Expect(err).To(BeNil())
	Expect(found.Description).To(BeNil())
}

func (s *TaskRepositoryTestSuite) TestCreate_RejectsInvalidStatus() {
	_, err := s.Repo.Create(ctx, factory.NewTask[domain.Task](map[string]any{
		"Title":  "Broken",
		"Status": domain.TaskStatus("ARCHIVED"),
	}))

	Expect(err).NotTo(BeNil())
}

func (s *TaskRepositoryTestSuite) TestGetByID_NotFound() {
	_, err := s.Repo.GetByID(ctx, uuid.NewString())

	assert.ErrorIs(s.T(), err, port.ErrTaskNotFound)
}

func (s *TaskRepositoryTestSuite) TestFind_FiltersByStatus() {
	s.createTask(map[string]any{"Title": "one", "Status": domain.TaskStatusToDo})
	s.createTask(map[string]any{"Title": "two", "Status": domain.TaskStatusDone})
	s.createTask(map[string]any{"Title": "three", "Status": domain.TaskStatusDone})

	done := domain.TaskStatusDone
	tasks, total, err := s.Repo.Find(ctx, domain.TaskFilter{Status: &done})

	Expect(err).To(BeNil())
	Expect(total).To(Equal(2))
	Expect(tasks).To(HaveLen(2))

	for _, task := range tasks {
		Expect(task.Status).To(Equal(domain.TaskStatusDone))
	}
}

func (s *TaskRepositoryTestSuite) TestFind_TitleIsCaseInsensitiveSubstring() {
	s.createTask(map[string]any{"Title": "Task 1"})
	s.createTask(map[string]any{"Title": "my TASK 12"})
	s.createTask(map[string]any{"Title": "Other"})

	tasks, total, err := s.Repo.Find(ctx, domain.TaskFilter{Title: "task 1"})

	Expect(err).To(BeNil())
	Expect(total).To(Equal(2))
	Expect(tasks).To(HaveLen(2))
}

func (s *TaskRepositoryTestSuite) TestFind_FiltersByDescription() {
	api := "Build the REST api"
	ui := "Polish the UI"

	s.createTask(map[string]any{"Title": "a", "Description": &api})
	s.createTask(map[string]any{"Title": "b", "Description": &ui})

	noDescription := factory.NewTask[domain.Task](map[string]any{"Title": "c"})
	noDescription.Description = nil
	_, err := s.Repo.Create(ctx, noDescription)
	Expect(err).To(BeNil())

	tasks, total, err := s.Repo.Find(ctx, domain.TaskFilter{Description: "API"})

	Expect(err).To(BeNil())
	Expect(total).To(Equal(1))
	Expect(tasks[0].Title).To(Equal("a"))
}

func (s *TaskRepositoryTestSuite) TestFind_FoldsNonASCIICase() {
	summer := "Préparer l'ÉTÉ"

	s.createTask(map[string]any{"Title": "ÉTÉ planning"})
	s.createTask(map[string]any{"Title": "Straße bauen", "Description": &summer})
	s.createTask(map[string]any{"Title": "Winter"})

	tasks, total, err := s.Repo.Find(ctx, domain.TaskFilter{Title: "été"})

	Expect(err).To(BeNil())
	Expect(total).To(Equal(1))
	Expect(tasks[0].Title).To(Equal("ÉTÉ planning"))

	tasks, total, err = s.Repo.Find(ctx, domain.TaskFilter{Title: "STRASSE"})

	Expect(err).To(BeNil())
	Expect(total).To(Equal(0))
	Expect(tasks).To(BeEmpty())

	tasks, total, err = s.Repo.Find(ctx, domain.TaskFilter{Title: "STRAßE", Description: "préparer l'été"})

	Expect(err).To(BeNil())
	Expect(total).To(Equal(1))
	Expect(tasks[0].Title).To(Equal("Straße bauen"))
}

func (s *TaskRepositoryTestSuite) TestFind_PaginatesInCreationOrder() {
	base := time.Now().UTC().Truncate(time.Microsecond)

	for i, title := range []string{"first", "second", "third", "fourth", "fifth"} {
		createdAt := base.Add(time.Duration(i) * time.Second)
		s.createTask(map[string]any{"Title": title, "CreatedAt": createdAt, "UpdatedAt": createdAt})
	}

	page1, total, err := s.Repo.Find(ctx, domain.TaskFilter{Page: 1, Limit: 2})
	Expect(err).To(BeNil())
	Expect(total).To(Equal(5))
	Expect(titles(page1)).To(Equal([]string{"first", "second"}))

	page3, total, err := s.Repo.Find(ctx, domain.TaskFilter{Page: 3, Limit: 2})
	Expect(err).To(BeNil())
	Expect(total).To(Equal(5))
	Expect(titles(page3)).To(Equal([]string{"fifth"}))

	beyond, total, err := s.Repo.Find(ctx, domain.TaskFilter{Page: 4, Limit: 2})
	Expect(err).To(BeNil())
	Expect(total).To(Equal(5))
	Expect(beyond).To(BeEmpty())
}

func (s *TaskRepositoryTestSuite) TestFind_DefaultsPagination() {
	for i := 0; i < 12; i++ {
		s.createTask(map[string]any{"Title": "task"})
	}

	tasks, total, err := s.Repo.Find(ctx, domain.TaskFilter{})

	Expect(err).To(BeNil())
	Expect(total).To(Equal(12))
	Expect(tasks).To(HaveLen(domain.DefaultLimit))
}

func (s *TaskRepositoryTestSuite) TestUpdate_Success() {
	task := s.createTask(map[string]any{"Title": "Before"})

	task.Title = "After"
	task.Status = domain.TaskStatusDone
	task.UpdatedAt = task.UpdatedAt.Add(time.Minute)

	updated, err := s.Repo.Update(ctx, task)

	Expect(err).To(BeNil())
	Expect(updated.Title).To(Equal("After"))
	Expect(updated.Status).To(Equal(domain.TaskStatusDone))
	Expect(updated.CreatedAt.Equal(task.CreatedAt)).To(BeTrue())
	Expect(updated.UpdatedAt.Equal(task.UpdatedAt)).To(BeTrue())
}

func (s *TaskRepositoryTestSuite) TestUpdate_NotFound() {
	_, err := s.Repo.Update(ctx, factory.NewTask[domain.Task](map[string]any{"Title": "ghost"}))

	assert.ErrorIs(s.T(), err, port.ErrTaskNotFound)
}

func (s *TaskRepositoryTestSuite) TestDeleteByID() {
	task := s.createTask(map[string]any{"Title": "Remove me"})

	affected, err := s.Repo.DeleteByID(ctx, task.ID.String())
	Expect(err).To(BeNil())
	Expect(affected).To(Equal(int64(1)))

	_, err = s.Repo.GetByID(ctx, task.ID.String())
	assert.ErrorIs(s.T(), err, port.ErrTaskNotFound)

	affected, err = s.Repo.DeleteByID(ctx, task.ID.String())
	Expect(err).To(BeNil())
	Expect(affected).To(Equal(int64(0)))
}

func (s *TaskRepositoryTestSuite) TestPing() {
	Expect(s.DB.Ping(ctx)).To(Succeed())
}

func titles(tasks []domain.Task) []string {
	result := make([]string, 0, len(tasks))

	for _, task := range tasks {
		result = append(result, task.Title)
	}

	return result
}
