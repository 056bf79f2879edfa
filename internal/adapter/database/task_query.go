package database

import (
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"taskapp/internal/core/domain"
)

const TasksTable = "tasks"

var TaskColumns = []string{"id", "title", "description", "status", "created_at", "updated_at"}

type RowScanner interface {
	Scan(dest ...any) error
}

// ApplyTaskFilter adds one predicate per supplied filter field. Absent
// fields add nothing, so an empty filter matches every row.
func ApplyTaskFilter(query sq.SelectBuilder, filter domain.TaskFilter) sq.SelectBuilder {
	if filter.Status != nil {
		query = query.Where(sq.Eq{"status": string(*filter.Status)})
	}

	if filter.Title != "" {
		query = query.Where(sq.Expr("LOWER(title) LIKE LOWER(?)", "%"+filter.Title+"%"))
	}

	if filter.Description != "" {
		query = query.Where(sq.Expr("LOWER(description) LIKE LOWER(?)", "%"+filter.Description+"%"))
	}

	return query
}

func CountTasksQuery(builder sq.StatementBuilderType, filter domain.TaskFilter) sq.SelectBuilder {
	return ApplyTaskFilter(builder.Select("COUNT(*)").From(TasksTable), filter)
}

// FindTasksQuery pages through the filtered rows ordered by creation time
// with the id as tie-breaker, which keeps pages stable between calls.
// Columns default to TaskColumns.
func FindTasksQuery(builder sq.StatementBuilderType, filter domain.TaskFilter, columns ...string) sq.SelectBuilder {
	filter = filter.Normalize()

	if len(columns) == 0 {
		columns = TaskColumns
	}

	return ApplyTaskFilter(builder.Select(columns...).From(TasksTable), filter).
		OrderBy("created_at ASC", "id ASC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset()))
}

func ScanTask(row RowScanner) (domain.Task, error) {
	var (
		id          string
		title       string
		description sql.NullString
		status      string
		createdAt   time.Time
		updatedAt   time.Time
	)

	if err := row.Scan(&id, &title, &description, &status, &createdAt, &updatedAt); err != nil {
		return domain.Task{}, err
	}

	parsedID, err := uuid.Parse(id)

	if err != nil {
		return domain.Task{}, fmt.Errorf("invalid task id %q: %w", id, err)
	}

	task := domain.Task{
		ID:        parsedID,
		Title:     title,
		Status:    domain.TaskStatus(status),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}

	if description.Valid {
		value := description.String
		task.Description = &value
	}

	return task, nil
}

func NullableString(value *string) any {
	if value == nil {
		return nil
	}

	return *value
}
