package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"

	"taskapp/internal/adapter/database"
	"taskapp/internal/adapter/database/sqlite"
	"taskapp/internal/core/domain"
	"taskapp/internal/core/port"
	tel "taskapp/internal/core/telemetry"
)

const entity = "task"

type TaskRepository struct {
	db        *sqlite.DB
	telemetry port.Telemetry
}

func NewTaskRepository(db *sqlite.DB, telemetry port.Telemetry) port.TaskRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TaskRepository{
		db:        db,
		telemetry: telemetry,
	}
}

func (tr *TaskRepository) Find(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, int, error) {
	filter = filter.Normalize()

	ctx, span := tr.startSpan(ctx, "Find", "SELECT", map[string]interface{}{
		"pagination.page":  filter.Page,
		"pagination.limit": filter.Limit,
	})
	defer span.End()

	startTime := time.Now()

	countSQL, countArgs, err := database.CountTasksQuery(*tr.db.QueryBuilder, filter).ToSql()

	if err != nil {
		return nil, 0, tr.fail(ctx, span, "Find", startTime, err)
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "Find", entity, countSQL, countArgs)

	var total int

	if err := tr.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, tr.fail(ctx, span, "Find", startTime, err)
	}

	query, args, err := database.FindTasksQuery(*tr.db.QueryBuilder, filter).ToSql()

	if err != nil {
		return nil, 0, tr.fail(ctx, span, "Find", startTime, err)
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "Find", entity, query, args)

	rows, err := tr.db.QueryContext(ctx, query, args...)

	if err != nil {
		return nil, 0, tr.fail(ctx, span, "Find", startTime, err)
	}

	defer rows.Close()

	tasks := []domain.Task{}

	for rows.Next() {
		task, err := database.ScanTask(rows)

		if err != nil {
			return nil, 0, tr.fail(ctx, span, "Find", startTime, err)
		}

		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, tr.fail(ctx, span, "Find", startTime, err)
	}

	span.SetAttributes(map[string]interface{}{
		"db.rows_total":    total,
		"db.rows_returned": len(tasks),
	})

	tr.succeed(ctx, span, "Find", startTime)

	return tasks, total, nil
}

func (tr *TaskRepository) GetByID(ctx context.Context, id string) (domain.Task, error) {
	ctx, span := tr.startSpan(ctx, "GetByID", "SELECT", map[string]interface{}{
		"task.id": id,
	})
	defer span.End()

	startTime := time.Now()

	task, err := tr.getByID(ctx, id)

	if err != nil {
		return domain.Task{}, tr.fail(ctx, span, "GetByID", startTime, err)
	}

	tr.succeed(ctx, span, "GetByID", startTime)

	return task, nil
}

func (tr *TaskRepository) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	ctx, span := tr.startSpan(ctx, "Create", "INSERT", map[string]interface{}{
		"task.id":    task.ID.String(),
		"task.title": task.Title,
	})
	defer span.End()

	startTime := time.Now()

	query, args, err := tr.db.QueryBuilder.Insert(database.TasksTable).
		Columns(database.TaskColumns...).
		Values(task.ID.String(), task.Title, database.NullableString(task.Description), string(task.Status), task.CreatedAt, task.UpdatedAt).
		ToSql()

	if err != nil {
		return domain.Task{}, tr.fail(ctx, span, "Create", startTime, err)
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "Create", entity, query, args)

	if _, err := tr.db.ExecContext(ctx, query, args...); err != nil {
		slog.ErrorContext(ctx, "Insert failed", "error", err, "id", task.ID.String())
		return domain.Task{}, tr.fail(ctx, span, "Create", startTime, err)
	}

	saved, err := tr.getByID(ctx, task.ID.String())

	if err != nil {
		return domain.Task{}, tr.fail(ctx, span, "Create", startTime, err)
	}

	tr.telemetry.RecordBusinessEvent(ctx, "created", entity, saved.ID.String(), map[string]interface{}{
		"status": saved.Status.String(),
	})

	tr.succeed(ctx, span, "Create", startTime)

	return saved, nil
}

func (tr *TaskRepository) Update(ctx context.Context, task domain.Task) (domain.Task, error) {
	ctx, span := tr.startSpan(ctx, "Update", "UPDATE", map[string]interface{}{
		"task.id": task.ID.String(),
	})
	defer span.End()

	startTime := time.Now()

	query, args, err := tr.db.QueryBuilder.Update(database.TasksTable).
		SetMap(map[string]interface{}{
			"title":       task.Title,
			"description": database.NullableString(task.Description),
			"status":      string(task.Status),
			"updated_at":  task.UpdatedAt,
		}).
		Where(sq.Eq{"id": task.ID.String()}).
		ToSql()

	if err != nil {
		return domain.Task{}, tr.fail(ctx, span, "Update", startTime, err)
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "Update", entity, query, args)

	result, err := tr.db.ExecContext(ctx, query, args...)

	if err != nil {
		return domain.Task{}, tr.fail(ctx, span, "Update", startTime, err)
	}

	rowsAffected, err := result.RowsAffected()

	if err != nil {
		return domain.Task{}, tr.fail(ctx, span, "Update", startTime, err)
	}

	if rowsAffected == 0 {
		return domain.Task{}, tr.fail(ctx, span, "Update", startTime, port.ErrTaskNotFound)
	}

	updated, err := tr.getByID(ctx, task.ID.String())

	if err != nil {
		return domain.Task{}, tr.fail(ctx, span, "Update", startTime, err)
	}

	tr.telemetry.RecordBusinessEvent(ctx, "updated", entity, updated.ID.String(), map[string]interface{}{
		"status": updated.Status.String(),
	})

	tr.succeed(ctx, span, "Update", startTime)

	return updated, nil
}

func (tr *TaskRepository) DeleteByID(ctx context.Context, id string) (int64, error) {
	ctx, span := tr.startSpan(ctx, "DeleteByID", "DELETE", map[string]interface{}{
		"task.id": id,
	})
	defer span.End()

	startTime := time.Now()

	query, args, err := tr.db.QueryBuilder.Delete(database.TasksTable).
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return 0, tr.fail(ctx, span, "DeleteByID", startTime, err)
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "DeleteByID", entity, query, args)

	result, err := tr.db.ExecContext(ctx, query, args...)

	if err != nil {
		return 0, tr.fail(ctx, span, "DeleteByID", startTime, err)
	}

	rowsAffected, err := result.RowsAffected()

	if err != nil {
		return 0, tr.fail(ctx, span, "DeleteByID", startTime, err)
	}

	span.SetAttributes(map[string]interface{}{"db.rows_affected": rowsAffected})

	if rowsAffected > 0 {
		tr.telemetry.RecordBusinessEvent(ctx, "deleted", entity, id, nil)
	}

	tr.succeed(ctx, span, "DeleteByID", startTime)

	return rowsAffected, nil
}

func (tr *TaskRepository) getByID(ctx context.Context, id string) (domain.Task, error) {
	query, args, err := tr.db.QueryBuilder.Select(database.TaskColumns...).
		From(database.TasksTable).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	task, err := database.ScanTask(tr.db.QueryRowContext(ctx, query, args...))

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Task{}, port.ErrTaskNotFound
	}

	return task, err
}

func (tr *TaskRepository) startSpan(ctx context.Context, operation, statement string, attrs map[string]interface{}) (context.Context, port.Span) {
	spanAttrs := map[string]interface{}{
		"db.system":    "sqlite",
		"db.table":     database.TasksTable,
		"db.operation": statement,
	}

	for key, value := range attrs {
		spanAttrs[key] = value
	}

	return tr.telemetry.StartRepositorySpan(ctx, operation, entity, spanAttrs)
}

func (tr *TaskRepository) fail(ctx context.Context, span port.Span, operation string, startTime time.Time, err error) error {
	if !errors.Is(err, port.ErrTaskNotFound) {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
	}

	tr.telemetry.RecordRepositoryOperation(ctx, operation, entity, time.Since(startTime), err)

	return err
}

func (tr *TaskRepository) succeed(ctx context.Context, span port.Span, operation string, startTime time.Time) {
	span.SetStatus("ok", "")
	tr.telemetry.RecordRepositoryOperation(ctx, operation, entity, time.Since(startTime), nil)
}
