package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	. "taskapp/internal/adapter/http/helper"
	"taskapp/internal/adapter/http/validation"
	"taskapp/internal/adapter/telemetry"
	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/request"
	"taskapp/internal/core/model/response"
	"taskapp/internal/core/port"
	"taskapp/internal/core/util"
)

var filterQueryKeys = map[string]bool{
	"status":      true,
	"title":       true,
	"description": true,
	"page":        true,
	"limit":       true,
}

type TaskHandler struct {
	svc       port.TaskService
	validator port.Validator
	Logger    *telemetry.Logger
}

func NewTaskHandler(taskService port.TaskService, logger *telemetry.Logger) *TaskHandler {
	if logger == nil {
		logger = telemetry.NewNopLogger()
	}

	return &TaskHandler{
		svc:       taskService,
		validator: validation.New(),
		Logger:    logger,
	}
}

func (t *TaskHandler) ListTasks(c *gin.Context) {
	for key := range c.Request.URL.Query() {
		if !filterQueryKeys[key] {
			SendBadRequestError(c, key, fmt.Sprintf("property %s should not exist", key))
			return
		}
	}

	var params request.TaskFilterRequest

	if err := c.ShouldBindQuery(&params); err != nil {
		SendBadRequestError(c, "query", err.Error())
		return
	}

	if err := t.validator.ValidateStruct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	result, err := t.svc.ListTasks(c.Request.Context(), params.ToFilter())

	if err != nil {
		t.fail(c, "Failed to list tasks", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (t *TaskHandler) GetTask(c *gin.Context) {
	task, err := t.svc.GetTask(c.Request.Context(), c.Param("id"))

	if err != nil {
		t.fail(c, "Failed to get task", err)
		return
	}

	c.JSON(http.StatusOK, response.NewTaskResponse(task))
}

func (t *TaskHandler) CreateTask(c *gin.Context) {
	params, err := util.ParamsToMap[request.CreateTaskRequest](c)

	if err != nil {
		SendBadRequestError(c, "body", err.Error())
		return
	}

	if err := t.validator.ValidateStruct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	task, err := t.svc.CreateTask(c.Request.Context(), params.ToDomain())

	if err != nil {
		t.fail(c, "Failed to create task", err)
		return
	}

	t.Logger.InfoWithTrace(c.Request.Context(), "Task created",
		zap.String("task_id", task.ID.String()),
		zap.String("status", task.Status.String()),
	)

	c.JSON(http.StatusCreated, response.NewTaskResponse(task))
}

// UpdateTask serves both PUT and PATCH with merge semantics.
func (t *TaskHandler) UpdateTask(c *gin.Context) {
	params, err := util.ParamsToMap[request.UpdateTaskRequest](c)

	if err != nil {
		SendBadRequestError(c, "body", err.Error())
		return
	}

	if err := t.validator.ValidateStruct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	task, err := t.svc.UpdateTask(c.Request.Context(), c.Param("id"), params.ToChanges())

	if err != nil {
		t.fail(c, "Failed to update task", err)
		return
	}

	c.JSON(http.StatusOK, response.NewTaskResponse(task))
}

func (t *TaskHandler) DeleteTask(c *gin.Context) {
	id := c.Param("id")

	if err := t.svc.DeleteTask(c.Request.Context(), id); err != nil {
		t.fail(c, "Failed to delete task", err)
		return
	}

	t.Logger.InfoWithTrace(c.Request.Context(), "Task deleted", zap.String("task_id", id))

	c.Status(http.StatusNoContent)
}

func (t *TaskHandler) fail(c *gin.Context, message string, err error) {
	_ = c.Error(err)

	if !domain.IsNotFound(err) && !domain.IsBadRequest(err) {
		t.Logger.ErrorWithTrace(c.Request.Context(), message,
			zap.Error(err),
			zap.String("path", c.FullPath()),
		)
	}

	SendDomainError(c, err)
}
