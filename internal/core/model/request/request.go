package request

import "taskapp/internal/core/domain"

type CreateTaskRequest struct {
	Title       string             `json:"title" validate:"required,max=255"`
	Description *string            `json:"description"`
	Status      *domain.TaskStatus `json:"status" validate:"omitempty,oneof=TO_DO IN_PROGRESS DONE"`
}

// UpdateTaskRequest backs both PUT and PATCH. Omitted fields leave the
// stored value untouched; a null description clears it.
type UpdateTaskRequest struct {
	Title       *string                 `json:"title" validate:"omitempty,min=1,max=255"`
	Description domain.Optional[string] `json:"description"`
	Status      *domain.TaskStatus      `json:"status" validate:"omitempty,oneof=TO_DO IN_PROGRESS DONE"`
}

type TaskFilterRequest struct {
	Status      *domain.TaskStatus `form:"status" validate:"omitempty,oneof=TO_DO IN_PROGRESS DONE"`
	Title       string             `form:"title"`
	Description string             `form:"description"`
	Page        *int               `form:"page" validate:"omitempty,min=1"`
	Limit       *int               `form:"limit" validate:"omitempty,min=1"`
}

func (r CreateTaskRequest) ToDomain() domain.Task {
	status := domain.TaskStatusToDo

	if r.Status != nil {
		status = *r.Status
	}

	return domain.Task{
		Title:       r.Title,
		Description: r.Description,
		Status:      status,
	}
}

func (r UpdateTaskRequest) ToChanges() domain.TaskChanges {
	return domain.TaskChanges{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
	}
}

func (r TaskFilterRequest) ToFilter() domain.TaskFilter {
	filter := domain.TaskFilter{
		Status:      r.Status,
		Title:       r.Title,
		Description: r.Description,
	}

	if r.Page != nil {
		filter.Page = *r.Page
	}

	if r.Limit != nil {
		filter.Limit = *r.Limit
	}

	return filter.Normalize()
}
