package helper

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	. "taskapp/internal/adapter/http/validation"
	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/response"
)

func SendError(c *gin.Context, statusCode int, code string, message string, errors []response.ValidationError, details ...any) {
	if errors == nil {
		errors = []response.ValidationError{}
	}

	errorResponse := response.ErrorResponse{
		Error: response.ResponseError{
			Code:    code,
			Message: message,
			Errors:  errors,
		},
	}

	if len(details) > 0 {
		errorResponse.Error.Details = details[0]
	}

	c.AbortWithStatusJSON(statusCode, errorResponse)
}

func SendValidationError(c *gin.Context, err error) {
	validationErrors := FormatValidationErrors(err)
	SendError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", validationErrors)
}

func SendInternalError(c *gin.Context, message string, details ...any) {
	errors := []response.ValidationError{
		{
			Field:   "server",
			Message: message,
		},
	}

	SendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", message, errors, details...)
}

func SendBadRequestError(c *gin.Context, field string, message string) {
	errors := []response.ValidationError{
		{
			Field:   field,
			Message: message,
		},
	}

	SendError(c, http.StatusBadRequest, "BAD_REQUEST", message, errors)
}

func SendNotFoundError(c *gin.Context, message string) {
	errors := []response.ValidationError{
		{
			Field:   "resource",
			Message: message,
		},
	}

	SendError(c, http.StatusNotFound, "NOT_FOUND", message, errors)
}

// SendDomainError maps a service error to its HTTP status. Errors without
// a domain kind are reported as 500 without leaking the cause.
func SendDomainError(c *gin.Context, err error) {
	var domainErr *domain.Error

	if errors.As(err, &domainErr) {
		switch domainErr.Kind {
		case domain.KindNotFound:
			SendNotFoundError(c, domainErr.Error())
			return
		case domain.KindBadRequest:
			SendBadRequestError(c, "request", domainErr.Error())
			return
		}
	}

	SendInternalError(c, "Internal server error")
}
