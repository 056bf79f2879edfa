package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskapp/internal/core/port"
)

type HealthHandler struct {
	svc port.HealthService
}

func NewHealthHandler(healthService port.HealthService) *HealthHandler {
	return &HealthHandler{svc: healthService}
}

func (h *HealthHandler) Check(c *gin.Context) {
	result, healthy := h.svc.Check(c.Request.Context())

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, result)
		return
	}

	c.JSON(http.StatusOK, result)
}
