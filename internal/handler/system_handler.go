package handler

import (
	"net/http"

	"classhub/internal/service"

	"github.com/gin-gonic/gin"
)

type SystemHandler struct {
	svc *service.SystemService
}

func NewSystemHandler(svc *service.SystemService) *SystemHandler {
	return &SystemHandler{svc: svc}
}

// Status reports which optional integrations are configured.
func (h *SystemHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Status())
}
