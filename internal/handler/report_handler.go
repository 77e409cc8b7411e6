package handler

import (
	"net/http"
	"strconv"

	"classhub/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

func (h *ReportHandler) Generate(c *gin.Context) {
	var req service.GenerateReportInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	r, err := h.svc.Generate(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// ForStudent lists reports for student_id (default: the caller), optionally
// bounded by from/to end dates in milliseconds.
func (h *ReportHandler) ForStudent(c *gin.Context) {
	studentID, _ := strconv.ParseUint(c.Query("student_id"), 10, 64)
	list, err := h.svc.ForStudent(c.Request.Context(), actorFrom(c), uint(studentID), queryInt64(c, "from"), queryInt64(c, "to"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": list})
}

func (h *ReportHandler) ForClassroom(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	list, err := h.svc.ForClassroom(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": list})
}
