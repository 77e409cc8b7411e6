package handler

import (
	"net/http"

	"classhub/internal/middleware"
	"classhub/internal/service"

	"github.com/gin-gonic/gin"
)

type ClassroomHandler struct {
	svc      *service.ClassroomService
	sessions *service.SessionService
}

func NewClassroomHandler(svc *service.ClassroomService, sessions *service.SessionService) *ClassroomHandler {
	return &ClassroomHandler{svc: svc, sessions: sessions}
}

func (h *ClassroomHandler) Create(c *gin.Context) {
	var req service.CreateClassroomInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	room, err := h.svc.Create(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

// Mine lists classrooms the caller teaches or is enrolled in.
func (h *ClassroomHandler) Mine(c *gin.Context) {
	list, err := h.svc.Mine(c.Request.Context(), actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"classrooms": list})
}

func (h *ClassroomHandler) Available(c *gin.Context) {
	list, err := h.svc.Available(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"classrooms": list})
}

func (h *ClassroomHandler) Details(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	d, err := h.svc.Details(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *ClassroomHandler) Enroll(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	e, err := h.svc.Enroll(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *ClassroomHandler) Sessions(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	list, err := h.sessions.ListByClassroom(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": list})
}
