package handler

import (
	"net/http"

	"classhub/internal/middleware"
	"classhub/internal/service"

	"github.com/gin-gonic/gin"
)

// IntegrationHandler exposes the Google Classroom and Calendar integration.
type IntegrationHandler struct {
	google *service.GoogleService
}

func NewIntegrationHandler(google *service.GoogleService) *IntegrationHandler {
	return &IntegrationHandler{google: google}
}

// Start returns the consent URL; the client navigates to it.
func (h *IntegrationHandler) Start(c *gin.Context) {
	u, err := h.google.AuthURL(middleware.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": u})
}

// Callback is hit by Google's redirect and carries no bearer token; the user
// comes from the state parameter.
func (h *IntegrationHandler) Callback(c *gin.Context) {
	if e := c.Query("error"); e != "" {
		badRequest(c, e)
		return
	}
	target, err := h.google.HandleCallback(c.Request.Context(), c.Query("code"), c.Query("state"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Redirect(http.StatusFound, target)
}

func (h *IntegrationHandler) Status(c *gin.Context) {
	ok, err := h.google.Connected(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"connected": ok, "configured": h.google.Configured()})
}

func (h *IntegrationHandler) Disconnect(c *gin.Context) {
	if err := h.google.Disconnect(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *IntegrationHandler) Courses(c *gin.Context) {
	list, err := h.google.Courses(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": list})
}

func (h *IntegrationHandler) ImportCourse(c *gin.Context) {
	var req struct {
		CourseID    string `json:"course_id" binding:"required"`
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	ext, err := h.google.ImportCourse(c.Request.Context(), actorFrom(c), req.CourseID, req.Title, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ext)
}

func (h *IntegrationHandler) ScheduleMeet(c *gin.Context) {
	var req service.ScheduleMeetInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	m, err := h.google.ScheduleMeet(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *IntegrationHandler) LatestMeeting(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	m, err := h.google.LatestMeeting(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}
