package handler

import (
	"net/http"
	"strconv"
	"strings"

	"classhub/internal/service"

	"github.com/gin-gonic/gin"
)

type VideoHandler struct {
	svc *service.VideoService
}

func NewVideoHandler(svc *service.VideoService) *VideoHandler {
	return &VideoHandler{svc: svc}
}

func (h *VideoHandler) Attach(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		URL   string `json:"url" binding:"required"`
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "url required")
		return
	}
	v, err := h.svc.Attach(c.Request.Context(), actorFrom(c), id, req.URL, req.Title)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *VideoHandler) ListForSession(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	list, err := h.svc.ListForSession(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"videos": list})
}

// ListForSessions takes ?session_ids=1,2,3 and returns videos keyed by session id.
func (h *VideoHandler) ListForSessions(c *gin.Context) {
	var ids []uint
	for _, p := range strings.Split(c.Query("session_ids"), ",") {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		id, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			badRequest(c, "invalid session_ids")
			return
		}
		ids = append(ids, uint(id))
	}
	byID, err := h.svc.ListForSessions(c.Request.Context(), ids)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make(map[string]interface{}, len(byID))
	for id, list := range byID {
		out[strconv.FormatUint(uint64(id), 10)] = list
	}
	c.JSON(http.StatusOK, gin.H{"videos": out})
}

func (h *VideoHandler) Remove(c *gin.Context) {
	id, ok := paramID(c, "videoId")
	if !ok {
		return
	}
	if err := h.svc.Remove(c.Request.Context(), actorFrom(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
