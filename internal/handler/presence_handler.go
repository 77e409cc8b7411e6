package handler

import (
	"net/http"
	"strconv"
	"time"

	"classhub/internal/middleware"
	"classhub/internal/service"

	"github.com/gin-gonic/gin"
)

// maxOnlineWindow caps window_ms so the millisecond conversion cannot overflow.
const maxOnlineWindow = 30 * 24 * time.Hour

// onlineWindow parses window_ms. Missing, invalid and non-positive values
// yield 0, which selects the service default.
func onlineWindow(raw string) time.Duration {
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ms <= 0 {
		return 0
	}
	if ms > maxOnlineWindow.Milliseconds() {
		return maxOnlineWindow
	}
	return time.Duration(ms) * time.Millisecond
}

type PresenceHandler struct {
	svc *service.PresenceService
}

func NewPresenceHandler(svc *service.PresenceService) *PresenceHandler {
	return &PresenceHandler{svc: svc}
}

// Heartbeat records the caller as seen on a channel. Anonymous callers get
// 204 and nothing is stored.
func (h *PresenceHandler) Heartbeat(c *gin.Context) {
	var req struct {
		Channel string `json:"channel"`
	}
	_ = c.ShouldBindJSON(&req)
	if req.Channel == "" {
		req.Channel = c.Query("channel")
	}
	if err := h.svc.Heartbeat(c.Request.Context(), middleware.GetUserID(c), req.Channel); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Online lists users seen on a channel within window_ms (default two minutes).
func (h *PresenceHandler) Online(c *gin.Context) {
	channel := c.Query("channel")
	users, err := h.svc.Online(c.Request.Context(), channel, onlineWindow(c.Query("window_ms")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}
