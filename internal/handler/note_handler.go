package handler

import (
	"net/http"
	"strconv"

	"classhub/internal/middleware"
	"classhub/internal/service"

	"github.com/gin-gonic/gin"
)

const maxAttachmentSize = 10 << 20

type NoteHandler struct {
	svc *service.NoteService
}

func NewNoteHandler(svc *service.NoteService) *NoteHandler {
	return &NoteHandler{svc: svc}
}

func (h *NoteHandler) Create(c *gin.Context) {
	var req service.CreateNoteInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	n, err := h.svc.Create(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, n)
}

// List returns the caller's notes, narrowed to one session when session_id is set.
func (h *NoteHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if raw := c.Query("session_id"); raw != "" {
		sessionID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			badRequest(c, "invalid session_id")
			return
		}
		list, err := h.svc.ForSession(c.Request.Context(), userID, uint(sessionID))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"notes": list})
		return
	}
	list, err := h.svc.Mine(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": list})
}

func (h *NoteHandler) Summarize(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	n, err := h.svc.Summarize(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *NoteHandler) UploadAttachment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file required")
		return
	}
	if file.Size > maxAttachmentSize {
		badRequest(c, "file too large")
		return
	}
	f, err := file.Open()
	if err != nil {
		badRequest(c, "could not read file")
		return
	}
	defer f.Close()
	n, err := h.svc.UploadAttachment(c.Request.Context(), middleware.GetUserID(c), id, f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *NoteHandler) Translate(c *gin.Context) {
	var req service.TranslateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	t, err := h.svc.Translate(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *NoteHandler) Translations(c *gin.Context) {
	list, err := h.svc.Translations(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"translations": list})
}

func (h *NoteHandler) QuickSummary(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "text required")
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": service.QuickSummary(req.Text)})
}
