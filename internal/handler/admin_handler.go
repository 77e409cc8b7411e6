package handler

import (
	"net/http"
	"strconv"

	"classhub/internal/domain"
	"classhub/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	system     *service.SystemService
	users      *service.UserService
	authSvc    *service.AuthService
	classrooms *service.ClassroomService
}

func NewAdminHandler(system *service.SystemService, users *service.UserService, authSvc *service.AuthService, classrooms *service.ClassroomService) *AdminHandler {
	return &AdminHandler{system: system, users: users, authSvc: authSvc, classrooms: classrooms}
}

// AdminLogin handles POST /admin/login. Only admins may sign in here.
func (h *AdminHandler) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	u, pair, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	if u.Role != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":          u,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

// Dashboard handles GET /admin/dashboard.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.system.Dashboard(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Growth handles GET /admin/growth?days=N.
func (h *AdminHandler) Growth(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	g, err := h.system.Growth(c.Request.Context(), days)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// ListUsers handles GET /admin/users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, limit := parsePagination(c)
	users, total, err := h.users.List(c.Request.Context(), c.Query("search"), c.Query("role"), page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": users, "total": total, "page": page, "limit": limit})
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	u, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// UpdateUser handles PATCH /admin/users/:id. Only role and is_active change.
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Role     *string `json:"role"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.Role == nil && req.IsActive == nil {
		badRequest(c, "no valid fields to update")
		return
	}
	ctx := c.Request.Context()
	if req.Role != nil {
		if err := h.users.SetRole(ctx, id, *req.Role); err != nil {
			writeError(c, err)
			return
		}
	}
	if req.IsActive != nil {
		if err := h.users.SetActive(ctx, id, *req.IsActive); err != nil {
			writeError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AdminHandler) ListClassrooms(c *gin.Context) {
	list, err := h.classrooms.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list, "total": len(list)})
}
