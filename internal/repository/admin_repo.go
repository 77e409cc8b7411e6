package repository

import (
	"context"
	"time"

	"classhub/internal/domain"
	"classhub/internal/models"

	"gorm.io/gorm"
)

type DashboardStats struct {
	TotalUsers      int64 `json:"total_users"`
	TotalTeachers   int64 `json:"total_teachers"`
	TotalStudents   int64 `json:"total_students"`
	TotalAdmins     int64 `json:"total_admins"`
	TotalClassrooms int64 `json:"total_classrooms"`
	LiveSessions    int64 `json:"live_sessions"`
	TotalSessions   int64 `json:"total_sessions"`
	TotalNotes      int64 `json:"total_notes"`
	TotalReports    int64 `json:"total_reports"`
	OnlineUsers     int64 `json:"online_users"`
}

type TimeSeriesPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// GetDashboardStats counts platform entities. onlineCutoffMs bounds the
// global-channel presence count.
func (r *AdminRepository) GetDashboardStats(ctx context.Context, onlineCutoffMs int64) (*DashboardStats, error) {
	var s DashboardStats
	db := r.db.WithContext(ctx)
	counts := []struct {
		q   *gorm.DB
		dst *int64
	}{
		{db.Model(&models.User{}), &s.TotalUsers},
		{db.Model(&models.User{}).Where("role = ?", domain.RoleTeacher), &s.TotalTeachers},
		{db.Model(&models.User{}).Where("role = ?", domain.RoleStudent), &s.TotalStudents},
		{db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin), &s.TotalAdmins},
		{db.Model(&models.Classroom{}), &s.TotalClassrooms},
		{db.Model(&models.Session{}).Where("is_live = ?", true), &s.LiveSessions},
		{db.Model(&models.Session{}), &s.TotalSessions},
		{db.Model(&models.Note{}), &s.TotalNotes},
		{db.Model(&models.Report{}), &s.TotalReports},
		{db.Model(&models.PresenceRecord{}).Where("channel = ? AND last_seen_ms >= ?", domain.GlobalChannel, onlineCutoffMs), &s.OnlineUsers},
	}
	for _, c := range counts {
		if err := c.q.Count(c.dst).Error; err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// UserSignupsByDay returns daily signup counts for the last N days.
func (r *AdminRepository) UserSignupsByDay(ctx context.Context, days int) ([]TimeSeriesPoint, error) {
	return r.countByDay(ctx, &models.User{}, days)
}

// SessionsByDay returns daily session counts for the last N days.
func (r *AdminRepository) SessionsByDay(ctx context.Context, days int) ([]TimeSeriesPoint, error) {
	return r.countByDay(ctx, &models.Session{}, days)
}

func (r *AdminRepository) countByDay(ctx context.Context, model interface{}, days int) ([]TimeSeriesPoint, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	var points []TimeSeriesPoint
	err := r.db.WithContext(ctx).Model(model).
		Select("DATE(created_at) as date, COUNT(*) as count").
		Where("created_at >= ?", since).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&points).Error
	return points, err
}
