package repository

import (
	"context"

	"classhub/internal/models"

	"gorm.io/gorm"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, rep *models.Report) error {
	return r.db.WithContext(ctx).Create(rep).Error
}

// ListByStudent returns a student's reports, newest end date first. A zero
// bound is ignored.
func (r *ReportRepository) ListByStudent(ctx context.Context, studentID uint, fromMs, toMs int64) ([]models.Report, error) {
	q := r.db.WithContext(ctx).Where("student_id = ?", studentID)
	if fromMs > 0 {
		q = q.Where("end_date_ms >= ?", fromMs)
	}
	if toMs > 0 {
		q = q.Where("end_date_ms <= ?", toMs)
	}
	var list []models.Report
	err := q.Order("end_date_ms DESC").Order("id DESC").Find(&list).Error
	return list, err
}

func (r *ReportRepository) ListByClassroom(ctx context.Context, classroomID uint) ([]models.Report, error) {
	var list []models.Report
	err := r.db.WithContext(ctx).Where("classroom_id = ?", classroomID).
		Order("generated_at_ms DESC").Find(&list).Error
	return list, err
}

func (r *ReportRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Report{}).Count(&n).Error
	return n, err
}
