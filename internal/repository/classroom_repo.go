package repository

import (
	"context"

	"classhub/internal/domain"
	"classhub/internal/models"

	"gorm.io/gorm"
)

type ClassroomRepository struct {
	db *gorm.DB
}

func NewClassroomRepository(db *gorm.DB) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

func (r *ClassroomRepository) Create(ctx context.Context, c *models.Classroom) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ClassroomRepository) GetByID(ctx context.Context, id uint) (*models.Classroom, error) {
	var c models.Classroom
	err := r.db.WithContext(ctx).First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClassroomRepository) ListByTeacher(ctx context.Context, teacherID uint) ([]models.Classroom, error) {
	var list []models.Classroom
	err := r.db.WithContext(ctx).Where("teacher_id = ?", teacherID).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *ClassroomRepository) ListActive(ctx context.Context) ([]models.Classroom, error) {
	var list []models.Classroom
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *ClassroomRepository) ListAll(ctx context.Context) ([]models.Classroom, error) {
	var list []models.Classroom
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *ClassroomRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Classroom{}).Count(&n).Error
	return n, err
}

// ListEnrolled returns classrooms the student has an active enrollment in.
func (r *ClassroomRepository) ListEnrolled(ctx context.Context, studentID uint) ([]models.Classroom, error) {
	var list []models.Classroom
	err := r.db.WithContext(ctx).
		Joins("JOIN enrollments ON enrollments.classroom_id = classrooms.id").
		Where("enrollments.student_id = ? AND enrollments.status = ?", studentID, domain.EnrollmentActive).
		Order("enrollments.enrolled_at_ms DESC").
		Find(&list).Error
	return list, err
}

func (r *ClassroomRepository) GetEnrollment(ctx context.Context, classroomID, studentID uint) (*models.Enrollment, error) {
	var e models.Enrollment
	err := r.db.WithContext(ctx).Where("classroom_id = ? AND student_id = ?", classroomID, studentID).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ClassroomRepository) CreateEnrollment(ctx context.Context, e *models.Enrollment) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *ClassroomRepository) CountActiveEnrollments(ctx context.Context, classroomID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("classroom_id = ? AND status = ?", classroomID, domain.EnrollmentActive).
		Count(&n).Error
	return n, err
}

// ListActiveStudents returns the users with an active enrollment in the classroom.
func (r *ClassroomRepository) ListActiveStudents(ctx context.Context, classroomID uint) ([]models.User, error) {
	var list []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN enrollments ON enrollments.student_id = users.id").
		Where("enrollments.classroom_id = ? AND enrollments.status = ?", classroomID, domain.EnrollmentActive).
		Order("enrollments.enrolled_at_ms ASC").
		Find(&list).Error
	return list, err
}
