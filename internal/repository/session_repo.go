package repository

import (
	"context"
	"errors"

	"classhub/internal/models"

	"gorm.io/gorm"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, s *models.Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SessionRepository) GetByID(ctx context.Context, id uint) (*models.Session, error) {
	var s models.Session
	err := r.db.WithContext(ctx).First(&s, id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepository) ListByClassroom(ctx context.Context, classroomID uint) ([]models.Session, error) {
	var list []models.Session
	err := r.db.WithContext(ctx).Where("classroom_id = ?", classroomID).Order("start_time_ms DESC").Find(&list).Error
	return list, err
}

// ListByClassroomBetween returns sessions that started within [startMs, endMs].
func (r *SessionRepository) ListByClassroomBetween(ctx context.Context, classroomID uint, startMs, endMs int64) ([]models.Session, error) {
	var list []models.Session
	err := r.db.WithContext(ctx).
		Where("classroom_id = ? AND start_time_ms >= ? AND start_time_ms <= ?", classroomID, startMs, endMs).
		Order("start_time_ms ASC").
		Find(&list).Error
	return list, err
}

func (r *SessionRepository) ListLive(ctx context.Context) ([]models.Session, error) {
	var list []models.Session
	err := r.db.WithContext(ctx).Where("is_live = ?", true).Order("start_time_ms DESC").Find(&list).Error
	return list, err
}

func (r *SessionRepository) End(ctx context.Context, id uint, endMs int64) error {
	return r.db.WithContext(ctx).Model(&models.Session{}).Where("id = ?", id).
		Updates(map[string]interface{}{"end_time_ms": endMs, "is_live": false}).Error
}

func (r *SessionRepository) SetRecordingURL(ctx context.Context, id uint, url string) error {
	return r.db.WithContext(ctx).Model(&models.Session{}).Where("id = ?", id).Update("recording_url", url).Error
}

// Join opens an attendance record for (session, student) and bumps the
// session's attendee counter, all in one transaction. If an open record
// already exists it is returned unchanged with created == false.
func (r *SessionRepository) Join(ctx context.Context, sessionID, studentID uint, nowMs int64) (*models.Attendance, bool, error) {
	var (
		rec     models.Attendance
		created bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var s models.Session
		if err := tx.Select("id").First(&s, sessionID).Error; err != nil {
			return err
		}
		err := tx.Where("session_id = ? AND student_id = ? AND leave_time_ms IS NULL", sessionID, studentID).
			First(&rec).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		rec = models.Attendance{SessionID: sessionID, StudentID: studentID, JoinTimeMs: nowMs}
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		created = true
		return tx.Model(&models.Session{}).Where("id = ?", sessionID).
			Update("attendee_count", gorm.Expr("attendee_count + 1")).Error
	})
	if err != nil {
		return nil, false, err
	}
	return &rec, created, nil
}

// Leave closes the open attendance record for (session, student), stamping
// leave time and whole-minute duration, and decrements the attendee counter
// without letting it go below zero. Returns nil when nothing was open.
func (r *SessionRepository) Leave(ctx context.Context, sessionID, studentID uint, nowMs int64) (*models.Attendance, error) {
	var (
		rec   models.Attendance
		found bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("session_id = ? AND student_id = ? AND leave_time_ms IS NULL", sessionID, studentID).
			Order("join_time_ms DESC").
			First(&rec).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		leave := nowMs
		if leave < rec.JoinTimeMs {
			leave = rec.JoinTimeMs
		}
		duration := (leave - rec.JoinTimeMs) / 60000
		if err := tx.Model(&rec).Updates(map[string]interface{}{
			"leave_time_ms":    leave,
			"duration_minutes": duration,
		}).Error; err != nil {
			return err
		}
		rec.LeaveTimeMs = &leave
		rec.DurationMinutes = &duration
		return tx.Model(&models.Session{}).Where("id = ?", rec.SessionID).
			Update("attendee_count", gorm.Expr("CASE WHEN attendee_count > 0 THEN attendee_count - 1 ELSE 0 END")).Error
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &rec, nil
}

func (r *SessionRepository) ListAttendance(ctx context.Context, sessionID uint) ([]models.Attendance, error) {
	var list []models.Attendance
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Order("join_time_ms ASC").Find(&list).Error
	return list, err
}

// ListStudentAttendance returns a student's attendance rows across the given sessions.
func (r *SessionRepository) ListStudentAttendance(ctx context.Context, studentID uint, sessionIDs []uint) ([]models.Attendance, error) {
	var list []models.Attendance
	if len(sessionIDs) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND session_id IN ?", studentID, sessionIDs).
		Order("join_time_ms ASC").
		Find(&list).Error
	return list, err
}

// CountOpen is the derived attendee count for a session.
func (r *SessionRepository) CountOpen(ctx context.Context, sessionID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Attendance{}).
		Where("session_id = ? AND leave_time_ms IS NULL", sessionID).
		Count(&n).Error
	return n, err
}
