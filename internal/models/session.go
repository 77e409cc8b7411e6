package models

import "time"

// Session is a live class. AttendeeCount is a denormalized counter kept in
// step with open attendance rows by join/leave.
type Session struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ClassroomID   uint      `gorm:"not null;index" json:"classroom_id"`
	TeacherID     uint      `gorm:"not null;index" json:"teacher_id"`
	Title         string    `gorm:"size:255;not null" json:"title"`
	StartTimeMs   int64     `gorm:"not null;index" json:"start_time"`
	EndTimeMs     *int64    `json:"end_time,omitempty"`
	IsLive        bool      `gorm:"not null;index" json:"is_live"`
	RecordingURL  string    `gorm:"size:512" json:"recording_url,omitempty"`
	AttendeeCount int       `gorm:"not null;default:0" json:"attendee_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Session) TableName() string {
	return "sessions"
}

type Attendance struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	SessionID       uint      `gorm:"not null;index:idx_attendance_session_student,priority:1" json:"session_id"`
	StudentID       uint      `gorm:"not null;index:idx_attendance_session_student,priority:2;index" json:"student_id"`
	JoinTimeMs      int64     `gorm:"not null" json:"join_time"`
	LeaveTimeMs     *int64    `json:"leave_time,omitempty"`
	DurationMinutes *int64    `json:"duration,omitempty"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`
}

func (Attendance) TableName() string {
	return "attendance"
}

func (a *Attendance) IsOpen() bool { return a.LeaveTimeMs == nil }
