package models

import (
	"time"

	"gorm.io/gorm"
)

type Classroom struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Name             string         `gorm:"size:255;not null" json:"name"`
	Description      string         `gorm:"type:text" json:"description,omitempty"`
	TeacherID        uint           `gorm:"not null;index" json:"teacher_id"`
	Subject          string         `gorm:"size:128;not null;index" json:"subject"`
	Grade            string         `gorm:"size:64" json:"grade,omitempty"`
	IsActive         bool           `gorm:"not null;index" json:"is_active"`
	MaxStudents      *int           `json:"max_students,omitempty"`
	MeetingURL       string         `gorm:"size:512" json:"meeting_url,omitempty"`
	ScheduledTimeMs  *int64         `json:"scheduled_time,omitempty"`
	DurationMinutes  *int           `json:"duration,omitempty"`
	Language         string         `gorm:"size:64;not null" json:"language"`
	AllowTranslation bool           `json:"allow_translation"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Classroom) TableName() string {
	return "classrooms"
}

type Enrollment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ClassroomID  uint      `gorm:"not null;uniqueIndex:idx_enrollment_classroom_student" json:"classroom_id"`
	StudentID    uint      `gorm:"not null;uniqueIndex:idx_enrollment_classroom_student;index" json:"student_id"`
	EnrolledAtMs int64     `gorm:"not null" json:"enrolled_at"`
	Status       string    `gorm:"size:20;not null;index" json:"status"` // active, completed, dropped
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`

	Student User `gorm:"foreignKey:StudentID" json:"-"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// ClassroomDetails is a classroom with its teacher and active roster.
type ClassroomDetails struct {
	Classroom
	Teacher         *User  `json:"teacher"`
	Students        []User `json:"students"`
	EnrollmentCount int    `json:"enrollment_count"`
}
