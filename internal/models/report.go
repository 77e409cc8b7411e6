package models

import "time"

// Report is a generated performance snapshot for one student in one
// classroom over [StartDateMs, EndDateMs].
type Report struct {
	ID                     uint       `gorm:"primaryKey" json:"id"`
	StudentID              uint       `gorm:"not null;index:idx_reports_student_end,priority:1" json:"student_id"`
	ClassroomID            uint       `gorm:"not null;index" json:"classroom_id"`
	ReportType             string     `gorm:"size:20;not null;index" json:"report_type"`
	StartDateMs            int64      `gorm:"not null" json:"start_date"`
	EndDateMs              int64      `gorm:"not null;index:idx_reports_student_end,priority:2" json:"end_date"`
	AttendanceRate         float64    `json:"attendance_rate"`
	ParticipationScore     float64    `json:"participation_score"`
	NotesCount             int        `json:"notes_count"`
	AverageSessionDuration float64    `json:"average_session_duration"`
	Strengths              StringList `gorm:"type:text" json:"strengths"`
	Improvements           StringList `gorm:"type:text" json:"improvements"`
	GeneratedAtMs          int64      `gorm:"not null" json:"generated_at"`
	CreatedAt              time.Time  `json:"-"`
}

func (Report) TableName() string {
	return "reports"
}
