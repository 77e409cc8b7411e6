package models

import "time"

type SessionVideo struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Provider    string    `gorm:"size:32;not null" json:"provider"`
	VideoID     string    `gorm:"size:64;not null" json:"video_id"`
	Title       string    `gorm:"size:255" json:"title,omitempty"`
	SessionID   *uint     `gorm:"index" json:"session_id,omitempty"`
	ClassroomID *uint     `gorm:"index" json:"classroom_id,omitempty"`
	AddedBy     uint      `gorm:"not null" json:"added_by"`
	AddedAtMs   int64     `gorm:"not null" json:"added_at"`
	CreatedAt   time.Time `json:"-"`
}

func (SessionVideo) TableName() string {
	return "videos"
}
