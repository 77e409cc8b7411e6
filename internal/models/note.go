package models

import (
	"time"

	"gorm.io/gorm"
)

type Note struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	SessionID     uint           `gorm:"not null;index:idx_notes_session_user,priority:1" json:"session_id"`
	UserID        uint           `gorm:"not null;index:idx_notes_session_user,priority:2;index:idx_notes_user_created,priority:1" json:"user_id"`
	Title         string         `gorm:"size:255;not null" json:"title"`
	Content       string         `gorm:"type:text;not null" json:"content"`
	Summary       string         `gorm:"type:text" json:"summary,omitempty"`
	KeyPoints     StringList     `gorm:"type:text" json:"key_points,omitempty"`
	Language      string         `gorm:"size:64;not null" json:"language"`
	IsAIGenerated bool           `json:"is_ai_generated"`
	Confidence    *float64       `json:"confidence,omitempty"`
	AttachmentURL string         `gorm:"size:512" json:"attachment_url,omitempty"`
	CreatedAtMs   int64          `gorm:"not null;index:idx_notes_user_created,priority:2" json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Note) TableName() string {
	return "notes"
}

type Translation struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OriginalText   string    `gorm:"type:text;not null" json:"original_text"`
	TranslatedText string    `gorm:"type:text;not null" json:"translated_text"`
	FromLanguage   string    `gorm:"size:64;index:idx_translations_languages,priority:1" json:"from_language"`
	ToLanguage     string    `gorm:"size:64;not null;index:idx_translations_languages,priority:2" json:"to_language"`
	SessionID      *uint     `gorm:"index" json:"session_id,omitempty"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	TimestampMs    int64     `gorm:"not null" json:"timestamp"`
	CreatedAt      time.Time `json:"-"`
}

func (Translation) TableName() string {
	return "translations"
}
