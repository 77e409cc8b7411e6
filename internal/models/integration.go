package models

import "time"

// OAuthToken holds a user's third-party tokens, encrypted at rest.
type OAuthToken struct {
	ID                    uint       `gorm:"primaryKey" json:"id"`
	UserID                uint       `gorm:"not null;uniqueIndex:idx_tokens_user_provider" json:"user_id"`
	Provider              string     `gorm:"size:32;not null;uniqueIndex:idx_tokens_user_provider" json:"provider"`
	ProviderUserID        string     `gorm:"size:255" json:"provider_user_id"`
	AccessTokenEncrypted  string     `gorm:"type:text;not null" json:"-"`
	RefreshTokenEncrypted string     `gorm:"type:text" json:"-"`
	ExpiresAtMs           int64      `gorm:"not null" json:"expires_at"`
	Scopes                StringList `gorm:"type:text" json:"scopes"`
	UpdatedAt             time.Time  `json:"updated_at"`
	CreatedAt             time.Time  `json:"-"`
}

func (OAuthToken) TableName() string {
	return "tokens"
}

type ExternalClassroom struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Provider         string    `gorm:"size:32;not null" json:"provider"`
	ProviderCourseID string    `gorm:"size:255;not null;uniqueIndex" json:"provider_course_id"`
	Title            string    `gorm:"size:255;not null" json:"title"`
	Description      string    `gorm:"type:text" json:"description,omitempty"`
	SyncedAtMs       int64     `gorm:"not null" json:"synced_at"`
	CreatedAt        time.Time `json:"-"`
	UpdatedAt        time.Time `json:"-"`
}

func (ExternalClassroom) TableName() string {
	return "classrooms_external"
}

type ExternalMeeting struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Provider           string    `gorm:"size:32;not null" json:"provider"`
	ProviderMeetingID  string    `gorm:"size:255" json:"provider_meeting_id,omitempty"`
	ProviderMeetingURL string    `gorm:"size:512" json:"provider_meeting_url"`
	SessionID          uint      `gorm:"not null;index" json:"session_id"`
	ScheduledAtMs      *int64    `json:"scheduled_at,omitempty"`
	CreatedBy          uint      `gorm:"not null" json:"created_by"`
	CreatedAtMs        int64     `gorm:"not null" json:"created_at"`
	CreatedAt          time.Time `json:"-"`
}

func (ExternalMeeting) TableName() string {
	return "meetings_external"
}
