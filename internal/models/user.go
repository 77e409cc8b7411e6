package models

import (
	"time"

	"classhub/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Name              string         `gorm:"size:128" json:"name"`
	Email             string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash      string         `gorm:"size:255" json:"-"`
	Role              string         `gorm:"size:20;not null;index" json:"role"`
	GoogleID          *string        `gorm:"uniqueIndex;size:255" json:"-"` // nil for email signups
	AvatarURL         string         `gorm:"size:512" json:"avatar_url"`
	IsActive          bool           `gorm:"default:true" json:"is_active"`
	Institution       string         `gorm:"size:255" json:"institution,omitempty"`
	Grade             string         `gorm:"size:64" json:"grade,omitempty"`
	Subject           string         `gorm:"size:128" json:"subject,omitempty"`
	PreferredLanguage string         `gorm:"size:64" json:"preferred_language,omitempty"`
	Timezone          string         `gorm:"size:64" json:"timezone,omitempty"`
	FCMToken          string         `gorm:"size:512" json:"-"`
	EmailVerifiedAt   *time.Time     `json:"email_verified_at"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) IsTeacher() bool { return u.Role == domain.RoleTeacher }
func (u *User) IsAdmin() bool   { return u.Role == domain.RoleAdmin }

// DisplayName is the name shown in chat and presence lists.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return domain.DefaultDisplayName
}
