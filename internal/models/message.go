package models

import "time"

type ChatMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Channel   string    `gorm:"size:100;not null;index:idx_messages_channel_created,priority:1" json:"channel"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Name      string    `gorm:"size:128" json:"name"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"index:idx_messages_channel_created,priority:2" json:"created_at"`
}

func (ChatMessage) TableName() string {
	return "messages"
}
