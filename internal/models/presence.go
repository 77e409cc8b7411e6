package models

import "time"

// PresenceRecord is the liveness row for one user in one channel. It is
// upserted on every heartbeat and ages out of the online window instead of
// being deleted.
type PresenceRecord struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	Channel    string    `gorm:"size:100;not null;uniqueIndex:idx_presence_channel_user;index:idx_presence_channel_seen,priority:1" json:"channel"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_presence_channel_user" json:"user_id"`
	Name       string    `gorm:"size:128" json:"name"`
	LastSeenMs int64     `gorm:"not null;index:idx_presence_channel_seen,priority:2" json:"last_seen"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

func (PresenceRecord) TableName() string {
	return "presence"
}

// OnlineUser is one entry of a liveness query result.
type OnlineUser struct {
	UserID     uint   `json:"user_id"`
	Name       string `json:"name"`
	LastSeenMs int64  `json:"last_seen"`
}
