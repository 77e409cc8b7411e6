package repository

import (
	"context"
	"time"

	"classhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PresenceRepository struct {
	db *gorm.DB
}

func NewPresenceRepository(db *gorm.DB) *PresenceRepository {
	return &PresenceRepository{db: db}
}

// Touch upserts the (channel, user) record with lastSeen = nowMs in one
// statement. A stored non-empty name is kept; name only fills an empty one.
func (r *PresenceRepository) Touch(ctx context.Context, channel string, userID uint, name string, nowMs int64) error {
	rec := models.PresenceRecord{Channel: channel, UserID: userID, Name: name, LastSeenMs: nowMs}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "channel"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"last_seen_ms": nowMs,
			"name":         gorm.Expr("CASE WHEN name IS NULL OR name = '' THEN ? ELSE name END", name),
			"updated_at":   time.Now(),
		}),
	}).Create(&rec).Error
}

func (r *PresenceRepository) Get(ctx context.Context, channel string, userID uint) (*models.PresenceRecord, error) {
	var rec models.PresenceRecord
	err := r.db.WithContext(ctx).Where("channel = ? AND user_id = ?", channel, userID).First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListSince returns the channel's records with cutoffMs <= lastSeen <= nowMs,
// most recent first.
func (r *PresenceRepository) ListSince(ctx context.Context, channel string, cutoffMs, nowMs int64) ([]models.PresenceRecord, error) {
	var list []models.PresenceRecord
	err := r.db.WithContext(ctx).
		Where("channel = ? AND last_seen_ms >= ? AND last_seen_ms <= ?", channel, cutoffMs, nowMs).
		Order("last_seen_ms DESC").
		Find(&list).Error
	return list, err
}
