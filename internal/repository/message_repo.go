package repository

import (
	"context"

	"classhub/internal/models"

	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, m *models.ChatMessage) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// ListLatest returns up to limit messages for the channel, newest first.
func (r *MessageRepository) ListLatest(ctx context.Context, channel string, limit int) ([]models.ChatMessage, error) {
	var list []models.ChatMessage
	err := r.db.WithContext(ctx).Where("channel = ?", channel).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}
