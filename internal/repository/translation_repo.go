package repository

import (
	"context"

	"classhub/internal/models"

	"gorm.io/gorm"
)

type TranslationRepository struct {
	db *gorm.DB
}

func NewTranslationRepository(db *gorm.DB) *TranslationRepository {
	return &TranslationRepository{db: db}
}

func (r *TranslationRepository) Create(ctx context.Context, t *models.Translation) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TranslationRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]models.Translation, error) {
	var list []models.Translation
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("timestamp_ms DESC").Limit(limit).Find(&list).Error
	return list, err
}
