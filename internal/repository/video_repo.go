package repository

import (
	"context"

	"classhub/internal/models"

	"gorm.io/gorm"
)

type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) Create(ctx context.Context, v *models.SessionVideo) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *VideoRepository) GetByID(ctx context.Context, id uint) (*models.SessionVideo, error) {
	var v models.SessionVideo
	err := r.db.WithContext(ctx).First(&v, id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VideoRepository) FindForSession(ctx context.Context, sessionID uint, provider, videoID string) (*models.SessionVideo, error) {
	var v models.SessionVideo
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND provider = ? AND video_id = ?", sessionID, provider, videoID).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VideoRepository) ListBySession(ctx context.Context, sessionID uint) ([]models.SessionVideo, error) {
	var list []models.SessionVideo
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Order("added_at_ms ASC").Find(&list).Error
	return list, err
}

func (r *VideoRepository) ListBySessions(ctx context.Context, sessionIDs []uint) ([]models.SessionVideo, error) {
	var list []models.SessionVideo
	if len(sessionIDs) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).Where("session_id IN ?", sessionIDs).Order("added_at_ms ASC").Find(&list).Error
	return list, err
}

func (r *VideoRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.SessionVideo{}, id).Error
}
