package repository

import (
	"context"

	"classhub/internal/models"

	"gorm.io/gorm"
)

type NoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Create(ctx context.Context, n *models.Note) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NoteRepository) GetByID(ctx context.Context, id uint) (*models.Note, error) {
	var n models.Note
	err := r.db.WithContext(ctx).First(&n, id).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NoteRepository) ListBySessionUser(ctx context.Context, sessionID, userID uint) ([]models.Note, error) {
	var list []models.Note
	err := r.db.WithContext(ctx).Where("session_id = ? AND user_id = ?", sessionID, userID).
		Order("created_at_ms DESC").Find(&list).Error
	return list, err
}

func (r *NoteRepository) ListByUser(ctx context.Context, userID uint) ([]models.Note, error) {
	var list []models.Note
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at_ms DESC").Find(&list).Error
	return list, err
}

// ApplySummary stores the AI output on a note.
func (r *NoteRepository) ApplySummary(ctx context.Context, id uint, summary string, keyPoints []string, confidence float64, aiGenerated bool) error {
	return r.db.WithContext(ctx).Model(&models.Note{}).Where("id = ?", id).Updates(map[string]interface{}{
		"summary":         summary,
		"key_points":      models.StringList(keyPoints),
		"is_ai_generated": aiGenerated,
		"confidence":      confidence,
	}).Error
}

// CountByUserBetween counts a user's notes created in [startMs, endMs].
func (r *NoteRepository) CountByUserBetween(ctx context.Context, userID uint, startMs, endMs int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Note{}).
		Where("user_id = ? AND created_at_ms >= ? AND created_at_ms <= ?", userID, startMs, endMs).
		Count(&n).Error
	return n, err
}

func (r *NoteRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Note{}).Count(&n).Error
	return n, err
}

func (r *NoteRepository) SetAttachmentURL(ctx context.Context, id uint, url string) error {
	return r.db.WithContext(ctx).Model(&models.Note{}).Where("id = ?", id).Update("attachment_url", url).Error
}
