package repository

import (
	"context"

	"classhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IntegrationRepository stores third-party tokens, imported courses, and
// scheduled meetings.
type IntegrationRepository struct {
	db *gorm.DB
}

func NewIntegrationRepository(db *gorm.DB) *IntegrationRepository {
	return &IntegrationRepository{db: db}
}

// UpsertToken inserts or replaces the token row for (user, provider). An
// empty refresh token keeps the stored one.
func (r *IntegrationRepository) UpsertToken(ctx context.Context, t *models.OAuthToken) error {
	cols := []string{"provider_user_id", "access_token_encrypted", "expires_at_ms", "scopes", "updated_at"}
	if t.RefreshTokenEncrypted != "" {
		cols = append(cols, "refresh_token_encrypted")
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "provider"}},
		DoUpdates: clause.AssignmentColumns(cols),
	}).Create(t).Error
}

func (r *IntegrationRepository) GetToken(ctx context.Context, userID uint, provider string) (*models.OAuthToken, error) {
	var t models.OAuthToken
	err := r.db.WithContext(ctx).Where("user_id = ? AND provider = ?", userID, provider).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *IntegrationRepository) UpdateAccessToken(ctx context.Context, id uint, accessEncrypted string, expiresAtMs int64) error {
	return r.db.WithContext(ctx).Model(&models.OAuthToken{}).Where("id = ?", id).Updates(map[string]interface{}{
		"access_token_encrypted": accessEncrypted,
		"expires_at_ms":          expiresAtMs,
	}).Error
}

func (r *IntegrationRepository) DeleteToken(ctx context.Context, userID uint, provider string) error {
	return r.db.WithContext(ctx).Where("user_id = ? AND provider = ?", userID, provider).Delete(&models.OAuthToken{}).Error
}

// UpsertExternalClassroom keys on the provider course id.
func (r *IntegrationRepository) UpsertExternalClassroom(ctx context.Context, c *models.ExternalClassroom) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider_course_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "description", "synced_at_ms", "updated_at"}),
	}).Create(c).Error
}

func (r *IntegrationRepository) GetExternalClassroom(ctx context.Context, courseID string) (*models.ExternalClassroom, error) {
	var c models.ExternalClassroom
	err := r.db.WithContext(ctx).Where("provider_course_id = ?", courseID).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *IntegrationRepository) CreateMeeting(ctx context.Context, m *models.ExternalMeeting) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// LatestMeeting returns the most recently created meeting for a session.
func (r *IntegrationRepository) LatestMeeting(ctx context.Context, sessionID uint) (*models.ExternalMeeting, error) {
	var m models.ExternalMeeting
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).
		Order("created_at_ms DESC").Order("id DESC").First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}
