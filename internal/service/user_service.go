package service

import (
	"context"
	"strings"

	"classhub/internal/domain"
	"classhub/internal/models"
	"classhub/internal/repository"
)

type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) Get(ctx context.Context, userID uint) (*models.User, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

// ProfileUpdate carries optional profile fields; nil leaves a field unchanged.
type ProfileUpdate struct {
	Name              *string `json:"name"`
	Institution       *string `json:"institution"`
	Grade             *string `json:"grade"`
	Subject           *string `json:"subject"`
	PreferredLanguage *string `json:"preferred_language"`
	Timezone          *string `json:"timezone"`
	AvatarURL         *string `json:"avatar_url"`
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in ProfileUpdate) (*models.User, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	fields := map[string]interface{}{}
	set := func(col string, v *string) {
		if v != nil {
			fields[col] = strings.TrimSpace(*v)
		}
	}
	set("name", in.Name)
	set("institution", in.Institution)
	set("grade", in.Grade)
	set("subject", in.Subject)
	set("preferred_language", in.PreferredLanguage)
	set("timezone", in.Timezone)
	set("avatar_url", in.AvatarURL)
	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(ctx, userID, fields); err != nil {
			return nil, notFound(err, "user")
		}
	}
	return s.Get(ctx, userID)
}

// RegisterDeviceToken stores the FCM token used for push notifications.
func (s *UserService) RegisterDeviceToken(ctx context.Context, userID uint, token string) error {
	if userID == 0 {
		return ErrUnauthorized
	}
	return notFound(s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{"fcm_token": strings.TrimSpace(token)}), "user")
}

func (s *UserService) List(ctx context.Context, search, role string, page, limit int) ([]models.User, int64, error) {
	return s.userRepo.List(ctx, search, role, page, limit)
}

func (s *UserService) SetRole(ctx context.Context, userID uint, role string) error {
	if !domain.IsValidRole(role) {
		return invalid("unknown role")
	}
	return notFound(s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{"role": role}), "user")
}

func (s *UserService) SetActive(ctx context.Context, userID uint, active bool) error {
	return notFound(s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{"is_active": active}), "user")
}
