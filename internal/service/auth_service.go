package service

import (
	"context"
	"errors"
	"strings"

	"classhub/config"
	"classhub/internal/auth"
	"classhub/internal/domain"
	"classhub/internal/models"
	"classhub/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	cfg      *config.Config
	userRepo *repository.UserRepository
}

func NewAuthService(cfg *config.Config, userRepo *repository.UserRepository) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo}
}

func (s *AuthService) issue(u *models.User) (*auth.TokenPair, error) {
	return auth.IssuePair(&s.cfg.JWT, u.ID, u.Email, u.Role)
}

// Register creates a password account. Only student and teacher may be
// self-selected; anything else becomes student.
func (s *AuthService) Register(ctx context.Context, email, name, password, role string) (*models.User, *auth.TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(password) < 8 {
		return nil, nil, invalid("password must be at least 8 characters")
	}
	if role != domain.RoleTeacher {
		role = domain.RoleStudent
	}
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, nil, ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}
	u := &models.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, nil, err
	}
	pair, err := s.issue(u)
	if err != nil {
		return u, nil, err
	}
	return u, pair, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *auth.TokenPair, error) {
	u, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCreds
		}
		return nil, nil, err
	}
	if u.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, nil, ErrInvalidCreds
	}
	if !u.IsActive {
		return nil, nil, ErrAccountDisabled
	}
	pair, err := s.issue(u)
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

// LoginWithGoogle finds the user by Google id, links Google to an existing
// email account, or creates a new student. isNew reports the last case.
func (s *AuthService) LoginWithGoogle(ctx context.Context, googleID, email, name, avatarURL string) (*models.User, *auth.TokenPair, bool, error) {
	u, err := s.userRepo.GetByGoogleID(ctx, googleID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, false, err
	}
	isNew := false
	if u == nil {
		existing, err := s.userRepo.GetByEmail(ctx, strings.ToLower(email))
		switch {
		case err == nil:
			gid := googleID
			existing.GoogleID = &gid
			if existing.AvatarURL == "" {
				existing.AvatarURL = avatarURL
			}
			if existing.Name == "" {
				existing.Name = name
			}
			if err := s.userRepo.Update(ctx, existing); err != nil {
				return nil, nil, false, err
			}
			u = existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			gid := googleID
			u = &models.User{
				Email:     strings.ToLower(email),
				Name:      name,
				GoogleID:  &gid,
				Role:      domain.RoleStudent,
				AvatarURL: avatarURL,
				IsActive:  true,
			}
			if err := s.userRepo.Create(ctx, u); err != nil {
				return nil, nil, false, err
			}
			isNew = true
		default:
			return nil, nil, false, err
		}
	}
	if !u.IsActive {
		return nil, nil, false, ErrAccountDisabled
	}
	pair, err := s.issue(u)
	if err != nil {
		return nil, nil, false, err
	}
	return u, pair, isNew, nil
}

// ChangePassword updates the user's password. Requires current password verification.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return ErrInvalidCreds
	}
	if u.PasswordHash == "" {
		return invalid("account uses Google sign-in")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCreds
	}
	if len(newPassword) < 8 {
		return invalid("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{"password_hash": string(hash)})
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	userID, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return nil, err
	}
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	if !u.IsActive {
		return nil, ErrAccountDisabled
	}
	return s.issue(u)
}
