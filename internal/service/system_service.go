package service

import (
	"context"

	"classhub/internal/repository"
	"classhub/pkg/cloudinary"
)

// IntegrationStatus reports which optional upstreams are configured.
type IntegrationStatus struct {
	OpenRouter bool `json:"openrouter"`
	Resend     bool `json:"resend"`
	Google     bool `json:"google"`
	FCM        bool `json:"fcm"`
	Cloudinary bool `json:"cloudinary"`
}

type SystemService struct {
	adminRepo *repository.AdminRepository
	presence  *PresenceService
	ai        *AIService
	email     *EmailService
	google    *GoogleService
	fcm       *FCMService
	uploader  cloudinary.Uploader
}

func NewSystemService(adminRepo *repository.AdminRepository, presence *PresenceService, ai *AIService, email *EmailService, google *GoogleService, fcm *FCMService, uploader cloudinary.Uploader) *SystemService {
	return &SystemService{adminRepo: adminRepo, presence: presence, ai: ai, email: email, google: google, fcm: fcm, uploader: uploader}
}

func (s *SystemService) Status() IntegrationStatus {
	return IntegrationStatus{
		OpenRouter: s.ai.Enabled(),
		Resend:     s.email.Enabled(),
		Google:     s.google != nil && s.google.Configured(),
		FCM:        s.fcm.Enabled(),
		Cloudinary: s.uploader != nil,
	}
}

// Dashboard returns platform counts. Online users are those seen on the
// global channel within the presence window.
func (s *SystemService) Dashboard(ctx context.Context) (*repository.DashboardStats, error) {
	return s.adminRepo.GetDashboardStats(ctx, s.presence.OnlineCutoffMs())
}

type Growth struct {
	Signups  []repository.TimeSeriesPoint `json:"signups"`
	Sessions []repository.TimeSeriesPoint `json:"sessions"`
}

func (s *SystemService) Growth(ctx context.Context, days int) (*Growth, error) {
	if days <= 0 || days > 365 {
		days = 30
	}
	signups, err := s.adminRepo.UserSignupsByDay(ctx, days)
	if err != nil {
		return nil, err
	}
	sessions, err := s.adminRepo.SessionsByDay(ctx, days)
	if err != nil {
		return nil, err
	}
	return &Growth{Signups: signups, Sessions: sessions}, nil
}
