package service

import (
	"context"
	"strings"
	"time"

	"classhub/internal/domain"
	"classhub/internal/models"
	"classhub/internal/repository"
)

// PresenceService records heartbeats and answers who is online in a channel.
type PresenceService struct {
	repo     *repository.PresenceRepository
	userRepo *repository.UserRepository
	window   time.Duration
	now      func() time.Time
}

func NewPresenceService(repo *repository.PresenceRepository, userRepo *repository.UserRepository, window time.Duration) *PresenceService {
	if window <= 0 {
		window = domain.PresenceWindow
	}
	return &PresenceService{repo: repo, userRepo: userRepo, window: window, now: time.Now}
}

func channelOrGlobal(channel string) string {
	if channel = strings.TrimSpace(channel); channel == "" {
		return domain.GlobalChannel
	}
	return channel
}

// Heartbeat marks userID as seen now in channel. Anonymous callers
// (userID 0) are ignored without error.
func (s *PresenceService) Heartbeat(ctx context.Context, userID uint, channel string) error {
	if userID == 0 {
		return nil
	}
	name := domain.DefaultDisplayName
	if s.userRepo != nil {
		if u, err := s.userRepo.GetByID(ctx, userID); err == nil {
			name = u.DisplayName()
		}
	}
	return s.repo.Touch(ctx, channelOrGlobal(channel), userID, name, s.now().UnixMilli())
}

// Online returns users seen in channel within window (window <= 0 uses the
// configured default), most recent first and at most once per user.
func (s *PresenceService) Online(ctx context.Context, channel string, window time.Duration) ([]models.OnlineUser, error) {
	if window <= 0 {
		window = s.window
	}
	nowMs := s.now().UnixMilli()
	recs, err := s.repo.ListSince(ctx, channelOrGlobal(channel), nowMs-window.Milliseconds(), nowMs)
	if err != nil {
		return nil, err
	}
	seen := make(map[uint]struct{}, len(recs))
	out := make([]models.OnlineUser, 0, len(recs))
	for _, r := range recs {
		if _, dup := seen[r.UserID]; dup {
			continue
		}
		seen[r.UserID] = struct{}{}
		name := r.Name
		if name == "" {
			name = domain.DefaultDisplayName
		}
		out = append(out, models.OnlineUser{UserID: r.UserID, Name: name, LastSeenMs: r.LastSeenMs})
	}
	return out, nil
}

// OnlineCutoffMs is the lastSeen bound used for the default window.
func (s *PresenceService) OnlineCutoffMs() int64 {
	return s.now().UnixMilli() - s.window.Milliseconds()
}
