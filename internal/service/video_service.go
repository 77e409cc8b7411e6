package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"classhub/internal/domain"
	"classhub/internal/models"
	"classhub/internal/repository"
	"classhub/pkg/youtube"

	"gorm.io/gorm"
)

// VideoService attaches YouTube videos to sessions.
type VideoService struct {
	repo        *repository.VideoRepository
	sessionRepo *repository.SessionRepository
	now         func() time.Time
}

func NewVideoService(repo *repository.VideoRepository, sessionRepo *repository.SessionRepository) *VideoService {
	return &VideoService{repo: repo, sessionRepo: sessionRepo, now: time.Now}
}

func (s *VideoService) ownedSession(ctx context.Context, actor Actor, sessionID uint) (*models.Session, error) {
	if actor.UserID == 0 {
		return nil, ErrUnauthorized
	}
	sess, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, notFound(err, "session")
	}
	if !actor.IsAdmin() && sess.TeacherID != actor.UserID {
		return nil, ErrForbidden
	}
	return sess, nil
}

// Attach links a YouTube video to a session. Attaching the same video twice
// returns the existing row.
func (s *VideoService) Attach(ctx context.Context, actor Actor, sessionID uint, urlOrID, title string) (*models.SessionVideo, error) {
	sess, err := s.ownedSession(ctx, actor, sessionID)
	if err != nil {
		return nil, err
	}
	videoID, ok := youtube.ExtractID(urlOrID)
	if !ok {
		return nil, invalid("invalid YouTube URL or id")
	}
	existing, err := s.repo.FindForSession(ctx, sess.ID, domain.ProviderYouTube, videoID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	classroomID := sess.ClassroomID
	v := &models.SessionVideo{
		Provider:    domain.ProviderYouTube,
		VideoID:     videoID,
		Title:       strings.TrimSpace(title),
		SessionID:   &sess.ID,
		ClassroomID: &classroomID,
		AddedBy:     actor.UserID,
		AddedAtMs:   s.now().UnixMilli(),
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *VideoService) Remove(ctx context.Context, actor Actor, videoID uint) error {
	v, err := s.repo.GetByID(ctx, videoID)
	if err != nil {
		return notFound(err, "video")
	}
	if v.SessionID == nil {
		if !actor.IsAdmin() {
			return ErrForbidden
		}
	} else if _, err := s.ownedSession(ctx, actor, *v.SessionID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, v.ID)
}

func (s *VideoService) ListForSession(ctx context.Context, sessionID uint) ([]models.SessionVideo, error) {
	if _, err := s.sessionRepo.GetByID(ctx, sessionID); err != nil {
		return nil, notFound(err, "session")
	}
	return s.repo.ListBySession(ctx, sessionID)
}

// ListForSessions groups videos by session id. Every requested id is present
// in the result, with an empty slice when it has no videos.
func (s *VideoService) ListForSessions(ctx context.Context, sessionIDs []uint) (map[uint][]models.SessionVideo, error) {
	list, err := s.repo.ListBySessions(ctx, sessionIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[uint][]models.SessionVideo, len(sessionIDs))
	for _, id := range sessionIDs {
		out[id] = []models.SessionVideo{}
	}
	for _, v := range list {
		if v.SessionID != nil {
			out[*v.SessionID] = append(out[*v.SessionID], v)
		}
	}
	return out, nil
}
