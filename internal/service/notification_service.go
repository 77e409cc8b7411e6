package service

import (
	"context"
	"encoding/json"
	"log"

	"classhub/internal/domain"
	"classhub/internal/models"
	"classhub/internal/repository"
)

type NotificationService struct {
	repo     *repository.NotificationRepository
	userRepo *repository.UserRepository
	fcm      *FCMService
	mailer   Mailer
}

func NewNotificationService(repo *repository.NotificationRepository, userRepo *repository.UserRepository, fcm *FCMService, mailer Mailer) *NotificationService {
	return &NotificationService{repo: repo, userRepo: userRepo, fcm: fcm, mailer: mailer}
}

// Notify stores an in-app notification and pushes it to the user's device.
func (s *NotificationService) Notify(ctx context.Context, userID uint, notifType, title, body string, data map[string]interface{}) error {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	err := s.repo.Create(ctx, &models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   dataJSON,
	})
	if err != nil {
		return err
	}
	s.sendPush(ctx, userID, notifType, title, body, data)
	return nil
}

func (s *NotificationService) sendPush(ctx context.Context, userID uint, notifType, title, body string, data map[string]interface{}) {
	if !s.fcm.Enabled() || s.userRepo == nil {
		return
	}
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || u.FCMToken == "" {
		return
	}
	_ = s.fcm.SendToUser(ctx, u.FCMToken, notifType, title, body, data)
}

func (s *NotificationService) List(ctx context.Context, userID uint, page, limit int) ([]models.Notification, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.ListByUserID(ctx, userID, limit, (page-1)*limit)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id uint) error {
	if userID == 0 {
		return ErrUnauthorized
	}
	return notFound(s.repo.MarkRead(ctx, id, userID), "notification")
}

// NotifySessionStarted tells every recipient in-app, by push, and by email.
// Each email goes to one recipient; individual failures are logged and skipped.
func (s *NotificationService) NotifySessionStarted(ctx context.Context, session *models.Session, teacherName string, recipients []models.User) {
	data := map[string]interface{}{"session_id": session.ID, "classroom_id": session.ClassroomID}
	for _, r := range recipients {
		if err := s.Notify(ctx, r.ID, domain.NotifSessionStarted, "Live session started", session.Title, data); err != nil {
			log.Printf("[notify] session %d user %d: %v", session.ID, r.ID, err)
		}
	}
	if s.mailer == nil {
		return
	}
	subject, body := sessionStartedEmail(session.Title, teacherName)
	for _, r := range recipients {
		if r.Email == "" {
			continue
		}
		_ = s.mailer.Send(ctx, r.Email, subject, body)
	}
}

func (s *NotificationService) NotifyReportReady(ctx context.Context, studentID, reportID uint) {
	if err := s.Notify(ctx, studentID, domain.NotifReportReady, "New report", "A new performance report is available", map[string]interface{}{"report_id": reportID}); err != nil {
		log.Printf("[notify] report %d: %v", reportID, err)
	}
}

func (s *NotificationService) NotifyMeetScheduled(ctx context.Context, userIDs []uint, sessionID uint, url string) {
	for _, id := range userIDs {
		if err := s.Notify(ctx, id, domain.NotifMeetScheduled, "Google Meet scheduled", url, map[string]interface{}{"session_id": sessionID, "url": url}); err != nil {
			log.Printf("[notify] meet for session %d user %d: %v", sessionID, id, err)
		}
	}
}
