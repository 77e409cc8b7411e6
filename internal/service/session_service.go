package service

import (
	"context"
	"io"
	"log"
	"strings"
	"time"

	"classhub/internal/models"
	"classhub/internal/repository"
	"classhub/pkg/cloudinary"

	"github.com/google/uuid"
)

// SessionService runs live sessions and their attendance.
type SessionService struct {
	repo          *repository.SessionRepository
	classroomRepo *repository.ClassroomRepository
	userRepo      *repository.UserRepository
	notifier      *NotificationService
	uploader      cloudinary.Uploader
	now           func() time.Time
	background    func(func())
}

func NewSessionService(
	repo *repository.SessionRepository,
	classroomRepo *repository.ClassroomRepository,
	userRepo *repository.UserRepository,
	notifier *NotificationService,
	uploader cloudinary.Uploader,
) *SessionService {
	return &SessionService{
		repo:          repo,
		classroomRepo: classroomRepo,
		userRepo:      userRepo,
		notifier:      notifier,
		uploader:      uploader,
		now:           time.Now,
		background:    func(f func()) { go f() },
	}
}

// Start opens a live session in a classroom the actor teaches (admins may
// start any) and notifies the classroom's students in the background.
func (s *SessionService) Start(ctx context.Context, actor Actor, classroomID uint, title string) (*models.Session, error) {
	if actor.UserID == 0 {
		return nil, ErrUnauthorized
	}
	if !actor.CanTeach() {
		return nil, ErrForbidden
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("title is required")
	}
	c, err := s.classroomRepo.GetByID(ctx, classroomID)
	if err != nil {
		return nil, notFound(err, "classroom")
	}
	if !actor.IsAdmin() && c.TeacherID != actor.UserID {
		return nil, ErrForbidden
	}
	sess := &models.Session{
		ClassroomID: classroomID,
		TeacherID:   actor.UserID,
		Title:       title,
		StartTimeMs: s.now().UnixMilli(),
		IsLive:      true,
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		bg := context.WithoutCancel(ctx)
		started := *sess
		s.background(func() { s.announce(bg, &started) })
	}
	return sess, nil
}

func (s *SessionService) announce(ctx context.Context, sess *models.Session) {
	students, err := s.classroomRepo.ListActiveStudents(ctx, sess.ClassroomID)
	if err != nil {
		log.Printf("[session] recipients for classroom %d: %v", sess.ClassroomID, err)
		return
	}
	if len(students) == 0 {
		return
	}
	teacherName := ""
	if t, err := s.userRepo.GetByID(ctx, sess.TeacherID); err == nil {
		teacherName = t.Name
	}
	s.notifier.NotifySessionStarted(ctx, sess, teacherName, students)
}

// End stops a session. Only its teacher or an admin may end it.
func (s *SessionService) End(ctx context.Context, actor Actor, sessionID uint) (*models.Session, error) {
	sess, err := s.ownedSession(ctx, actor, sessionID)
	if err != nil {
		return nil, err
	}
	end := s.now().UnixMilli()
	if err := s.repo.End(ctx, sessionID, end); err != nil {
		return nil, err
	}
	sess.EndTimeMs = &end
	sess.IsLive = false
	return sess, nil
}

func (s *SessionService) ownedSession(ctx context.Context, actor Actor, sessionID uint) (*models.Session, error) {
	if actor.UserID == 0 {
		return nil, ErrUnauthorized
	}
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && sess.TeacherID != actor.UserID {
		return nil, ErrForbidden
	}
	return sess, nil
}

func (s *SessionService) Get(ctx context.Context, id uint) (*models.Session, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "session")
	}
	return sess, nil
}

func (s *SessionService) ListByClassroom(ctx context.Context, classroomID uint) ([]models.Session, error) {
	return s.repo.ListByClassroom(ctx, classroomID)
}

func (s *SessionService) Live(ctx context.Context) ([]models.Session, error) {
	return s.repo.ListLive(ctx)
}

// Join records that userID entered the session. Joining twice without
// leaving returns the open record and leaves the counter alone.
func (s *SessionService) Join(ctx context.Context, userID, sessionID uint) (*models.Attendance, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	rec, _, err := s.repo.Join(ctx, sessionID, userID, s.now().UnixMilli())
	if err != nil {
		return nil, notFound(err, "session")
	}
	return rec, nil
}

// Leave closes userID's open attendance record. It returns nil, nil when
// there is nothing to close.
func (s *SessionService) Leave(ctx context.Context, userID, sessionID uint) (*models.Attendance, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	return s.repo.Leave(ctx, sessionID, userID, s.now().UnixMilli())
}

// Attendance lists a session's records. Teachers see their own sessions, admins all.
func (s *SessionService) Attendance(ctx context.Context, actor Actor, sessionID uint) ([]models.Attendance, error) {
	if _, err := s.ownedSession(ctx, actor, sessionID); err != nil {
		return nil, err
	}
	return s.repo.ListAttendance(ctx, sessionID)
}

// UploadRecording stores a recording on Cloudinary and links it to the session.
func (s *SessionService) UploadRecording(ctx context.Context, actor Actor, sessionID uint, file io.Reader) (*models.Session, error) {
	sess, err := s.ownedSession(ctx, actor, sessionID)
	if err != nil {
		return nil, err
	}
	if s.uploader == nil {
		return nil, ErrUpstream
	}
	up, err := s.uploader.UploadRecording(ctx, file, "session-"+uuid.NewString())
	if err != nil {
		log.Printf("[session] recording upload for %d failed: %v", sessionID, err)
		return nil, ErrUpstream
	}
	if err := s.repo.SetRecordingURL(ctx, sessionID, up.URL); err != nil {
		return nil, err
	}
	sess.RecordingURL = up.URL
	return sess, nil
}
