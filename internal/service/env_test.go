package service

import (
	"context"
	"testing"
	"time"

	"classhub/config"
	"classhub/internal/database"
	"classhub/internal/domain"
	"classhub/internal/models"
	"classhub/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// clock is a settable time source shared by the services under test.
type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }
func (c *clock) set(ms int64)            { c.t = time.UnixMilli(ms) }

type testEnv struct {
	db    *gorm.DB
	clock *clock

	users         *repository.UserRepository
	presenceRepo  *repository.PresenceRepository
	classroomRepo *repository.ClassroomRepository
	sessionRepo   *repository.SessionRepository
	noteRepo      *repository.NoteRepository
	notifRepo     *repository.NotificationRepository
	integration   *repository.IntegrationRepository

	notifier *NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.NewMemoryDB()
	require.NoError(t, err)
	e := &testEnv{
		db:            db,
		clock:         &clock{t: time.UnixMilli(1_700_000_000_000)},
		users:         repository.NewUserRepository(db),
		presenceRepo:  repository.NewPresenceRepository(db),
		classroomRepo: repository.NewClassroomRepository(db),
		sessionRepo:   repository.NewSessionRepository(db),
		noteRepo:      repository.NewNoteRepository(db),
		notifRepo:     repository.NewNotificationRepository(db),
		integration:   repository.NewIntegrationRepository(db),
	}
	e.notifier = NewNotificationService(e.notifRepo, e.users, nil, nil)
	return e
}

func (e *testEnv) user(t *testing.T, name, role string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: name + "@classhub.test", Role: role, IsActive: true}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}

func (e *testEnv) classroom(t *testing.T, teacherID uint) *models.Classroom {
	t.Helper()
	c := &models.Classroom{Name: "Algebra", TeacherID: teacherID, Subject: "Mathematics", Language: "English", IsActive: true}
	require.NoError(t, e.classroomRepo.Create(context.Background(), c))
	return c
}

func (e *testEnv) enroll(t *testing.T, classroomID, studentID uint) {
	t.Helper()
	require.NoError(t, e.classroomRepo.CreateEnrollment(context.Background(), &models.Enrollment{
		ClassroomID: classroomID, StudentID: studentID, EnrolledAtMs: e.clock.now().UnixMilli(), Status: domain.EnrollmentActive,
	}))
}

func (e *testEnv) liveSession(t *testing.T, c *models.Classroom, startMs int64) *models.Session {
	t.Helper()
	s := &models.Session{ClassroomID: c.ID, TeacherID: c.TeacherID, Title: "Live", StartTimeMs: startMs, IsLive: true}
	require.NoError(t, e.sessionRepo.Create(context.Background(), s))
	return s
}

func (e *testEnv) presence() *PresenceService {
	s := NewPresenceService(e.presenceRepo, e.users, domain.PresenceWindow)
	s.now = e.clock.now
	return s
}

func (e *testEnv) sessions() *SessionService {
	s := NewSessionService(e.sessionRepo, e.classroomRepo, e.users, e.notifier, nil)
	s.now = e.clock.now
	s.background = func(f func()) { f() }
	return s
}

func (e *testEnv) classrooms() *ClassroomService {
	s := NewClassroomService(e.classroomRepo, e.users)
	s.now = e.clock.now
	return s
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{AccessSecret: "access", RefreshSecret: "refresh", AccessExpiry: time.Minute, RefreshExpiry: time.Hour, Issuer: "classhub"},
	}
}
