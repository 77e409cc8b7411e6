package service

import (
	"context"
	"testing"

	"classhub/internal/domain"
	"classhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attendeeCount(t *testing.T, e *testEnv, sessionID uint) int {
	t.Helper()
	s, err := e.sessionRepo.GetByID(context.Background(), sessionID)
	require.NoError(t, err)
	return s.AttendeeCount
}

func TestJoinLeaveScenario(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	teacher := e.user(t, "teacher", domain.RoleTeacher)
	student := e.user(t, "student", domain.RoleStudent)
	room := e.classroom(t, teacher.ID)
	sess := e.liveSession(t, room, 0)
	svc := e.sessions()

	e.clock.set(0)
	rec, err := svc.Join(ctx, student.ID, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rec.JoinTimeMs)
	assert.Equal(t, 1, attendeeCount(t, e, sess.ID))

	e.clock.set(10)
	again, err := svc.Join(ctx, student.ID, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, again.ID)
	assert.Equal(t, int64(0), again.JoinTimeMs)
	assert.Equal(t, 1, attendeeCount(t, e, sess.ID))

	e.clock.set(600_000)
	left, err := svc.Leave(ctx, student.ID, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, left)
	require.NotNil(t, left.LeaveTimeMs)
	require.NotNil(t, left.DurationMinutes)
	assert.Equal(t, int64(600_000), *left.LeaveTimeMs)
	assert.Equal(t, int64(10), *left.DurationMinutes)
	assert.Equal(t, 0, attendeeCount(t, e, sess.ID))

	list, err := e.sessionRepo.ListAttendance(ctx, sess.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestLeaveDurationFloors(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	teacher := e.user(t, "teacher", domain.RoleTeacher)
	student := e.user(t, "student", domain.RoleStudent)
	sess := e.liveSession(t, e.classroom(t, teacher.ID), 0)
	svc := e.sessions()

	e.clock.set(1_000)
	_, err := svc.Join(ctx, student.ID, sess.ID)
	require.NoError(t, err)
	e.clock.set(1_000 + 119_999)
	rec, err := svc.Leave(ctx, student.ID, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), *rec.DurationMinutes)
}

func TestLeaveWithoutJoinIsNoop(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	teacher := e.user(t, "teacher", domain.RoleTeacher)
	student := e.user(t, "student", domain.RoleStudent)
	sess := e.liveSession(t, e.classroom(t, teacher.ID), 0)

	rec, err := e.sessions().Leave(ctx, student.ID, sess.ID)
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Equal(t, 0, attendeeCount(t, e, sess.ID))
}

func TestAttendeeCountNeverNegative(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	teacher := e.user(t, "teacher", domain.RoleTeacher)
	student := e.user(t, "student", domain.RoleStudent)
	sess := e.liveSession(t, e.classroom(t, teacher.ID), 0)
	svc := e.sessions()

	_, err := svc.Join(ctx, student.ID, sess.ID)
	require.NoError(t, err)
	// Simulate drift: the counter lost the join.
	require.NoError(t, e.db.Model(&models.Session{}).Where("id = ?", sess.ID).Update("attendee_count", 0).Error)

	_, err = svc.Leave(ctx, student.ID, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, attendeeCount(t, e, sess.ID))
}

func TestRejoinAfterLeaveOpensNewRecord(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	teacher := e.user(t, "teacher", domain.RoleTeacher)
	student := e.user(t, "student", domain.RoleStudent)
	sess := e.liveSession(t, e.classroom(t, teacher.ID), 0)
	svc := e.sessions()

	first, err := svc.Join(ctx, student.ID, sess.ID)
	require.NoError(t, err)
	_, err = svc.Leave(ctx, student.ID, sess.ID)
	require.NoError(t, err)
	second, err := svc.Join(ctx, student.ID, sess.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 1, attendeeCount(t, e, sess.ID))

	open, err := e.sessionRepo.CountOpen(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), open)
}

func TestJoinLeaveRequireUser(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	teacher := e.user(t, "teacher", domain.RoleTeacher)
	sess := e.liveSession(t, e.classroom(t, teacher.ID), 0)
	svc := e.sessions()

	_, err := svc.Join(ctx, 0, sess.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.Leave(ctx, 0, sess.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 0, attendeeCount(t, e, sess.ID))
}

func TestJoinUnknownSession(t *testing.T) {
	e := newTestEnv(t)
	student := e.user(t, "student", domain.RoleStudent)
	_, err := e.sessions().Join(context.Background(), student.ID, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStartNotifiesActiveStudents(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	teacher := e.user(t, "teacher", domain.RoleTeacher)
	other := e.user(t, "other", domain.RoleTeacher)
	student := e.user(t, "student", domain.RoleStudent)
	room := e.classroom(t, teacher.ID)
	e.enroll(t, room.ID, student.ID)
	svc := e.sessions()

	_, err := svc.Start(ctx, Actor{UserID: other.ID, Role: domain.RoleTeacher}, room.ID, "Intro")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Start(ctx, Actor{UserID: student.ID, Role: domain.RoleStudent}, room.ID, "Intro")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Start(ctx, Actor{UserID: teacher.ID, Role: domain.RoleTeacher}, room.ID, "  ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	sess, err := svc.Start(ctx, Actor{UserID: teacher.ID, Role: domain.RoleTeacher}, room.ID, "Intro")
	require.NoError(t, err)
	assert.True(t, sess.IsLive)
	assert.Equal(t, 0, sess.AttendeeCount)

	notes, err := e.notifRepo.ListByUserID(ctx, student.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, domain.NotifSessionStarted, notes[0].Type)
	assert.Equal(t, "Intro", notes[0].Body)
}

func TestEndAndAttendanceOwnership(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	teacher := e.user(t, "teacher", domain.RoleTeacher)
	other := e.user(t, "other", domain.RoleTeacher)
	admin := e.user(t, "admin", domain.RoleAdmin)
	sess := e.liveSession(t, e.classroom(t, teacher.ID), 0)
	svc := e.sessions()

	_, err := svc.Attendance(ctx, Actor{UserID: other.ID, Role: domain.RoleTeacher}, sess.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Attendance(ctx, Actor{UserID: admin.ID, Role: domain.RoleAdmin}, sess.ID)
	assert.NoError(t, err)

	_, err = svc.End(ctx, Actor{UserID: other.ID, Role: domain.RoleTeacher}, sess.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	ended, err := svc.End(ctx, Actor{UserID: teacher.ID, Role: domain.RoleTeacher}, sess.ID)
	require.NoError(t, err)
	assert.False(t, ended.IsLive)
	require.NotNil(t, ended.EndTimeMs)

	live, err := svc.Live(ctx)
	require.NoError(t, err)
	assert.Empty(t, live)
}
