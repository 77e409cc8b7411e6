package service

import (
	"context"
	"testing"

	"classhub/internal/domain"
	"classhub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoAttach(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	teacher := e.user(t, "teacher", domain.RoleTeacher)
	student := e.user(t, "student", domain.RoleStudent)
	room := e.classroom(t, teacher.ID)
	sess := e.liveSession(t, room, 1_000)
	other := e.liveSession(t, room, 2_000)
	svc := NewVideoService(repository.NewVideoRepository(e.db), e.sessionRepo)
	svc.now = e.clock.now
	owner := Actor{UserID: teacher.ID, Role: domain.RoleTeacher}

	_, err := svc.Attach(ctx, Actor{UserID: student.ID, Role: domain.RoleStudent}, sess.ID, "dQw4w9WgXcQ", "")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Attach(ctx, owner, sess.ID, "not a video", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Attach(ctx, owner, 999, "dQw4w9WgXcQ", "")
	assert.ErrorIs(t, err, ErrNotFound)

	v, err := svc.Attach(ctx, owner, sess.ID, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", " Intro ")
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", v.VideoID)
	assert.Equal(t, "Intro", v.Title)
	assert.Equal(t, room.ID, *v.ClassroomID)

	again, err := svc.Attach(ctx, owner, sess.ID, "https://youtu.be/dQw4w9WgXcQ", "")
	require.NoError(t, err)
	assert.Equal(t, v.ID, again.ID)

	list, err := svc.ListForSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	_, err = svc.ListForSession(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	grouped, err := svc.ListForSessions(ctx, []uint{sess.ID, other.ID})
	require.NoError(t, err)
	assert.Len(t, grouped[sess.ID], 1)
	require.Contains(t, grouped, other.ID)
	assert.Empty(t, grouped[other.ID])

	assert.ErrorIs(t, svc.Remove(ctx, Actor{UserID: student.ID, Role: domain.RoleStudent}, v.ID), ErrForbidden)
	require.NoError(t, svc.Remove(ctx, owner, v.ID))
	assert.ErrorIs(t, svc.Remove(ctx, owner, v.ID), ErrNotFound)
}
