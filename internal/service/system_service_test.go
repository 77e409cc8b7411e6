package service

import (
	"context"
	"testing"
	"time"

	"classhub/internal/domain"
	"classhub/internal/repository"
	"classhub/pkg/openrouter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemStatus(t *testing.T) {
	e := newTestEnv(t)
	ai := NewAIService(openrouter.NewClient("key", "http://localhost", "m", "", "", time.Second))
	sys := NewSystemService(repository.NewAdminRepository(e.db), e.presence(), ai, nil, nil, nil, nil)
	st := sys.Status()
	assert.True(t, st.OpenRouter)
	assert.False(t, st.Resend)
	assert.False(t, st.Google)
	assert.False(t, st.FCM)
	assert.False(t, st.Cloudinary)
}

func TestSystemDashboard(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	teacher := e.user(t, "teacher", domain.RoleTeacher)
	student := e.user(t, "student", domain.RoleStudent)
	room := e.classroom(t, teacher.ID)
	e.liveSession(t, room, e.clock.now().UnixMilli())

	presence := e.presence()
	require.NoError(t, presence.Heartbeat(ctx, student.ID, ""))
	e.clock.advance(3 * time.Minute)
	require.NoError(t, presence.Heartbeat(ctx, teacher.ID, ""))

	sys := NewSystemService(repository.NewAdminRepository(e.db), presence, NewAIService(nil), nil, nil, nil, nil)
	stats, err := sys.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalTeachers)
	assert.Equal(t, int64(1), stats.TotalClassrooms)
	assert.Equal(t, int64(1), stats.LiveSessions)
	assert.Equal(t, int64(1), stats.OnlineUsers)

	g, err := sys.Growth(ctx, 0)
	require.NoError(t, err)
	assert.NotNil(t, g)
}
