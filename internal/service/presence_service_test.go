package service

import (
	"context"
	"testing"
	"time"

	"classhub/internal/domain"
	"classhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeartbeatKeepsOneRecordPerChannelUser(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	u := e.user(t, "alex", domain.RoleStudent)
	svc := e.presence()

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.Heartbeat(ctx, u.ID, "lobby"))
		e.clock.advance(time.Second)
	}

	var n int64
	require.NoError(t, e.db.Model(&models.PresenceRecord{}).Where("channel = ? AND user_id = ?", "lobby", u.ID).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	rec, err := e.presenceRepo.Get(ctx, "lobby", u.ID)
	require.NoError(t, err)
	assert.Equal(t, e.clock.now().Add(-time.Second).UnixMilli(), rec.LastSeenMs)
	assert.Equal(t, "alex", rec.Name)
}

func TestHeartbeatKeepsStoredName(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	u := e.user(t, "alex", domain.RoleStudent)
	svc := e.presence()

	require.NoError(t, svc.Heartbeat(ctx, u.ID, ""))
	require.NoError(t, e.users.UpdateFields(ctx, u.ID, map[string]interface{}{"name": "Alexander"}))
	require.NoError(t, svc.Heartbeat(ctx, u.ID, ""))

	rec, err := e.presenceRepo.Get(ctx, domain.GlobalChannel, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alex", rec.Name)
}

func TestHeartbeatFallsBackToDefaultName(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	svc := e.presence()

	// No user row: the record still gets a name.
	require.NoError(t, svc.Heartbeat(ctx, 42, "lobby"))
	rec, err := e.presenceRepo.Get(ctx, "lobby", 42)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultDisplayName, rec.Name)
}

func TestHeartbeatIgnoresAnonymous(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, e.presence().Heartbeat(context.Background(), 0, "lobby"))

	var n int64
	require.NoError(t, e.db.Model(&models.PresenceRecord{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestOnlineWindowBoundary(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	a := e.user(t, "a", domain.RoleStudent)
	b := e.user(t, "b", domain.RoleStudent)
	svc := e.presence()

	e.clock.set(0)
	require.NoError(t, svc.Heartbeat(ctx, a.ID, "room"))
	require.NoError(t, svc.Heartbeat(ctx, b.ID, "other"))

	e.clock.set(119_999)
	users, err := svc.Online(ctx, "room", 0)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, a.ID, users[0].UserID)
	assert.Equal(t, "a", users[0].Name)

	e.clock.set(120_000)
	users, err = svc.Online(ctx, "room", 0)
	require.NoError(t, err)
	assert.Len(t, users, 1, "exactly the window is still online")

	e.clock.set(120_001)
	users, err = svc.Online(ctx, "room", 0)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestOnlineShrinkingWindowNeverGrows(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	svc := e.presence()

	for i, offset := range []int64{0, 30_000, 60_000, 90_000} {
		e.clock.set(offset)
		u := e.user(t, string(rune('a'+i)), domain.RoleStudent)
		require.NoError(t, svc.Heartbeat(ctx, u.ID, "room"))
	}
	e.clock.set(100_000)

	prev := -1
	for _, w := range []time.Duration{120 * time.Second, 80 * time.Second, 50 * time.Second, 20 * time.Second, time.Second} {
		users, err := svc.Online(ctx, "room", w)
		require.NoError(t, err)
		if prev >= 0 {
			assert.LessOrEqual(t, len(users), prev)
		}
		prev = len(users)
	}
	assert.Equal(t, 0, prev)
}

func TestOnlineMostRecentFirst(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	a := e.user(t, "a", domain.RoleStudent)
	b := e.user(t, "b", domain.RoleStudent)
	svc := e.presence()

	require.NoError(t, svc.Heartbeat(ctx, a.ID, ""))
	e.clock.advance(time.Second)
	require.NoError(t, svc.Heartbeat(ctx, b.ID, ""))

	users, err := svc.Online(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, b.ID, users[0].UserID)
	assert.Equal(t, a.ID, users[1].UserID)
}

func TestOnlineIgnoresHeartbeatsAfterNow(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	u := e.user(t, "alex", domain.RoleStudent)
	svc := e.presence()

	e.clock.set(500_000)
	require.NoError(t, svc.Heartbeat(ctx, u.ID, "lobby"))

	e.clock.set(100_000)
	online, err := svc.Online(ctx, "lobby", 0)
	require.NoError(t, err)
	assert.Empty(t, online)

	e.clock.set(500_000)
	online, err = svc.Online(ctx, "lobby", 0)
	require.NoError(t, err)
	require.Len(t, online, 1)
	assert.Equal(t, u.ID, online[0].UserID)
}
