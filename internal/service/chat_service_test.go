package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"classhub/internal/domain"
	"classhub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHub struct {
	channels []string
	payloads []interface{}
}

func (h *recordingHub) BroadcastToChannel(channel string, payload interface{}) {
	h.channels = append(h.channels, channel)
	h.payloads = append(h.payloads, payload)
}

func TestChatSendAndList(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	u := e.user(t, "alex", domain.RoleStudent)
	hub := &recordingHub{}
	svc := NewChatService(repository.NewMessageRepository(e.db), e.users, hub)

	_, err := svc.Send(ctx, 0, "", "hi")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.Send(ctx, u.ID, "", "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Send(ctx, u.ID, "", strings.Repeat("a", 2001))
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, hub.channels)

	m, err := svc.Send(ctx, u.ID, "", "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", m.Text)
	assert.Equal(t, "alex", m.Name)
	assert.Equal(t, domain.GlobalChannel, m.Channel)
	assert.Equal(t, []string{domain.GlobalChannel}, hub.channels)

	time.Sleep(2 * time.Millisecond)
	_, err = svc.Send(ctx, u.ID, domain.GlobalChannel, "second")
	require.NoError(t, err)

	list, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Text)
}

func TestChatListCapped(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	u := e.user(t, "alex", domain.RoleStudent)
	svc := NewChatService(repository.NewMessageRepository(e.db), e.users, nil)
	for i := 0; i < domain.MessageListLimit+5; i++ {
		_, err := svc.Send(ctx, u.ID, "room", "m")
		require.NoError(t, err)
	}
	list, err := svc.List(ctx, "room")
	require.NoError(t, err)
	assert.Len(t, list, domain.MessageListLimit)
}
