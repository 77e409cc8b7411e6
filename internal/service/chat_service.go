package service

import (
	"context"
	"strings"

	"classhub/internal/domain"
	"classhub/internal/models"
	"classhub/internal/repository"
)

// Broadcaster fans a payload out to a channel's live subscribers.
type Broadcaster interface {
	BroadcastToChannel(channel string, payload interface{})
}

type ChatService struct {
	repo     *repository.MessageRepository
	userRepo *repository.UserRepository
	hub      Broadcaster
}

func NewChatService(repo *repository.MessageRepository, userRepo *repository.UserRepository, hub Broadcaster) *ChatService {
	return &ChatService{repo: repo, userRepo: userRepo, hub: hub}
}

const maxMessageLen = 2000

// Send stores a trimmed message under the sender's display name and pushes
// it to the channel.
func (s *ChatService) Send(ctx context.Context, userID uint, channel, text string) (*models.ChatMessage, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalid("message is empty")
	}
	if len(text) > maxMessageLen {
		return nil, invalid("message is too long")
	}
	name := domain.DefaultDisplayName
	if u, err := s.userRepo.GetByID(ctx, userID); err == nil {
		name = u.DisplayName()
	}
	m := &models.ChatMessage{Channel: channelOrGlobal(channel), UserID: userID, Name: name, Text: text}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	if s.hub != nil {
		s.hub.BroadcastToChannel(m.Channel, map[string]interface{}{"type": "message", "message": m})
	}
	return m, nil
}

// List returns the channel's latest messages, newest first.
func (s *ChatService) List(ctx context.Context, channel string) ([]models.ChatMessage, error) {
	return s.repo.ListLatest(ctx, channelOrGlobal(channel), domain.MessageListLimit)
}
