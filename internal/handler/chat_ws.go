package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"classhub/config"
	"classhub/internal/auth"
	"classhub/internal/domain"
	"classhub/internal/service"
	"classhub/internal/ws"
	"classhub/pkg/heartbeat"

	"github.com/gin-gonic/gin"
)

type inboundFrame struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ChannelWS streams a channel: it records a heartbeat for the connected user
// every poll interval, pushes the online set at the same cadence, and relays
// inbound {"type":"message"} frames through the chat service.
// Query: token, channel.
func ChannelWS(cfg *config.Config, hub *ws.Hub, presence *service.PresenceService, chat *service.ChatService) gin.HandlerFunc {
	interval := cfg.Presence.PollInterval
	if interval <= 0 {
		interval = domain.PresencePollInterval
	}
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}
		claims, err := auth.ParseAccessToken(&cfg.JWT, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		channel := c.Query("channel")
		if channel == "" {
			channel = domain.GlobalChannel
		}
		conn, err := ws.Upgrade(c.Writer, c.Request)
		if err != nil {
			return
		}
		client := ws.NewClient(claims.UserID, claims.Role, channel)
		hub.Register(client)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		// Each tick records the caller before reading the online set, so the
		// first presence frame already lists them.
		go heartbeat.Run(ctx, interval, func(ctx context.Context) error {
			if err := presence.Heartbeat(ctx, claims.UserID, channel); err != nil {
				log.Printf("[ws] user %d heartbeat on %s: %v", claims.UserID, channel, err)
			}
			users, err := presence.Online(ctx, channel, 0)
			if err != nil {
				return err
			}
			client.SendJSON(gin.H{"type": "presence", "channel": channel, "users": users})
			return nil
		})

		ws.Serve(ctx, conn, client, func(raw []byte) {
			var in inboundFrame
			if json.Unmarshal(raw, &in) != nil || in.Type != "message" {
				return
			}
			sendCtx, done := context.WithTimeout(ctx, 10*time.Second)
			defer done()
			if _, err := chat.Send(sendCtx, claims.UserID, channel, in.Text); err != nil {
				client.SendJSON(gin.H{"type": "error", "error": err.Error()})
				log.Printf("[ws] user %d send on %s: %v", claims.UserID, channel, err)
			}
		})
	}
}
