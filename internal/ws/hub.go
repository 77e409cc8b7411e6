package ws

import (
	"encoding/json"
	"sync"
)

// Client is one websocket connection subscribed to a single channel.
type Client struct {
	UserID  uint
	Role    string
	Channel string
	Send    chan []byte
	hub     *Hub
	mu      sync.Mutex
	closed  bool
}

func NewClient(userID uint, role, channel string) *Client {
	return &Client{UserID: userID, Role: role, Channel: channel, Send: make(chan []byte, 256)}
}

// Close unregisters the client and closes Send. Safe to call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	hub := c.hub
	c.mu.Unlock()
	if hub != nil {
		hub.unregister(c)
	}
	close(c.Send)
}

// deliver queues data without blocking; slow clients drop frames.
func (c *Client) deliver(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

// SendJSON queues payload for this client only.
func (c *Client) SendJSON(payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	c.deliver(data)
}

// Hub indexes live clients by channel and by user.
type Hub struct {
	mu        sync.RWMutex
	byChannel map[string]map[*Client]struct{}
	byUser    map[uint]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		byChannel: make(map[string]map[*Client]struct{}),
		byUser:    make(map[uint]map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.mu.Lock()
	c.hub = h
	c.mu.Unlock()
	if h.byChannel[c.Channel] == nil {
		h.byChannel[c.Channel] = make(map[*Client]struct{})
	}
	h.byChannel[c.Channel][c] = struct{}{}
	if h.byUser[c.UserID] == nil {
		h.byUser[c.UserID] = make(map[*Client]struct{})
	}
	h.byUser[c.UserID][c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m := h.byChannel[c.Channel]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byChannel, c.Channel)
		}
	}
	if m := h.byUser[c.UserID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byUser, c.UserID)
		}
	}
}

func snapshot(m map[*Client]struct{}) []*Client {
	out := make([]*Client, 0, len(m))
	for c := range m {
		out = append(out, c)
	}
	return out
}

// BroadcastToChannel sends payload as JSON to every subscriber of channel.
func (h *Hub) BroadcastToChannel(channel string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.mu.RLock()
	clients := snapshot(h.byChannel[channel])
	h.mu.RUnlock()
	for _, c := range clients {
		c.deliver(data)
	}
}

func (h *Hub) BroadcastToUser(userID uint, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.mu.RLock()
	clients := snapshot(h.byUser[userID])
	h.mu.RUnlock()
	for _, c := range clients {
		c.deliver(data)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, m := range h.byChannel {
		n += len(m)
	}
	return n
}

func (h *Hub) ChannelCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byChannel[channel])
}
