package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastToChannel(t *testing.T) {
	h := NewHub()
	a := NewClient(1, "student", "math")
	b := NewClient(2, "student", "math")
	other := NewClient(3, "student", "global")
	h.Register(a)
	h.Register(b)
	h.Register(other)
	assert.Equal(t, 3, h.ClientCount())
	assert.Equal(t, 2, h.ChannelCount("math"))

	h.BroadcastToChannel("math", map[string]string{"type": "message", "text": "hi"})

	for _, c := range []*Client{a, b} {
		select {
		case raw := <-c.Send:
			var got map[string]string
			require.NoError(t, json.Unmarshal(raw, &got))
			assert.Equal(t, "hi", got["text"])
		default:
			t.Fatalf("client %d got nothing", c.UserID)
		}
	}
	assert.Len(t, other.Send, 0)
}

func TestCloseUnregistersAndIsIdempotent(t *testing.T) {
	h := NewHub()
	c := NewClient(1, "student", "math")
	h.Register(c)
	c.Close()
	c.Close()
	assert.Equal(t, 0, h.ClientCount())

	// Delivering to a closed client must not panic.
	h.BroadcastToUser(1, "x")
	c.deliver([]byte("x"))
}

func TestBroadcastToUser(t *testing.T) {
	h := NewHub()
	c1 := NewClient(5, "teacher", "a")
	c2 := NewClient(5, "teacher", "b")
	h.Register(c1)
	h.Register(c2)
	h.BroadcastToUser(5, payload{"type": "ping"})
	assert.Len(t, c1.Send, 1)
	assert.Len(t, c2.Send, 1)
}

type payload map[string]string
