package handler

import (
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOnlineWindow(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Duration
	}{
		{"", 0},
		{"abc", 0},
		{"0", 0},
		{"-5000", 0},
		{"60000", time.Minute},
		{strconv.FormatInt(maxOnlineWindow.Milliseconds(), 10), maxOnlineWindow},
		{"9223372036854775", maxOnlineWindow},
		{strconv.FormatInt(math.MaxInt64, 10), maxOnlineWindow},
		{"99999999999999999999", 0},
	}
	for _, tc := range cases {
		got := onlineWindow(tc.raw)
		assert.Equal(t, tc.want, got, "window_ms=%q", tc.raw)
		assert.GreaterOrEqual(t, got, time.Duration(0), "window_ms=%q", tc.raw)
	}
}
