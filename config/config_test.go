package config

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEncryptionKey(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    []byte
		wantErr bool
	}{
		{"hex", strings.Repeat("42", 32), bytes.Repeat([]byte{0x42}, 32), false},
		{"base64", base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{1}, 32)), bytes.Repeat([]byte{1}, 32), false},
		{"wrong length", base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{1}, 16)), nil, true},
		{"not encoded", "not-a-key", nil, true},
		{"empty", "", nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, err := ParseEncryptionKey(tc.raw)
			if tc.wantErr {
				assert.Error(t, err)
				assert.Nil(t, key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, key)
		})
	}
}
