package tokencrypt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() []byte { return bytes.Repeat([]byte{0x42}, 32) }

func TestEncryptDecrypt(t *testing.T) {
	c, err := New(testKey())
	require.NoError(t, err)

	sealed, err := c.Encrypt("ya29.access-token")
	require.NoError(t, err)
	assert.Len(t, strings.Split(sealed, "."), 3)

	plain, err := c.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, "ya29.access-token", plain)
}

func TestEncryptEmpty(t *testing.T) {
	c, err := New(testKey())
	require.NoError(t, err)
	sealed, err := c.Encrypt("")
	require.NoError(t, err)
	plain, err := c.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, "", plain)
}

func TestDecryptTampered(t *testing.T) {
	c, err := New(testKey())
	require.NoError(t, err)
	sealed, err := c.Encrypt("secret")
	require.NoError(t, err)

	parts := strings.Split(sealed, ".")
	other, err := c.Encrypt("secreT")
	require.NoError(t, err)
	parts[2] = strings.Split(other, ".")[2]
	_, err = c.Decrypt(strings.Join(parts, "."))
	assert.Error(t, err)

	_, err = c.Decrypt("not-a-token")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestNewRejectsShortKey(t *testing.T) {
	_, err := New([]byte("short"))
	assert.Error(t, err)
}
