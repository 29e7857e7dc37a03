package secrets

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxRoundTrip(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)

	box, err := New(key)
	require.NoError(t, err)
	assert.True(t, box.Enabled())

	tests := []struct {
		name      string
		plaintext string
	}{
		{name: "refresh token", plaintext: "1//0g-refresh-token-value"},
		{name: "unicode", plaintext: "facturas año 2024 ñ"},
		{name: "empty", plaintext: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sealed, err := box.Encrypt(tt.plaintext)
			require.NoError(t, err)
			if tt.plaintext != "" {
				assert.NotEqual(t, tt.plaintext, sealed)
			}

			opened, err := box.Decrypt(sealed)
			require.NoError(t, err)
			assert.Equal(t, tt.plaintext, opened)
		})
	}
}

func TestBoxWrongKeyFails(t *testing.T) {
	key1, err := GenerateKey()
	require.NoError(t, err)
	key2, err := GenerateKey()
	require.NoError(t, err)

	box1, err := New(key1)
	require.NoError(t, err)
	box2, err := New(key2)
	require.NoError(t, err)

	sealed, err := box1.Encrypt("secret")
	require.NoError(t, err)

	_, err = box2.Decrypt(sealed)
	assert.Error(t, err, "decrypting with a different key must fail")
}

func TestBoxNonceUniqueness(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)
	box, err := New(key)
	require.NoError(t, err)

	a, err := box.Encrypt("same input")
	require.NoError(t, err)
	b, err := box.Encrypt("same input")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "two encryptions of the same value must differ")
}

func TestBoxDisabled(t *testing.T) {
	box, err := New(nil)
	require.NoError(t, err)
	assert.False(t, box.Enabled())

	sealed, err := box.Encrypt("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", sealed)

	opened, err := box.Decrypt("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", opened)
}

func TestNewRejectsBadKeySize(t *testing.T) {
	_, err := New([]byte("short"))
	assert.Error(t, err)
}

func TestKeyFromBase64(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)

	decoded, err := KeyFromBase64(base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, decoded)

	decoded, err = KeyFromBase64("")
	require.NoError(t, err)
	assert.Nil(t, decoded)

	_, err = KeyFromBase64("not-base64!!!")
	assert.Error(t, err)

	_, err = KeyFromBase64("c2hvcnQ=") // "short"
	assert.Error(t, err)
}
