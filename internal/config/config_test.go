package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := FromEnv()
	assert.Error(t, err)
}

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, DefaultArchiveRoot, cfg.ArchiveRoot)
	assert.Equal(t, int64(DefaultMaxMessages), cfg.MaxMessages)
	assert.Equal(t, DefaultRetentionHours*time.Hour, cfg.RetentionMaxAge)
	assert.True(t, cfg.ForceConsent, "consent must be forced by default")
	assert.NotEmpty(t, cfg.BaseKeywords)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("FACTURADOR_MAX_MESSAGES", "25")
	t.Setenv("FACTURADOR_RETENTION_HOURS", "48")
	t.Setenv("GMAIL_FORCE_CONSENT", "false")
	t.Setenv("FACTURADOR_BASE_KEYWORDS", "factura, rechnung ,")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, int64(25), cfg.MaxMessages)
	assert.Equal(t, 48*time.Hour, cfg.RetentionMaxAge)
	assert.False(t, cfg.ForceConsent)
	assert.Equal(t, []string{"factura", "rechnung"}, cfg.BaseKeywords)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	t.Setenv("FACTURADOR_MAX_MESSAGES", "zero")
	_, err := FromEnv()
	assert.Error(t, err)
	t.Setenv("FACTURADOR_MAX_MESSAGES", "")

	t.Setenv("ENCRYPTION_KEY", "tooshort")
	_, err = FromEnv()
	assert.Error(t, err)
}
