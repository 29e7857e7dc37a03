package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/facturador/facturador/internal/secrets"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultAddr           = ":8080"
	DefaultDBPath         = "data/facturador.db"
	DefaultArchiveRoot    = "data/zips"
	DefaultMaxMessages    = 100
	DefaultRetentionHours = 24
)

// baseKeywords is the fixed subject keyword list every search starts from;
// user-defined keywords are merged on top.
var baseKeywords = []string{"factura", "invoice", "recibo", "receipt"}

// Config holds the runtime configuration, loaded from environment
// variables with flag overrides applied in cmd.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string

	// DBPath is the SQLite database file path.
	DBPath string

	// ArchiveRoot is the directory under which per-user workspaces and
	// archives are created.
	ArchiveRoot string

	// JWTSecret signs session and OAuth state tokens.
	JWTSecret string

	// EncryptionKey is the AES-256 key protecting refresh tokens at rest.
	// Empty disables encryption (development only).
	EncryptionKey []byte

	// Google OAuth application credentials.
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// ForceConsent forces the Google consent screen on every authorization,
	// guaranteeing a refresh token is re-issued.
	ForceConsent bool

	// BaseKeywords is the built-in subject keyword list.
	BaseKeywords []string

	// MaxMessages caps how many messages one run may fetch.
	MaxMessages int64

	// RetentionMaxAge is how long generated archives are kept.
	RetentionMaxAge time.Duration

	// Debug enables debug logging.
	Debug bool
}

// FromEnv loads configuration from the environment. JWT_SECRET is the only
// hard requirement; everything else has a workable default.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Addr:               envOr("FACTURADOR_ADDR", DefaultAddr),
		DBPath:             envOr("FACTURADOR_DB", DefaultDBPath),
		ArchiveRoot:        envOr("FACTURADOR_ARCHIVE_ROOT", DefaultArchiveRoot),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		ForceConsent:       os.Getenv("GMAIL_FORCE_CONSENT") != "false",
		BaseKeywords:       append([]string(nil), baseKeywords...),
		MaxMessages:        DefaultMaxMessages,
		RetentionMaxAge:    DefaultRetentionHours * time.Hour,
		Debug:              os.Getenv("FACTURADOR_DEBUG") == "true",
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	key, err := secrets.KeyFromBase64(os.Getenv("ENCRYPTION_KEY"))
	if err != nil {
		return nil, fmt.Errorf("invalid ENCRYPTION_KEY: %w", err)
	}
	cfg.EncryptionKey = key

	if v := os.Getenv("FACTURADOR_MAX_MESSAGES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid FACTURADOR_MAX_MESSAGES %q", v)
		}
		cfg.MaxMessages = n
	}

	if v := os.Getenv("FACTURADOR_RETENTION_HOURS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid FACTURADOR_RETENTION_HOURS %q", v)
		}
		cfg.RetentionMaxAge = time.Duration(n) * time.Hour
	}

	if v := os.Getenv("FACTURADOR_BASE_KEYWORDS"); v != "" {
		cfg.BaseKeywords = splitList(v)
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
