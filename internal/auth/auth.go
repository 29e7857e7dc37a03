package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Session tokens are long-lived; state tokens only need to survive the
// round trip through the Google consent screen.
const (
	sessionTTL = 5 * 24 * time.Hour
	stateTTL   = 10 * time.Minute
)

// HashPassword turns a plaintext password into a bcrypt hash.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword verifies a plaintext password against a bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NewSessionToken issues a signed session token for the given user.
func NewSessionToken(userID, secret string) (string, error) {
	return signToken(userID, secret, "session", sessionTTL)
}

// ParseSessionToken validates a session token and returns the user ID.
func ParseSessionToken(tokenStr, secret string) (string, error) {
	return parseToken(tokenStr, secret, "session")
}

// NewStateToken issues a short-lived token carried as the OAuth state
// parameter so the callback can identify the user without a session header.
func NewStateToken(userID, secret string) (string, error) {
	return signToken(userID, secret, "oauth_state", stateTTL)
}

// ParseStateToken validates an OAuth state token and returns the user ID.
func ParseStateToken(tokenStr, secret string) (string, error) {
	return parseToken(tokenStr, secret, "oauth_state")
}

func signToken(userID, secret, use string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"use": use,
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func parseToken(tokenStr, secret, use string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", jwt.ErrTokenMalformed
	}
	if claims["use"] != use {
		return "", jwt.ErrTokenInvalidClaims
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", jwt.ErrTokenMalformed
	}
	return sub, nil
}

// BearerToken extracts the bearer token from an Authorization header.
// Returns the empty string when the header is absent or malformed.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
