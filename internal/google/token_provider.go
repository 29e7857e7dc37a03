package google

import (
	"context"

	"github.com/facturador/facturador/internal/errs"
	"github.com/facturador/facturador/internal/secrets"
)

// CredentialSource yields the encrypted refresh token stored for a user.
// The empty string means the mailbox was never connected.
type CredentialSource interface {
	EncryptedRefreshToken(userID string) (string, error)
}

// TokenProvider turns a stored encrypted refresh token into a live access
// token. It never persists access tokens.
type TokenProvider struct {
	creds CredentialSource
	box   *secrets.Box
	oauth *OAuth
}

// NewTokenProvider creates a token provider over the given credential
// source, encryption box and OAuth flow.
func NewTokenProvider(creds CredentialSource, box *secrets.Box, oauth *OAuth) *TokenProvider {
	return &TokenProvider{creds: creds, box: box, oauth: oauth}
}

// AccessToken loads, decrypts and refreshes the user's mailbox credential,
// returning a short-lived access token.
func (p *TokenProvider) AccessToken(ctx context.Context, userID string) (string, error) {
	enc, err := p.creds.EncryptedRefreshToken(userID)
	if err != nil {
		return "", err
	}
	if enc == "" {
		return "", errs.NotConnected("mailbox is not connected")
	}

	refreshToken, err := p.box.Decrypt(enc)
	if err != nil {
		return "", errs.DecryptFailed("failed to decrypt stored mailbox credential", err)
	}

	return p.oauth.Refresh(ctx, refreshToken)
}
