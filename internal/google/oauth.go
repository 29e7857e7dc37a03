package google

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"

	"github.com/facturador/facturador/internal/errs"
)

// OAuth drives the authorization-code flow for mailbox access. Only the
// read-only Gmail scope is requested; nothing here can send or modify mail.
type OAuth struct {
	conf         *oauth2.Config
	forceConsent bool
}

// NewOAuth creates an OAuth flow for the given client credentials.
// When forceConsent is set, Google is asked to show the consent screen on
// every connect, which guarantees a fresh refresh token in the exchange.
func NewOAuth(clientID, clientSecret, redirectURL string, forceConsent bool) *OAuth {
	return &OAuth{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  redirectURL,
			Scopes:       []string{gmail.GmailReadonlyScope},
		},
		forceConsent: forceConsent,
	}
}

// AuthURL returns the Google authorization URL carrying the given state.
func (o *OAuth) AuthURL(state string) string {
	opts := []oauth2.AuthCodeOption{
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	}
	if o.forceConsent {
		opts = append(opts, oauth2.SetAuthURLParam("prompt", "consent"))
	}
	return o.conf.AuthCodeURL(state, opts...)
}

// Exchange trades an authorization code for a token. The refresh token may
// be empty when the user re-consented without a prompt; callers must treat
// that as a failed connect.
func (o *OAuth) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := o.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return tok, nil
}

// Refresh mints a fresh access token from a stored refresh token.
func (o *OAuth) Refresh(ctx context.Context, refreshToken string) (string, error) {
	ts := o.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := ts.Token()
	if err != nil {
		return "", errs.RefreshFailed("failed to refresh mailbox access token", err)
	}
	return tok.AccessToken, nil
}
