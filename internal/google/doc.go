// Package google handles the OAuth flow for connecting a Gmail mailbox
// and minting short-lived access tokens from stored refresh tokens.
package google
