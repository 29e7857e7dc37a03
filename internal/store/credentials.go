package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Credential is the stored mailbox authorization for a user. Only the
// encrypted refresh secret is persisted; access tokens are minted per run
// and never stored.
type Credential struct {
	UserID          string
	RefreshTokenEnc string
	UpdatedAt       time.Time
}

// SaveCredential stores or replaces the encrypted refresh token for a user.
func (s *Store) SaveCredential(userID, refreshTokenEnc string) error {
	_, err := s.db.Exec(`
		INSERT INTO credentials (user_id, refresh_token_enc, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id) DO UPDATE SET
			refresh_token_enc = excluded.refresh_token_enc,
			updated_at = CURRENT_TIMESTAMP
	`, userID, refreshTokenEnc)
	if err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}

// Credential returns the stored credential for a user, or nil when the
// mailbox was never connected.
func (s *Store) Credential(userID string) (*Credential, error) {
	var c Credential
	err := s.db.QueryRow(
		"SELECT user_id, refresh_token_enc, updated_at FROM credentials WHERE user_id = ?", userID,
	).Scan(&c.UserID, &c.RefreshTokenEnc, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}
	return &c, nil
}

// EncryptedRefreshToken returns the encrypted refresh secret for a user,
// or the empty string when the mailbox is not connected.
func (s *Store) EncryptedRefreshToken(userID string) (string, error) {
	cred, err := s.Credential(userID)
	if err != nil || cred == nil {
		return "", err
	}
	return cred.RefreshTokenEnc, nil
}

// DeleteCredential disconnects the user's mailbox.
func (s *Store) DeleteCredential(userID string) error {
	if _, err := s.db.Exec("DELETE FROM credentials WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}
