package store

import "fmt"

// Keywords returns the user's custom subject keywords in stable order.
func (s *Store) Keywords(userID string) ([]string, error) {
	rows, err := s.db.Query(
		"SELECT keyword FROM keywords WHERE user_id = ? ORDER BY keyword", userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load keywords: %w", err)
	}
	defer rows.Close()

	var keywords []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to scan keyword: %w", err)
		}
		keywords = append(keywords, k)
	}
	return keywords, rows.Err()
}

// AddKeyword adds a custom keyword for the user. Duplicates are ignored.
func (s *Store) AddKeyword(userID, keyword string) error {
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO keywords (user_id, keyword) VALUES (?, ?)", userID, keyword,
	)
	if err != nil {
		return fmt.Errorf("failed to add keyword: %w", err)
	}
	return nil
}

// RemoveKeyword removes a custom keyword for the user.
func (s *Store) RemoveKeyword(userID, keyword string) error {
	_, err := s.db.Exec(
		"DELETE FROM keywords WHERE user_id = ? AND keyword = ?", userID, keyword,
	)
	if err != nil {
		return fmt.Errorf("failed to remove keyword: %w", err)
	}
	return nil
}
