package sqlite

import (
	"fmt"
	"time"
)

// SubscriberRepository implements domain.SubscriberRepository using SQLite
type SubscriberRepository struct {
	db *Database
}

// NewSubscriberRepository creates a new SubscriberRepository
func NewSubscriberRepository(db *Database) *SubscriberRepository {
	return &SubscriberRepository{db: db}
}

// Add subscribes a chat; false means it was already subscribed
func (r *SubscriberRepository) Add(chatID int64) (bool, error) {
	query := `
		INSERT INTO subscribers (chat_id, created_at)
		VALUES (?, ?)
		ON CONFLICT(chat_id) DO NOTHING
	`

	result, err := r.db.GetDB().Exec(query, chatID, time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to add subscriber: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return n > 0, nil
}

// Remove unsubscribes a chat; false means it was not subscribed
func (r *SubscriberRepository) Remove(chatID int64) (bool, error) {
	query := `DELETE FROM subscribers WHERE chat_id = ?`

	result, err := r.db.GetDB().Exec(query, chatID)
	if err != nil {
		return false, fmt.Errorf("failed to remove subscriber: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return n > 0, nil
}

// List returns subscribed chats in subscription order
func (r *SubscriberRepository) List() ([]int64, error) {
	query := `
		SELECT chat_id
		FROM subscribers
		ORDER BY position
	`

	rows, err := r.db.GetDB().Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	defer rows.Close()

	subs := []int64{}

	for rows.Next() {
		var chatID int64
		if err := rows.Scan(&chatID); err != nil {
			return nil, fmt.Errorf("failed to scan subscriber: %w", err)
		}
		subs = append(subs, chatID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}

	return subs, nil
}
