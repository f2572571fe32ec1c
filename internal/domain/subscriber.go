package domain

import "time"

// SubscriberRepository persists the chats that receive the daily summary.
// Add and Remove report whether membership changed.
type SubscriberRepository interface {
	Add(chatID int64) (bool, error)
	Remove(chatID int64) (bool, error)
	List() ([]int64, error)
}

// SavedReflection is one entry of the reflection log.
type SavedReflection struct {
	Ref       string
	UserID    int64
	Text      string
	CreatedAt time.Time
}

// ReflectionLog appends reflections the user chose to keep.
type ReflectionLog interface {
	Append(r *SavedReflection) error
	Path() string
}
