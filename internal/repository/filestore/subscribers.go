package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// SubscriberRepository keeps subscribed chat IDs as a JSON array of integers.
type SubscriberRepository struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
	rename renameFunc
}

// NewSubscriberRepository creates a new SubscriberRepository
func NewSubscriberRepository(path string, logger *zap.Logger) *SubscriberRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubscriberRepository{path: path, logger: logger, rename: os.Rename}
}

// Add subscribes a chat. It reports false if the chat was already subscribed.
func (r *SubscriberRepository) Add(chatID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs := r.loadLocked()
	if slices.Contains(subs, chatID) {
		return false, nil
	}
	if err := r.saveLocked(append(subs, chatID)); err != nil {
		return false, err
	}
	return true, nil
}

// Remove unsubscribes a chat. It reports false if the chat was not subscribed.
func (r *SubscriberRepository) Remove(chatID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs := r.loadLocked()
	if !slices.Contains(subs, chatID) {
		return false, nil
	}
	subs = slices.DeleteFunc(subs, func(id int64) bool { return id == chatID })
	if err := r.saveLocked(subs); err != nil {
		return false, err
	}
	return true, nil
}

// List returns subscribed chats in subscription order
func (r *SubscriberRepository) List() ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked(), nil
}

// loadLocked treats a missing or unreadable file as an empty list.
func (r *SubscriberRepository) loadLocked() []int64 {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			r.logger.Warn("Failed to read subscribers", zap.String("path", r.path), zap.Error(err))
		}
		return []int64{}
	}

	var subs []int64
	if err := json.Unmarshal(data, &subs); err != nil {
		r.logger.Warn("Ignoring malformed subscribers file", zap.String("path", r.path), zap.Error(err))
		return []int64{}
	}

	// Older files may carry duplicates; membership is a set.
	out := make([]int64, 0, len(subs))
	for _, id := range subs {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func (r *SubscriberRepository) saveLocked(subs []int64) error {
	data, err := json.Marshal(subs)
	if err != nil {
		return fmt.Errorf("failed to encode subscribers: %w", err)
	}
	err = writeAtomic(r.path, r.rename, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to save subscribers: %w", err)
	}
	return nil
}
