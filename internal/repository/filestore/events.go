package filestore

import (
	"fmt"
	"strconv"

	"github.com/glebk/sati-bot/internal/domain"
)

// EventRepository implements domain.EventRepository on a CSV table
type EventRepository struct {
	table *Table
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(path string, opts Options) *EventRepository {
	return &EventRepository{table: NewTable(path, domain.EventColumns, opts)}
}

// EnsureReady creates or migrates the backing file
func (r *EventRepository) EnsureReady() error {
	return r.table.EnsureReady()
}

// Append stores one event
func (r *EventRepository) Append(event *domain.Event) error {
	if err := r.table.Append(event.Row()); err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}
	return nil
}

// All returns every stored event row
func (r *EventRepository) All() ([]domain.Row, error) {
	rows, err := r.table.ScanAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	return rows, nil
}

// LastForUser returns the user's most recent event or nil
func (r *EventRepository) LastForUser(userID int64) (domain.Row, error) {
	row, err := r.table.LastForUser(strconv.FormatInt(userID, 10))
	if err != nil {
		return nil, fmt.Errorf("failed to get last event: %w", err)
	}
	return row, nil
}

// DeleteLastForUser removes the user's most recent event
func (r *EventRepository) DeleteLastForUser(userID int64) (domain.Row, error) {
	row, err := r.table.DeleteLastForUser(strconv.FormatInt(userID, 10))
	if err != nil {
		return nil, fmt.Errorf("failed to delete last event: %w", err)
	}
	return row, nil
}

// Path returns the backing file path
func (r *EventRepository) Path() string {
	return r.table.Path()
}
