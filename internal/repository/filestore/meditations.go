package filestore

import (
	"fmt"

	"github.com/glebk/sati-bot/internal/domain"
)

// MeditationRepository implements domain.MeditationRepository on a CSV table
type MeditationRepository struct {
	table *Table
}

// NewMeditationRepository creates a new MeditationRepository
func NewMeditationRepository(path string, opts Options) *MeditationRepository {
	return &MeditationRepository{table: NewTable(path, domain.MeditationColumns, opts)}
}

// EnsureReady creates or migrates the backing file
func (r *MeditationRepository) EnsureReady() error {
	return r.table.EnsureReady()
}

// Append stores one meditation session
func (r *MeditationRepository) Append(m *domain.Meditation) error {
	if err := r.table.Append(m.Row()); err != nil {
		return fmt.Errorf("failed to save meditation: %w", err)
	}
	return nil
}

// All returns every stored meditation row
func (r *MeditationRepository) All() ([]domain.Row, error) {
	rows, err := r.table.ScanAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load meditations: %w", err)
	}
	return rows, nil
}

// Path returns the backing file path
func (r *MeditationRepository) Path() string {
	return r.table.Path()
}
