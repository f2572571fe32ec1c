package filestore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/glebk/sati-bot/internal/domain"
)

const reflectionDelimiter = "---"

// ReflectionLog is a plain append-only text file of saved reflections.
type ReflectionLog struct {
	mu   sync.Mutex
	path string
}

// NewReflectionLog creates a new ReflectionLog
func NewReflectionLog(path string) *ReflectionLog {
	return &ReflectionLog{path: path}
}

// Append writes one block:
//
//	<timestamp> | user:<id> | ref:<uuid>
//	<text>
//	---
//
// A missing Ref is generated.
func (l *ReflectionLog) Append(r *domain.SavedReflection) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if r.Ref == "" {
		r.Ref = uuid.NewString()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s | user:%d | ref:%s\n", r.CreatedAt.Format(domain.TimestampLayout), r.UserID, r.Ref)
	b.WriteString(strings.TrimRight(r.Text, "\n"))
	b.WriteString("\n" + reflectionDelimiter + "\n")

	if dir := filepath.Dir(l.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create reflection log directory: %w", err)
		}
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open reflection log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("failed to write reflection: %w", err)
	}
	return nil
}

// Path returns the backing file path
func (l *ReflectionLog) Path() string {
	return l.path
}
