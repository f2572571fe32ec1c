package filestore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/glebk/sati-bot/internal/domain"
)

// Options tunes where a table may fall back to when its primary path is not
// writable.
type Options struct {
	// HomeDir is the first fallback directory. Defaults to the user's home.
	HomeDir string
	// TempDir is the last fallback directory. Defaults to os.TempDir().
	TempDir string
	Logger  *zap.Logger
}

// Table is an append-only CSV file with a fixed canonical header.
// Every read is a full scan; nothing is cached between calls.
type Table struct {
	mu      sync.Mutex
	path    string
	columns []string
	opts    Options
	logger  *zap.Logger
	rename  renameFunc
}

// NewTable creates a table rooted at path. The file is not touched until the
// first operation.
func NewTable(path string, columns []string, opts Options) *Table {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.HomeDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			opts.HomeDir = home
		}
	}
	if opts.TempDir == "" {
		opts.TempDir = os.TempDir()
	}
	return &Table{
		path:    path,
		columns: slices.Clone(columns),
		opts:    opts,
		logger:  logger.With(zap.String("table", filepath.Base(path))),
		rename:  os.Rename,
	}
}

// Path returns the file currently in use, which may be a fallback location.
func (t *Table) Path() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.path
}

// Columns returns the canonical header.
func (t *Table) Columns() []string {
	return slices.Clone(t.columns)
}

// EnsureReady creates the file if missing and migrates a non-canonical header.
func (t *Table) EnsureReady() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ensureReadyLocked()
}

// Append writes one row in canonical column order. Values are not validated.
func (t *Table) Append(row domain.Row) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.ensureReadyLocked(); err != nil {
		return err
	}

	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s for append: %w", t.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(row.Values(t.columns)); err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}
	return nil
}

// ScanAll returns every row in file order, oldest first.
func (t *Table) ScanAll() ([]domain.Row, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.ensureReadyLocked(); err != nil {
		return nil, err
	}
	return t.readLocked()
}

// LastForUser returns the last row whose user_id equals userID, or nil.
func (t *Table) LastForUser(userID string) (domain.Row, error) {
	rows, err := t.ScanAll()
	if err != nil {
		return nil, err
	}
	var last domain.Row
	for _, row := range rows {
		if row.Get(domain.ColUserID) == userID {
			last = row
		}
	}
	return last, nil
}

// DeleteLastForUser removes the highest-index row for userID and rewrites the
// file atomically. It returns the removed row, or nil if the user has none.
func (t *Table) DeleteLastForUser(userID string) (domain.Row, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.ensureReadyLocked(); err != nil {
		return nil, err
	}
	rows, err := t.readLocked()
	if err != nil {
		return nil, err
	}

	target := -1
	for i := len(rows) - 1; i >= 0; i-- {
		if rows[i].Get(domain.ColUserID) == userID {
			target = i
			break
		}
	}
	if target < 0 {
		return nil, nil
	}

	removed := rows[target]
	rows = slices.Delete(rows, target, target+1)

	records := make([][]string, len(rows))
	for i, row := range rows {
		records[i] = row.Values(t.columns)
	}
	if err := t.rewriteLocked(records); err != nil {
		return nil, err
	}
	return removed, nil
}

func (t *Table) ensureReadyLocked() error {
	if err := t.resolveLocked(); err != nil {
		return err
	}
	return t.migrateLocked()
}

// resolveLocked makes sure a backing file exists, trying the primary path,
// then the home directory, then a pid-keyed name in the temp directory.
func (t *Table) resolveLocked() error {
	var errs []error
	for _, candidate := range t.candidates() {
		if err := createIfMissing(candidate, t.columns); err != nil {
			errs = append(errs, err)
			continue
		}
		if candidate != t.path {
			t.logger.Warn("Using fallback path",
				zap.String("wanted", t.path),
				zap.String("path", candidate))
			t.path = candidate
		}
		return nil
	}
	return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, errors.Join(errs...))
}

func (t *Table) candidates() []string {
	base := filepath.Base(t.path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	out := []string{t.path}
	if t.opts.HomeDir != "" {
		out = append(out, filepath.Join(t.opts.HomeDir, base))
	}
	out = append(out, filepath.Join(t.opts.TempDir, fmt.Sprintf("%s_%d%s", stem, os.Getpid(), ext)))
	return out
}

func createIfMissing(path string, columns []string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	w.Flush()
	return w.Error()
}

// migrateLocked rewrites the file into the canonical column order when its
// header differs. Columns unknown to the old header become empty; columns no
// longer in the schema are dropped. A canonical file is left untouched.
func (t *Table) migrateLocked() error {
	f, err := os.Open(t.path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", t.path, err)
	}
	defer f.Close()

	r := newReader(f)
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		t.logger.Info("Writing header to empty file")
		return t.rewriteLocked(nil)
	}
	if err != nil {
		return fmt.Errorf("failed to read header of %s: %w", t.path, err)
	}
	if slices.Equal(header, t.columns) {
		return nil
	}

	records, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", t.path, err)
	}
	migrated := make([][]string, len(records))
	for i, rec := range records {
		migrated[i] = toRow(header, rec).Values(t.columns)
	}

	t.logger.Info("Migrating file to canonical schema",
		zap.Strings("from", header),
		zap.Int("rows", len(records)))
	return t.rewriteLocked(migrated)
}

func (t *Table) readLocked() ([]domain.Row, error) {
	f, err := os.Open(t.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", t.path, err)
	}
	defer f.Close()

	r := newReader(f)
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", t.path, err)
	}

	var rows []domain.Row
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", t.path, err)
		}
		rows = append(rows, toRow(header, rec))
	}
	return rows, nil
}

func (t *Table) rewriteLocked(records [][]string) error {
	return writeAtomic(t.path, t.rename, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(t.columns); err != nil {
			return err
		}
		return cw.WriteAll(records)
	})
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	// Hand-edited files may hold a bare quote inside an unquoted field.
	cr.LazyQuotes = true
	return cr
}

func toRow(header, rec []string) domain.Row {
	row := make(domain.Row, len(header))
	for i, h := range header {
		if i < len(rec) {
			row[h] = rec[i]
		} else {
			row[h] = ""
		}
	}
	return row
}
