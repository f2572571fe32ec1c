package domain

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrStorageUnavailable is returned when no candidate path for a backing file
// can be created. Nothing can be persisted after this, so callers stop.
var ErrStorageUnavailable = errors.New("storage unavailable")

// TimestampLayout is the on-disk timestamp format: local zone, second precision.
const TimestampLayout = time.RFC3339

// Row is one stored record keyed by column name.
// Columns missing from the backing file read as empty strings.
type Row map[string]string

// Get returns the value of a column or "" when absent.
func (r Row) Get(column string) string {
	if r == nil {
		return ""
	}
	return r[column]
}

// Number parses a numeric column. ok is false for missing, non-numeric or
// non-finite values.
func (r Row) Number(column string) (float64, bool) {
	v := strings.TrimSpace(r.Get(column))
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Time parses the timestamp column. Rows written without a zone offset are
// interpreted in loc.
func (r Row) Time(loc *time.Location) (time.Time, bool) {
	v := strings.TrimSpace(r.Get(ColTimestamp))
	if v == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(TimestampLayout, v); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", v, loc); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Values returns the row laid out in the given column order.
func (r Row) Values(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = r.Get(c)
	}
	return out
}

// OrDash renders empty values as "-" for display.
func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
