package domain

import (
	"strconv"
	"time"
)

// Meditation columns.
const (
	ColDurationMin = "duration_min"
	ColType        = "type"
	ColNote        = "note"
)

// MeditationColumns is the canonical column order of the meditation file.
var MeditationColumns = []string{
	ColTimestamp, ColUserID, ColUsername, ColChatID,
	ColDurationMin, ColType, ColNote,
}

// MeditationType is the kind of sitting.
type MeditationType string

const (
	MeditationGuided   MeditationType = "guided"
	MeditationUnguided MeditationType = "unguided"
	MeditationOther    MeditationType = "other"
)

// MeditationTypes lists the selectable types in display order.
var MeditationTypes = []MeditationType{MeditationGuided, MeditationUnguided, MeditationOther}

// MeditationPresets are the duration buttons, in minutes.
var MeditationPresets = []int{5, 10, 15, 20, 30, 45, 60}

// Meditation is one meditation session.
type Meditation struct {
	Timestamp   time.Time
	UserID      int64
	Username    string
	ChatID      int64
	DurationMin int
	Type        MeditationType
	Note        string
}

// Row converts the session to its stored form.
func (m *Meditation) Row() Row {
	return Row{
		ColTimestamp:   m.Timestamp.Format(TimestampLayout),
		ColUserID:      strconv.FormatInt(m.UserID, 10),
		ColUsername:    m.Username,
		ColChatID:      strconv.FormatInt(m.ChatID, 10),
		ColDurationMin: strconv.Itoa(m.DurationMin),
		ColType:        string(m.Type),
		ColNote:        m.Note,
	}
}

// MeditationRepository stores meditation sessions.
// Undo only applies to events, so there is no delete here.
type MeditationRepository interface {
	Append(m *Meditation) error
	All() ([]Row, error)
	Path() string
}
