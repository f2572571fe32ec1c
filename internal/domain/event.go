package domain

import (
	"strconv"
	"time"
)

// Column names shared by every record kind.
const (
	ColTimestamp = "timestamp_iso"
	ColUserID    = "user_id"
	ColUsername  = "username"
	ColChatID    = "chat_id"
)

// Event columns.
const (
	ColTag                   = "tag"
	ColEventDesc             = "event_desc"
	ColDissatisfactionScore  = "dissatisfaction_score"
	ColDissatisfactionReason = "dissatisfaction_reason"
	ColReactionDesc          = "reaction_desc"
	ColReactionScore         = "reaction_score"
	ColReactionReason        = "reaction_reason"
)

// EventColumns is the canonical column order of the event file.
var EventColumns = []string{
	ColTimestamp, ColUserID, ColUsername,
	ColChatID,
	ColTag,
	ColEventDesc,
	ColDissatisfactionScore, ColDissatisfactionReason,
	ColReactionDesc, ColReactionScore, ColReactionReason,
}

// Tags is the fixed set of event categories offered to the user.
var Tags = []string{"งาน", "คนรัก", "ครอบครัว", "เงิน", "สุขภาพ", "ตัวเอง", "อื่นๆ"}

// Score bounds for dissatisfaction and reaction.
const (
	MinScore = 1
	MaxScore = 10
)

// ValidScore reports whether v is a selectable score.
func ValidScore(v int) bool {
	return v >= MinScore && v <= MaxScore
}

// Event is one dissatisfaction entry.
// ReactionScore runs the other way round: 10 is calm, 1 is severe.
type Event struct {
	Timestamp             time.Time
	UserID                int64
	Username              string
	ChatID                int64
	Tag                   string
	Description           string
	DissatisfactionScore  int
	DissatisfactionReason string
	ReactionDesc          string
	ReactionScore         int
	ReactionReason        string
}

// Row converts the event to its stored form.
func (e *Event) Row() Row {
	return Row{
		ColTimestamp:             e.Timestamp.Format(TimestampLayout),
		ColUserID:                strconv.FormatInt(e.UserID, 10),
		ColUsername:              e.Username,
		ColChatID:                strconv.FormatInt(e.ChatID, 10),
		ColTag:                   e.Tag,
		ColEventDesc:             e.Description,
		ColDissatisfactionScore:  strconv.Itoa(e.DissatisfactionScore),
		ColDissatisfactionReason: e.DissatisfactionReason,
		ColReactionDesc:          e.ReactionDesc,
		ColReactionScore:         strconv.Itoa(e.ReactionScore),
		ColReactionReason:        e.ReactionReason,
	}
}

// EventRepository stores events. Lookups return nil, nil when nothing matches.
type EventRepository interface {
	Append(event *Event) error
	All() ([]Row, error)
	LastForUser(userID int64) (Row, error)
	DeleteLastForUser(userID int64) (Row, error)
	Path() string
}
