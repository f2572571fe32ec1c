package dialog

import (
	"sync"

	"github.com/glebk/sati-bot/internal/domain"
	"github.com/glebk/sati-bot/internal/reflection"
)

// Step identifies the input a user's next turn must supply.
type Step int

const (
	StepIdle Step = iota

	// Log flow.
	StepTag
	StepEventDesc
	StepDissScore
	StepDissReason
	StepReactDesc
	StepReactScore
	StepReactReason
	StepConfirm

	// Meditation flow.
	StepMedDuration
	StepMedCustomDuration
	StepMedType
	StepMedNote

	// Reflection follow-up after a saved event.
	StepReflection
)

var stepNames = map[Step]string{
	StepIdle:              "idle",
	StepTag:               "tag",
	StepEventDesc:         "event_desc",
	StepDissScore:         "diss_score",
	StepDissReason:        "diss_reason",
	StepReactDesc:         "react_desc",
	StepReactScore:        "react_score",
	StepReactReason:       "react_reason",
	StepConfirm:           "confirm",
	StepMedDuration:       "med_duration",
	StepMedCustomDuration: "med_custom_duration",
	StepMedType:           "med_type",
	StepMedNote:           "med_note",
	StepReflection:        "reflection",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// InFlow reports whether the step belongs to a flow that cancel can abort.
// The reflection follow-up is the end of a finished log flow, not a flow.
func (s Step) InFlow() bool {
	return s != StepIdle && s != StepReflection
}

// LogDraft holds the event fields collected so far.
type LogDraft struct {
	Tag         string
	EventDesc   string
	DissScore   int
	DissReason  string
	ReactDesc   string
	ReactScore  int
	ReactReason string
}

// MedDraft holds the meditation fields collected so far.
type MedDraft struct {
	DurationMin int
	Type        domain.MeditationType
	Note        string
}

// ReflectionPayload is kept after a saved event so the reflection can be
// regenerated or saved without going back to storage.
type ReflectionPayload struct {
	Input reflection.Input
	Text  string
}

// Session is the transient state of one user's active flow.
type Session struct {
	Step       Step
	Log        LogDraft
	Med        MedDraft
	Reflection *ReflectionPayload
}

// SessionStore keeps at most one session per user. A missing entry means idle.
type SessionStore interface {
	Get(userID int64) (*Session, bool)
	Put(userID int64, s *Session)
	Delete(userID int64)
}

// MemoryStore is a process-local SessionStore.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]*Session)}
}

func (m *MemoryStore) Get(userID int64) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	return s, ok
}

func (m *MemoryStore) Put(userID int64, s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = s
}

func (m *MemoryStore) Delete(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}
