package dialog

import (
	"context"
	"errors"
	"fmt"

	"github.com/glebk/sati-bot/internal/domain"
	"github.com/glebk/sati-bot/internal/reflection"
)

type sentMessage struct {
	ChatID int64
	Msg    Message
}

type editedMessage struct {
	Ref MessageRef
	Msg Message
}

type fakeMessenger struct {
	nextID   int
	sent     []sentMessage
	edits    []editedMessage
	cleared  []MessageRef
	answers  []string
	files    []string
	sendErr  func(Message) error
	editErr  error
	clearErr error
	fileErr  error
}

func (f *fakeMessenger) Send(chatID int64, msg Message) (MessageRef, error) {
	if f.sendErr != nil {
		if err := f.sendErr(msg); err != nil {
			return MessageRef{}, err
		}
	}
	f.nextID++
	f.sent = append(f.sent, sentMessage{ChatID: chatID, Msg: msg})
	return MessageRef{ChatID: chatID, MessageID: f.nextID}, nil
}

func (f *fakeMessenger) Edit(ref MessageRef, msg Message) error {
	if f.editErr != nil {
		return f.editErr
	}
	f.edits = append(f.edits, editedMessage{Ref: ref, Msg: msg})
	return nil
}

func (f *fakeMessenger) ClearButtons(ref MessageRef) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.cleared = append(f.cleared, ref)
	return nil
}

func (f *fakeMessenger) Answer(_ string, text string) error {
	f.answers = append(f.answers, text)
	return nil
}

func (f *fakeMessenger) SendFile(_ int64, path, _ string) error {
	if f.fileErr != nil {
		return f.fileErr
	}
	f.files = append(f.files, path)
	return nil
}

func (f *fakeMessenger) lastSent() Message {
	if len(f.sent) == 0 {
		return Message{}
	}
	return f.sent[len(f.sent)-1].Msg
}

func (f *fakeMessenger) lastEdit() Message {
	if len(f.edits) == 0 {
		return Message{}
	}
	return f.edits[len(f.edits)-1].Msg
}

func (f *fakeMessenger) lastAnswer() string {
	if len(f.answers) == 0 {
		return ""
	}
	return f.answers[len(f.answers)-1]
}

type fakeJournal struct {
	events      []*domain.Event
	meditations []*domain.Meditation
	last        domain.Row
	undone      domain.Row
	undoCalls   int
	reflectIn   []reflection.Input
	reflections []string
	saved       []string
	subs        []int64
	reports     []string
	logErr      error
	summaryErr  error
}

func (j *fakeJournal) LogEvent(e *domain.Event) error {
	if j.logErr != nil {
		return j.logErr
	}
	j.events = append(j.events, e)
	return nil
}

func (j *fakeJournal) LastEvent(int64) (domain.Row, error) { return j.last, nil }

func (j *fakeJournal) UndoLastEvent(int64) (domain.Row, error) {
	j.undoCalls++
	row := j.undone
	j.undone = nil
	return row, nil
}

func (j *fakeJournal) LogMeditation(m *domain.Meditation) error {
	if j.logErr != nil {
		return j.logErr
	}
	j.meditations = append(j.meditations, m)
	return nil
}

func (j *fakeJournal) Reflect(_ context.Context, in reflection.Input) string {
	j.reflectIn = append(j.reflectIn, in)
	if len(j.reflections) == 0 {
		return reflection.Fallback()
	}
	text := j.reflections[0]
	j.reflections = j.reflections[1:]
	return text
}

func (j *fakeJournal) SaveReflection(_ int64, text string) (string, error) {
	j.saved = append(j.saved, text)
	return fmt.Sprintf("ref-%d", len(j.saved)), nil
}

func (j *fakeJournal) Subscribe(chatID int64) (bool, error) {
	for _, s := range j.subs {
		if s == chatID {
			return false, nil
		}
	}
	j.subs = append(j.subs, chatID)
	return true, nil
}

func (j *fakeJournal) Unsubscribe(chatID int64) (bool, error) {
	for i, s := range j.subs {
		if s == chatID {
			j.subs = append(j.subs[:i], j.subs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (j *fakeJournal) Subscribers() ([]int64, error) { return j.subs, nil }

func (j *fakeJournal) SummaryReport(chatID int64, days int) (string, error) {
	if j.summaryErr != nil {
		return "", j.summaryErr
	}
	r := fmt.Sprintf("report chat=%d days=%d", chatID, days)
	j.reports = append(j.reports, r)
	return r, nil
}

func (j *fakeJournal) MeditationTodayReport(chatID int64) (string, error) {
	return fmt.Sprintf("meditation chat=%d", chatID), nil
}

func (j *fakeJournal) EventsPath() string      { return "/data/sati_logs.csv" }
func (j *fakeJournal) MeditationsPath() string { return "/data/meditations.csv" }

var errSendFailed = errors.New("send failed")
