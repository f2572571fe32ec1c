// Package dialog drives the per-user conversation: the log flow, the
// meditation flow and the reflection follow-up, plus the stand-alone commands.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/glebk/sati-bot/internal/domain"
	"github.com/glebk/sati-bot/internal/reflection"
)

// Journal is the storage and reporting surface the conversation needs.
type Journal interface {
	LogEvent(e *domain.Event) error
	LastEvent(userID int64) (domain.Row, error)
	UndoLastEvent(userID int64) (domain.Row, error)
	LogMeditation(m *domain.Meditation) error
	Reflect(ctx context.Context, in reflection.Input) string
	SaveReflection(userID int64, text string) (string, error)
	Subscribe(chatID int64) (bool, error)
	Unsubscribe(chatID int64) (bool, error)
	Subscribers() ([]int64, error)
	SummaryReport(chatID int64, days int) (string, error)
	MeditationTodayReport(chatID int64) (string, error)
	EventsPath() string
	MeditationsPath() string
}

// Controller routes inbound events to the handler for the user's current step.
// Events are expected one at a time; the controller does no scheduling of its own.
type Controller struct {
	journal   Journal
	messenger Messenger
	sessions  SessionStore
	dailyAt   string
	logger    *zap.Logger
}

// Option customises a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithSessionStore replaces the default in-memory session store.
func WithSessionStore(store SessionStore) Option {
	return func(c *Controller) { c.sessions = store }
}

// WithDailySummaryTime sets the push time shown in the help text.
func WithDailySummaryTime(hhmm string) Option {
	return func(c *Controller) { c.dailyAt = hhmm }
}

// NewController creates a new Controller
func NewController(journal Journal, messenger Messenger, opts ...Option) *Controller {
	c := &Controller{
		journal:   journal,
		messenger: messenger,
		sessions:  NewMemoryStore(),
		dailyAt:   "21:00",
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HandleCommand handles a slash command. Commands take precedence over any
// step the user is in; only flow-starting commands replace the session.
// The returned error is non-nil only for storage failures.
func (c *Controller) HandleCommand(ctx context.Context, cmd Command) error {
	switch cmd.Name {
	case "start", "help":
		c.send(cmd.ChatID, Message{Text: fmt.Sprintf(helpText, esc(c.dailyAt)), Menu: MainMenu})
	case "log":
		c.startLog(cmd)
	case "meditation", "meditate":
		c.startMeditation(cmd)
	case "meds_today", "med_summarize":
		c.sendReport(cmd.ChatID, func() (string, error) { return c.journal.MeditationTodayReport(cmd.ChatID) })
	case "today":
		c.sendReport(cmd.ChatID, func() (string, error) { return c.journal.SummaryReport(cmd.ChatID, 1) })
	case "weekly":
		c.sendReport(cmd.ChatID, func() (string, error) { return c.journal.SummaryReport(cmd.ChatID, 7) })
	case "monthly":
		c.sendReport(cmd.ChatID, func() (string, error) { return c.journal.SummaryReport(cmd.ChatID, 30) })
	case "subscribe_daily":
		return c.handleSubscribe(cmd)
	case "unsubscribe":
		return c.handleUnsubscribe(cmd)
	case "undo":
		return c.handleUndo(cmd)
	case "export":
		c.handleExport(cmd, c.journal.EventsPath(), c.journal.MeditationsPath())
	case "export_meds", "export_meditations":
		c.handleExport(cmd, c.journal.MeditationsPath())
	case "cancel":
		c.cancelByText(cmd.From.ID, cmd.ChatID)
	default:
		c.send(cmd.ChatID, Message{
			Text:    unknownInputText("/" + cmd.Name),
			Menu:    MainMenu,
			ReplyTo: cmd.MessageID,
		})
	}
	return nil
}

// HandleText handles a free-text message. It is routed by the user's step;
// text from an idle user gets the generic command list.
func (c *Controller) HandleText(ctx context.Context, msg Text) error {
	sess, ok := c.sessions.Get(msg.From.ID)
	if !ok || !sess.Step.InFlow() {
		c.send(msg.ChatID, Message{
			Text:    unknownInputText(msg.Text),
			Menu:    MainMenu,
			ReplyTo: msg.MessageID,
		})
		return nil
	}

	text := strings.TrimSpace(msg.Text)
	if text == CancelText {
		c.cancelByText(msg.From.ID, msg.ChatID)
		return nil
	}

	switch sess.Step {
	case StepEventDesc:
		c.onEventDesc(sess, msg, text)
	case StepDissReason:
		c.onDissReason(sess, msg, text)
	case StepReactDesc:
		c.onReactDesc(sess, msg, text)
	case StepReactReason:
		c.onReactReason(sess, msg, text)
	case StepMedCustomDuration:
		c.onMedCustomDuration(sess, msg, text)
	case StepMedNote:
		return c.onMedNote(sess, msg, text)
	default:
		// Button-only steps.
		c.send(msg.ChatID, Message{Text: useButtonsHint, ReplyTo: msg.MessageID})
	}
	return nil
}

// callbackSteps maps each button action to the step it belongs to. A press
// whose step is not the user's current step comes from an outdated message.
var callbackSteps = map[string]Step{
	actionTag:        StepTag,
	actionUseLast:    StepTag,
	actionDiss:       StepDissScore,
	actionReact:      StepReactScore,
	actionBack:       StepConfirm,
	actionConfirm:    StepConfirm,
	actionMedDur:     StepMedDuration,
	actionMedCustom:  StepMedDuration,
	actionMedType:    StepMedType,
	actionReflectNew: StepReflection,
	actionReflectSav: StepReflection,
}

// HandleCallback handles a button press.
func (c *Controller) HandleCallback(ctx context.Context, cb Callback) error {
	action, arg, _ := strings.Cut(cb.Data, ":")

	switch action {
	case actionCancel, actionMedCancel:
		c.cancelByButton(cb)
		return nil
	case actionReflectEnd:
		c.onReflectionClose(cb)
		return nil
	}

	want, known := callbackSteps[action]
	if !known {
		c.answer(cb, invalidValue)
		return nil
	}
	sess, ok := c.sessions.Get(cb.From.ID)
	if !ok || sess.Step != want {
		c.logger.Debug("Stale button press",
			zap.Int64("user_id", cb.From.ID),
			zap.String("data", cb.Data))
		c.answer(cb, staleButton)
		return nil
	}

	switch action {
	case actionTag:
		c.onTag(sess, cb, arg)
	case actionUseLast:
		return c.onUseLast(sess, cb)
	case actionDiss:
		c.onDissScore(sess, cb, arg)
	case actionReact:
		c.onReactScore(sess, cb, arg)
	case actionBack:
		c.onBack(sess, cb)
	case actionConfirm:
		return c.onConfirm(ctx, sess, cb)
	case actionMedDur:
		c.onMedDuration(sess, cb, arg)
	case actionMedCustom:
		c.onMedCustom(sess, cb)
	case actionMedType:
		c.onMedType(sess, cb, arg)
	case actionReflectNew:
		c.onReflectionAgain(ctx, sess, cb)
	case actionReflectSav:
		return c.onReflectionSave(sess, cb)
	}
	return nil
}

// PushDailySummaries sends today's summary to every subscribed chat and
// returns how many were delivered.
func (c *Controller) PushDailySummaries(ctx context.Context) (int, error) {
	subs, err := c.journal.Subscribers()
	if err != nil {
		return 0, fmt.Errorf("failed to list subscribers: %w", err)
	}

	sent := 0
	for _, chatID := range subs {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		report, err := c.journal.SummaryReport(chatID, 1)
		if err != nil {
			if errors.Is(err, domain.ErrStorageUnavailable) {
				return sent, err
			}
			c.logger.Error("Failed to build daily summary", zap.Int64("chat_id", chatID), zap.Error(err))
			continue
		}
		if _, err := c.messenger.Send(chatID, Message{Text: report}); err != nil {
			c.logger.Warn("Failed to push daily summary", zap.Int64("chat_id", chatID), zap.Error(err))
			continue
		}
		sent++
	}
	return sent, nil
}

func (c *Controller) cancelByText(userID, chatID int64) {
	sess, ok := c.sessions.Get(userID)
	if !ok || !sess.Step.InFlow() {
		c.send(chatID, Message{Text: nothingToStop})
		return
	}
	c.sessions.Delete(userID)
	c.send(chatID, Message{Text: cancelledText, RemoveMenu: true})
}

func (c *Controller) cancelByButton(cb Callback) {
	if sess, ok := c.sessions.Get(cb.From.ID); ok && sess.Step.InFlow() {
		c.sessions.Delete(cb.From.ID)
	}
	c.edit(cb.Message, Message{Text: cancelledText})
	c.answer(cb, "")
}

func (c *Controller) sendReport(chatID int64, build func() (string, error)) {
	report, err := build()
	if err != nil {
		c.logger.Error("Failed to build summary", zap.Int64("chat_id", chatID), zap.Error(err))
		c.send(chatID, Message{Text: summaryFailed})
		return
	}
	c.send(chatID, Message{Text: report})
}

// storageError tells the user a write failed and hands the error back to the
// caller, which stops when no storage is left.
func (c *Controller) storageError(chatID int64, op string, err error) error {
	c.logger.Error("Storage operation failed", zap.String("op", op), zap.Error(err))
	c.send(chatID, Message{Text: storageFailed})
	return fmt.Errorf("%s: %w", op, err)
}

func (c *Controller) send(chatID int64, msg Message) (MessageRef, bool) {
	ref, err := c.messenger.Send(chatID, msg)
	if err != nil {
		c.logger.Warn("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
		return MessageRef{}, false
	}
	return ref, true
}

func (c *Controller) edit(ref MessageRef, msg Message) bool {
	if err := c.messenger.Edit(ref, msg); err != nil {
		c.logger.Warn("Failed to edit message",
			zap.Int64("chat_id", ref.ChatID),
			zap.Int("message_id", ref.MessageID),
			zap.Error(err))
		return false
	}
	return true
}

func (c *Controller) answer(cb Callback, text string) {
	if err := c.messenger.Answer(cb.ID, text); err != nil {
		c.logger.Warn("Failed to answer callback", zap.Error(err))
	}
}
