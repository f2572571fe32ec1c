package dialog

import (
	"context"
	"slices"
	"strconv"

	"go.uber.org/zap"

	"github.com/glebk/sati-bot/internal/domain"
	"github.com/glebk/sati-bot/internal/reflection"
)

// startLog begins the log flow, discarding any other flow of the user.
func (c *Controller) startLog(cmd Command) {
	c.sessions.Put(cmd.From.ID, &Session{Step: StepTag})
	c.send(cmd.ChatID, Message{Text: tagPrompt, Buttons: tagButtons()})
}

func (c *Controller) onTag(sess *Session, cb Callback, tag string) {
	if !slices.Contains(domain.Tags, tag) {
		c.answer(cb, invalidValue)
		return
	}
	sess.Log = LogDraft{Tag: tag}
	sess.Step = StepEventDesc
	c.edit(cb.Message, Message{Text: tagChosenText(tag)})
	c.answer(cb, "")
}

func (c *Controller) onUseLast(sess *Session, cb Callback) error {
	last, err := c.journal.LastEvent(cb.From.ID)
	if err != nil {
		c.answer(cb, "")
		return c.storageError(cb.Message.ChatID, "load last event", err)
	}
	if last == nil {
		c.edit(cb.Message, Message{Text: noLastEvent, Buttons: tagButtons()})
		c.answer(cb, "")
		return nil
	}

	sess.Log = LogDraft{
		Tag:       last.Get(domain.ColTag),
		EventDesc: last.Get(domain.ColEventDesc),
	}
	sess.Step = StepDissScore
	c.edit(cb.Message, Message{Text: useLastText(&sess.Log), Buttons: scoreButtons(actionDiss)})
	c.answer(cb, "")
	return nil
}

func (c *Controller) onEventDesc(sess *Session, msg Text, text string) {
	if text == "" {
		c.send(msg.ChatID, Message{Text: eventDescEmpty, ReplyTo: msg.MessageID})
		return
	}
	sess.Log.EventDesc = text
	sess.Step = StepDissScore
	c.send(msg.ChatID, Message{Text: dissScorePrompt, Buttons: scoreButtons(actionDiss)})
}

// parseScore accepts only the values offered on the score buttons.
func parseScore(arg string) (int, bool) {
	v, err := strconv.Atoi(arg)
	if err != nil || !domain.ValidScore(v) {
		return 0, false
	}
	return v, true
}

func (c *Controller) onDissScore(sess *Session, cb Callback, arg string) {
	v, ok := parseScore(arg)
	if !ok {
		c.answer(cb, invalidValue)
		return
	}
	sess.Log.DissScore = v
	sess.Step = StepDissReason
	c.edit(cb.Message, Message{Text: dissChosenText(v)})
	c.answer(cb, "")
	c.send(cb.Message.ChatID, Message{Text: dissReasonPrompt})
}

func (c *Controller) onDissReason(sess *Session, msg Text, text string) {
	sess.Log.DissReason = text
	sess.Step = StepReactDesc
	c.send(msg.ChatID, Message{Text: reactDescPrompt})
}

func (c *Controller) onReactDesc(sess *Session, msg Text, text string) {
	sess.Log.ReactDesc = text
	sess.Step = StepReactScore
	c.send(msg.ChatID, Message{Text: reactScorePrompt, Buttons: scoreButtons(actionReact)})
}

func (c *Controller) onReactScore(sess *Session, cb Callback, arg string) {
	v, ok := parseScore(arg)
	if !ok {
		c.answer(cb, invalidValue)
		return
	}
	sess.Log.ReactScore = v
	sess.Step = StepReactReason
	c.edit(cb.Message, Message{Text: reactChosenText(v)})
	c.answer(cb, "")
	c.send(cb.Message.ChatID, Message{Text: reactReasonPrompt})
}

func (c *Controller) onReactReason(sess *Session, msg Text, text string) {
	sess.Log.ReactReason = text
	sess.Step = StepConfirm
	c.send(msg.ChatID, Message{Text: previewText(&sess.Log), Buttons: confirmButtons()})
}

// onBack returns to the reaction score. The reaction reason is asked again
// after the new score is picked.
func (c *Controller) onBack(sess *Session, cb Callback) {
	sess.Step = StepReactScore
	c.edit(cb.Message, Message{Text: reactScoreRedo, Buttons: scoreButtons(actionReact)})
	c.answer(cb, "")
}

// onConfirm persists the event, then replaces the session with the
// reflection follow-up.
func (c *Controller) onConfirm(ctx context.Context, sess *Session, cb Callback) error {
	d := sess.Log
	event := &domain.Event{
		UserID:                cb.From.ID,
		Username:              cb.From.DisplayName(),
		ChatID:                cb.Message.ChatID,
		Tag:                   d.Tag,
		Description:           d.EventDesc,
		DissatisfactionScore:  d.DissScore,
		DissatisfactionReason: d.DissReason,
		ReactionDesc:          d.ReactDesc,
		ReactionScore:         d.ReactScore,
		ReactionReason:        d.ReactReason,
	}
	if err := c.journal.LogEvent(event); err != nil {
		c.answer(cb, "")
		return c.storageError(cb.Message.ChatID, "save event", err)
	}

	c.edit(cb.Message, Message{Text: savedShort})
	c.answer(cb, "")
	c.send(cb.Message.ChatID, Message{Text: savedText(&d)})

	payload := &ReflectionPayload{Input: reflection.Input{
		Event:      d.EventDesc,
		DissScore:  d.DissScore,
		DissReason: d.DissReason,
		ReactDesc:  d.ReactDesc,
		ReactScore: d.ReactScore,
	}}
	payload.Text = c.journal.Reflect(ctx, payload.Input)
	c.sessions.Put(cb.From.ID, &Session{Step: StepReflection, Reflection: payload})

	c.sendReflection(cb.Message.ChatID, payload.Text)
	return nil
}

// sendReflection shows the reflection with its action buttons, falling back
// to a bare message when the formatted one cannot be delivered.
func (c *Controller) sendReflection(chatID int64, text string) {
	ui := Message{Text: esc(reflection.Render(text)), Buttons: reflectionButtons()}
	_, err := c.messenger.Send(chatID, ui)
	if err == nil {
		return
	}
	c.logger.Warn("Failed to send reflection, falling back to plain text", zap.Error(err))
	c.send(chatID, Message{Text: reflectionTitle + esc(text)})
}
