package dialog

import (
	"math"
	"slices"
	"strconv"

	"github.com/glebk/sati-bot/internal/domain"
)

// startMeditation begins the meditation flow, discarding any other flow of
// the user.
func (c *Controller) startMeditation(cmd Command) {
	c.sessions.Put(cmd.From.ID, &Session{Step: StepMedDuration})
	c.send(cmd.ChatID, Message{Text: medStartPrompt, Buttons: medDurationButtons()})
}

func (c *Controller) onMedDuration(sess *Session, cb Callback, arg string) {
	minutes, err := strconv.Atoi(arg)
	if err != nil || minutes <= 0 {
		c.answer(cb, invalidValue)
		return
	}
	sess.Med.DurationMin = minutes
	sess.Step = StepMedType
	c.edit(cb.Message, Message{Text: medDurationText(minutes), Buttons: medTypeButtons()})
	c.answer(cb, "")
}

func (c *Controller) onMedCustom(sess *Session, cb Callback) {
	sess.Step = StepMedCustomDuration
	c.edit(cb.Message, Message{Text: medCustomPrompt})
	c.answer(cb, "")
}

// parseMinutes reads a typed duration. Fractions are truncated; the result
// must be at least one minute.
func parseMinutes(text string) (int, bool) {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt32 {
		return 0, false
	}
	minutes := int(f)
	if minutes <= 0 {
		return 0, false
	}
	return minutes, true
}

func (c *Controller) onMedCustomDuration(sess *Session, msg Text, text string) {
	minutes, ok := parseMinutes(text)
	if !ok {
		c.send(msg.ChatID, Message{Text: medCustomInvalid, ReplyTo: msg.MessageID})
		return
	}
	sess.Med.DurationMin = minutes
	sess.Step = StepMedType
	c.send(msg.ChatID, Message{Text: medDurationText(minutes), Buttons: medTypeButtons()})
}

func (c *Controller) onMedType(sess *Session, cb Callback, arg string) {
	typ := domain.MeditationType(arg)
	if !slices.Contains(domain.MeditationTypes, typ) {
		c.answer(cb, invalidValue)
		return
	}
	sess.Med.Type = typ
	sess.Step = StepMedNote
	c.edit(cb.Message, Message{Text: medNotePrompt})
	c.answer(cb, "")
}

// onMedNote persists the session and ends the flow. "-" means no note.
func (c *Controller) onMedNote(sess *Session, msg Text, text string) error {
	if text == "-" {
		text = ""
	}
	sess.Med.Note = text

	m := &domain.Meditation{
		UserID:      msg.From.ID,
		Username:    msg.From.DisplayName(),
		ChatID:      msg.ChatID,
		DurationMin: sess.Med.DurationMin,
		Type:        sess.Med.Type,
		Note:        sess.Med.Note,
	}
	if err := c.journal.LogMeditation(m); err != nil {
		return c.storageError(msg.ChatID, "save meditation", err)
	}

	c.sessions.Delete(msg.From.ID)
	c.send(msg.ChatID, Message{Text: medSavedText(&sess.Med)})
	return nil
}
