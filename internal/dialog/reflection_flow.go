package dialog

import (
	"context"

	"go.uber.org/zap"

	"github.com/glebk/sati-bot/internal/reflection"
)

// onReflectionAgain regenerates from the stored input and replaces the shown
// text in place, or sends it anew when the edit fails.
func (c *Controller) onReflectionAgain(ctx context.Context, sess *Session, cb Callback) {
	if sess.Reflection == nil {
		c.answer(cb, reflectionNoInput)
		return
	}
	c.answer(cb, reflectionWorking)

	sess.Reflection.Text = c.journal.Reflect(ctx, sess.Reflection.Input)
	ui := Message{Text: esc(reflection.Render(sess.Reflection.Text)), Buttons: reflectionButtons()}
	if c.edit(cb.Message, ui) {
		return
	}
	c.send(cb.Message.ChatID, ui)
}

func (c *Controller) onReflectionSave(sess *Session, cb Callback) error {
	if sess.Reflection == nil || sess.Reflection.Text == "" {
		c.answer(cb, reflectionMissing)
		return nil
	}

	ref, err := c.journal.SaveReflection(cb.From.ID, sess.Reflection.Text)
	if err != nil {
		c.logger.Error("Failed to save reflection", zap.Int64("user_id", cb.From.ID), zap.Error(err))
		c.answer(cb, reflectionSaveFail)
		return err
	}
	c.logger.Info("Reflection saved", zap.Int64("user_id", cb.From.ID), zap.String("ref", ref))

	c.answer(cb, reflectionSaved)
	c.clearButtons(cb.Message)
	return nil
}

// onReflectionClose removes the action buttons and leaves the session as is.
func (c *Controller) onReflectionClose(cb Callback) {
	if !c.clearButtons(cb.Message) {
		c.answer(cb, reflectionClosed)
		return
	}
	c.answer(cb, "")
}

func (c *Controller) clearButtons(ref MessageRef) bool {
	if err := c.messenger.ClearButtons(ref); err != nil {
		c.logger.Warn("Failed to clear buttons", zap.Int("message_id", ref.MessageID), zap.Error(err))
		return false
	}
	return true
}
