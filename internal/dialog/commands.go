package dialog

import (
	"path/filepath"

	"go.uber.org/zap"
)

func (c *Controller) handleSubscribe(cmd Command) error {
	added, err := c.journal.Subscribe(cmd.ChatID)
	if err != nil {
		return c.storageError(cmd.ChatID, "subscribe", err)
	}

	text := subscribedAlready
	if added {
		text = subscribedNow
		c.logger.Info("Chat subscribed", zap.Int64("chat_id", cmd.ChatID))
	}
	c.send(cmd.ChatID, Message{Text: text, Menu: MainMenu, ReplyTo: cmd.MessageID})
	c.sendSubscriberCount(cmd.ChatID)
	return nil
}

func (c *Controller) handleUnsubscribe(cmd Command) error {
	removed, err := c.journal.Unsubscribe(cmd.ChatID)
	if err != nil {
		return c.storageError(cmd.ChatID, "unsubscribe", err)
	}

	text := notSubscribed
	if removed {
		text = unsubscribedNow
		c.logger.Info("Chat unsubscribed", zap.Int64("chat_id", cmd.ChatID))
	}
	c.send(cmd.ChatID, Message{Text: text, Menu: MainMenu, ReplyTo: cmd.MessageID})
	c.sendSubscriberCount(cmd.ChatID)
	return nil
}

func (c *Controller) sendSubscriberCount(chatID int64) {
	subs, err := c.journal.Subscribers()
	if err != nil {
		c.logger.Warn("Failed to count subscribers", zap.Error(err))
		return
	}
	c.send(chatID, Message{Text: subscriberCountText(len(subs)), Menu: MainMenu})
}

// handleUndo removes the user's newest event. Meditation sessions are not
// covered by undo.
func (c *Controller) handleUndo(cmd Command) error {
	removed, err := c.journal.UndoLastEvent(cmd.From.ID)
	if err != nil {
		return c.storageError(cmd.ChatID, "undo", err)
	}
	if removed == nil {
		c.send(cmd.ChatID, Message{Text: undoNothing, ReplyTo: cmd.MessageID})
		return nil
	}
	c.send(cmd.ChatID, Message{Text: undoneText(removed), ReplyTo: cmd.MessageID})
	return nil
}

// handleExport sends each backing file as a document. Nothing is filtered.
func (c *Controller) handleExport(cmd Command, paths ...string) {
	sent := 0
	for _, path := range paths {
		name := filepath.Base(path)
		if err := c.messenger.SendFile(cmd.ChatID, path, "Export: "+name); err != nil {
			c.logger.Warn("Export failed", zap.String("file", path), zap.Error(err))
			c.send(cmd.ChatID, Message{Text: exportFailedText(name, err), ReplyTo: cmd.MessageID})
			continue
		}
		sent++
	}
	if sent > 0 {
		return
	}

	text := exportNothing
	if len(paths) == 1 {
		text = exportMedNothing
	}
	c.send(cmd.ChatID, Message{Text: text, ReplyTo: cmd.MessageID})
}
