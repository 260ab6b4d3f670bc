package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
)

// SendRSVPReminder sends a reminder with a button that opens the form.
// The previous reminder in the chat is deleted so only the latest remains.
func (h *Handler) SendRSVPReminder(chatID int64, payload entities.ReminderPayload) error {
	msg := newHTMLMessage(chatID, h.t("rsvp.bot.reminder", map[string]string{"name": esc(payload.GuestName)}))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 "+h.t("rsvp.bot.commands.rsvp", nil), buildShowCallback()),
		),
	)

	sent, err := h.bot.Send(msg)
	if err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}

	if prev, ok := h.reminders.UpsertAndGetPrev(chatID, sent.MessageID); ok {
		if _, err := h.bot.Request(tgbotapi.NewDeleteMessage(prev.ChatID, prev.MessageID)); err != nil {
			h.logger.Warn("failed to delete previous reminder",
				zap.Int64("chat_id", chatID),
				zap.String("guest_id", payload.GuestID),
				zap.Error(err),
			)
		}
	}
	return nil
}
