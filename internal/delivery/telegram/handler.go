package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
	"github.com/ofirte/wedding-sub001/internal/i18n"
	"github.com/ofirte/wedding-sub001/internal/service"
)

type Handler struct {
	bot       *tgbotapi.BotAPI
	logger    *zap.Logger
	t         i18n.Func
	rsvp      RSVPService
	invitees  InviteeService
	sessions  SessionStorage
	reminders ReminderStorage
}

func NewHandler(
	bot *tgbotapi.BotAPI,
	logger *zap.Logger,
	t i18n.Func,
	rsvp RSVPService,
	invitees InviteeService,
	sessions SessionStorage,
	reminders ReminderStorage,
) *Handler {
	return &Handler{
		bot:       bot,
		logger:    logger,
		t:         t,
		rsvp:      rsvp,
		invitees:  invitees,
		sessions:  sessions,
		reminders: reminders,
	}
}

// RegisterCommands publishes the bot command menu.
func (h *Handler) RegisterCommands() error {
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: h.t("rsvp.bot.commands.start", nil)},
		{Command: "rsvp", Description: h.t("rsvp.bot.commands.rsvp", nil)},
		{Command: "help", Description: h.t("rsvp.bot.commands.help", nil)},
	}
	_, err := h.bot.Request(tgbotapi.NewSetMyCommands(commands...))
	return err
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	chatID := update.Message.Chat.ID

	if update.Message.IsCommand() {
		switch update.Message.Command() {
		case "start":
			_ = h.withErrorHandling(h.startHandler(update.Message.CommandArguments()))(ctx, chatID)

		case "rsvp":
			_ = h.withErrorHandling(h.rsvpHandler())(ctx, chatID)

		case "help":
			h.send(newHTMLMessage(chatID, h.t("rsvp.bot.help", nil)))

		default:
			h.send(newHTMLMessage(chatID, h.t("rsvp.bot.unknownCommand", nil)))
		}

		return
	}

	h.send(newHTMLMessage(chatID, h.t("rsvp.bot.help", nil)))
}

// startHandler links the chat to the invitee owning code and shows the form.
// Without a code it falls back to an already linked invitation.
func (h *Handler) startHandler(code string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if code == "" {
			return h.rsvpHandler()(ctx, chatID)
		}

		link, err := h.invitees.LinkTelegram(ctx, code, chatID)
		if err != nil {
			if errors.Is(err, service.ErrGuestNotFound) {
				h.send(newHTMLMessage(chatID, h.t("rsvp.bot.unknownCode", nil)))
				return nil
			}
			return err
		}

		h.sessions.Delete(chatID)
		return forGuest(link, h.showForm(ctx, chatID, link))
	}
}

// rsvpHandler shows the form of the invitation linked to the chat.
func (h *Handler) rsvpHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		link, ok, err := h.linkedInvite(ctx, chatID)
		if err != nil || !ok {
			return err
		}
		return forGuest(link, h.showForm(ctx, chatID, link))
	}
}

// linkedInvite resolves the chat's invitation. When the chat is not linked
// it tells the guest how to start and reports ok=false.
func (h *Handler) linkedInvite(ctx context.Context, chatID int64) (*entities.InviteLink, bool, error) {
	link, err := h.invitees.ByTelegramChat(ctx, chatID)
	if err != nil {
		if errors.Is(err, service.ErrGuestNotFound) {
			h.send(newHTMLMessage(chatID, h.t("rsvp.bot.noInvite", nil)))
			return nil, false, nil
		}
		return nil, false, err
	}
	return link, true, nil
}

// renderFor loads the guest's form, applying the chat's reopened question.
func (h *Handler) renderFor(ctx context.Context, chatID int64, link *entities.InviteLink) (string, *tgbotapi.InlineKeyboardMarkup, error) {
	form, session, err := h.rsvp.Form(ctx, link.WeddingID, link.GuestID, h.t)
	if err != nil {
		return "", nil, err
	}

	if id, ok := h.sessions.Get(chatID); ok {
		if err := session.ReopenQuestion(id); err != nil {
			h.sessions.Delete(chatID)
		}
	}

	text, kb := renderForm(form, session, h.t)
	if len(kb.InlineKeyboard) == 0 {
		return text, nil, nil
	}
	return text, &kb, nil
}

func (h *Handler) showForm(ctx context.Context, chatID int64, link *entities.InviteLink) error {
	text, kb, err := h.renderFor(ctx, chatID, link)
	if err != nil {
		return err
	}

	msg := newHTMLMessage(chatID, text)
	if kb != nil {
		msg.ReplyMarkup = kb
	}
	h.send(msg)
	return nil
}

func (h *Handler) editForm(ctx context.Context, chatID int64, messageID int, link *entities.InviteLink) error {
	text, kb, err := h.renderFor(ctx, chatID, link)
	if err != nil {
		return err
	}

	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	if kb != nil {
		edit.ReplyMarkup = kb
	}
	h.send(edit)
	return nil
}

func (h *Handler) sendError(chatID int64, err string) {
	msg := newHTMLMessage(chatID, err)
	h.send(msg)
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}
