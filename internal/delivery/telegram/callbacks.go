package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
	"github.com/ofirte/wedding-sub001/internal/service"
)

var errInvalidCallback = errors.New("invalid callback data")

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}

	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID
	data := decodeCallback(cb.Data)
	toast := ""

	_ = h.withErrorHandling(func(ctx context.Context, chatID int64) error {
		link, ok, err := h.linkedInvite(ctx, chatID)
		if err != nil || !ok {
			return err
		}

		return forGuest(link, h.dispatchCallback(ctx, chatID, messageID, link, data, &toast))
	})(ctx, chatID)

	// Remove the user's "clock".
	answer := tgbotapi.NewCallback(cb.ID, toast)
	if _, err := h.bot.Request(answer); err != nil {
		h.logger.Warn("callback answer error", zap.Error(err))
	}
}

func (h *Handler) dispatchCallback(
	ctx context.Context,
	chatID int64,
	messageID int,
	link *entities.InviteLink,
	data callbackData,
	toast *string,
) error {
	switch data.Action {
	case actionAnswer:
		if err := h.answerCallback(ctx, chatID, link, data); err != nil {
			return err
		}
		*toast = h.t("rsvp.bot.answerRecorded", nil)
		return h.editForm(ctx, chatID, messageID, link)

	case actionEdit:
		if len(data.Params) != 1 {
			return fmt.Errorf("%w: %s", errInvalidCallback, data.Raw)
		}
		h.sessions.Store(chatID, data.Params[0])
		return h.editForm(ctx, chatID, messageID, link)

	case actionSubmit:
		return h.submitCallback(ctx, chatID, messageID, link)

	case actionShow:
		return h.showForm(ctx, chatID, link)

	default:
		return fmt.Errorf("%w: %s", errInvalidCallback, data.Raw)
	}
}

// answerCallback saves the answer carried by an answer button.
func (h *Handler) answerCallback(ctx context.Context, chatID int64, link *entities.InviteLink, data callbackData) error {
	if len(data.Params) != 2 {
		return fmt.Errorf("%w: %s", errInvalidCallback, data.Raw)
	}
	questionID, value := data.Params[0], data.Params[1]

	_, session, err := h.rsvp.Form(ctx, link.WeddingID, link.GuestID, h.t)
	if err != nil {
		return err
	}

	var question *entities.Question
	for _, q := range session.Questions() {
		if q.ID == questionID {
			question = &q
			break
		}
	}
	if question == nil {
		// The button outlived its question; re-rendering drops it.
		h.logger.Info("answer to removed question",
			zap.String("wedding_id", link.WeddingID),
			zap.String("question_id", questionID),
		)
		return nil
	}

	answer, err := parseCallbackAnswer(*question, value)
	if err != nil {
		return err
	}

	if _, err := h.rsvp.Write(ctx, link.WeddingID, link.GuestID, entities.Answers{questionID: answer}); err != nil {
		return err
	}

	if id, ok := h.sessions.Get(chatID); ok && id == questionID {
		h.sessions.Delete(chatID)
	}
	return nil
}

// parseCallbackAnswer converts a button value into an answer to q.
func parseCallbackAnswer(q entities.Question, value string) (entities.Answer, error) {
	switch q.Type {
	case entities.QuestionTypeBoolean:
		switch value {
		case valueTrue:
			return entities.BoolAnswer(true), nil
		case valueFalse:
			return entities.BoolAnswer(false), nil
		}
	case entities.QuestionTypeSelect:
		i, err := strconv.Atoi(value)
		if err == nil && i >= 0 && i < len(q.Options) {
			return entities.SelectAnswer(q.Options[i]), nil
		}
	}
	return entities.Answer{}, fmt.Errorf("%w: %q for question %s", errInvalidCallback, value, q.ID)
}

func (h *Handler) submitCallback(ctx context.Context, chatID int64, messageID int, link *entities.InviteLink) error {
	resp, err := h.rsvp.Submit(ctx, link.WeddingID, link.GuestID, nil)
	if err != nil {
		if errors.Is(err, service.ErrMissingRequiredAnswers) {
			h.send(newHTMLMessage(chatID, h.t("rsvp.bot.missingRequired", nil)))
			return nil
		}
		return err
	}

	h.sessions.Delete(chatID)
	if err := h.editForm(ctx, chatID, messageID, link); err != nil {
		return err
	}

	key := "rsvp.bot.submitted"
	if resp.Answers[entities.QuestionAttendance].IsFalse() {
		key = "rsvp.bot.declined"
	}
	h.send(newHTMLMessage(chatID, h.t(key, nil)))
	return nil
}
