package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// guestError tags an error with the invitation it happened for.
type guestError struct {
	link *entities.InviteLink
	err  error
}

func (e *guestError) Error() string { return e.err.Error() }
func (e *guestError) Unwrap() error { return e.err }

func forGuest(link *entities.InviteLink, err error) error {
	if err == nil || link == nil {
		return err
	}
	return &guestError{link: link, err: err}
}

// withErrorHandling logs handler errors with the guest they concern. Outdated
// buttons and rejected answers are only logged; anything else tells the
// guest something went wrong.
func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		if err == nil {
			return nil
		}

		fields := []zap.Field{zap.Int64("chat_id", chatID), zap.Error(err)}
		var ge *guestError
		if errors.As(err, &ge) {
			fields = append(fields,
				zap.String("wedding_id", ge.link.WeddingID),
				zap.String("guest_id", ge.link.GuestID),
			)
		}

		if errors.Is(err, errInvalidCallback) || errors.Is(err, entities.ErrInvalidAnswer) {
			h.logger.Warn("rejected callback", fields...)
			return nil
		}

		h.logger.Error("handle error", fields...)
		h.sendError(chatID, h.t("rsvp.bot.internalError", nil))
		return nil
	}
}
