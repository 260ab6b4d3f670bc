package telegram

import (
	"context"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
	"github.com/ofirte/wedding-sub001/internal/i18n"
	"github.com/ofirte/wedding-sub001/internal/service"
	"github.com/ofirte/wedding-sub001/internal/storage"
)

type RSVPService interface {
	Form(ctx context.Context, weddingID, guestID string, t i18n.Func) (*service.GuestForm, *service.FormSession, error)
	Write(ctx context.Context, weddingID, guestID string, partial entities.Answers) (*entities.Response, error)
	Submit(ctx context.Context, weddingID, guestID string, answers entities.Answers) (*entities.Response, error)
}

type InviteeService interface {
	LinkTelegram(ctx context.Context, code string, chatID int64) (*entities.InviteLink, error)
	ByTelegramChat(ctx context.Context, chatID int64) (*entities.InviteLink, error)
}

// SessionStorage keeps the question a chat reopened for editing.
type SessionStorage interface {
	Store(chatID int64, questionID string)
	Get(chatID int64) (string, bool)
	Delete(chatID int64)
}

type ReminderStorage interface {
	UpsertAndGetPrev(chatID int64, messageID int) (prev storage.ReminderMessage, hadPrev bool)
}
