package service

import (
	"context"
	"time"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
	"github.com/ofirte/wedding-sub001/internal/repository"
)

type RSVPConfigRepository interface {
	Get(ctx context.Context, weddingID string) (*entities.RSVPConfig, error)
	Save(ctx context.Context, weddingID string, cfg *entities.RSVPConfig) error
}

type ResponseRepository interface {
	Get(ctx context.Context, weddingID, guestID string) (*repository.ResponseRecord, error)
	List(ctx context.Context, weddingID string) ([]*repository.ResponseRecord, error)
	Apply(ctx context.Context, weddingID, guestID string, patch entities.Patch) error
	Delete(ctx context.Context, weddingID, guestID string) error
	Watch(ctx context.Context, weddingID string, onData func([]*repository.ResponseRecord), onError func(error)) func()
}

type InviteeRepository interface {
	Save(ctx context.Context, weddingID string, inv *entities.Invitee) error
	Get(ctx context.Context, weddingID, guestID string) (*entities.Invitee, error)
	List(ctx context.Context, weddingID string) ([]*entities.Invitee, error)
	Delete(ctx context.Context, weddingID, guestID string) error
	GetByInviteCode(ctx context.Context, code string) (*entities.InviteLink, error)
	GetByTelegramChat(ctx context.Context, chatID int64) (*entities.InviteLink, error)
	MarkMessageSent(ctx context.Context, weddingID, guestID string, ch entities.Channel, sentAt time.Time) error
	LinkTelegramChat(ctx context.Context, weddingID, guestID string, chatID int64) error
	Watch(ctx context.Context, weddingID string, onData func([]*entities.Invitee), onError func(error)) func()
}

type BudgetRepository interface {
	Save(ctx context.Context, weddingID string, item *entities.BudgetItem) error
	Get(ctx context.Context, weddingID, itemID string) (*entities.BudgetItem, error)
	List(ctx context.Context, weddingID string) ([]*entities.BudgetItem, error)
	Delete(ctx context.Context, weddingID, itemID string) error
}

type TaskRepository interface {
	Save(ctx context.Context, weddingID string, task *entities.Task) error
	Get(ctx context.Context, weddingID, taskID string) (*entities.Task, error)
	List(ctx context.Context, weddingID string) ([]*entities.Task, error)
	Delete(ctx context.Context, weddingID, taskID string) error
}

// ReminderNotifier delivers RSVP reminders to guests.
type ReminderNotifier interface {
	SendRSVPReminder(chatID int64, payload entities.ReminderPayload) error
}
