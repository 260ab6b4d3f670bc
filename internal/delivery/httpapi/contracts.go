package httpapi

import (
	"context"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
	"github.com/ofirte/wedding-sub001/internal/i18n"
	"github.com/ofirte/wedding-sub001/internal/service"
)

type CatalogService interface {
	Config(ctx context.Context, weddingID string) (*entities.RSVPConfig, error)
	SaveConfig(ctx context.Context, weddingID string, cfg *entities.RSVPConfig) error
	Questions(ctx context.Context, weddingID string, t i18n.Func) ([]entities.Question, error)
	AddCustomQuestion(ctx context.Context, weddingID string, q entities.Question) (*entities.Question, error)
	UpdateCustomQuestion(ctx context.Context, weddingID, questionID string, q entities.Question) (*entities.Question, error)
	RemoveCustomQuestion(ctx context.Context, weddingID, questionID string) error
	SetEnabled(ctx context.Context, weddingID, questionID string, enabled bool) error
	Reorder(ctx context.Context, weddingID string, ids []string) error
}

type RSVPService interface {
	ParseAnswers(ctx context.Context, weddingID string, raw map[string]any) (entities.Answers, error)
	Read(ctx context.Context, weddingID, guestID string) (*entities.Response, error)
	Write(ctx context.Context, weddingID, guestID string, partial entities.Answers) (*entities.Response, error)
	Submit(ctx context.Context, weddingID, guestID string, answers entities.Answers) (*entities.Response, error)
	ResolveInvite(ctx context.Context, code string) (*entities.InviteLink, error)
	Form(ctx context.Context, weddingID, guestID string, t i18n.Func) (*service.GuestForm, *service.FormSession, error)
	Table(ctx context.Context, weddingID string, t i18n.Func, query service.TableQuery) (*service.TableView, error)
	Stats(ctx context.Context, weddingID string, t i18n.Func) ([]entities.StatCard, error)
	Watch(ctx context.Context, weddingID string, onEvent func(service.ChangeEvent))
}

type InviteeService interface {
	Create(ctx context.Context, weddingID string, inv *entities.Invitee) (*entities.Invitee, error)
	Get(ctx context.Context, weddingID, guestID string) (*entities.Invitee, error)
	List(ctx context.Context, weddingID string) ([]*entities.Invitee, error)
	Update(ctx context.Context, weddingID, guestID string, in *entities.Invitee) (*entities.Invitee, error)
	Delete(ctx context.Context, weddingID, guestID string) error
	MarkMessageSent(ctx context.Context, weddingID, guestID string, ch entities.Channel) error
}

type BudgetService interface {
	Create(ctx context.Context, weddingID string, item *entities.BudgetItem) (*entities.BudgetItem, error)
	Get(ctx context.Context, weddingID, itemID string) (*entities.BudgetItem, error)
	List(ctx context.Context, weddingID string) ([]*entities.BudgetItem, error)
	Update(ctx context.Context, weddingID, itemID string, in *entities.BudgetItem) (*entities.BudgetItem, error)
	Delete(ctx context.Context, weddingID, itemID string) error
	Summary(ctx context.Context, weddingID string) (*entities.BudgetSummary, error)
}

type TaskService interface {
	Create(ctx context.Context, weddingID string, task *entities.Task) (*entities.Task, error)
	Get(ctx context.Context, weddingID, taskID string) (*entities.Task, error)
	List(ctx context.Context, weddingID string) ([]*entities.Task, error)
	Update(ctx context.Context, weddingID, taskID string, in *entities.Task) (*entities.Task, error)
	Delete(ctx context.Context, weddingID, taskID string) error
	Complete(ctx context.Context, weddingID, taskID string) (*entities.Task, error)
	Reopen(ctx context.Context, weddingID, taskID string) (*entities.Task, error)
}
