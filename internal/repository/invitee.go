package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
	"github.com/ofirte/wedding-sub001/internal/infra/docstore"
)

var (
	ErrInviteeNotFound = errors.New("invitee not found")
	ErrInviteNotFound  = errors.New("invite code not found")
)

// InviteeRepository stores wedding guests and their public invite codes.
type InviteeRepository struct {
	store   docstore.Store
	docs    collection[entities.Invitee]
	invites collection[entities.InviteLink]
}

func NewInviteeRepository(store docstore.Store) *InviteeRepository {
	return &InviteeRepository{
		store:   store,
		docs:    collection[entities.Invitee]{store: store, notFound: ErrInviteeNotFound},
		invites: collection[entities.InviteLink]{store: store, notFound: ErrInviteNotFound},
	}
}

// Save creates or replaces an invitee and registers its invite code.
func (r *InviteeRepository) Save(ctx context.Context, weddingID string, inv *entities.Invitee) error {
	path, err := weddingDocument(weddingID, inviteesCollection, inv.ID)
	if err != nil {
		return err
	}

	if err := r.docs.put(ctx, path, inv); err != nil {
		return fmt.Errorf("save invitee: %w", err)
	}

	if inv.InviteCode == "" {
		return nil
	}

	link := &entities.InviteLink{Code: inv.InviteCode, WeddingID: weddingID, GuestID: inv.ID}
	if err := r.invites.put(ctx, invitePath(inv.InviteCode), link); err != nil {
		return fmt.Errorf("save invite link: %w", err)
	}

	return nil
}

// Get retrieves an invitee by id.
// Returns ErrInviteeNotFound if it does not exist.
func (r *InviteeRepository) Get(ctx context.Context, weddingID, guestID string) (*entities.Invitee, error) {
	path, err := weddingDocument(weddingID, inviteesCollection, guestID)
	if err != nil {
		return nil, err
	}

	inv, err := r.docs.get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("get invitee: %w", err)
	}
	return inv, nil
}

func (r *InviteeRepository) List(ctx context.Context, weddingID string) ([]*entities.Invitee, error) {
	path, err := weddingCollection(weddingID, inviteesCollection)
	if err != nil {
		return nil, err
	}

	invitees, err := r.docs.list(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("list invitees: %w", err)
	}
	return invitees, nil
}

// Delete removes the invitee and its invite code.
func (r *InviteeRepository) Delete(ctx context.Context, weddingID, guestID string) error {
	inv, err := r.Get(ctx, weddingID, guestID)
	if err != nil {
		return err
	}

	if inv.InviteCode != "" {
		if err := r.store.Delete(ctx, invitePath(inv.InviteCode)); err != nil {
			return fmt.Errorf("delete invite link: %w", err)
		}
	}

	path, _ := weddingDocument(weddingID, inviteesCollection, guestID)
	if err := r.store.Delete(ctx, path); err != nil {
		return fmt.Errorf("delete invitee: %w", err)
	}
	return nil
}

// GetByInviteCode resolves a public invite code.
// Returns ErrInviteNotFound for unknown codes.
func (r *InviteeRepository) GetByInviteCode(ctx context.Context, code string) (*entities.InviteLink, error) {
	if err := checkID("invite", code); err != nil {
		return nil, ErrInviteNotFound
	}

	link, err := r.invites.get(ctx, invitePath(code))
	if err != nil {
		return nil, fmt.Errorf("get invite link: %w", err)
	}
	return link, nil
}

// MarkMessageSent records that a message was sent to the invitee on ch.
func (r *InviteeRepository) MarkMessageSent(
	ctx context.Context,
	weddingID, guestID string,
	ch entities.Channel,
	sentAt time.Time,
) error {
	inv, err := r.Get(ctx, weddingID, guestID)
	if err != nil {
		return err
	}

	sent := make(map[string]any, len(inv.MessagesSent)+1)
	for c, at := range inv.MessagesSent {
		sent[string(c)] = at.UTC().Format(time.RFC3339Nano)
	}
	sent[string(ch)] = sentAt.UTC().Format(time.RFC3339Nano)

	path, _ := weddingDocument(weddingID, inviteesCollection, guestID)
	patch := entities.Patch{}.
		Set("messagesSent", sent).
		Set("updatedAt", sentAt.UTC().Format(time.RFC3339Nano))

	if err := r.store.Apply(ctx, path, patch); err != nil {
		return fmt.Errorf("mark message sent: %w", err)
	}
	return nil
}

// LinkTelegramChat stores the Telegram chat the invitee answers from.
func (r *InviteeRepository) LinkTelegramChat(ctx context.Context, weddingID, guestID string, chatID int64) error {
	path, err := weddingDocument(weddingID, inviteesCollection, guestID)
	if err != nil {
		return err
	}
	inv, err := r.docs.get(ctx, path)
	if err != nil {
		return fmt.Errorf("link telegram chat: %w", err)
	}

	patch := entities.Patch{}.Set("telegramChatId", chatID)
	if err := r.store.Apply(ctx, path, patch); err != nil {
		return fmt.Errorf("link telegram chat: %w", err)
	}

	link := &entities.InviteLink{Code: inv.InviteCode, WeddingID: weddingID, GuestID: guestID}
	if err := r.invites.put(ctx, chatPath(chatID), link); err != nil {
		return fmt.Errorf("link telegram chat: %w", err)
	}
	return nil
}

// GetByTelegramChat resolves the invitee linked to a Telegram chat.
// Returns ErrInviteNotFound if the chat was never linked.
func (r *InviteeRepository) GetByTelegramChat(ctx context.Context, chatID int64) (*entities.InviteLink, error) {
	link, err := r.invites.get(ctx, chatPath(chatID))
	if err != nil {
		return nil, fmt.Errorf("get telegram link: %w", err)
	}
	return link, nil
}

// Watch calls onData with the wedding's invitees after each change.
func (r *InviteeRepository) Watch(
	ctx context.Context,
	weddingID string,
	onData func([]*entities.Invitee),
	onError func(error),
) func() {
	path, err := weddingCollection(weddingID, inviteesCollection)
	if err != nil {
		onError(err)
		return func() {}
	}

	return r.store.Subscribe(ctx, path, func(docs []*docstore.Document) {
		out := make([]*entities.Invitee, 0, len(docs))
		for _, d := range docs {
			var inv entities.Invitee
			if err := docstore.Decode(d.Data, &inv); err != nil {
				onError(fmt.Errorf("%s: %w", d.Path, err))
				continue
			}
			out = append(out, &inv)
		}
		onData(out)
	}, onError)
}

func invitePath(code string) string {
	return docstore.Join(invitesCollection, code)
}

func chatPath(chatID int64) string {
	return docstore.Join(telegramChatsCollection, strconv.FormatInt(chatID, 10))
}
