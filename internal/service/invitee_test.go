package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
)

func TestInviteeServiceCreate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	inv, err := env.guests.Create(ctx, "w1", &entities.Invitee{
		Name:           "Rotem",
		Cellphone:      "+972 (50) 123-4567",
		TelegramChatID: 99,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if inv.ID == "" || len(inv.InviteCode) != inviteCodeLength {
		t.Fatalf("invitee = %+v", inv)
	}
	if inv.Cellphone != "972501234567" {
		t.Errorf("cellphone = %q", inv.Cellphone)
	}
	if inv.TelegramChatID != 0 || !inv.CreatedAt.Equal(fixedNow) {
		t.Errorf("server-managed fields = %+v", inv)
	}

	if _, err := env.guests.Create(ctx, "w1", &entities.Invitee{Name: "  "}); !errors.Is(err, entities.ErrInvalidInvitee) {
		t.Errorf("blank name err = %v", err)
	}
}

func TestInviteeServiceListUpdateDelete(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.configure(t, "w1", "attendance")

	zoe := env.addGuest(t, "w1", "Zoe")
	env.addGuest(t, "w1", "Adi")

	list, err := env.guests.List(ctx, "w1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Adi" || list[1].Name != "Zoe" {
		t.Fatalf("list = %+v", list)
	}

	updated, err := env.guests.Update(ctx, "w1", zoe.ID, &entities.Invitee{
		Name:       "Zoe K",
		Side:       "bride",
		InviteCode: "hijack",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Zoe K" || updated.Side != "bride" || updated.InviteCode != zoe.InviteCode {
		t.Fatalf("updated = %+v", updated)
	}

	if _, err := env.guests.Update(ctx, "w1", "ghost", &entities.Invitee{Name: "x"}); !errors.Is(err, ErrGuestNotFound) {
		t.Errorf("update missing err = %v", err)
	}

	_, _ = env.rsvp.Write(ctx, "w1", zoe.ID, entities.Answers{"attendance": entities.BoolAnswer(true)})
	if err := env.guests.Delete(ctx, "w1", zoe.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := env.guests.Get(ctx, "w1", zoe.ID); !errors.Is(err, ErrGuestNotFound) {
		t.Errorf("get deleted err = %v", err)
	}
	if r, _ := env.rsvp.Read(ctx, "w1", zoe.ID); r != nil {
		t.Errorf("response survived delete: %+v", r)
	}
	if _, err := env.rsvp.ResolveInvite(ctx, zoe.InviteCode); !errors.Is(err, ErrGuestNotFound) {
		t.Errorf("invite survived delete: %v", err)
	}
	if err := env.guests.Delete(ctx, "w1", zoe.ID); !errors.Is(err, ErrGuestNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}

func TestInviteeServiceTelegramAndMessages(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	guest := env.addGuest(t, "w1", "Hila")

	link, err := env.guests.LinkTelegram(ctx, guest.InviteCode, 4242)
	if err != nil {
		t.Fatalf("LinkTelegram: %v", err)
	}
	if link.GuestID != guest.ID || link.WeddingID != "w1" {
		t.Fatalf("link = %+v", link)
	}

	byChat, err := env.guests.ByTelegramChat(ctx, 4242)
	if err != nil || byChat.GuestID != guest.ID {
		t.Fatalf("ByTelegramChat = %+v, %v", byChat, err)
	}
	if _, err := env.guests.ByTelegramChat(ctx, 1); !errors.Is(err, ErrGuestNotFound) {
		t.Errorf("unknown chat err = %v", err)
	}
	if _, err := env.guests.LinkTelegram(ctx, "nope", 5); !errors.Is(err, ErrGuestNotFound) {
		t.Errorf("unknown code err = %v", err)
	}

	if err := env.guests.MarkMessageSent(ctx, "w1", guest.ID, entities.ChannelWhatsApp); err != nil {
		t.Fatalf("MarkMessageSent: %v", err)
	}
	got, _ := env.guests.Get(ctx, "w1", guest.ID)
	if at, ok := got.MessageSentAt(entities.ChannelWhatsApp); !ok || !at.Equal(fixedNow) {
		t.Fatalf("messagesSent = %v", got.MessagesSent)
	}
	if got.TelegramChatID != 4242 {
		t.Errorf("telegram chat = %d", got.TelegramChatID)
	}
	if err := env.guests.MarkMessageSent(ctx, "w1", "ghost", entities.ChannelSMS); !errors.Is(err, ErrGuestNotFound) {
		t.Errorf("mark missing err = %v", err)
	}
}
