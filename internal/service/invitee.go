package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
	"github.com/ofirte/wedding-sub001/internal/repository"
)

// inviteCodeLength is the length of generated public invite codes.
const inviteCodeLength = 12

func newInviteCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:inviteCodeLength]
}

// InviteeService manages the wedding guest list.
type InviteeService struct {
	invitees  InviteeRepository
	responses ResponseRepository
	logger    *zap.Logger
	now       func() time.Time
}

func NewInviteeService(invitees InviteeRepository, responses ResponseRepository, logger *zap.Logger) *InviteeService {
	return &InviteeService{
		invitees:  invitees,
		responses: responses,
		logger:    logger,
		now:       time.Now,
	}
}

// Create stores a new invitee with a generated id and invite code.
func (s *InviteeService) Create(ctx context.Context, weddingID string, inv *entities.Invitee) (*entities.Invitee, error) {
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	inv.ID = uuid.NewString()
	inv.InviteCode = newInviteCode()
	inv.Cellphone = entities.NormalizeCellphone(inv.Cellphone)
	inv.MessagesSent = nil
	inv.TelegramChatID = 0
	inv.CreatedAt = now
	inv.UpdatedAt = now

	if err := s.invitees.Save(ctx, weddingID, inv); err != nil {
		return nil, fmt.Errorf("create invitee: %w", err)
	}

	s.logger.Info("invitee created",
		zap.String("wedding_id", weddingID),
		zap.String("guest_id", inv.ID),
	)
	return inv, nil
}

func (s *InviteeService) Get(ctx context.Context, weddingID, guestID string) (*entities.Invitee, error) {
	inv, err := s.invitees.Get(ctx, weddingID, guestID)
	if err != nil {
		if errors.Is(err, repository.ErrInviteeNotFound) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}
	return inv, nil
}

// List returns the invitees sorted by name.
func (s *InviteeService) List(ctx context.Context, weddingID string) ([]*entities.Invitee, error) {
	invitees, err := s.invitees.List(ctx, weddingID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(invitees, func(i, j int) bool {
		return invitees[i].Name < invitees[j].Name
	})
	return invitees, nil
}

// Update replaces the editable fields of an invitee. Identity, invite code,
// Telegram link and message history are kept.
func (s *InviteeService) Update(ctx context.Context, weddingID, guestID string, in *entities.Invitee) (*entities.Invitee, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.Get(ctx, weddingID, guestID)
	if err != nil {
		return nil, err
	}

	inv.Name = in.Name
	inv.Cellphone = entities.NormalizeCellphone(in.Cellphone)
	inv.Side = in.Side
	inv.Relation = in.Relation
	inv.ExpectedAmount = in.ExpectedAmount
	inv.UpdatedAt = s.now().UTC()

	if err := s.invitees.Save(ctx, weddingID, inv); err != nil {
		return nil, fmt.Errorf("update invitee: %w", err)
	}
	return inv, nil
}

// Delete removes the invitee together with its RSVP response.
func (s *InviteeService) Delete(ctx context.Context, weddingID, guestID string) error {
	if err := s.invitees.Delete(ctx, weddingID, guestID); err != nil {
		if errors.Is(err, repository.ErrInviteeNotFound) {
			return ErrGuestNotFound
		}
		return fmt.Errorf("delete invitee: %w", err)
	}

	if err := s.responses.Delete(ctx, weddingID, guestID); err != nil {
		return fmt.Errorf("delete response: %w", err)
	}

	s.logger.Info("invitee deleted",
		zap.String("wedding_id", weddingID),
		zap.String("guest_id", guestID),
	)
	return nil
}

// MarkMessageSent records a message sent to the invitee on ch at now.
func (s *InviteeService) MarkMessageSent(ctx context.Context, weddingID, guestID string, ch entities.Channel) error {
	err := s.invitees.MarkMessageSent(ctx, weddingID, guestID, ch, s.now().UTC())
	if errors.Is(err, repository.ErrInviteeNotFound) {
		return ErrGuestNotFound
	}
	return err
}

// LinkTelegram attaches a Telegram chat to the invitee owning code.
func (s *InviteeService) LinkTelegram(ctx context.Context, code string, chatID int64) (*entities.InviteLink, error) {
	link, err := s.invitees.GetByInviteCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrInviteNotFound) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}

	if err := s.invitees.LinkTelegramChat(ctx, link.WeddingID, link.GuestID, chatID); err != nil {
		if errors.Is(err, repository.ErrInviteeNotFound) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}

	s.logger.Info("telegram chat linked",
		zap.String("wedding_id", link.WeddingID),
		zap.String("guest_id", link.GuestID),
		zap.Int64("chat_id", chatID),
	)
	return link, nil
}

// ByTelegramChat returns the invite linked to a Telegram chat.
func (s *InviteeService) ByTelegramChat(ctx context.Context, chatID int64) (*entities.InviteLink, error) {
	link, err := s.invitees.GetByTelegramChat(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrInviteNotFound) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}
	return link, nil
}
