package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
)

// DefaultReminderSchedule runs at minute 0 of every hour.
const DefaultReminderSchedule = "0 * * * *"

type ReminderConfig struct {
	Schedule   string        // cron spec
	Interval   time.Duration // minimum time between two reminders to one guest
	WeddingIDs []string
}

// ReminderService nudges linked guests who have not submitted their RSVP.
type ReminderService struct {
	invitees  InviteeRepository
	responses ResponseRepository
	notifier  ReminderNotifier
	cfg       ReminderConfig
	logger    *zap.Logger
	now       func() time.Time
}

// NewReminderService creates a new reminder service.
func NewReminderService(
	invitees InviteeRepository,
	responses ResponseRepository,
	cfg ReminderConfig,
	logger *zap.Logger,
) *ReminderService {
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultReminderSchedule
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	return &ReminderService{
		invitees:  invitees,
		responses: responses,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// SetNotifier sets the notifier (called after handler is created).
func (s *ReminderService) SetNotifier(notifier ReminderNotifier) {
	s.notifier = notifier
}

// Start runs the cron scheduler until ctx is done.
func (s *ReminderService) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(s.cfg.Schedule, func() {
		s.logger.Info("cron triggered: processing rsvp reminders")
		sent, err := s.SendReminders(ctx)
		if err != nil {
			s.logger.Error("failed to send rsvp reminders", zap.Error(err))
			return
		}
		s.logger.Info("rsvp reminders processed", zap.Int("total_sent", sent))
	})
	if err != nil {
		return fmt.Errorf("add cron job: %w", err)
	}

	c.Start()
	s.logger.Info("reminder scheduler started",
		zap.String("schedule", s.cfg.Schedule),
		zap.Strings("wedding_ids", s.cfg.WeddingIDs),
	)

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("reminder service stopped")
	return nil
}

// SendReminders sends one pass of reminders over every configured wedding
// and returns how many were delivered. A failing wedding does not stop the others.
func (s *ReminderService) SendReminders(ctx context.Context) (int, error) {
	if s.notifier == nil {
		return 0, errors.New("reminder notifier is not set")
	}

	total := 0
	for _, weddingID := range s.cfg.WeddingIDs {
		sent, err := s.remindWedding(ctx, weddingID)
		if err != nil {
			s.logger.Error("failed to process wedding reminders",
				zap.String("wedding_id", weddingID),
				zap.Error(err),
			)
			continue
		}
		total += sent
	}
	return total, nil
}

func (s *ReminderService) remindWedding(ctx context.Context, weddingID string) (int, error) {
	invitees, err := s.invitees.List(ctx, weddingID)
	if err != nil {
		return 0, fmt.Errorf("list invitees: %w", err)
	}

	recs, err := s.responses.List(ctx, weddingID)
	if err != nil {
		return 0, fmt.Errorf("list responses: %w", err)
	}

	submitted := make(map[string]bool, len(recs))
	for _, rec := range recs {
		if v, ok := rec.Fields[entities.FieldIsSubmitted].(bool); ok && v {
			submitted[rec.GuestID] = true
		}
	}

	now := s.now().UTC()
	due := make([]*entities.Invitee, 0)
	for _, inv := range invitees {
		if entities.DueForReminder(inv, submitted[inv.ID], now, s.cfg.Interval) {
			due = append(due, inv)
		}
	}

	return s.processBatch(ctx, weddingID, due, now), nil
}

// processBatch sends reminders concurrently.
func (s *ReminderService) processBatch(ctx context.Context, weddingID string, due []*entities.Invitee, now time.Time) int {
	const maxConcurrent = 10
	sem := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup
	var mu sync.Mutex
	sent := 0

	for _, inv := range due {
		wg.Add(1)
		sem <- struct{}{}

		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			if err := s.remind(ctx, weddingID, inv, now); err != nil {
				s.logger.Error("failed to send reminder",
					zap.String("wedding_id", weddingID),
					zap.String("guest_id", inv.ID),
					zap.Error(err))
				return
			}
			mu.Lock()
			sent++
			mu.Unlock()
		}()
	}

	wg.Wait()
	return sent
}

func (s *ReminderService) remind(ctx context.Context, weddingID string, inv *entities.Invitee, now time.Time) error {
	payload := entities.ReminderPayload{
		WeddingID:  weddingID,
		GuestID:    inv.ID,
		GuestName:  inv.Name,
		InviteCode: inv.InviteCode,
	}

	if err := s.notifier.SendRSVPReminder(inv.TelegramChatID, payload); err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}

	if err := s.invitees.MarkMessageSent(ctx, weddingID, inv.ID, entities.ChannelTelegram, now); err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}
	return nil
}
