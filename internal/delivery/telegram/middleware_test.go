package telegram

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
	"github.com/ofirte/wedding-sub001/internal/i18n"
)

func TestForGuest(t *testing.T) {
	base := errors.New("boom")
	if got := forGuest(nil, base); got != base {
		t.Errorf("forGuest(nil) = %v", got)
	}
	if got := forGuest(&entities.InviteLink{}, nil); got != nil {
		t.Errorf("forGuest(nil error) = %v", got)
	}

	err := forGuest(&entities.InviteLink{WeddingID: "w1", GuestID: "g1"}, base)
	if !errors.Is(err, base) || err.Error() != "boom" {
		t.Errorf("wrapped = %v", err)
	}
}

func TestWithErrorHandlingLogsRejectedCallbacks(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := &Handler{logger: zap.New(core), t: i18n.Identity}
	link := &entities.InviteLink{WeddingID: "w1", GuestID: "g1"}

	tests := []struct {
		name string
		err  error
	}{
		{"stale button", fmt.Errorf("%w: ans:gone", errInvalidCallback)},
		{"invalid answer", fmt.Errorf("%w: option 9", entities.ErrInvalidAnswer)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := h.withErrorHandling(func(context.Context, int64) error {
				return forGuest(link, tt.err)
			})
			if err := fn(context.Background(), 42); err != nil {
				t.Fatalf("err = %v", err)
			}

			entries := logs.TakeAll()
			if len(entries) != 1 || entries[0].Level != zapcore.WarnLevel {
				t.Fatalf("entries = %+v", entries)
			}
			fields := entries[0].ContextMap()
			if fields["wedding_id"] != "w1" || fields["guest_id"] != "g1" || fields["chat_id"] != int64(42) {
				t.Errorf("fields = %v", fields)
			}
		})
	}
}
