package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
	"github.com/ofirte/wedding-sub001/internal/i18n"
	"github.com/ofirte/wedding-sub001/internal/repository"
	"github.com/ofirte/wedding-sub001/internal/storage"
)

var fixedNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	store     *storage.DocumentStore
	configs   *repository.RSVPConfigRepository
	responses *repository.ResponseRepository
	invitees  *repository.InviteeRepository
	catalog   *CatalogService
	rsvp      *RSVPService
	guests    *InviteeService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := storage.NewDocumentStore()
	env := &testEnv{
		store:     store,
		configs:   repository.NewRSVPConfigRepository(store),
		responses: repository.NewResponseRepository(store),
		invitees:  repository.NewInviteeRepository(store),
	}
	logger := zap.NewNop()
	env.catalog = NewCatalogService(env.configs, logger)
	env.rsvp = NewRSVPService(env.catalog, env.responses, env.invitees, logger)
	env.rsvp.now = func() time.Time { return fixedNow }
	env.guests = NewInviteeService(env.invitees, env.responses, logger)
	env.guests.now = func() time.Time { return fixedNow }
	return env
}

func (e *testEnv) configure(t *testing.T, weddingID string, enabled ...string) {
	t.Helper()
	cfg := &entities.RSVPConfig{EnabledQuestionIDs: enabled}
	if err := e.catalog.SaveConfig(context.Background(), weddingID, cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
}

func (e *testEnv) addGuest(t *testing.T, weddingID, name string) *entities.Invitee {
	t.Helper()
	inv, err := e.guests.Create(context.Background(), weddingID, &entities.Invitee{Name: name})
	if err != nil {
		t.Fatalf("Create invitee: %v", err)
	}
	return inv
}

func (e *testEnv) storedFields(t *testing.T, weddingID, guestID string) map[string]any {
	t.Helper()
	rec, err := e.responses.Get(context.Background(), weddingID, guestID)
	if err != nil {
		t.Fatalf("responses.Get: %v", err)
	}
	return rec.Fields
}

func questionsByID(ids ...string) []entities.Question {
	all := PredefinedQuestions(i18n.Identity)
	out := make([]entities.Question, 0, len(ids))
	for _, id := range ids {
		for _, q := range all {
			if q.ID == id {
				out = append(out, q)
			}
		}
	}
	return out
}

func response(guestID string, answers entities.Answers) *entities.Response {
	return &entities.Response{GuestID: guestID, Answers: answers}
}
