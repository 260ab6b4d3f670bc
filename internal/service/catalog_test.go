package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
	"github.com/ofirte/wedding-sub001/internal/i18n"
)

func ids(questions []entities.Question) []string {
	out := make([]string, 0, len(questions))
	for _, q := range questions {
		out = append(out, q.ID)
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPredefinedQuestions(t *testing.T) {
	tr, err := i18n.New("en")
	if err != nil {
		t.Fatalf("i18n.New: %v", err)
	}

	qs := PredefinedQuestions(tr.For("en"))
	want := []string{"attendance", "amount", "sleepover", "transportation", "foodPreference", "accessibility"}
	if got := ids(qs); !equalIDs(got, want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}

	for _, q := range qs {
		if err := q.Validate(); err != nil {
			t.Errorf("%s invalid: %v", q.ID, err)
		}
		if q.IsCustom {
			t.Errorf("%s marked custom", q.ID)
		}
	}

	if !qs[0].Required || *qs[0].Order != 0 || qs[0].QuestionText != "Will you attend the wedding?" {
		t.Errorf("attendance = %+v", qs[0])
	}
	if len(qs[1].Options) != MaxPartySize || qs[1].Options[0] != "1" || !qs[1].Required {
		t.Errorf("amount = %+v", qs[1])
	}
}

func TestEffectiveQuestions(t *testing.T) {
	five, one := 5, 1

	tests := []struct {
		name string
		cfg  *entities.RSVPConfig
		want []string
	}{
		{
			name: "nil config",
			cfg:  nil,
			want: []string{},
		},
		{
			name: "predefined filtered to enabled ids",
			cfg:  &entities.RSVPConfig{EnabledQuestionIDs: []string{"attendance", "sleepover"}},
			want: []string{"attendance", "sleepover"},
		},
		{
			name: "order first then enabled position",
			cfg: &entities.RSVPConfig{
				EnabledQuestionIDs: []string{"transportation", "sleepover", "amount", "attendance"},
			},
			want: []string{"attendance", "amount", "transportation", "sleepover"},
		},
		{
			name: "unknown enabled ids are dropped",
			cfg:  &entities.RSVPConfig{EnabledQuestionIDs: []string{"attendance", "ghost"}},
			want: []string{"attendance"},
		},
		{
			name: "custom questions sort by order and position",
			cfg: &entities.RSVPConfig{
				EnabledQuestionIDs: []string{"attendance", "sleepover", "song", "vip"},
				CustomQuestions: []entities.Question{
					{ID: "vip", QuestionText: "VIP?", Type: entities.QuestionTypeBoolean, Order: &one},
					{ID: "song", QuestionText: "Song?", Type: entities.QuestionTypeBoolean},
					{ID: "unlisted", QuestionText: "Notes?", Type: entities.QuestionTypeBoolean},
					{ID: "late", QuestionText: "Late?", Type: entities.QuestionTypeBoolean, Order: &five},
				},
			},
			want: []string{"attendance", "vip", "late", "sleepover", "song", "unlisted"},
		},
		{
			name: "duplicate ids keep the predefined question",
			cfg: &entities.RSVPConfig{
				EnabledQuestionIDs: []string{"attendance"},
				CustomQuestions: []entities.Question{
					{ID: "attendance", QuestionText: "Coming?", Type: entities.QuestionTypeBoolean},
					{ID: "dup", QuestionText: "A", Type: entities.QuestionTypeBoolean},
					{ID: "dup", QuestionText: "B", Type: entities.QuestionTypeBoolean},
				},
			},
			want: []string{"attendance", "dup"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectiveQuestions(tt.cfg, i18n.Identity)
			if !equalIDs(ids(got), tt.want) {
				t.Fatalf("EffectiveQuestions = %v, want %v", ids(got), tt.want)
			}
		})
	}
}

func TestEffectiveQuestionsDuplicateKeepsFirstDefinition(t *testing.T) {
	cfg := &entities.RSVPConfig{
		CustomQuestions: []entities.Question{
			{ID: "dup", QuestionText: "A", Type: entities.QuestionTypeBoolean},
			{ID: "dup", QuestionText: "B", Type: entities.QuestionTypeBoolean},
		},
	}
	got := EffectiveQuestions(cfg, i18n.Identity)
	if len(got) != 1 || got[0].QuestionText != "A" || !got[0].IsCustom {
		t.Fatalf("got %+v", got)
	}
}

func TestCatalogServiceDefaultsAndMalformedConfig(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	qs, err := env.catalog.Questions(ctx, "fresh", i18n.Identity)
	if err != nil {
		t.Fatalf("Questions: %v", err)
	}
	if !equalIDs(ids(qs), []string{"attendance", "amount"}) {
		t.Fatalf("default questions = %v", ids(qs))
	}

	_ = env.store.Apply(ctx, "weddings/broken/rsvpConfig/default",
		entities.Patch{}.Set("enabledQuestionIds", "not-a-list"))

	qs, err = env.catalog.Questions(ctx, "broken", i18n.Identity)
	if err != nil {
		t.Fatalf("Questions on malformed config: %v", err)
	}
	if len(qs) != 0 {
		t.Fatalf("malformed config questions = %v", ids(qs))
	}
}

func TestCatalogServiceCustomQuestions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.configure(t, "w1", "attendance")

	added, err := env.catalog.AddCustomQuestion(ctx, "w1", entities.Question{
		QuestionText: "Which song?",
		Type:         entities.QuestionTypeSelect,
		Options:      []string{"rock", "pop"},
	})
	if err != nil {
		t.Fatalf("AddCustomQuestion: %v", err)
	}
	if added.ID == "" || !added.IsCustom {
		t.Fatalf("added = %+v", added)
	}

	qs, _ := env.catalog.Questions(ctx, "w1", i18n.Identity)
	if !equalIDs(ids(qs), []string{"attendance", added.ID}) {
		t.Fatalf("questions = %v", ids(qs))
	}

	if _, err := env.catalog.AddCustomQuestion(ctx, "w1", entities.Question{
		ID: "amount", QuestionText: "How many?", Type: entities.QuestionTypeBoolean,
	}); !errors.Is(err, entities.ErrDuplicateQuestionID) {
		t.Errorf("duplicate of predefined err = %v", err)
	}
	if _, err := env.catalog.AddCustomQuestion(ctx, "w1", entities.Question{
		ID: "empty", QuestionText: "Pick", Type: entities.QuestionTypeSelect,
	}); !errors.Is(err, entities.ErrInvalidQuestion) {
		t.Errorf("select without options err = %v", err)
	}

	updated, err := env.catalog.UpdateCustomQuestion(ctx, "w1", added.ID, entities.Question{
		QuestionText: "Favourite song?", Type: entities.QuestionTypeSelect, Options: []string{"jazz"},
	})
	if err != nil {
		t.Fatalf("UpdateCustomQuestion: %v", err)
	}
	if updated.ID != added.ID || updated.Options[0] != "jazz" {
		t.Fatalf("updated = %+v", updated)
	}

	if _, err := env.catalog.UpdateCustomQuestion(ctx, "w1", "missing", *updated); !errors.Is(err, entities.ErrQuestionNotFound) {
		t.Errorf("update missing err = %v", err)
	}

	if err := env.catalog.RemoveCustomQuestion(ctx, "w1", added.ID); err != nil {
		t.Fatalf("RemoveCustomQuestion: %v", err)
	}
	cfg, _ := env.catalog.Config(ctx, "w1")
	if len(cfg.CustomQuestions) != 0 || cfg.IsEnabled(added.ID) {
		t.Fatalf("config after remove = %+v", cfg)
	}
}

func TestCatalogServiceRejectsUnsafeQuestionIDs(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.configure(t, "w1", "attendance")

	tests := []struct {
		name string
		id   string
	}{
		{"colon", "plus:one"},
		{"space", "plus one"},
		{"too long", strings.Repeat("a", 41)},
		{"slash", "a/b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.catalog.AddCustomQuestion(ctx, "w1", entities.Question{
				ID: tt.id, QuestionText: "Bringing a plus one?", Type: entities.QuestionTypeBoolean,
			})
			if !errors.Is(err, entities.ErrInvalidQuestion) {
				t.Fatalf("err = %v, want ErrInvalidQuestion", err)
			}
		})
	}

	cfg, _ := env.catalog.Config(ctx, "w1")
	if len(cfg.CustomQuestions) != 0 {
		t.Fatalf("custom questions = %v", ids(cfg.CustomQuestions))
	}

	if _, err := env.catalog.AddCustomQuestion(ctx, "w1", entities.Question{
		ID: "plus_one-" + strings.Repeat("x", 31), QuestionText: "Bringing a plus one?", Type: entities.QuestionTypeBoolean,
	}); err != nil {
		t.Fatalf("40 character id: %v", err)
	}
}

func TestCatalogServiceSetEnabledAndReorder(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.configure(t, "w1", "attendance")

	if err := env.catalog.SetEnabled(ctx, "w1", "sleepover", true); err != nil {
		t.Fatalf("SetEnabled: %v", err)
	}
	if err := env.catalog.SetEnabled(ctx, "w1", "transportation", true); err != nil {
		t.Fatalf("SetEnabled: %v", err)
	}
	if err := env.catalog.SetEnabled(ctx, "w1", "nope", true); !errors.Is(err, entities.ErrQuestionNotFound) {
		t.Errorf("SetEnabled unknown err = %v", err)
	}

	if err := env.catalog.Reorder(ctx, "w1", []string{"transportation", "attendance", "sleepover"}); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	qs, _ := env.catalog.Questions(ctx, "w1", i18n.Identity)
	if !equalIDs(ids(qs), []string{"attendance", "transportation", "sleepover"}) {
		t.Fatalf("questions = %v", ids(qs))
	}

	if err := env.catalog.SetEnabled(ctx, "w1", "transportation", false); err != nil {
		t.Fatalf("SetEnabled false: %v", err)
	}
	qs, _ = env.catalog.Questions(ctx, "w1", i18n.Identity)
	if !equalIDs(ids(qs), []string{"attendance", "sleepover"}) {
		t.Fatalf("questions after disable = %v", ids(qs))
	}
}
