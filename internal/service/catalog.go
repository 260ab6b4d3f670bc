package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
	"github.com/ofirte/wedding-sub001/internal/i18n"
	"github.com/ofirte/wedding-sub001/internal/infra/docstore"
	"github.com/ofirte/wedding-sub001/internal/repository"
)

// MaxPartySize is the largest option of the predefined amount question.
const MaxPartySize = 10

// FoodPreferenceOptions are the raw option values of the foodPreference question.
var FoodPreferenceOptions = []string{"regular", "vegetarian", "vegan", "glutenFree"}

func intPtr(v int) *int { return &v }

func booleanLabels(t i18n.Func, id string) *entities.BooleanOptions {
	return &entities.BooleanOptions{
		TrueOption:  t("rsvp.questions."+id+".true", nil),
		FalseOption: t("rsvp.questions."+id+".false", nil),
	}
}

// PredefinedQuestions returns the built-in question templates with
// text translated by t.
func PredefinedQuestions(t i18n.Func) []entities.Question {
	amounts := make([]string, 0, MaxPartySize)
	for i := 1; i <= MaxPartySize; i++ {
		amounts = append(amounts, strconv.Itoa(i))
	}

	q := func(id string, typ entities.QuestionType) entities.Question {
		return entities.Question{
			ID:           id,
			QuestionText: t("rsvp.questions."+id+".text", nil),
			DisplayName:  t("rsvp.questions."+id+".label", nil),
			Type:         typ,
		}
	}

	attendance := q(entities.QuestionAttendance, entities.QuestionTypeBoolean)
	attendance.BooleanOptions = booleanLabels(t, entities.QuestionAttendance)
	attendance.Required = true
	attendance.Order = intPtr(0)

	amount := q(entities.QuestionAmount, entities.QuestionTypeSelect)
	amount.Options = amounts
	amount.Required = true
	amount.Order = intPtr(1)

	sleepover := q(entities.QuestionSleepover, entities.QuestionTypeBoolean)
	sleepover.BooleanOptions = booleanLabels(t, entities.QuestionSleepover)

	transportation := q(entities.QuestionTransportation, entities.QuestionTypeBoolean)
	transportation.BooleanOptions = booleanLabels(t, entities.QuestionTransportation)

	food := q(entities.QuestionFoodPreference, entities.QuestionTypeSelect)
	food.Options = append([]string(nil), FoodPreferenceOptions...)

	accessibility := q(entities.QuestionAccessibility, entities.QuestionTypeBoolean)
	accessibility.BooleanOptions = booleanLabels(t, entities.QuestionAccessibility)

	return []entities.Question{attendance, amount, sleepover, transportation, food, accessibility}
}

// IsPredefined reports whether id names a built-in question.
func IsPredefined(id string) bool {
	for _, q := range PredefinedQuestions(i18n.Identity) {
		if q.ID == id {
			return true
		}
	}
	return false
}

// DefaultRSVPConfig is used for weddings that never saved a configuration.
func DefaultRSVPConfig() *entities.RSVPConfig {
	return &entities.RSVPConfig{
		EnabledQuestionIDs: []string{entities.QuestionAttendance, entities.QuestionAmount},
		CustomQuestions:    []entities.Question{},
	}
}

// EffectiveQuestions resolves the ordered question list of a configuration:
// predefined questions listed in EnabledQuestionIDs plus every custom
// question, sorted by Order and then by position in EnabledQuestionIDs.
// Unknown enabled ids are dropped. A custom question whose id repeats a
// predefined or earlier custom id is dropped.
func EffectiveQuestions(cfg *entities.RSVPConfig, t i18n.Func) []entities.Question {
	if cfg == nil {
		return []entities.Question{}
	}

	out := make([]entities.Question, 0, len(cfg.EnabledQuestionIDs)+len(cfg.CustomQuestions))
	seen := make(map[string]bool)

	for _, q := range PredefinedQuestions(t) {
		seen[q.ID] = true
		if cfg.IsEnabled(q.ID) {
			out = append(out, q)
		}
	}

	for _, q := range cfg.CustomQuestions {
		if seen[q.ID] || q.Validate() != nil {
			continue
		}
		seen[q.ID] = true
		q.IsCustom = true
		out = append(out, q)
	}

	order := func(q entities.Question) int {
		if q.Order == nil {
			return math.MaxInt
		}
		return *q.Order
	}
	position := func(q entities.Question) int {
		if p := cfg.Position(q.ID); p >= 0 {
			return p
		}
		return math.MaxInt
	}

	sort.SliceStable(out, func(i, j int) bool {
		oi, oj := order(out[i]), order(out[j])
		if oi != oj {
			return oi < oj
		}
		return position(out[i]) < position(out[j])
	})

	return out
}

// CatalogService manages the per-wedding question configuration.
type CatalogService struct {
	configs RSVPConfigRepository
	logger  *zap.Logger
}

func NewCatalogService(configs RSVPConfigRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{configs: configs, logger: logger}
}

// Config returns the wedding configuration, or the default one when none was saved.
func (s *CatalogService) Config(ctx context.Context, weddingID string) (*entities.RSVPConfig, error) {
	cfg, err := s.configs.Get(ctx, weddingID)
	if err != nil {
		if errors.Is(err, repository.ErrRSVPConfigNotFound) {
			return DefaultRSVPConfig(), nil
		}
		return nil, fmt.Errorf("get rsvp config: %w", err)
	}
	return cfg, nil
}

// Questions returns the effective question list of a wedding.
// A malformed configuration is logged and yields no questions; store
// failures are returned.
func (s *CatalogService) Questions(ctx context.Context, weddingID string, t i18n.Func) ([]entities.Question, error) {
	cfg, err := s.Config(ctx, weddingID)
	if err != nil {
		if errors.Is(err, docstore.ErrMalformed) {
			s.logger.Error("malformed rsvp config",
				zap.String("wedding_id", weddingID),
				zap.Error(err),
			)
			return []entities.Question{}, nil
		}
		return nil, err
	}
	return EffectiveQuestions(cfg, t), nil
}

// SaveConfig validates and stores a full configuration.
func (s *CatalogService) SaveConfig(ctx context.Context, weddingID string, cfg *entities.RSVPConfig) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}
	if err := s.configs.Save(ctx, weddingID, cfg); err != nil {
		return fmt.Errorf("save rsvp config: %w", err)
	}

	s.logger.Info("rsvp config saved",
		zap.String("wedding_id", weddingID),
		zap.Int("enabled", len(cfg.EnabledQuestionIDs)),
		zap.Int("custom", len(cfg.CustomQuestions)),
	)
	return nil
}

func validateConfig(cfg *entities.RSVPConfig) error {
	seen := make(map[string]bool)
	for _, q := range PredefinedQuestions(i18n.Identity) {
		seen[q.ID] = true
	}

	for i := range cfg.CustomQuestions {
		q := &cfg.CustomQuestions[i]
		q.IsCustom = true
		if err := q.Validate(); err != nil {
			return fmt.Errorf("custom question %q: %w", q.ID, err)
		}
		if seen[q.ID] {
			return fmt.Errorf("custom question %q: %w", q.ID, entities.ErrDuplicateQuestionID)
		}
		seen[q.ID] = true
	}

	ids := make([]string, 0, len(cfg.EnabledQuestionIDs))
	unique := make(map[string]bool)
	for _, id := range cfg.EnabledQuestionIDs {
		if !unique[id] {
			unique[id] = true
			ids = append(ids, id)
		}
	}
	cfg.EnabledQuestionIDs = ids
	return nil
}

// AddCustomQuestion appends a custom question and enables it.
// An empty id is replaced by a generated one.
func (s *CatalogService) AddCustomQuestion(ctx context.Context, weddingID string, q entities.Question) (*entities.Question, error) {
	cfg, err := s.Config(ctx, weddingID)
	if err != nil {
		return nil, err
	}

	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	q.IsCustom = true

	cfg.CustomQuestions = append(cfg.CustomQuestions, q)
	cfg.Enable(q.ID)

	if err := s.SaveConfig(ctx, weddingID, cfg); err != nil {
		return nil, err
	}
	return &q, nil
}

// UpdateCustomQuestion replaces the definition of an existing custom question.
func (s *CatalogService) UpdateCustomQuestion(ctx context.Context, weddingID, questionID string, q entities.Question) (*entities.Question, error) {
	cfg, err := s.Config(ctx, weddingID)
	if err != nil {
		return nil, err
	}

	existing, ok := cfg.CustomQuestion(questionID)
	if !ok {
		return nil, entities.ErrQuestionNotFound
	}

	q.ID = questionID
	q.IsCustom = true
	*existing = q

	if err := s.SaveConfig(ctx, weddingID, cfg); err != nil {
		return nil, err
	}
	return &q, nil
}

// RemoveCustomQuestion deletes a custom question and its enabled entry.
// Stored answers to it become stale and are ignored from then on.
func (s *CatalogService) RemoveCustomQuestion(ctx context.Context, weddingID, questionID string) error {
	cfg, err := s.Config(ctx, weddingID)
	if err != nil {
		return err
	}

	if _, ok := cfg.CustomQuestion(questionID); !ok {
		return entities.ErrQuestionNotFound
	}

	kept := make([]entities.Question, 0, len(cfg.CustomQuestions))
	for _, q := range cfg.CustomQuestions {
		if q.ID != questionID {
			kept = append(kept, q)
		}
	}
	cfg.CustomQuestions = kept
	cfg.Disable(questionID)

	return s.SaveConfig(ctx, weddingID, cfg)
}

// SetEnabled toggles a predefined question, or moves a custom question in or
// out of the ordered enabled list.
func (s *CatalogService) SetEnabled(ctx context.Context, weddingID, questionID string, enabled bool) error {
	cfg, err := s.Config(ctx, weddingID)
	if err != nil {
		return err
	}

	if _, ok := cfg.CustomQuestion(questionID); !ok && !IsPredefined(questionID) {
		return entities.ErrQuestionNotFound
	}

	if enabled {
		cfg.Enable(questionID)
	} else {
		cfg.Disable(questionID)
	}
	return s.SaveConfig(ctx, weddingID, cfg)
}

// Reorder replaces the enabled id list, which also sets the order of
// questions without an explicit Order.
func (s *CatalogService) Reorder(ctx context.Context, weddingID string, ids []string) error {
	cfg, err := s.Config(ctx, weddingID)
	if err != nil {
		return err
	}
	cfg.EnabledQuestionIDs = append([]string(nil), ids...)
	return s.SaveConfig(ctx, weddingID, cfg)
}
