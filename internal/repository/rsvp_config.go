package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
	"github.com/ofirte/wedding-sub001/internal/infra/docstore"
)

var ErrRSVPConfigNotFound = errors.New("rsvp config not found")

// RSVPConfigRepository stores the per-wedding questionnaire configuration.
type RSVPConfigRepository struct {
	store docstore.Store
	docs  collection[entities.RSVPConfig]
}

func NewRSVPConfigRepository(store docstore.Store) *RSVPConfigRepository {
	return &RSVPConfigRepository{
		store: store,
		docs:  collection[entities.RSVPConfig]{store: store, notFound: ErrRSVPConfigNotFound},
	}
}

// Get retrieves the configuration of a wedding.
// Returns ErrRSVPConfigNotFound if none was saved yet.
func (r *RSVPConfigRepository) Get(ctx context.Context, weddingID string) (*entities.RSVPConfig, error) {
	path, err := weddingDocument(weddingID, rsvpConfigCollection, defaultRSVPConfigDocID)
	if err != nil {
		return nil, err
	}

	cfg, err := r.docs.get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("get rsvp config: %w", err)
	}
	return cfg, nil
}

// Save overwrites both configuration fields in a single merge.
func (r *RSVPConfigRepository) Save(ctx context.Context, weddingID string, cfg *entities.RSVPConfig) error {
	path, err := weddingDocument(weddingID, rsvpConfigCollection, defaultRSVPConfigDocID)
	if err != nil {
		return err
	}

	enabled := cfg.EnabledQuestionIDs
	if enabled == nil {
		enabled = []string{}
	}
	custom := make([]any, 0, len(cfg.CustomQuestions))
	for _, q := range cfg.CustomQuestions {
		fields, err := docstore.Encode(q)
		if err != nil {
			return err
		}
		custom = append(custom, fields)
	}

	ids := make([]any, 0, len(enabled))
	for _, id := range enabled {
		ids = append(ids, id)
	}

	patch := entities.Patch{}.
		Set("enabledQuestionIds", ids).
		Set("customQuestions", custom)

	if err := r.store.Apply(ctx, path, patch); err != nil {
		return fmt.Errorf("save rsvp config: %w", err)
	}
	return nil
}
