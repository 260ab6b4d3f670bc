package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
	"github.com/ofirte/wedding-sub001/internal/infra/docstore"
)

var ErrResponseNotFound = errors.New("response not found")

// ResponseRecord is a stored RSVP response before it is reconciled
// against a question catalog.
type ResponseRecord struct {
	GuestID string
	Fields  map[string]any
}

// ResponseRepository stores raw RSVP response documents.
type ResponseRepository struct {
	store docstore.Store
}

func NewResponseRepository(store docstore.Store) *ResponseRepository {
	return &ResponseRepository{store: store}
}

// Get returns the stored fields of a guest's response.
// Returns ErrResponseNotFound if the guest never answered.
func (r *ResponseRepository) Get(ctx context.Context, weddingID, guestID string) (*ResponseRecord, error) {
	path, err := weddingDocument(weddingID, responsesCollection, guestID)
	if err != nil {
		return nil, err
	}

	doc, err := r.store.Get(ctx, path)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrResponseNotFound
		}
		return nil, fmt.Errorf("get response: %w", err)
	}

	return &ResponseRecord{GuestID: guestID, Fields: doc.Data}, nil
}

// List returns every stored response of a wedding.
func (r *ResponseRepository) List(ctx context.Context, weddingID string) ([]*ResponseRecord, error) {
	path, err := weddingCollection(weddingID, responsesCollection)
	if err != nil {
		return nil, err
	}

	docs, err := r.store.List(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}

	return toRecords(docs), nil
}

// Apply merges patch into the guest's response document in one write.
func (r *ResponseRepository) Apply(ctx context.Context, weddingID, guestID string, patch entities.Patch) error {
	path, err := weddingDocument(weddingID, responsesCollection, guestID)
	if err != nil {
		return err
	}

	if err := r.store.Apply(ctx, path, patch); err != nil {
		return fmt.Errorf("apply response patch: %w", err)
	}
	return nil
}

func (r *ResponseRepository) Delete(ctx context.Context, weddingID, guestID string) error {
	path, err := weddingDocument(weddingID, responsesCollection, guestID)
	if err != nil {
		return err
	}

	if err := r.store.Delete(ctx, path); err != nil {
		return fmt.Errorf("delete response: %w", err)
	}
	return nil
}

// Watch calls onData with every response of the wedding after each change.
func (r *ResponseRepository) Watch(
	ctx context.Context,
	weddingID string,
	onData func([]*ResponseRecord),
	onError func(error),
) func() {
	path, err := weddingCollection(weddingID, responsesCollection)
	if err != nil {
		onError(err)
		return func() {}
	}

	return r.store.Subscribe(ctx, path, func(docs []*docstore.Document) {
		onData(toRecords(docs))
	}, onError)
}

func toRecords(docs []*docstore.Document) []*ResponseRecord {
	out := make([]*ResponseRecord, 0, len(docs))
	for _, d := range docs {
		out = append(out, &ResponseRecord{GuestID: d.ID, Fields: d.Data})
	}
	return out
}
