package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ofirte/wedding-sub001/internal/infra/docstore"
)

// collection reads and writes typed records stored one per document.
type collection[T any] struct {
	store    docstore.Store
	notFound error
}

func (c collection[T]) get(ctx context.Context, path string) (*T, error) {
	doc, err := c.store.Get(ctx, path)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, c.notFound
		}
		return nil, err
	}

	var v T
	if err := docstore.Decode(doc.Data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c collection[T]) list(ctx context.Context, path string) ([]*T, error) {
	docs, err := c.store.List(ctx, path)
	if err != nil {
		return nil, err
	}

	out := make([]*T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := docstore.Decode(doc.Data, &v); err != nil {
			return nil, fmt.Errorf("%s: %w", doc.Path, err)
		}
		out = append(out, &v)
	}
	return out, nil
}

// put replaces the document at path with the encoding of v.
func (c collection[T]) put(ctx context.Context, path string, v *T) error {
	var current map[string]any
	doc, err := c.store.Get(ctx, path)
	switch {
	case err == nil:
		current = doc.Data
	case !errors.Is(err, docstore.ErrNotFound):
		return err
	}

	patch, err := docstore.ReplaceFrom(v, current)
	if err != nil {
		return err
	}
	return c.store.Apply(ctx, path, patch)
}

func (c collection[T]) exists(ctx context.Context, path string) error {
	if _, err := c.store.Get(ctx, path); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return c.notFound
		}
		return err
	}
	return nil
}
