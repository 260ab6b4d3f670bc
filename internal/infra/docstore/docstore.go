// Package docstore defines the document store boundary shared by the
// memory, postgres and firestore backends.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
)

var (
	ErrNotFound    = errors.New("document not found")
	ErrNotReady    = errors.New("document store is not connected")
	ErrInvalidPath = errors.New("invalid document path")
	ErrMalformed   = errors.New("malformed document")
)

// Document is a stored document: a flat-or-nested field map addressed by path.
type Document struct {
	ID        string
	Path      string
	Data      map[string]any
	UpdatedAt time.Time
}

// Store is the document store consumed by repositories.
type Store interface {
	// Get returns the document at path or ErrNotFound.
	Get(ctx context.Context, path string) (*Document, error)
	// List returns every document directly under collection.
	List(ctx context.Context, collection string) ([]*Document, error)
	// Apply merges patch into the document at path as a single atomic write,
	// creating the document if needed.
	Apply(ctx context.Context, path string, patch entities.Patch) error
	// Delete removes the document at path. Missing documents are not an error.
	Delete(ctx context.Context, path string) error
	// Subscribe calls onData with the full collection after every change until
	// the returned function is called or ctx is done.
	Subscribe(ctx context.Context, collection string, onData func([]*Document), onError func(error)) func()
}

// Client is a Store with an explicit connection lifecycle.
type Client interface {
	Store
	Connect(ctx context.Context) error
	IsReady() bool
	Close() error
}

// Join builds a slash separated path.
func Join(segments ...string) string {
	return strings.Join(segments, "/")
}

// SplitDocumentPath returns the collection and id of a document path.
// Document paths have an even number of non-empty segments.
func SplitDocumentPath(path string) (collection, id string, err error) {
	parts := strings.Split(path, "/")
	if len(parts) < 2 || len(parts)%2 != 0 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	for _, p := range parts {
		if p == "" {
			return "", "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
		}
	}
	return strings.Join(parts[:len(parts)-1], "/"), parts[len(parts)-1], nil
}

// ValidateCollectionPath checks that path addresses a collection.
func ValidateCollectionPath(path string) error {
	parts := strings.Split(path, "/")
	if len(parts)%2 != 1 {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	for _, p := range parts {
		if p == "" {
			return fmt.Errorf("%w: %q", ErrInvalidPath, path)
		}
	}
	return nil
}

// Encode converts a tagged struct into a document field map.
func Encode(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return out, nil
}

// Decode fills v from a document field map.
func Decode(data map[string]any, v any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// PatchFrom builds a patch that sets every field of v.
func PatchFrom(v any) (entities.Patch, error) {
	fields, err := Encode(v)
	if err != nil {
		return nil, err
	}
	p := entities.Patch{}
	for k, val := range fields {
		p.Set(k, val)
	}
	return p, nil
}

// Time reads a timestamp field stored either natively or as RFC 3339 text.
func Time(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	}
	return time.Time{}, false
}

// Clone returns a deep copy of a field map, copying nested maps and slices.
func Clone(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return Clone(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// ReplaceFrom builds a patch that turns current into the encoding of v:
// every field of v is set and every other key of current is cleared.
func ReplaceFrom(v any, current map[string]any) (entities.Patch, error) {
	p, err := PatchFrom(v)
	if err != nil {
		return nil, err
	}
	for k := range current {
		if _, ok := p[k]; !ok {
			p.Clear(k)
		}
	}
	return p, nil
}
