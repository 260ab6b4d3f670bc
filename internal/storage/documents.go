package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
	"github.com/ofirte/wedding-sub001/internal/infra/docstore"
)

type storedDocument struct {
	collection string
	doc        *docstore.Document
}

// DocumentStore is an in-memory docstore.Client.
type DocumentStore struct {
	mu      sync.RWMutex
	docs    map[string]storedDocument
	subs    map[string]map[int]*subscriber
	nextSub int
	ready   bool
	now     func() time.Time
}

// NewDocumentStore creates an empty, connected in-memory store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		docs:  make(map[string]storedDocument),
		subs:  make(map[string]map[int]*subscriber),
		ready: true,
		now:   time.Now,
	}
}

// Connect marks the store ready.
func (s *DocumentStore) Connect(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = true
	return nil
}

// IsReady reports whether the store accepts operations.
func (s *DocumentStore) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Close stops every subscription and rejects further operations.
func (s *DocumentStore) Close() error {
	s.mu.Lock()
	subs := s.subs
	s.subs = make(map[string]map[int]*subscriber)
	s.ready = false
	s.mu.Unlock()

	for _, byID := range subs {
		for _, sub := range byID {
			sub.stop()
		}
	}
	return nil
}

// Get returns a copy of the document at path.
func (s *DocumentStore) Get(_ context.Context, path string) (*docstore.Document, error) {
	if _, _, err := docstore.SplitDocumentPath(path); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.ready {
		return nil, docstore.ErrNotReady
	}

	stored, ok := s.docs[path]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return copyDocument(stored.doc), nil
}

// List returns copies of the documents in collection, ordered by id.
func (s *DocumentStore) List(_ context.Context, collection string) ([]*docstore.Document, error) {
	if err := docstore.ValidateCollectionPath(collection); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.ready {
		return nil, docstore.ErrNotReady
	}
	return s.snapshotLocked(collection), nil
}

// Apply merges patch into the document at path under the store lock.
func (s *DocumentStore) Apply(_ context.Context, path string, patch entities.Patch) error {
	collection, id, err := docstore.SplitDocumentPath(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if !s.ready {
		s.mu.Unlock()
		return docstore.ErrNotReady
	}

	stored, ok := s.docs[path]
	if !ok {
		stored = storedDocument{
			collection: collection,
			doc:        &docstore.Document{ID: id, Path: path, Data: map[string]any{}},
		}
	}
	patch.ApplyTo(stored.doc.Data)
	stored.doc.UpdatedAt = s.now()
	s.docs[path] = stored

	s.notifyLocked(collection)
	s.mu.Unlock()
	return nil
}

// Delete removes the document at path.
func (s *DocumentStore) Delete(_ context.Context, path string) error {
	collection, _, err := docstore.SplitDocumentPath(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if !s.ready {
		s.mu.Unlock()
		return docstore.ErrNotReady
	}

	if _, ok := s.docs[path]; !ok {
		s.mu.Unlock()
		return nil
	}
	delete(s.docs, path)

	s.notifyLocked(collection)
	s.mu.Unlock()
	return nil
}

// Subscribe delivers the current collection immediately and after every change.
// Snapshots arrive in write order; a slow subscriber skips to the latest one.
func (s *DocumentStore) Subscribe(
	ctx context.Context,
	collection string,
	onData func([]*docstore.Document),
	onError func(error),
) func() {
	if err := docstore.ValidateCollectionPath(collection); err != nil {
		onError(err)
		return func() {}
	}

	sub := newSubscriber(onData)

	s.mu.Lock()
	if !s.ready {
		s.mu.Unlock()
		onError(docstore.ErrNotReady)
		return func() {}
	}
	id := s.nextSub
	s.nextSub++
	if s.subs[collection] == nil {
		s.subs[collection] = make(map[int]*subscriber)
	}
	s.subs[collection][id] = sub
	sub.push(s.snapshotLocked(collection))
	s.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs[collection], id)
			s.mu.Unlock()
			sub.stop()
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			unsubscribe()
		case <-sub.done:
		}
	}()

	return unsubscribe
}

func (s *DocumentStore) snapshotLocked(collection string) []*docstore.Document {
	out := make([]*docstore.Document, 0)
	for _, stored := range s.docs {
		if stored.collection == collection {
			out = append(out, copyDocument(stored.doc))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// notifyLocked hands the current snapshot to every subscriber of
// collection. It runs under the write lock so snapshots are queued in write
// order; push never waits for onData.
func (s *DocumentStore) notifyLocked(collection string) {
	byID := s.subs[collection]
	if len(byID) == 0 {
		return
	}

	snapshot := s.snapshotLocked(collection)
	for _, sub := range byID {
		sub.push(snapshot)
	}
}

func copyDocument(d *docstore.Document) *docstore.Document {
	return &docstore.Document{
		ID:        d.ID,
		Path:      d.Path,
		Data:      docstore.Clone(d.Data),
		UpdatedAt: d.UpdatedAt,
	}
}

// subscriber delivers snapshots on its own goroutine. Only the latest
// undelivered snapshot is kept, since each one is complete.
type subscriber struct {
	updates chan []*docstore.Document
	done    chan struct{}
	once    sync.Once
}

func newSubscriber(onData func([]*docstore.Document)) *subscriber {
	sub := &subscriber{
		updates: make(chan []*docstore.Document, 1),
		done:    make(chan struct{}),
	}

	go func() {
		for {
			select {
			case <-sub.done:
				return
			case docs := <-sub.updates:
				onData(docs)
			}
		}
	}()

	return sub
}

func (s *subscriber) push(docs []*docstore.Document) {
	for {
		select {
		case <-s.done:
			return
		case s.updates <- docs:
			return
		default:
		}

		// Drop the stale snapshot and retry.
		select {
		case <-s.updates:
		default:
		}
	}
}

func (s *subscriber) stop() {
	s.once.Do(func() { close(s.done) })
}
