// Package firestore implements the document store on Cloud Firestore.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	gcfirestore "cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
	"github.com/ofirte/wedding-sub001/internal/infra/docstore"
)

type Config struct {
	ProjectID       string
	CredentialsFile string
}

// DocumentStore is a docstore.Client backed by Firestore.
type DocumentStore struct {
	cfg    Config
	logger *zap.Logger

	mu     sync.RWMutex
	client *gcfirestore.Client
}

func NewDocumentStore(cfg Config, logger *zap.Logger) *DocumentStore {
	return &DocumentStore{cfg: cfg, logger: logger}
}

// Connect initializes the Firebase app and its Firestore client.
func (s *DocumentStore) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return nil
	}

	var opts []option.ClientOption
	if s.cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(s.cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: s.cfg.ProjectID}, opts...)
	if err != nil {
		return fmt.Errorf("init firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return fmt.Errorf("init firestore client: %w", err)
	}

	s.client = client
	s.logger.Info("firestore document store connected", zap.String("project_id", s.cfg.ProjectID))
	return nil
}

func (s *DocumentStore) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client != nil
}

func (s *DocumentStore) Close() error {
	s.mu.Lock()
	client := s.client
	s.client = nil
	s.mu.Unlock()

	if client == nil {
		return nil
	}
	return client.Close()
}

func (s *DocumentStore) fs() (*gcfirestore.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.client == nil {
		return nil, docstore.ErrNotReady
	}
	return s.client, nil
}

func (s *DocumentStore) Get(ctx context.Context, path string) (*docstore.Document, error) {
	if _, _, err := docstore.SplitDocumentPath(path); err != nil {
		return nil, err
	}
	client, err := s.fs()
	if err != nil {
		return nil, err
	}

	snap, err := client.Doc(path).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, docstore.ErrNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return toDocument(path, snap), nil
}

func (s *DocumentStore) List(ctx context.Context, collection string) ([]*docstore.Document, error) {
	if err := docstore.ValidateCollectionPath(collection); err != nil {
		return nil, err
	}
	client, err := s.fs()
	if err != nil {
		return nil, err
	}

	iter := client.Collection(collection).OrderBy(gcfirestore.DocumentID, gcfirestore.Asc).Documents(ctx)
	defer iter.Stop()

	docs := make([]*docstore.Document, 0)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list documents: %w", err)
		}
		docs = append(docs, toDocument(docstore.Join(collection, snap.Ref.ID), snap))
	}

	return docs, nil
}

// Apply writes the patch with a merging Set, so cleared and set fields land
// in the same write.
func (s *DocumentStore) Apply(ctx context.Context, path string, patch entities.Patch) error {
	if _, _, err := docstore.SplitDocumentPath(path); err != nil {
		return err
	}
	client, err := s.fs()
	if err != nil {
		return err
	}

	ref := client.Doc(path)

	if len(patch) == 0 {
		_, err := ref.Create(ctx, map[string]any{})
		if err != nil && status.Code(err) != codes.AlreadyExists {
			return fmt.Errorf("apply patch: %w", err)
		}
		return nil
	}

	data := patch.Sets()
	for _, field := range patch.Clears() {
		data[field] = gcfirestore.Delete
	}

	if _, err := ref.Set(ctx, data, gcfirestore.MergeAll); err != nil {
		return fmt.Errorf("apply patch: %w", err)
	}

	return nil
}

func (s *DocumentStore) Delete(ctx context.Context, path string) error {
	if _, _, err := docstore.SplitDocumentPath(path); err != nil {
		return err
	}
	client, err := s.fs()
	if err != nil {
		return err
	}

	if _, err := client.Doc(path).Delete(ctx); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	return nil
}

// Subscribe streams collection snapshots from a Firestore listener.
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
	client, err := s.fs()
	if err != nil {
		onError(err)
		return func() {}
	}

	ctx, cancel := context.WithCancel(ctx)
	iter := client.Collection(collection).OrderBy(gcfirestore.DocumentID, gcfirestore.Asc).Snapshots(ctx)

	go func() {
		defer iter.Stop()

		for {
			qs, err := iter.Next()
			if err != nil {
				if ctx.Err() == nil && status.Code(err) != codes.Canceled {
					onError(fmt.Errorf("collection snapshot: %w", err))
				}
				return
			}

			snaps, err := qs.Documents.GetAll()
			if err != nil {
				onError(fmt.Errorf("collection snapshot: %w", err))
				continue
			}

			docs := make([]*docstore.Document, 0, len(snaps))
			for _, snap := range snaps {
				docs = append(docs, toDocument(docstore.Join(collection, snap.Ref.ID), snap))
			}

			s.logger.Debug("collection snapshot",
				zap.String("collection", collection),
				zap.Int("documents", len(docs)),
			)
			onData(docs)
		}
	}()

	return cancel
}

func toDocument(path string, snap *gcfirestore.DocumentSnapshot) *docstore.Document {
	data := snap.Data()
	if data == nil {
		data = map[string]any{}
	}
	return &docstore.Document{
		ID:        snap.Ref.ID,
		Path:      path,
		Data:      data,
		UpdatedAt: snap.UpdateTime,
	}
}
