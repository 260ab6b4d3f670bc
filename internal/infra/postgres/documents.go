package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
	"github.com/ofirte/wedding-sub001/internal/infra/docstore"
)

// notifyChannel is the LISTEN channel fed by the documents trigger.
const notifyChannel = "document_changes"

// DocumentStore is a docstore.Client backed by a jsonb documents table.
type DocumentStore struct {
	dsn    string
	cfg    PoolConfig
	pool   atomic.Pointer[pgxpool.Pool]
	logger *zap.Logger
}

// NewDocumentStore creates a store; call Connect before use.
func NewDocumentStore(dsn string, cfg PoolConfig, logger *zap.Logger) *DocumentStore {
	return &DocumentStore{dsn: dsn, cfg: cfg, logger: logger}
}

// Connect opens the pool and applies migrations.
func (s *DocumentStore) Connect(ctx context.Context) error {
	if s.IsReady() {
		return nil
	}

	pool, err := NewPool(ctx, s.dsn, s.cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}

	if err := Migrate(ctx, NewTransactor(pool)); err != nil {
		pool.Close()
		return fmt.Errorf("migrate: %w", err)
	}

	s.pool.Store(pool)
	s.logger.Info("postgres document store connected")
	return nil
}

// IsReady reports whether Connect succeeded and Close was not called.
func (s *DocumentStore) IsReady() bool {
	return s.pool.Load() != nil
}

// Close releases the pool.
func (s *DocumentStore) Close() error {
	if pool := s.pool.Swap(nil); pool != nil {
		pool.Close()
	}
	return nil
}

func (s *DocumentStore) db() (*pgxpool.Pool, error) {
	pool := s.pool.Load()
	if pool == nil {
		return nil, docstore.ErrNotReady
	}
	return pool, nil
}

// Get retrieves a single document.
func (s *DocumentStore) Get(ctx context.Context, path string) (*docstore.Document, error) {
	if _, _, err := docstore.SplitDocumentPath(path); err != nil {
		return nil, err
	}
	db, err := s.db()
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, data, updated_at
		FROM documents
		WHERE path = $1
	`

	doc := docstore.Document{Path: path}
	err = db.QueryRow(ctx, query, path).Scan(&doc.ID, &doc.Data, &doc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, docstore.ErrNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	if doc.Data == nil {
		doc.Data = map[string]any{}
	}

	return &doc, nil
}

// List retrieves the documents of a collection ordered by id.
func (s *DocumentStore) List(ctx context.Context, collection string) ([]*docstore.Document, error) {
	if err := docstore.ValidateCollectionPath(collection); err != nil {
		return nil, err
	}
	db, err := s.db()
	if err != nil {
		return nil, err
	}

	query := `
		SELECT path, id, data, updated_at
		FROM documents
		WHERE collection = $1
		ORDER BY id
	`

	rows, err := db.Query(ctx, query, collection)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := make([]*docstore.Document, 0)
	for rows.Next() {
		var d docstore.Document
		if err := rows.Scan(&d.Path, &d.ID, &d.Data, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("list documents: %w", err)
		}
		if d.Data == nil {
			d.Data = map[string]any{}
		}
		docs = append(docs, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	return docs, nil
}

// Apply merges a patch in a single upsert: cleared keys are removed and set
// keys are overwritten within the same statement.
func (s *DocumentStore) Apply(ctx context.Context, path string, patch entities.Patch) error {
	collection, id, err := docstore.SplitDocumentPath(path)
	if err != nil {
		return err
	}
	db, err := s.db()
	if err != nil {
		return err
	}

	clears := patch.Clears()
	if clears == nil {
		clears = []string{}
	}

	query := `
		INSERT INTO documents (path, collection, id, data, updated_at)
		VALUES ($1, $2, $3, $4::jsonb, NOW())
		ON CONFLICT (path) DO UPDATE
		SET data = (documents.data - $5::text[]) || EXCLUDED.data,
		    updated_at = NOW()
	`

	_, err = db.Exec(ctx, query, path, collection, id, patch.Sets(), clears)
	if err != nil {
		return fmt.Errorf("apply patch: %w", err)
	}

	return nil
}

// Delete removes a document.
func (s *DocumentStore) Delete(ctx context.Context, path string) error {
	if _, _, err := docstore.SplitDocumentPath(path); err != nil {
		return err
	}
	db, err := s.db()
	if err != nil {
		return err
	}

	if _, err := db.Exec(ctx, `DELETE FROM documents WHERE path = $1`, path); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	return nil
}

// Subscribe holds one pooled connection in LISTEN mode and reloads the
// collection whenever the trigger reports a change to it.
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

	ctx, cancel := context.WithCancel(ctx)
	go s.listen(ctx, collection, onData, onError)
	return cancel
}

func (s *DocumentStore) listen(
	ctx context.Context,
	collection string,
	onData func([]*docstore.Document),
	onError func(error),
) {
	db, err := s.db()
	if err != nil {
		onError(err)
		return
	}

	conn, err := db.Acquire(ctx)
	if err != nil {
		onError(fmt.Errorf("acquire listen connection: %w", err))
		return
	}
	defer func() {
		unlistenCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := conn.Exec(unlistenCtx, "UNLISTEN "+notifyChannel); err != nil {
			conn.Conn().Close(unlistenCtx)
		}
		conn.Release()
	}()

	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		onError(fmt.Errorf("listen: %w", err))
		return
	}

	reload := func() {
		docs, err := s.List(ctx, collection)
		if err != nil {
			if ctx.Err() == nil {
				onError(err)
			}
			return
		}
		onData(docs)
	}

	reload()

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() == nil {
				onError(fmt.Errorf("wait for notification: %w", err))
			}
			return
		}

		if n.Payload != collection {
			continue
		}

		s.logger.Debug("collection changed", zap.String("collection", collection))
		reload()
	}
}
