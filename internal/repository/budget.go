package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
	"github.com/ofirte/wedding-sub001/internal/infra/docstore"
)

var ErrBudgetItemNotFound = errors.New("budget item not found")

type BudgetRepository struct {
	store docstore.Store
	docs  collection[entities.BudgetItem]
}

func NewBudgetRepository(store docstore.Store) *BudgetRepository {
	return &BudgetRepository{
		store: store,
		docs:  collection[entities.BudgetItem]{store: store, notFound: ErrBudgetItemNotFound},
	}
}

func (r *BudgetRepository) Save(ctx context.Context, weddingID string, item *entities.BudgetItem) error {
	path, err := weddingDocument(weddingID, budgetCollection, item.ID)
	if err != nil {
		return err
	}
	if err := r.docs.put(ctx, path, item); err != nil {
		return fmt.Errorf("save budget item: %w", err)
	}
	return nil
}

// Get returns ErrBudgetItemNotFound for unknown ids.
func (r *BudgetRepository) Get(ctx context.Context, weddingID, itemID string) (*entities.BudgetItem, error) {
	path, err := weddingDocument(weddingID, budgetCollection, itemID)
	if err != nil {
		return nil, err
	}
	item, err := r.docs.get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("get budget item: %w", err)
	}
	return item, nil
}

func (r *BudgetRepository) List(ctx context.Context, weddingID string) ([]*entities.BudgetItem, error) {
	path, err := weddingCollection(weddingID, budgetCollection)
	if err != nil {
		return nil, err
	}
	items, err := r.docs.list(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("list budget items: %w", err)
	}
	return items, nil
}

func (r *BudgetRepository) Delete(ctx context.Context, weddingID, itemID string) error {
	path, err := weddingDocument(weddingID, budgetCollection, itemID)
	if err != nil {
		return err
	}
	if err := r.docs.exists(ctx, path); err != nil {
		return fmt.Errorf("delete budget item: %w", err)
	}
	if err := r.store.Delete(ctx, path); err != nil {
		return fmt.Errorf("delete budget item: %w", err)
	}
	return nil
}
