package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
)

type BudgetService struct {
	repository BudgetRepository
	now        func() time.Time
}

func NewBudgetService(repository BudgetRepository) *BudgetService {
	return &BudgetService{repository: repository, now: time.Now}
}

func (s *BudgetService) Create(ctx context.Context, weddingID string, item *entities.BudgetItem) (*entities.BudgetItem, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	item.ID = uuid.NewString()
	item.CreatedAt = now
	item.UpdatedAt = now

	if err := s.repository.Save(ctx, weddingID, item); err != nil {
		return nil, fmt.Errorf("create budget item: %w", err)
	}
	return item, nil
}

func (s *BudgetService) Get(ctx context.Context, weddingID, itemID string) (*entities.BudgetItem, error) {
	return s.repository.Get(ctx, weddingID, itemID)
}

// List returns the items grouped by category, then by name.
func (s *BudgetService) List(ctx context.Context, weddingID string) ([]*entities.BudgetItem, error) {
	items, err := s.repository.List(ctx, weddingID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}

func (s *BudgetService) Update(ctx context.Context, weddingID, itemID string, in *entities.BudgetItem) (*entities.BudgetItem, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	item, err := s.repository.Get(ctx, weddingID, itemID)
	if err != nil {
		return nil, err
	}

	in.ID = item.ID
	in.CreatedAt = item.CreatedAt
	in.UpdatedAt = s.now().UTC()

	if err := s.repository.Save(ctx, weddingID, in); err != nil {
		return nil, fmt.Errorf("update budget item: %w", err)
	}
	return in, nil
}

func (s *BudgetService) Delete(ctx context.Context, weddingID, itemID string) error {
	return s.repository.Delete(ctx, weddingID, itemID)
}

// Summary totals the wedding budget.
func (s *BudgetService) Summary(ctx context.Context, weddingID string) (*entities.BudgetSummary, error) {
	items, err := s.repository.List(ctx, weddingID)
	if err != nil {
		return nil, err
	}
	return SummarizeBudget(items), nil
}

// SummarizeBudget totals items. Category totals use the actual price when
// known and the expected price otherwise.
func SummarizeBudget(items []*entities.BudgetItem) *entities.BudgetSummary {
	sum := &entities.BudgetSummary{ByCategory: make(map[string]float64)}
	for _, item := range items {
		sum.Items++
		sum.TotalExpected += item.ExpectedPrice
		sum.TotalActual += item.ActualPrice
		sum.TotalDownPayment += item.DownPayment
		sum.TotalRemaining += item.Remaining()

		price := item.ActualPrice
		if price == 0 {
			price = item.ExpectedPrice
		}
		sum.ByCategory[item.Category] += price
	}
	return sum
}
