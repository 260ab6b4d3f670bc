package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
	"github.com/ofirte/wedding-sub001/internal/repository"
	"github.com/ofirte/wedding-sub001/internal/storage"
)

func TestSummarizeBudget(t *testing.T) {
	items := []*entities.BudgetItem{
		{Name: "Venue", Category: "venue", ExpectedPrice: 10000, ActualPrice: 12000, DownPayment: 5000},
		{Name: "DJ", Category: "music", ExpectedPrice: 3000, DownPayment: 500},
		{Name: "Band", Category: "music", ExpectedPrice: 1000, DownPayment: 1500},
	}

	sum := SummarizeBudget(items)

	if sum.Items != 3 || sum.TotalExpected != 14000 || sum.TotalActual != 12000 || sum.TotalDownPayment != 7000 {
		t.Fatalf("totals = %+v", sum)
	}
	// 7000 + 2500 + 0 (overpaid items never go negative)
	if sum.TotalRemaining != 9500 {
		t.Errorf("remaining = %v", sum.TotalRemaining)
	}
	if sum.ByCategory["venue"] != 12000 || sum.ByCategory["music"] != 4000 {
		t.Errorf("by category = %v", sum.ByCategory)
	}

	empty := SummarizeBudget(nil)
	if empty.Items != 0 || empty.ByCategory == nil {
		t.Errorf("empty summary = %+v", empty)
	}
}

func TestBudgetServiceCRUD(t *testing.T) {
	ctx := context.Background()
	svc := NewBudgetService(repository.NewBudgetRepository(storage.NewDocumentStore()))

	venue, err := svc.Create(ctx, "w1", &entities.BudgetItem{Name: "Venue", Category: "venue", ExpectedPrice: 100})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, "w1", &entities.BudgetItem{Name: "Flowers", Category: "decor", ExpectedPrice: 50}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, "w1", &entities.BudgetItem{Name: "Bad", ExpectedPrice: -1}); !errors.Is(err, entities.ErrInvalidBudgetItem) {
		t.Errorf("negative price err = %v", err)
	}

	list, err := svc.List(ctx, "w1")
	if err != nil || len(list) != 2 || list[0].Category != "decor" {
		t.Fatalf("List = %+v, %v", list, err)
	}

	updated, err := svc.Update(ctx, "w1", venue.ID, &entities.BudgetItem{Name: "Venue", Category: "venue", ExpectedPrice: 100, ActualPrice: 90})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.ID != venue.ID || !updated.CreatedAt.Equal(venue.CreatedAt) || updated.ActualPrice != 90 {
		t.Fatalf("updated = %+v", updated)
	}

	sum, err := svc.Summary(ctx, "w1")
	if err != nil || sum.ByCategory["venue"] != 90 {
		t.Fatalf("Summary = %+v, %v", sum, err)
	}

	if err := svc.Delete(ctx, "w1", venue.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, "w1", venue.ID); !errors.Is(err, repository.ErrBudgetItemNotFound) {
		t.Errorf("get deleted err = %v", err)
	}
}
