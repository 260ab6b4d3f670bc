package entities

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidBudgetItem = errors.New("invalid budget item")

// BudgetItem is a single planned or paid wedding expense.
type BudgetItem struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	ExpectedPrice float64   `json:"expectedPrice"`
	ActualPrice   float64   `json:"actualPrice"`
	DownPayment   float64   `json:"downPayment"`
	ContractURL   string    `json:"contractUrl,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Validate checks the budget item fields.
func (b *BudgetItem) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrInvalidBudgetItem
	}
	if b.ExpectedPrice < 0 || b.ActualPrice < 0 || b.DownPayment < 0 {
		return ErrInvalidBudgetItem
	}
	return nil
}

// Remaining is what is still owed after the down payment.
func (b *BudgetItem) Remaining() float64 {
	price := b.ActualPrice
	if price == 0 {
		price = b.ExpectedPrice
	}
	return max(0, price-b.DownPayment)
}

// BudgetSummary aggregates a wedding budget.
type BudgetSummary struct {
	TotalExpected    float64            `json:"totalExpected"`
	TotalActual      float64            `json:"totalActual"`
	TotalDownPayment float64            `json:"totalDownPayment"`
	TotalRemaining   float64            `json:"totalRemaining"`
	ByCategory       map[string]float64 `json:"byCategory"` // actual, or expected when unknown
	Items            int                `json:"items"`
}
