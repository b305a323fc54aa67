package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget represents a monthly spending limit for a category.
// Month is normalized to the first day of the month; the unique index on
// (user_id, category_id, month) is the concurrency guard against duplicate
// budgets for the same period.
type Budget struct {
	Base
	UserID     uint            `gorm:"not null;uniqueIndex:idx_budgets_owner_category_month" json:"user_id"`
	CategoryID uint            `gorm:"not null;uniqueIndex:idx_budgets_owner_category_month" json:"category_id"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Month      time.Time       `gorm:"type:date;not null;uniqueIndex:idx_budgets_owner_category_month" json:"month"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID" json:"category"`
}

// PeriodStart returns the first instant of the budget's month.
func (b *Budget) PeriodStart() time.Time {
	return time.Date(b.Month.Year(), b.Month.Month(), 1, 0, 0, 0, 0, b.Month.Location())
}

// PeriodEnd returns the first instant of the following month, so the
// budget's window is [PeriodStart, PeriodEnd).
func (b *Budget) PeriodEnd() time.Time {
	return b.PeriodStart().AddDate(0, 1, 0)
}
