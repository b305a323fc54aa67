package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/k1llushka/vtb-finance-tracker1/internal/errors"
	"github.com/k1llushka/vtb-finance-tracker1/internal/models"
	"github.com/k1llushka/vtb-finance-tracker1/internal/money"
	"github.com/k1llushka/vtb-finance-tracker1/internal/pagination"
)

// uncategorizedLabel groups transactions whose category was deleted.
const uncategorizedLabel = "Uncategorized"

// Advisory thresholds. Fixed by design: per-budget alert thresholds were
// considered and rejected in favor of one canonical rule set.
var (
	nearLimitRatio     = decimal.RequireFromString("0.8")
	weekSurgeThreshold = decimal.NewFromInt(5000)
	highAvgThreshold   = decimal.NewFromInt(3000)
	lowSavingsRate     = decimal.NewFromInt(10)
	highSavingsRate    = decimal.NewFromInt(30)
)

// recommendationService derives advisory messages from a user's
// transactions and budgets.
type recommendationService struct {
	db *gorm.DB
}

// NewRecommendationService creates a new RecommendationServicer.
func NewRecommendationService(db *gorm.DB) RecommendationServicer {
	return &recommendationService{db: db}
}

// Generate evaluates every advisory rule over the [from, to] window,
// collecting each message that fires, then replaces the user's stored
// recommendation set with the result in one atomic transaction.
// Running it twice in a row therefore leaves exactly one current set.
func (s *recommendationService) Generate(userID uint, from, to time.Time) ([]models.Recommendation, error) {
	var transactions []models.Transaction
	if err := s.db.Preload("Category").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Budgets whose month falls inside the analysis window.
	var budgets []models.Budget
	if err := s.db.Preload("Category").
		Where("user_id = ? AND month >= ? AND month < ?", userID, monthStart(from), to).
		Order("month, id").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	messages, err := s.evaluate(userID, transactions, budgets, to)
	if err != nil {
		return nil, err
	}

	records := make([]models.Recommendation, 0, len(messages))
	for _, text := range messages {
		records = append(records, models.Recommendation{UserID: userID, Text: text})
	}

	// Full replace: a concurrent reader never observes a half-written set,
	// and a persistence failure leaves the previous set intact.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Recommendation{}).Error; err != nil {
			return err
		}
		return tx.Create(&records).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return records, nil
}

// evaluate applies the advisory rules in order and returns every message
// that fired, or the single fallback message when none did.
func (s *recommendationService) evaluate(userID uint, transactions []models.Transaction, budgets []models.Budget, to time.Time) ([]string, error) {
	var messages []string

	// Rule 1: per-budget overrun and near-limit warnings, evaluated over
	// each budget's own month.
	for i := range budgets {
		b := &budgets[i]
		spent, err := sumExpensesInRange(s.db, userID, &b.CategoryID, b.PeriodStart(), b.PeriodEnd())
		if err != nil {
			return nil, err
		}

		switch {
		case spent.GreaterThan(b.Amount):
			messages = append(messages, fmt.Sprintf(
				"You exceeded the %q budget by %s.",
				b.Category.Name, money.Format(spent.Sub(b.Amount))))
		case spent.GreaterThan(b.Amount.Mul(nearLimitRatio)):
			messages = append(messages, fmt.Sprintf(
				"The %q budget is almost at its limit. %s remaining.",
				b.Category.Name, money.Format(b.Amount.Sub(spent))))
		}
	}

	agg := aggregateWindow(transactions, to)

	// Rule 2: single largest expense category.
	if top, ok := agg.topCategory(); ok {
		messages = append(messages, fmt.Sprintf(
			"Most of your spending is in %q. Consider reviewing expenses in this category.", top))
	}

	// Rule 3: recent-week surge, absolute or relative to the whole window.
	if agg.weekExpense.GreaterThan(weekSurgeThreshold) ||
		(agg.totalExpense.IsPositive() && agg.weekExpense.GreaterThan(agg.totalExpense.Div(decimal.NewFromInt(2)))) {
		messages = append(messages,
			"Spending over the last 7 days is above normal. Check for non-essential purchases.")
	}

	// Rule 4: expenses exceed income.
	if agg.totalExpense.GreaterThan(agg.totalIncome) {
		messages = append(messages, fmt.Sprintf(
			"Expenses exceed income by %s for this period. Watch your spending.",
			money.Format(agg.totalExpense.Sub(agg.totalIncome))))
	}

	// Rule 5: high average expense.
	if agg.expenseCount > 0 {
		avg := agg.totalExpense.Div(decimal.NewFromInt(int64(agg.expenseCount)))
		if avg.GreaterThan(highAvgThreshold) {
			messages = append(messages, fmt.Sprintf(
				"Your average expense is %s, which is on the high side.", money.Format(avg.Round(2))))
		}
	}

	// Rule 6: every expense in a single category.
	if agg.expenseCount > 0 && len(agg.byCategory) == 1 {
		messages = append(messages,
			"All of your expenses fall into a single category. Consider diversifying your budget tracking.")
	}

	// Rule 7: savings rate.
	if agg.totalIncome.IsPositive() {
		rate := money.Percent(agg.totalIncome.Sub(agg.totalExpense), agg.totalIncome)
		switch {
		case rate.LessThan(lowSavingsRate):
			messages = append(messages, fmt.Sprintf(
				"Your savings rate is %s%%, %s points below the 10%% target.",
				rate.Round(1), lowSavingsRate.Sub(rate).Round(1)))
		case rate.GreaterThan(highSavingsRate):
			messages = append(messages, fmt.Sprintf(
				"Great job! You are saving %s%% of your income.", rate.Round(1)))
		}
	}

	// Rule 8: fallback when nothing else fired.
	if len(messages) == 0 {
		messages = append(messages, "Your finances look stable. Keep it up!")
	}

	return messages, nil
}

// windowAggregates holds in-memory sums over the analysis window.
type windowAggregates struct {
	totalIncome  decimal.Decimal
	totalExpense decimal.Decimal
	weekExpense  decimal.Decimal
	expenseCount int
	byCategory   map[string]decimal.Decimal
}

func aggregateWindow(transactions []models.Transaction, to time.Time) windowAggregates {
	agg := windowAggregates{
		totalIncome:  decimal.Zero,
		totalExpense: decimal.Zero,
		weekExpense:  decimal.Zero,
		byCategory:   make(map[string]decimal.Decimal),
	}
	weekStart := to.AddDate(0, 0, -7)

	for i := range transactions {
		t := &transactions[i]
		switch t.Type {
		case models.TransactionTypeIncome:
			agg.totalIncome = agg.totalIncome.Add(t.Amount)
		case models.TransactionTypeExpense:
			agg.totalExpense = agg.totalExpense.Add(t.Amount)
			agg.expenseCount++

			name := uncategorizedLabel
			if t.Category != nil {
				name = t.Category.Name
			}
			agg.byCategory[name] = agg.byCategory[name].Add(t.Amount)

			if !t.Date.Before(weekStart) {
				agg.weekExpense = agg.weekExpense.Add(t.Amount)
			}
		}
	}
	return agg
}

// topCategory returns the expense category with the largest summed amount.
// Ties break toward the lexicographically smaller name so repeated runs
// over the same data produce the same message.
func (a *windowAggregates) topCategory() (string, bool) {
	if len(a.byCategory) == 0 {
		return "", false
	}

	names := make([]string, 0, len(a.byCategory))
	for name := range a.byCategory {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		cmp := a.byCategory[names[i]].Cmp(a.byCategory[names[j]])
		if cmp != 0 {
			return cmp > 0
		}
		return names[i] < names[j]
	})
	return names[0], true
}

// ListHistory returns the user's stored recommendations, newest first.
func (s *recommendationService) ListHistory(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Recommendation], error) {
	page.Defaults()

	base := s.db.Model(&models.Recommendation{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var recs []models.Recommendation
	if err := base.Order("created_at DESC, id DESC").
		Scopes(pagination.Paginate(page)).
		Find(&recs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(recs, page.Page, page.PageSize, totalItems)
	return &result, nil
}
