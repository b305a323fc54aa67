package services

import (
	"strings"
	"testing"
	"time"

	"github.com/k1llushka/vtb-finance-tracker1/internal/models"
	"github.com/k1llushka/vtb-finance-tracker1/internal/pagination"
	"github.com/k1llushka/vtb-finance-tracker1/internal/testutil"
)

// analysisWindow returns a fixed 30-day window so rule evaluation does not
// depend on the wall clock.
func analysisWindow() (time.Time, time.Time) {
	to := time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)
	return to.AddDate(0, 0, -30), to
}

func recommendationTexts(recs []models.Recommendation) []string {
	texts := make([]string, 0, len(recs))
	for _, r := range recs {
		texts = append(texts, r.Text)
	}
	return texts
}

func containsSubstring(texts []string, substr string) bool {
	for _, text := range texts {
		if strings.Contains(text, substr) {
			return true
		}
	}
	return false
}

func TestGenerateRecommendations(t *testing.T) {
	t.Run("fallback_when_no_activity", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db)
		user := testutil.CreateTestUser(t, db)

		from, to := analysisWindow()
		recs, err := svc.Generate(user.ID, from, to)
		testutil.AssertNoError(t, err)

		if len(recs) != 1 {
			t.Fatalf("expected exactly one fallback recommendation, got %d", len(recs))
		}
		if !strings.Contains(recs[0].Text, "stable") {
			t.Errorf("expected fallback message, got %q", recs[0].Text)
		}
	})

	t.Run("budget_overrun", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategoryWithName(t, db, user.ID, models.CategoryTypeExpense, "Food")

		jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestBudget(t, db, user.ID, cat.ID, "1000.00", jan)
		testutil.CreateTestTransactionOn(t, db, user.ID, &cat.ID, models.TransactionTypeExpense, "1500.00",
			time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC))

		from, to := analysisWindow()
		recs, err := svc.Generate(user.ID, from, to)
		testutil.AssertNoError(t, err)

		texts := recommendationTexts(recs)
		if !containsSubstring(texts, `exceeded the "Food" budget by 500.00`) {
			t.Errorf("expected overrun message, got %v", texts)
		}
	})

	t.Run("budget_near_limit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategoryWithName(t, db, user.ID, models.CategoryTypeExpense, "Transport")

		jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestBudget(t, db, user.ID, cat.ID, "1000.00", jan)
		testutil.CreateTestTransactionOn(t, db, user.ID, &cat.ID, models.TransactionTypeExpense, "900.00",
			time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC))

		from, to := analysisWindow()
		recs, err := svc.Generate(user.ID, from, to)
		testutil.AssertNoError(t, err)

		texts := recommendationTexts(recs)
		if !containsSubstring(texts, `"Transport" budget is almost at its limit. 100.00 remaining`) {
			t.Errorf("expected near-limit message, got %v", texts)
		}
	})

	t.Run("exactly_eighty_percent_does_not_warn", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategoryWithName(t, db, user.ID, models.CategoryTypeExpense, "Utilities")

		jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestBudget(t, db, user.ID, cat.ID, "1000.00", jan)
		testutil.CreateTestTransactionOn(t, db, user.ID, &cat.ID, models.TransactionTypeExpense, "800.00",
			time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC))

		from, to := analysisWindow()
		recs, err := svc.Generate(user.ID, from, to)
		testutil.AssertNoError(t, err)

		texts := recommendationTexts(recs)
		if containsSubstring(texts, "almost at its limit") {
			t.Errorf("near-limit warning must require spending above 80%%, got %v", texts)
		}
	})

	t.Run("deficit_and_top_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db)
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateTestCategoryWithName(t, db, user.ID, models.CategoryTypeExpense, "Dining")
		transport := testutil.CreateTestCategoryWithName(t, db, user.ID, models.CategoryTypeExpense, "Taxi")

		testutil.CreateTestTransactionOn(t, db, user.ID, nil, models.TransactionTypeIncome, "1000.00",
			time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))
		testutil.CreateTestTransactionOn(t, db, user.ID, &food.ID, models.TransactionTypeExpense, "1500.00",
			time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC))
		testutil.CreateTestTransactionOn(t, db, user.ID, &transport.ID, models.TransactionTypeExpense, "500.00",
			time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC))

		from, to := analysisWindow()
		recs, err := svc.Generate(user.ID, from, to)
		testutil.AssertNoError(t, err)

		texts := recommendationTexts(recs)
		if !containsSubstring(texts, "Expenses exceed income by 1000.00") {
			t.Errorf("expected deficit message, got %v", texts)
		}
		if !containsSubstring(texts, `spending is in "Dining"`) {
			t.Errorf("expected top-category message, got %v", texts)
		}
	})

	t.Run("savings_rate_praise", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategoryWithName(t, db, user.ID, models.CategoryTypeExpense, "Coffee")

		testutil.CreateTestTransactionOn(t, db, user.ID, nil, models.TransactionTypeIncome, "10000.00",
			time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC))
		testutil.CreateTestTransactionOn(t, db, user.ID, &cat.ID, models.TransactionTypeExpense, "1000.00",
			time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC))

		from, to := analysisWindow()
		recs, err := svc.Generate(user.ID, from, to)
		testutil.AssertNoError(t, err)

		texts := recommendationTexts(recs)
		if !containsSubstring(texts, "saving 90% of your income") {
			t.Errorf("expected savings praise, got %v", texts)
		}
	})

	t.Run("single_category_concentration", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategoryWithName(t, db, user.ID, models.CategoryTypeExpense, "Rent")

		testutil.CreateTestTransactionOn(t, db, user.ID, &cat.ID, models.TransactionTypeExpense, "100.00",
			time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC))
		testutil.CreateTestTransactionOn(t, db, user.ID, &cat.ID, models.TransactionTypeExpense, "200.00",
			time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC))

		from, to := analysisWindow()
		recs, err := svc.Generate(user.ID, from, to)
		testutil.AssertNoError(t, err)

		texts := recommendationTexts(recs)
		if !containsSubstring(texts, "single category") {
			t.Errorf("expected concentration message, got %v", texts)
		}
	})

	t.Run("week_surge_absolute", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategoryWithName(t, db, user.ID, models.CategoryTypeExpense, "Electronics Surge")

		testutil.CreateTestTransactionOn(t, db, user.ID, &cat.ID, models.TransactionTypeExpense, "6000.00",
			time.Date(2025, 1, 28, 0, 0, 0, 0, time.UTC))

		from, to := analysisWindow()
		recs, err := svc.Generate(user.ID, from, to)
		testutil.AssertNoError(t, err)

		if !containsSubstring(recommendationTexts(recs), "last 7 days is above normal") {
			t.Errorf("expected surge message, got %v", recommendationTexts(recs))
		}
	})

	t.Run("week_surge_relative_to_window", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategoryWithName(t, db, user.ID, models.CategoryTypeExpense, "Clothes Surge")

		// Last week holds 1500 of a 2700 total: under the absolute
		// threshold but more than half the window's spending.
		testutil.CreateTestTransactionOn(t, db, user.ID, &cat.ID, models.TransactionTypeExpense, "1200.00",
			time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))
		testutil.CreateTestTransactionOn(t, db, user.ID, &cat.ID, models.TransactionTypeExpense, "1500.00",
			time.Date(2025, 1, 28, 0, 0, 0, 0, time.UTC))

		from, to := analysisWindow()
		recs, err := svc.Generate(user.ID, from, to)
		testutil.AssertNoError(t, err)

		if !containsSubstring(recommendationTexts(recs), "last 7 days is above normal") {
			t.Errorf("expected surge message, got %v", recommendationTexts(recs))
		}
	})

	t.Run("high_average_expense", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategoryWithName(t, db, user.ID, models.CategoryTypeExpense, "Furniture Avg")

		// Early in the window, so the surge rules stay quiet.
		testutil.CreateTestTransactionOn(t, db, user.ID, &cat.ID, models.TransactionTypeExpense, "4000.00",
			time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))

		from, to := analysisWindow()
		recs, err := svc.Generate(user.ID, from, to)
		testutil.AssertNoError(t, err)

		texts := recommendationTexts(recs)
		if !containsSubstring(texts, "average expense is 4000.00") {
			t.Errorf("expected high-average message, got %v", texts)
		}
		if containsSubstring(texts, "last 7 days is above normal") {
			t.Errorf("did not expect surge message for early-window spending, got %v", texts)
		}
	})

	t.Run("low_savings_rate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategoryWithName(t, db, user.ID, models.CategoryTypeExpense, "Rent Savings")

		testutil.CreateTestTransactionOn(t, db, user.ID, nil, models.TransactionTypeIncome, "1000.00",
			time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC))
		testutil.CreateTestTransactionOn(t, db, user.ID, &cat.ID, models.TransactionTypeExpense, "950.00",
			time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))

		from, to := analysisWindow()
		recs, err := svc.Generate(user.ID, from, to)
		testutil.AssertNoError(t, err)

		if !containsSubstring(recommendationTexts(recs), "savings rate is 5%") {
			t.Errorf("expected low-savings warning, got %v", recommendationTexts(recs))
		}
	})

	t.Run("regeneration_replaces_previous_set", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db)
		user := testutil.CreateTestUser(t, db)

		from, to := analysisWindow()
		first, err := svc.Generate(user.ID, from, to)
		testutil.AssertNoError(t, err)
		second, err := svc.Generate(user.ID, from, to)
		testutil.AssertNoError(t, err)

		if len(first) != len(second) {
			t.Errorf("expected identical runs, got %d then %d", len(first), len(second))
		}

		page := pagination.PageRequest{Page: 1, PageSize: 50}
		stored, err := svc.ListHistory(user.ID, page)
		testutil.AssertNoError(t, err)

		if stored.TotalItems != int64(len(second)) {
			t.Errorf("expected %d stored recommendations after regeneration, got %d",
				len(second), stored.TotalItems)
		}
	})

	t.Run("does_not_touch_other_users", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		from, to := analysisWindow()
		_, err := svc.Generate(user2.ID, from, to)
		testutil.AssertNoError(t, err)
		_, err = svc.Generate(user1.ID, from, to)
		testutil.AssertNoError(t, err)

		page := pagination.PageRequest{Page: 1, PageSize: 50}
		stored, err := svc.ListHistory(user2.ID, page)
		testutil.AssertNoError(t, err)

		if stored.TotalItems == 0 {
			t.Error("regenerating for one user must not delete another user's recommendations")
		}
	})
}
