package services

import (
	"testing"
	"time"

	"github.com/k1llushka/vtb-finance-tracker1/internal/models"
	"github.com/k1llushka/vtb-finance-tracker1/internal/testutil"
)

func TestResolvePeriod(t *testing.T) {
	now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		period string
		from   time.Time
	}{
		{"week", now.AddDate(0, 0, -7)},
		{"month", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)},
		{"year", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"", now.AddDate(0, 0, -30)},
		{"bogus", now.AddDate(0, 0, -30)},
	}

	for _, tt := range tests {
		t.Run("period_"+tt.period, func(t *testing.T) {
			from, to := ResolvePeriod(tt.period, now)
			if !from.Equal(tt.from) {
				t.Errorf("expected from %v, got %v", tt.from, from)
			}
			if !to.Equal(now) {
				t.Errorf("expected to %v, got %v", now, to)
			}
		})
	}
}

func TestGetStatistics(t *testing.T) {
	t.Run("mixed_window", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		testutil.CreateTestTransactionOn(t, db, user.ID, nil, models.TransactionTypeIncome, "5000.00",
			time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC))
		testutil.CreateTestTransactionOn(t, db, user.ID, &cat.ID, models.TransactionTypeExpense, "1000.00",
			time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))
		testutil.CreateTestTransactionOn(t, db, user.ID, &cat.ID, models.TransactionTypeExpense, "500.00",
			time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC))
		// Outside the window.
		testutil.CreateTestTransactionOn(t, db, user.ID, &cat.ID, models.TransactionTypeExpense, "777.00",
			time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC))

		from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)
		stats, err := svc.GetStatistics(user.ID, from, to)
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, "5000.00", stats.TotalIncome)
		testutil.AssertDecimalEqual(t, "1500.00", stats.TotalExpense)
		testutil.AssertDecimalEqual(t, "3500.00", stats.Balance)
		testutil.AssertDecimalEqual(t, "2166.67", stats.AvgTransaction)
		if stats.TransactionCount != 3 {
			t.Errorf("expected 3 transactions, got %d", stats.TransactionCount)
		}
		if stats.CategoryCount != 1 {
			t.Errorf("expected 1 category, got %d", stats.CategoryCount)
		}
	})

	t.Run("empty_window", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)

		from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
		stats, err := svc.GetStatistics(user.ID, from, to)
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, "0", stats.TotalIncome)
		testutil.AssertDecimalEqual(t, "0", stats.TotalExpense)
		testutil.AssertDecimalEqual(t, "0", stats.Balance)
		testutil.AssertDecimalEqual(t, "0", stats.AvgTransaction)
		if stats.TransactionCount != 0 {
			t.Errorf("expected 0 transactions, got %d", stats.TransactionCount)
		}
	})
}

func TestGetCategoryBreakdown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewReportService(db)
	user := testutil.CreateTestUser(t, db)
	food := testutil.CreateTestCategoryWithName(t, db, user.ID, models.CategoryTypeExpense, "Groceries Breakdown")
	taxi := testutil.CreateTestCategoryWithName(t, db, user.ID, models.CategoryTypeExpense, "Taxi Breakdown")

	jan := func(day int, amount string, catID *uint) {
		testutil.CreateTestTransactionOn(t, db, user.ID, catID, models.TransactionTypeExpense, amount,
			time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC))
	}
	jan(3, "300.00", &food.ID)
	jan(8, "200.00", &food.ID)
	jan(12, "150.00", &taxi.ID)
	jan(14, "50.00", nil)
	// Income never appears in the breakdown.
	testutil.CreateTestTransactionOn(t, db, user.ID, nil, models.TransactionTypeIncome, "9000.00",
		time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC))

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)
	breakdown, err := svc.GetCategoryBreakdown(user.ID, from, to)
	testutil.AssertNoError(t, err)

	if len(breakdown) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(breakdown))
	}
	if breakdown[0].Name != "Groceries Breakdown" {
		t.Errorf("expected largest category first, got %s", breakdown[0].Name)
	}
	testutil.AssertDecimalEqual(t, "500.00", breakdown[0].Total)
	if breakdown[1].Name != "Taxi Breakdown" {
		t.Errorf("expected Taxi Breakdown second, got %s", breakdown[1].Name)
	}
	if breakdown[2].Name != "Uncategorized" {
		t.Errorf("expected Uncategorized last, got %s", breakdown[2].Name)
	}
	testutil.AssertDecimalEqual(t, "50.00", breakdown[2].Total)
}

func TestGetTimeSeries(t *testing.T) {
	t.Run("daily_zero_filled", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestTransactionOn(t, db, user.ID, nil, models.TransactionTypeIncome, "100.00",
			time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC))
		testutil.CreateTestTransactionOn(t, db, user.ID, nil, models.TransactionTypeExpense, "40.00",
			time.Date(2025, 1, 4, 15, 0, 0, 0, time.UTC))

		from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 1, 7, 23, 59, 59, 0, time.UTC)
		series, err := svc.GetTimeSeries(user.ID, from, to)
		testutil.AssertNoError(t, err)

		if series.Interval != IntervalDaily {
			t.Fatalf("expected daily interval, got %s", series.Interval)
		}
		if len(series.Points) != 7 {
			t.Fatalf("expected 7 points, got %d", len(series.Points))
		}
		if series.Points[0].Label != "2025-01-01" {
			t.Errorf("expected first label 2025-01-01, got %s", series.Points[0].Label)
		}

		testutil.AssertDecimalEqual(t, "100.00", series.Points[1].Income)
		testutil.AssertDecimalEqual(t, "40.00", series.Points[3].Expense)

		// Empty buckets are present and zero.
		testutil.AssertDecimalEqual(t, "0", series.Points[2].Income)
		testutil.AssertDecimalEqual(t, "0", series.Points[2].Expense)

		// Running balance carries across buckets.
		testutil.AssertDecimalEqual(t, "0", series.Points[0].Balance)
		testutil.AssertDecimalEqual(t, "100.00", series.Points[2].Balance)
		testutil.AssertDecimalEqual(t, "60.00", series.Points[6].Balance)
	})

	t.Run("long_window_uses_monthly", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestTransactionOn(t, db, user.ID, nil, models.TransactionTypeIncome, "500.00",
			time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))

		from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
		series, err := svc.GetTimeSeries(user.ID, from, to)
		testutil.AssertNoError(t, err)

		if series.Interval != IntervalMonthly {
			t.Fatalf("expected monthly interval, got %s", series.Interval)
		}
		if len(series.Points) != 6 {
			t.Fatalf("expected 6 points, got %d", len(series.Points))
		}
		if series.Points[2].Label != "2025-03" {
			t.Errorf("expected third label 2025-03, got %s", series.Points[2].Label)
		}
		testutil.AssertDecimalEqual(t, "500.00", series.Points[2].Income)
		testutil.AssertDecimalEqual(t, "500.00", series.Points[5].Balance)
	})
}
