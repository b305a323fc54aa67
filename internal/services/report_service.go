package services

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/k1llushka/vtb-finance-tracker1/internal/errors"
	"github.com/k1llushka/vtb-finance-tracker1/internal/models"
)

// Series interval names.
const (
	IntervalDaily   = "daily"
	IntervalMonthly = "monthly"
)

// Windows longer than this many days use a monthly series instead of daily.
const maxDailySeriesDays = 92

// DefaultWindowDays is the reporting window used when the requested period
// cannot be parsed.
const DefaultWindowDays = 30

// ResolvePeriod translates a period query parameter into a concrete date
// range ending at now. Unknown or empty values fall back to the trailing
// 30-day window instead of failing the request.
func ResolvePeriod(period string, now time.Time) (time.Time, time.Time) {
	switch period {
	case "week":
		return now.AddDate(0, 0, -7), now
	case "month":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), now
	case "year":
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), now
	default:
		return now.AddDate(0, 0, -DefaultWindowDays), now
	}
}

// reportService produces aggregate views of a user's transactions.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

func (s *reportService) loadWindow(userID uint, from, to time.Time) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.Preload("Category").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// GetStatistics returns exact-decimal totals over the window. Every value
// degrades to zero on an empty window.
func (s *reportService) GetStatistics(userID uint, from, to time.Time) (*Statistics, error) {
	transactions, err := s.loadWindow(userID, from, to)
	if err != nil {
		return nil, err
	}

	stats := &Statistics{
		TotalIncome:    decimal.Zero,
		TotalExpense:   decimal.Zero,
		AvgTransaction: decimal.Zero,
	}
	total := decimal.Zero
	categories := make(map[uint]struct{})

	for i := range transactions {
		t := &transactions[i]
		switch t.Type {
		case models.TransactionTypeIncome:
			stats.TotalIncome = stats.TotalIncome.Add(t.Amount)
		case models.TransactionTypeExpense:
			stats.TotalExpense = stats.TotalExpense.Add(t.Amount)
		}
		total = total.Add(t.Amount)
		if t.CategoryID != nil {
			categories[*t.CategoryID] = struct{}{}
		}
	}

	stats.Balance = stats.TotalIncome.Sub(stats.TotalExpense)
	stats.TransactionCount = len(transactions)
	stats.CategoryCount = len(categories)
	if len(transactions) > 0 {
		stats.AvgTransaction = total.Div(decimal.NewFromInt(int64(len(transactions)))).Round(2)
	}

	return stats, nil
}

// GetCategoryBreakdown returns expense totals grouped by category with the
// display metadata the charts need, sorted descending by total.
func (s *reportService) GetCategoryBreakdown(userID uint, from, to time.Time) ([]CategoryTotal, error) {
	transactions, err := s.loadWindow(userID, from, to)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]*CategoryTotal)
	for i := range transactions {
		t := &transactions[i]
		if t.Type != models.TransactionTypeExpense {
			continue
		}

		row, ok := totals[categoryKey(t)]
		if !ok {
			row = &CategoryTotal{
				CategoryID: t.CategoryID,
				Name:       uncategorizedLabel,
				Icon:       "bi-question-circle",
				Color:      "#6c757d",
				Total:      decimal.Zero,
			}
			if t.Category != nil {
				row.Name = t.Category.Name
				row.Icon = t.Category.Icon
				row.Color = t.Category.Color
			}
			totals[categoryKey(t)] = row
		}
		row.Total = row.Total.Add(t.Amount)
	}

	breakdown := make([]CategoryTotal, 0, len(totals))
	for _, row := range totals {
		breakdown = append(breakdown, *row)
	}
	sort.Slice(breakdown, func(i, j int) bool {
		cmp := breakdown[i].Total.Cmp(breakdown[j].Total)
		if cmp != 0 {
			return cmp > 0
		}
		return breakdown[i].Name < breakdown[j].Name
	})

	return breakdown, nil
}

func categoryKey(t *models.Transaction) string {
	if t.Category != nil {
		return t.Category.Name
	}
	return uncategorizedLabel
}

// GetTimeSeries returns a gap-free income/expense/balance series over the
// window. Buckets with no transactions are explicitly zero-filled so the
// consuming chart always receives a fixed-length series. The balance is
// cumulative from the start of the window.
func (s *reportService) GetTimeSeries(userID uint, from, to time.Time) (*TimeSeries, error) {
	transactions, err := s.loadWindow(userID, from, to)
	if err != nil {
		return nil, err
	}

	interval := IntervalDaily
	if to.Sub(from) > maxDailySeriesDays*24*time.Hour {
		interval = IntervalMonthly
	}

	labels, index := seriesBuckets(from, to, interval)

	points := make([]SeriesPoint, len(labels))
	for i, label := range labels {
		points[i] = SeriesPoint{
			Label:   label,
			Income:  decimal.Zero,
			Expense: decimal.Zero,
			Balance: decimal.Zero,
		}
	}

	for i := range transactions {
		t := &transactions[i]
		pos, ok := index[bucketLabel(t.Date, interval)]
		if !ok {
			continue
		}
		switch t.Type {
		case models.TransactionTypeIncome:
			points[pos].Income = points[pos].Income.Add(t.Amount)
		case models.TransactionTypeExpense:
			points[pos].Expense = points[pos].Expense.Add(t.Amount)
		}
	}

	running := decimal.Zero
	for i := range points {
		running = running.Add(points[i].Income).Sub(points[i].Expense)
		points[i].Balance = running
	}

	return &TimeSeries{Interval: interval, Points: points}, nil
}

func bucketLabel(t time.Time, interval string) string {
	if interval == IntervalMonthly {
		return t.Format("2006-01")
	}
	return t.Format("2006-01-02")
}

// seriesBuckets enumerates every bucket label between from and to inclusive
// and returns a label-to-position index for filling.
func seriesBuckets(from, to time.Time, interval string) ([]string, map[string]int) {
	var labels []string
	index := make(map[string]int)

	cursor := from
	if interval == IntervalMonthly {
		cursor = time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, from.Location())
	} else {
		cursor = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	}

	for !cursor.After(to) {
		label := bucketLabel(cursor, interval)
		index[label] = len(labels)
		labels = append(labels, label)
		if interval == IntervalMonthly {
			cursor = cursor.AddDate(0, 1, 0)
		} else {
			cursor = cursor.AddDate(0, 0, 1)
		}
	}

	return labels, index
}
