package services

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/k1llushka/vtb-finance-tracker1/internal/models"
	"github.com/k1llushka/vtb-finance-tracker1/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID uint, name string, categoryType models.CategoryType, description, icon, color string) (*models.Category, error)
	GetUserCategories(userID uint, categoryType *models.CategoryType, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID uint) (*models.Category, error)
	UpdateCategory(userID, categoryID uint, name, description, icon, color string, isActive *bool) (*models.Category, error)
	DeleteCategory(userID, categoryID uint) error
	SeedDefaults() error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	CategoryID *uint
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID uint, categoryID *uint, transactionType models.TransactionType, amount decimal.Decimal, description string, date time.Time) (*models.Transaction, error)
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID uint, categoryID *uint, amount *decimal.Decimal, description *string, date *time.Time) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
}

// BudgetProgress contains spending vs budget data for a budget's month.
type BudgetProgress struct {
	BudgetID   uint            `json:"budget_id"`
	CategoryID uint            `json:"category_id"`
	Budgeted   decimal.Decimal `json:"budgeted"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage float64         `json:"percentage"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID, categoryID uint, amount decimal.Decimal, month time.Time) (*models.Budget, error)
	GetUserBudgets(userID uint, page pagination.PageRequest, month *time.Time) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID uint) (*models.Budget, error)
	UpdateBudget(userID, budgetID uint, amount *decimal.Decimal) (*models.Budget, error)
	DeleteBudget(userID, budgetID uint) error
	GetBudgetProgress(userID, budgetID uint) (*BudgetProgress, error)
}

// CardServicer defines the contract for card-related business logic.
type CardServicer interface {
	CreateCard(userID uint, input CardInput) (*models.Card, error)
	GetUserCards(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Card], error)
	GetCardByID(userID, cardID uint) (*models.Card, error)
	UpdateCard(userID, cardID uint, update CardUpdate) (*models.Card, error)
	DeleteCard(userID, cardID uint) error
}

// CardInput holds the fields required to create a card.
type CardInput struct {
	CardNumber  string
	CardHolder  string
	CardType    models.CardType
	CardSystem  models.CardSystem
	BankName    string
	Balance     decimal.Decimal
	ExpiryDate  time.Time
	Color       string
	Description string
}

// CardUpdate holds optional fields for updating a card.
type CardUpdate struct {
	CardHolder  string
	BankName    string
	Balance     *decimal.Decimal
	Color       string
	Description string
	IsActive    *bool
}

// RecommendationServicer defines the contract for the advisory engine.
type RecommendationServicer interface {
	Generate(userID uint, from, to time.Time) ([]models.Recommendation, error)
	ListHistory(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Recommendation], error)
}

// Statistics contains aggregate totals for a user over a period.
type Statistics struct {
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpense     decimal.Decimal `json:"total_expense"`
	Balance          decimal.Decimal `json:"balance"`
	TransactionCount int             `json:"transactions_count"`
	CategoryCount    int             `json:"categories_count"`
	AvgTransaction   decimal.Decimal `json:"avg_transaction"`
}

// CategoryTotal is one row of the per-category expense breakdown.
type CategoryTotal struct {
	CategoryID *uint           `json:"category_id,omitempty"`
	Name       string          `json:"name"`
	Icon       string          `json:"icon"`
	Color      string          `json:"color"`
	Total      decimal.Decimal `json:"total"`
}

// SeriesPoint is a single bucket of the income/expense time series.
// Balance is the running balance accumulated from the start of the window.
type SeriesPoint struct {
	Label   string          `json:"label"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// TimeSeries is a gap-free chart series: every bucket in the window is
// present, zero-filled when no transactions fall into it.
type TimeSeries struct {
	Interval string        `json:"interval"`
	Points   []SeriesPoint `json:"points"`
}

// ReportServicer defines the contract for reporting aggregation.
type ReportServicer interface {
	GetStatistics(userID uint, from, to time.Time) (*Statistics, error)
	GetCategoryBreakdown(userID uint, from, to time.Time) ([]CategoryTotal, error)
	GetTimeSeries(userID uint, from, to time.Time) (*TimeSeries, error)
}
