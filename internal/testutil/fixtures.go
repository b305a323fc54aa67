package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/k1llushka/vtb-finance-tracker1/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a user-owned category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID uint, categoryType models.CategoryType) *models.Category {
	t.Helper()
	return CreateTestCategoryWithName(t, db, userID, categoryType, fmt.Sprintf("Test Category %d", nextID()))
}

// CreateTestCategoryWithName creates a user-owned category with the given name.
func CreateTestCategoryWithName(t *testing.T, db *gorm.DB, userID uint, categoryType models.CategoryType, name string) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID:   &userID,
		Name:     name,
		Type:     categoryType,
		Icon:     "bi-wallet2",
		Color:    "#0d6efd",
		IsActive: true,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestDefaultCategory creates a system category visible to every user.
func CreateTestDefaultCategory(t *testing.T, db *gorm.DB, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:      fmt.Sprintf("Default Category %d", nextID()),
		Type:      categoryType,
		Icon:      "bi-wallet2",
		Color:     "#0d6efd",
		IsDefault: true,
		IsActive:  true,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test default category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction of the given type and amount,
// dated now.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID uint, categoryID *uint, txType models.TransactionType, amount string) *models.Transaction {
	t.Helper()
	return CreateTestTransactionOn(t, db, userID, categoryID, txType, amount, time.Now())
}

// CreateTestTransactionOn creates a transaction on a specific date.
func CreateTestTransactionOn(t *testing.T, db *gorm.DB, userID uint, categoryID *uint, txType models.TransactionType, amount string, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:     userID,
		CategoryID: categoryID,
		Type:       txType,
		Amount:     decimal.RequireFromString(amount),
		Date:       date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates a budget of the given amount for the month
// containing the given date.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID, categoryID uint, amount string, month time.Time) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Amount:     decimal.RequireFromString(amount),
		Month:      time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC),
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestCard creates a debit card with a unique number and the given balance.
func CreateTestCard(t *testing.T, db *gorm.DB, userID uint, balance string) *models.Card {
	t.Helper()

	n := nextID()
	card := &models.Card{
		UserID:     userID,
		CardNumber: fmt.Sprintf("22%014d", n),
		CardHolder: fmt.Sprintf("Test Holder %d", n),
		CardType:   models.CardTypeDebit,
		CardSystem: models.CardSystemMir,
		Balance:    decimal.RequireFromString(balance),
		ExpiryDate: time.Now().AddDate(3, 0, 0),
		IsActive:   true,
	}
	if err := db.Create(card).Error; err != nil {
		t.Fatalf("failed to create test card: %v", err)
	}
	return card
}
