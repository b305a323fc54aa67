package services

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/k1llushka/vtb-finance-tracker1/internal/models"
	"github.com/k1llushka/vtb-finance-tracker1/internal/pagination"
	"github.com/k1llushka/vtb-finance-tracker1/internal/testutil"
)

func validCardInput(number string) CardInput {
	return CardInput{
		CardNumber: number,
		CardHolder: "IVAN PETROV",
		CardType:   models.CardTypeDebit,
		CardSystem: models.CardSystemMir,
		BankName:   "VTB",
		Balance:    decimal.RequireFromString("1500.00"),
		ExpiryDate: time.Now().AddDate(4, 0, 0),
	}
}

func TestCreateCard(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCardService(db)
		user := testutil.CreateTestUser(t, db)

		card, err := svc.CreateCard(user.ID, validCardInput("2200 1234 5678 9010"))
		testutil.AssertNoError(t, err)

		if card.ID == 0 {
			t.Fatal("expected non-zero card ID")
		}
		// Stored normalized, without spaces.
		if card.CardNumber != "2200123456789010" {
			t.Errorf("expected normalized card number, got %s", card.CardNumber)
		}
		if card.MaskedNumber != "**** **** **** 9010" {
			t.Errorf("expected masked number, got %s", card.MaskedNumber)
		}
	})

	t.Run("invalid_length", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCardService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCard(user.ID, validCardInput("1234"))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("negative_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCardService(db)
		user := testutil.CreateTestUser(t, db)

		input := validCardInput("2200123456789028")
		input.Balance = decimal.RequireFromString("-1")
		_, err := svc.CreateCard(user.ID, input)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("duplicate_number", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCardService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCard(user.ID, validCardInput("2200123456789036"))
		testutil.AssertNoError(t, err)

		// Different formatting of the same digits collides.
		_, err = svc.CreateCard(user.ID, validCardInput("2200-1234-5678-9036"))
		testutil.AssertAppError(t, err, "DUPLICATE_CARD")
	})
}

func TestGetUserCards(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCardService(db)
	user1 := testutil.CreateTestUser(t, db)
	user2 := testutil.CreateTestUser(t, db)

	testutil.CreateTestCard(t, db, user1.ID, "100.00")
	testutil.CreateTestCard(t, db, user1.ID, "200.00")
	testutil.CreateTestCard(t, db, user2.ID, "300.00")

	page := pagination.PageRequest{Page: 1, PageSize: 20}
	result, err := svc.GetUserCards(user1.ID, page)
	testutil.AssertNoError(t, err)

	if result.TotalItems != 2 {
		t.Fatalf("expected 2 cards, got %d", result.TotalItems)
	}
	for _, card := range result.Data {
		if !strings.HasPrefix(card.MaskedNumber, "**** ") {
			t.Errorf("expected masked number in listing, got %s", card.MaskedNumber)
		}
	}
}

func TestUpdateCard(t *testing.T) {
	t.Run("updates_balance_and_holder", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCardService(db)
		user := testutil.CreateTestUser(t, db)
		card := testutil.CreateTestCard(t, db, user.ID, "100.00")

		balance := decimal.RequireFromString("250.50")
		updated, err := svc.UpdateCard(user.ID, card.ID, CardUpdate{
			CardHolder: "PETR IVANOV",
			Balance:    &balance,
		})
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, "250.50", updated.Balance)
		if updated.CardHolder != "PETR IVANOV" {
			t.Errorf("expected updated holder, got %s", updated.CardHolder)
		}
	})

	t.Run("negative_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCardService(db)
		user := testutil.CreateTestUser(t, db)
		card := testutil.CreateTestCard(t, db, user.ID, "100.00")

		balance := decimal.RequireFromString("-0.01")
		_, err := svc.UpdateCard(user.ID, card.ID, CardUpdate{Balance: &balance})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("foreign_card", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCardService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		card := testutil.CreateTestCard(t, db, user2.ID, "100.00")

		_, err := svc.UpdateCard(user1.ID, card.ID, CardUpdate{CardHolder: "X"})
		testutil.AssertAppError(t, err, "CARD_NOT_FOUND")
	})
}

func TestDeleteCard(t *testing.T) {
	t.Run("deleted_card_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCardService(db)
		user := testutil.CreateTestUser(t, db)
		card := testutil.CreateTestCard(t, db, user.ID, "100.00")

		testutil.AssertNoError(t, svc.DeleteCard(user.ID, card.ID))

		_, err := svc.GetCardByID(user.ID, card.ID)
		testutil.AssertAppError(t, err, "CARD_NOT_FOUND")
	})

	t.Run("number_reusable_after_delete", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCardService(db)
		user := testutil.CreateTestUser(t, db)

		first, err := svc.CreateCard(user.ID, validCardInput("2200 5555 6666 7777"))
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, svc.DeleteCard(user.ID, first.ID))

		recreated, err := svc.CreateCard(user.ID, validCardInput("2200 5555 6666 7777"))
		testutil.AssertNoError(t, err)
		if recreated.CardNumber != "2200555566667777" {
			t.Errorf("expected re-registered card number, got %s", recreated.CardNumber)
		}
	})
}
