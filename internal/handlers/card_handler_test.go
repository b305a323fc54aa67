package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "github.com/k1llushka/vtb-finance-tracker1/internal/errors"
	"github.com/k1llushka/vtb-finance-tracker1/internal/models"
	"github.com/k1llushka/vtb-finance-tracker1/internal/pagination"
	"github.com/k1llushka/vtb-finance-tracker1/internal/services"
)

type mockCardService struct {
	createCardFn   func(userID uint, input services.CardInput) (*models.Card, error)
	getUserCardsFn func(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Card], error)
	getCardByIDFn  func(userID, cardID uint) (*models.Card, error)
	updateCardFn   func(userID, cardID uint, update services.CardUpdate) (*models.Card, error)
	deleteCardFn   func(userID, cardID uint) error
}

func (m *mockCardService) CreateCard(userID uint, input services.CardInput) (*models.Card, error) {
	if m.createCardFn != nil {
		return m.createCardFn(userID, input)
	}
	return &models.Card{}, nil
}

func (m *mockCardService) GetUserCards(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Card], error) {
	if m.getUserCardsFn != nil {
		return m.getUserCardsFn(userID, page)
	}
	resp := pagination.NewPageResponse([]models.Card{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockCardService) GetCardByID(userID, cardID uint) (*models.Card, error) {
	if m.getCardByIDFn != nil {
		return m.getCardByIDFn(userID, cardID)
	}
	return &models.Card{}, nil
}

func (m *mockCardService) UpdateCard(userID, cardID uint, update services.CardUpdate) (*models.Card, error) {
	if m.updateCardFn != nil {
		return m.updateCardFn(userID, cardID, update)
	}
	return &models.Card{}, nil
}

func (m *mockCardService) DeleteCard(userID, cardID uint) error {
	if m.deleteCardFn != nil {
		return m.deleteCardFn(userID, cardID)
	}
	return nil
}

func setupCardRouter(handler *CardHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/cards", handler.CreateCard)
	auth.GET("/cards", handler.GetCards)
	auth.GET("/cards/:id", handler.GetCard)
	auth.PUT("/cards/:id", handler.UpdateCard)
	auth.DELETE("/cards/:id", handler.DeleteCard)
	return r
}

func TestCardHandler_CreateCard(t *testing.T) {
	t.Run("returns 201 with masked number only", func(t *testing.T) {
		svc := &mockCardService{
			createCardFn: func(userID uint, input services.CardInput) (*models.Card, error) {
				number := models.NormalizeCardNumber(input.CardNumber)
				return &models.Card{
					Base:         models.Base{ID: 4},
					UserID:       userID,
					CardNumber:   number,
					CardHolder:   input.CardHolder,
					CardType:     input.CardType,
					MaskedNumber: models.MaskCardNumber(number),
				}, nil
			},
		}
		r := setupCardRouter(NewCardHandler(svc))

		rec := doRequest(r, "POST", "/cards",
			`{"card_number":"2200 1234 5678 9010","card_holder":"IVAN PETROV","card_type":"debit","card_system":"mir","expiry_date":"2028-12-01T00:00:00Z"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		body := rec.Body.String()
		if strings.Contains(body, "2200123456789010") {
			t.Error("full card number must never appear in a response")
		}
		result := parseJSON(t, rec)
		card := result["card"].(map[string]interface{})
		if card["card_number_masked"] != "**** **** **** 9010" {
			t.Errorf("expected masked number, got %v", card["card_number_masked"])
		}
	})

	t.Run("returns 400 on malformed number", func(t *testing.T) {
		r := setupCardRouter(NewCardHandler(&mockCardService{}))

		rec := doRequest(r, "POST", "/cards",
			`{"card_number":"12ab","card_holder":"X","card_type":"debit","expiry_date":"2028-12-01T00:00:00Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on bad card type", func(t *testing.T) {
		r := setupCardRouter(NewCardHandler(&mockCardService{}))

		rec := doRequest(r, "POST", "/cards",
			`{"card_number":"2200123456789010","card_holder":"X","card_type":"prepaid","expiry_date":"2028-12-01T00:00:00Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 409 on duplicate number", func(t *testing.T) {
		svc := &mockCardService{
			createCardFn: func(uint, services.CardInput) (*models.Card, error) {
				return nil, apperrors.ErrDuplicateCard
			},
		}
		r := setupCardRouter(NewCardHandler(svc))

		rec := doRequest(r, "POST", "/cards",
			`{"card_number":"2200123456789010","card_holder":"X","card_type":"debit","expiry_date":"2028-12-01T00:00:00Z"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})
}

func TestCardHandler_UpdateCard(t *testing.T) {
	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockCardService{
			updateCardFn: func(uint, uint, services.CardUpdate) (*models.Card, error) {
				return nil, apperrors.ErrCardNotFound
			},
		}
		r := setupCardRouter(NewCardHandler(svc))

		rec := doRequest(r, "PUT", "/cards/404", `{"bank_name":"Alfa"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestCardHandler_DeleteCard(t *testing.T) {
	r := setupCardRouter(NewCardHandler(&mockCardService{}))

	rec := doRequest(r, "DELETE", "/cards/4", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
