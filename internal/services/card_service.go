package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/k1llushka/vtb-finance-tracker1/internal/errors"
	"github.com/k1llushka/vtb-finance-tracker1/internal/models"
	"github.com/k1llushka/vtb-finance-tracker1/internal/pagination"
)

// cardService handles card-related business logic.
type cardService struct {
	db *gorm.DB
}

// NewCardService creates a new CardServicer.
func NewCardService(db *gorm.DB) CardServicer {
	return &cardService{db: db}
}

// CreateCard registers a new card for the user. Card numbers are normalized
// before storage and must be unique across the whole system.
func (s *cardService) CreateCard(userID uint, input CardInput) (*models.Card, error) {
	number := models.NormalizeCardNumber(input.CardNumber)
	if len(number) < 13 || len(number) > 19 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "card number must contain 13 to 19 digits")
	}
	if input.Balance.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "balance cannot be negative")
	}

	card := &models.Card{
		UserID:      userID,
		CardNumber:  number,
		CardHolder:  input.CardHolder,
		CardType:    input.CardType,
		CardSystem:  input.CardSystem,
		BankName:    input.BankName,
		Balance:     input.Balance,
		ExpiryDate:  input.ExpiryDate,
		Color:       input.Color,
		Description: input.Description,
		IsActive:    true,
	}

	if err := s.db.Create(card).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateCard
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return card, nil
}

// GetUserCards returns a paginated list of the user's cards.
func (s *cardService) GetUserCards(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Card], error) {
	page.Defaults()

	base := s.db.Model(&models.Card{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var cards []models.Card
	if err := base.Order("created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&cards).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(cards, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCardByID returns a card by ID if it belongs to the user.
func (s *cardService) GetCardByID(userID, cardID uint) (*models.Card, error) {
	var card models.Card
	if err := s.db.Where("id = ? AND user_id = ?", cardID, userID).First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCardNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &card, nil
}

// UpdateCard updates mutable card fields. The number, type, system, and
// expiry are immutable once created.
func (s *cardService) UpdateCard(userID, cardID uint, update CardUpdate) (*models.Card, error) {
	card, err := s.GetCardByID(userID, cardID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.CardHolder != "" {
		updates["card_holder"] = update.CardHolder
	}
	if update.BankName != "" {
		updates["bank_name"] = update.BankName
	}
	if update.Balance != nil {
		if update.Balance.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "balance cannot be negative")
		}
		updates["balance"] = *update.Balance
	}
	if update.Color != "" {
		updates["color"] = update.Color
	}
	if update.Description != "" {
		updates["description"] = update.Description
	}
	if update.IsActive != nil {
		updates["is_active"] = *update.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(card).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return card, nil
}

// DeleteCard removes a card owned by the user. The row is hard-deleted so
// the card number can be registered again.
func (s *cardService) DeleteCard(userID, cardID uint) error {
	card, err := s.GetCardByID(userID, cardID)
	if err != nil {
		return err
	}

	if err := s.db.Unscoped().Delete(card).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
