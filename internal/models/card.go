package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CardType represents the type of card
type CardType string

const (
	CardTypeDebit  CardType = "debit"
	CardTypeCredit CardType = "credit"
)

// CardSystem represents the payment system of a card
type CardSystem string

const (
	CardSystemMir        CardSystem = "mir"
	CardSystemVisa       CardSystem = "visa"
	CardSystemMastercard CardSystem = "mastercard"
)

// Card represents a bank card record. The full card number is never
// serialized; responses carry only the masked form.
type Card struct {
	Base
	UserID       uint            `gorm:"not null;index" json:"user_id"`
	CardNumber   string          `gorm:"size:19;uniqueIndex;not null" json:"-"`
	CardHolder   string          `gorm:"size:100;not null" json:"card_holder"`
	CardType     CardType        `gorm:"not null" json:"card_type"`
	CardSystem   CardSystem      `gorm:"default:mir" json:"card_system"`
	BankName     string          `gorm:"size:100;default:VTB" json:"bank_name"`
	Balance      decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"balance"`
	ExpiryDate   time.Time       `gorm:"type:date;not null" json:"expiry_date"`
	Description  string          `json:"description"`
	Color        string          `gorm:"size:7;default:#0066CC" json:"color"`
	IsActive     bool            `gorm:"default:true" json:"is_active"`
	MaskedNumber string          `gorm:"-" json:"card_number_masked"`
}

// AfterFind populates the masked card number for responses.
func (c *Card) AfterFind(_ *gorm.DB) error {
	c.MaskedNumber = MaskCardNumber(c.CardNumber)
	return nil
}

// AfterCreate populates the masked card number on freshly created records.
func (c *Card) AfterCreate(_ *gorm.DB) error {
	c.MaskedNumber = MaskCardNumber(c.CardNumber)
	return nil
}

// MaskCardNumber returns the card number with all but the last four digits
// hidden, e.g. "**** **** **** 1234".
func MaskCardNumber(number string) string {
	digits := digitsOnly(number)
	if len(digits) < 4 {
		return digits
	}
	return "**** **** **** " + digits[len(digits)-4:]
}

// NormalizeCardNumber strips spaces and dashes so equal card numbers compare
// equal regardless of input formatting.
func NormalizeCardNumber(number string) string {
	return digitsOnly(number)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
